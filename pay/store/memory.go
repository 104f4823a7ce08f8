// Package store provides Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/shift-pay/pay"
	"github.com/warp/shift-pay/schedule"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	sched    schedule.Schedule
	special  schedule.SpecialDates
	settings pay.Settings
	title    string
	saved    bool // settings written at least once
}

var _ pay.SnapshotStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

// Schedule and SpecialDates are immutable values, so they are stored as is.
// Settings carries a slice and is normalized (which copies it) both ways.

func (m *Memory) LoadSchedule(_ context.Context) (schedule.Schedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sched, nil
}

func (m *Memory) SaveSchedule(_ context.Context, s schedule.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sched = s
	return nil
}

func (m *Memory) LoadSpecialDates(_ context.Context) (schedule.SpecialDates, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.special, nil
}

func (m *Memory) SaveSpecialDates(_ context.Context, sd schedule.SpecialDates) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.special = sd
	return nil
}

func (m *Memory) LoadSettings(_ context.Context) (pay.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.saved {
		return pay.DefaultSettings(), nil
	}
	return m.settings.Normalize(), nil
}

func (m *Memory) SaveSettings(_ context.Context, s pay.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s.Normalize()
	m.saved = true
	return nil
}

func (m *Memory) LoadTitle(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.title, nil
}

func (m *Memory) SaveTitle(_ context.Context, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.title = title
	return nil
}

// LoadSnapshot reads everything under one lock.
func (m *Memory) LoadSnapshot(_ context.Context) (pay.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	settings := pay.DefaultSettings()
	if m.saved {
		settings = m.settings.Normalize()
	}
	return pay.Snapshot{
		Schedule:     m.sched,
		SpecialDates: m.special,
		Settings:     settings,
		Title:        m.title,
	}, nil
}

// SaveSnapshot replaces everything under one lock.
func (m *Memory) SaveSnapshot(_ context.Context, snap pay.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sched = snap.Schedule
	m.special = snap.SpecialDates
	m.settings = snap.Settings.Normalize()
	m.saved = true
	m.title = snap.Title
	return nil
}
