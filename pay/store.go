/*
store.go - Persistence interface for schedules and settings

PURPOSE:
  The pay engine never performs I/O. A Store hands it fully materialized
  snapshots and takes new snapshots back. Each call is atomic from the
  engine's point of view; partial-write recovery is the Store's concern.

LOAD DEFAULTS:
  Loading from an empty store is not an error. Schedule and special dates
  come back empty and settings come back as DefaultSettings().

IMPLEMENTATIONS:
  - pay/store/memory.go: In-memory for tests and development
  - store/sqlite/sqlite.go: SQLite

ATOMIC SNAPSHOTS:
  Some edits touch more than one value (deleting a template also prunes the
  schedule; an import replaces everything). Stores that implement
  SnapshotStore read and write all parts in one transaction, so a reader
  never pairs a new schedule with old templates. LoadSnapshot and
  SaveSnapshot fall back to one call per part otherwise.
*/
package pay

import (
	"context"
	"fmt"

	"github.com/warp/shift-pay/schedule"
)

// Store persists the three values the engine computes over.
type Store interface {
	LoadSchedule(ctx context.Context) (schedule.Schedule, error)
	SaveSchedule(ctx context.Context, s schedule.Schedule) error

	LoadSpecialDates(ctx context.Context) (schedule.SpecialDates, error)
	SaveSpecialDates(ctx context.Context, sd schedule.SpecialDates) error

	LoadSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error

	// LoadTitle and SaveTitle hold the user's name for the schedule.
	LoadTitle(ctx context.Context) (string, error)
	SaveTitle(ctx context.Context, title string) error
}

// SnapshotStore reads and writes a whole Snapshot atomically.
type SnapshotStore interface {
	Store
	LoadSnapshot(ctx context.Context) (Snapshot, error)
	SaveSnapshot(ctx context.Context, snap Snapshot) error
}

// Snapshot is everything a calendar view needs.
type Snapshot struct {
	Schedule     schedule.Schedule
	SpecialDates schedule.SpecialDates
	Settings     Settings
	Title        string
}

// LoadSnapshot reads every part of the current state, in one transaction
// when st supports it.
func LoadSnapshot(ctx context.Context, st Store) (Snapshot, error) {
	if ss, ok := st.(SnapshotStore); ok {
		return ss.LoadSnapshot(ctx)
	}
	var snap Snapshot
	var err error
	if snap.Schedule, err = st.LoadSchedule(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("load schedule: %w", err)
	}
	if snap.SpecialDates, err = st.LoadSpecialDates(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("load special dates: %w", err)
	}
	if snap.Settings, err = st.LoadSettings(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("load settings: %w", err)
	}
	if snap.Title, err = st.LoadTitle(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("load title: %w", err)
	}
	return snap, nil
}

// SaveSnapshot writes every part, in one transaction when st supports it.
func SaveSnapshot(ctx context.Context, st Store, snap Snapshot) error {
	if ss, ok := st.(SnapshotStore); ok {
		return ss.SaveSnapshot(ctx, snap)
	}
	if err := st.SaveSettings(ctx, snap.Settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if err := st.SaveSchedule(ctx, snap.Schedule); err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}
	if err := st.SaveSpecialDates(ctx, snap.SpecialDates); err != nil {
		return fmt.Errorf("save special dates: %w", err)
	}
	if err := st.SaveTitle(ctx, snap.Title); err != nil {
		return fmt.Errorf("save title: %w", err)
	}
	return nil
}

// ApplyDefaultCurrency sets the currency of settings that were never edited.
// It reports whether anything was written.
func ApplyDefaultCurrency(ctx context.Context, st Store, currency string) (bool, error) {
	settings, err := st.LoadSettings(ctx)
	if err != nil {
		return false, fmt.Errorf("load settings: %w", err)
	}
	pristine := settings.BasicSalary == 0 && !settings.ManualRate &&
		len(settings.CustomShifts) == 0 && settings.Currency == DefaultCurrency
	next := settings.WithCurrency(currency)
	if !pristine || next.Currency == settings.Currency {
		return false, nil
	}
	if err := st.SaveSettings(ctx, next); err != nil {
		return false, fmt.Errorf("save settings: %w", err)
	}
	return true, nil
}
