/*
scheduler.go - Periodic automatic backups

PURPOSE:
  Writes a current-version export document of the whole store to a
  directory at a fixed interval, and keeps only the newest few files.

DESIGN:
  - Runs a background goroutine driven by a ticker
  - Backs up once immediately on Start
  - Files are named shiftpay-YYYYMMDD-HHMMSS.json so that lexical order is
    chronological order, which is what pruning relies on
  - RunNow performs the same work synchronously for the API and tests

USAGE:
  s := backup.NewScheduler(store, dir)
  s.Start()
  // ... later
  s.Stop()

SEE ALSO:
  - backup.go: the document format
*/
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/warp/shift-pay/pay"
)

const (
	filePrefix = "shiftpay-"
	fileSuffix = ".json"
	fileLayout = "20060102-150405"
)

// Scheduler handles automatic backups.
type Scheduler struct {
	Store    pay.Store
	Dir      string
	Interval time.Duration
	Keep     int

	Logger zerolog.Logger
	Now    func() time.Time

	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	writeMu sync.Mutex
}

// NewScheduler creates a scheduler with a daily interval keeping seven files.
func NewScheduler(store pay.Store, dir string) *Scheduler {
	return &Scheduler{
		Store:    store,
		Dir:      dir,
		Interval: 24 * time.Hour,
		Keep:     7,
		Logger:   log.Logger,
		Now:      time.Now,
	}
}

// Start begins the scheduler. Calling Start twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		return
	}
	s.ticker = time.NewTicker(s.Interval)
	s.stop = make(chan struct{})
	s.wg.Add(1)

	go s.run(s.ticker, s.stop)

	s.Logger.Info().Str("dir", s.Dir).Dur("interval", s.Interval).Msg("backup scheduler started")
}

// Stop stops the scheduler and waits for a backup in progress.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.wg.Wait()
	s.ticker = nil
	s.Logger.Info().Msg("backup scheduler stopped")
}

func (s *Scheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer s.wg.Done()

	s.backupAndLog()
	for {
		select {
		case <-ticker.C:
			s.backupAndLog()
		case <-stop:
			return
		}
	}
}

func (s *Scheduler) backupAndLog() {
	path, err := s.RunNow(context.Background())
	if err != nil {
		s.Logger.Error().Err(err).Msg("automatic backup failed")
		return
	}
	s.Logger.Info().Str("file", path).Msg("backup written")
}

// RunNow writes one backup and prunes old ones. It returns the new file path.
func (s *Scheduler) RunNow(ctx context.Context) (string, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap, err := pay.LoadSnapshot(ctx, s.Store)
	if err != nil {
		return "", fmt.Errorf("load snapshot: %w", err)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	now := s.Now().UTC()
	path := filepath.Join(s.Dir, filePrefix+now.Format(fileLayout)+fileSuffix)

	// Write to a temp file first so a crash never leaves a torn backup
	tmp, err := os.CreateTemp(s.Dir, ".backup-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, Export(snap, now)); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encode backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename backup: %w", err)
	}

	if err := s.prune(); err != nil {
		s.Logger.Warn().Err(err).Msg("pruning old backups failed")
	}
	return path, nil
}

// Files lists backup files, oldest first.
func (s *Scheduler) Files() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		names = append(names, filepath.Join(s.Dir, name))
	}
	sort.Strings(names)
	return names, nil
}

func (s *Scheduler) prune() error {
	if s.Keep <= 0 {
		return nil
	}
	files, err := s.Files()
	if err != nil {
		return err
	}
	for len(files) > s.Keep {
		if err := os.Remove(files[0]); err != nil {
			return err
		}
		files = files[1:]
	}
	return nil
}
