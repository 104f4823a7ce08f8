/*
Package sqlite provides a SQLite-backed implementation of pay.Store.

PURPOSE:
  Persists the schedule, special dates, settings, shift templates and the
  schedule title so a calendar survives restarts. The engine only ever
  sees whole snapshots: every Save replaces the stored value inside one
  transaction, so a reader never observes half a schedule.

INTERFACES IMPLEMENTED:
  pay.Store:         Load/Save of each value
  pay.SnapshotStore: LoadSnapshot reads and SaveSnapshot writes every
                     table in one transaction

KEY TABLES:
  schedule_entries: (date, position) -> shift_id, one row per assignment
  special_dates:    one row per special date
  settings:         single row (id = 1) of rate settings
  custom_shifts:    shift templates, ordered by position
  meta:             key/value pairs (schedule title)

DECIMALS:
  Hours, rates and multipliers are stored as TEXT in decimal.Decimal's
  string form so no value is ever rounded through float64.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, plus WAL mode so readers do not
  block while a save is in progress.

USAGE:
  store, err := sqlite.New("./data/shiftpay.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  snap, err := pay.LoadSnapshot(ctx, store)

SEE ALSO:
  - pay/store.go: Interface definitions
  - pay/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/shift-pay/pay"
	"github.com/warp/shift-pay/schedule"
)

// Store implements pay.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ pay.SnapshotStore = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to ":memory:" is its own database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schedule_entries (
		date TEXT NOT NULL,
		position INTEGER NOT NULL,
		shift_id TEXT NOT NULL,
		PRIMARY KEY (date, position)
	);

	CREATE INDEX IF NOT EXISTS idx_schedule_entries_shift
		ON schedule_entries(shift_id);

	CREATE TABLE IF NOT EXISTS special_dates (
		date TEXT PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		basic_salary INTEGER NOT NULL,
		hourly_rate TEXT NOT NULL,
		formula TEXT NOT NULL,
		manual_rate INTEGER NOT NULL,
		overtime_multiplier TEXT NOT NULL,
		currency TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS custom_shifts (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		label TEXT NOT NULL,
		from_time TEXT NOT NULL,
		to_time TEXT NOT NULL,
		normal_hours TEXT NOT NULL,
		overtime_hours TEXT NOT NULL,
		normal_allowance_hours TEXT NOT NULL,
		overtime_allowance_hours TEXT NOT NULL,
		applicable_days_json TEXT NOT NULL,
		enabled INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// inTx runs fn in a transaction, rolling back on error.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(sqlTx); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// =============================================================================
// SCHEDULE
// =============================================================================

// LoadSchedule returns every assignment, keeping per-date order.
func (s *Store) LoadSchedule(ctx context.Context) (schedule.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return loadSchedule(ctx, s.db)
}

func loadSchedule(ctx context.Context, db querier) (schedule.Schedule, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT date, shift_id FROM schedule_entries ORDER BY date, position`)
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("failed to query schedule: %w", err)
	}
	defer rows.Close()

	entries := make(map[schedule.Date][]schedule.ShiftID)
	for rows.Next() {
		var dateStr, shiftID string
		if err := rows.Scan(&dateStr, &shiftID); err != nil {
			return schedule.Schedule{}, err
		}
		d, err := schedule.ParseDate(dateStr)
		if err != nil {
			return schedule.Schedule{}, err
		}
		entries[d] = append(entries[d], schedule.ShiftID(shiftID))
	}
	if err := rows.Err(); err != nil {
		return schedule.Schedule{}, err
	}
	return schedule.NewSchedule(entries), nil
}

// SaveSchedule replaces every stored assignment.
func (s *Store) SaveSchedule(ctx context.Context, sched schedule.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inTx(ctx, func(tx *sql.Tx) error { return saveSchedule(ctx, tx, sched) })
}

func saveSchedule(ctx context.Context, db execer, sched schedule.Schedule) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM schedule_entries`); err != nil {
		return fmt.Errorf("failed to clear schedule: %w", err)
	}
	for _, d := range sched.Dates() {
		for i, id := range sched.ShiftsOn(d) {
			_, err := db.ExecContext(ctx,
				`INSERT INTO schedule_entries (date, position, shift_id) VALUES (?, ?, ?)`,
				d.String(), i, string(id))
			if err != nil {
				return fmt.Errorf("failed to save schedule entry %s: %w", d, err)
			}
		}
	}
	return nil
}

// =============================================================================
// SPECIAL DATES
// =============================================================================

func (s *Store) LoadSpecialDates(ctx context.Context) (schedule.SpecialDates, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return loadSpecialDates(ctx, s.db)
}

func loadSpecialDates(ctx context.Context, db querier) (schedule.SpecialDates, error) {
	rows, err := db.QueryContext(ctx, `SELECT date FROM special_dates ORDER BY date`)
	if err != nil {
		return schedule.SpecialDates{}, fmt.Errorf("failed to query special dates: %w", err)
	}
	defer rows.Close()

	var dates []schedule.Date
	for rows.Next() {
		var dateStr string
		if err := rows.Scan(&dateStr); err != nil {
			return schedule.SpecialDates{}, err
		}
		d, err := schedule.ParseDate(dateStr)
		if err != nil {
			return schedule.SpecialDates{}, err
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return schedule.SpecialDates{}, err
	}
	return schedule.NewSpecialDates(dates...), nil
}

func (s *Store) SaveSpecialDates(ctx context.Context, sd schedule.SpecialDates) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inTx(ctx, func(tx *sql.Tx) error { return saveSpecialDates(ctx, tx, sd) })
}

func saveSpecialDates(ctx context.Context, db execer, sd schedule.SpecialDates) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM special_dates`); err != nil {
		return fmt.Errorf("failed to clear special dates: %w", err)
	}
	for _, d := range sd.Dates() {
		if _, err := db.ExecContext(ctx, `INSERT INTO special_dates (date) VALUES (?)`, d.String()); err != nil {
			return fmt.Errorf("failed to save special date %s: %w", d, err)
		}
	}
	return nil
}

// =============================================================================
// SETTINGS AND SHIFT TEMPLATES
// =============================================================================

// LoadSettings returns the stored settings, or defaults (with any stored
// templates) when none were saved yet.
func (s *Store) LoadSettings(ctx context.Context) (pay.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return loadSettings(ctx, s.db)
}

func loadSettings(ctx context.Context, db querier) (pay.Settings, error) {
	settings := pay.DefaultSettings()
	var (
		hourlyRate, multiplier string
		manual                 bool
	)
	err := db.QueryRowContext(ctx, `
		SELECT basic_salary, hourly_rate, formula, manual_rate, overtime_multiplier, currency
		FROM settings WHERE id = 1
	`).Scan(&settings.BasicSalary, &hourlyRate, &settings.Formula, &manual, &multiplier, &settings.Currency)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return pay.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	default:
		settings.ManualRate = manual
		if settings.HourlyRate, err = decimal.NewFromString(hourlyRate); err != nil {
			return pay.Settings{}, fmt.Errorf("corrupt hourly rate %q: %w", hourlyRate, err)
		}
		if settings.OvertimeMultiplier, err = decimal.NewFromString(multiplier); err != nil {
			return pay.Settings{}, fmt.Errorf("corrupt overtime multiplier %q: %w", multiplier, err)
		}
	}

	shifts, err := loadShifts(ctx, db)
	if err != nil {
		return pay.Settings{}, err
	}
	settings.CustomShifts = shifts
	return settings.Normalize(), nil
}

func loadShifts(ctx context.Context, db querier) ([]schedule.CustomShift, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, label, from_time, to_time, normal_hours, overtime_hours,
		       normal_allowance_hours, overtime_allowance_hours, applicable_days_json, enabled
		FROM custom_shifts ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	shifts := []schedule.CustomShift{}
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	return shifts, rows.Err()
}

func scanShift(rows *sql.Rows) (schedule.CustomShift, error) {
	var (
		shift                               schedule.CustomShift
		id, normal, overtime, nAllow, oAllow string
		daysJSON                            string
	)
	err := rows.Scan(&id, &shift.Label, &shift.FromTime, &shift.ToTime,
		&normal, &overtime, &nAllow, &oAllow, &daysJSON, &shift.Enabled)
	if err != nil {
		return shift, err
	}
	shift.ID = schedule.ShiftID(id)

	for _, f := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&shift.NormalHours, normal},
		{&shift.OvertimeHours, overtime},
		{&shift.NormalAllowanceHours, nAllow},
		{&shift.OvertimeAllowanceHours, oAllow},
	} {
		if *f.dst, err = decimal.NewFromString(f.src); err != nil {
			return shift, fmt.Errorf("corrupt hours %q on shift %s: %w", f.src, id, err)
		}
	}
	if err := json.Unmarshal([]byte(daysJSON), &shift.ApplicableDays); err != nil {
		return shift, fmt.Errorf("corrupt applicable days on shift %s: %w", id, err)
	}
	return shift, nil
}

// SaveSettings replaces the settings row and every template.
func (s *Store) SaveSettings(ctx context.Context, settings pay.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inTx(ctx, func(tx *sql.Tx) error { return saveSettings(ctx, tx, settings) })
}

func saveSettings(ctx context.Context, db execer, settings pay.Settings) error {
	settings = settings.Normalize()
	_, err := db.ExecContext(ctx, `
		INSERT INTO settings (id, basic_salary, hourly_rate, formula, manual_rate, overtime_multiplier, currency)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			basic_salary = excluded.basic_salary,
			hourly_rate = excluded.hourly_rate,
			formula = excluded.formula,
			manual_rate = excluded.manual_rate,
			overtime_multiplier = excluded.overtime_multiplier,
			currency = excluded.currency
	`,
		settings.BasicSalary,
		settings.HourlyRate.String(),
		settings.Formula,
		settings.ManualRate,
		settings.OvertimeMultiplier.String(),
		settings.Currency,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM custom_shifts`); err != nil {
		return fmt.Errorf("failed to clear shifts: %w", err)
	}
	for i, shift := range settings.CustomShifts {
		daysJSON, err := json.Marshal(shift.ApplicableDays)
		if err != nil {
			return err
		}
		_, err = db.ExecContext(ctx, `
			INSERT INTO custom_shifts
			(id, position, label, from_time, to_time, normal_hours, overtime_hours,
			 normal_allowance_hours, overtime_allowance_hours, applicable_days_json, enabled)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			string(shift.ID), i, shift.Label, shift.FromTime, shift.ToTime,
			shift.NormalHours.String(), shift.OvertimeHours.String(),
			shift.NormalAllowanceHours.String(), shift.OvertimeAllowanceHours.String(),
			string(daysJSON), shift.Enabled,
		)
		if err != nil {
			return fmt.Errorf("failed to save shift %s: %w", shift.ID, err)
		}
	}
	return nil
}

// =============================================================================
// TITLE
// =============================================================================

const titleKey = "schedule_title"

func (s *Store) LoadTitle(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return loadTitle(ctx, s.db)
}

func loadTitle(ctx context.Context, db querier) (string, error) {
	var title string
	err := db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, titleKey).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return title, err
}

func (s *Store) SaveTitle(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveTitle(ctx, s.db, title)
}

func saveTitle(ctx context.Context, db execer, title string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, titleKey, title)
	if err != nil {
		return fmt.Errorf("failed to save title: %w", err)
	}
	return nil
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

// LoadSnapshot reads every table in one transaction, so a concurrent save
// is seen either completely or not at all.
func (s *Store) LoadSnapshot(ctx context.Context) (pay.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snap pay.Snapshot
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if snap.Schedule, err = loadSchedule(ctx, tx); err != nil {
			return fmt.Errorf("load schedule: %w", err)
		}
		if snap.SpecialDates, err = loadSpecialDates(ctx, tx); err != nil {
			return fmt.Errorf("load special dates: %w", err)
		}
		if snap.Settings, err = loadSettings(ctx, tx); err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		if snap.Title, err = loadTitle(ctx, tx); err != nil {
			return fmt.Errorf("load title: %w", err)
		}
		return nil
	})
	if err != nil {
		return pay.Snapshot{}, err
	}
	return snap, nil
}

// SaveSnapshot writes every table in one transaction.
func (s *Store) SaveSnapshot(ctx context.Context, snap pay.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := saveSettings(ctx, tx, snap.Settings); err != nil {
			return err
		}
		if err := saveSchedule(ctx, tx, snap.Schedule); err != nil {
			return err
		}
		if err := saveSpecialDates(ctx, tx, snap.SpecialDates); err != nil {
			return err
		}
		return saveTitle(ctx, tx, snap.Title)
	})
}

// Reset clears all data (for testing/demo purposes).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		DELETE FROM schedule_entries;
		DELETE FROM special_dates;
		DELETE FROM settings;
		DELETE FROM custom_shifts;
		DELETE FROM meta;
	`)
	return err
}
