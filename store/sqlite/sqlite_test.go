package sqlite_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-pay/pay"
	"github.com/warp/shift-pay/schedule"
	"github.com/warp/shift-pay/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func d(s string) schedule.Date { return schedule.MustParseDate(s) }

func fixtureSettings(t *testing.T) pay.Settings {
	s, err := pay.DefaultSettings().WithBasicSalary(35000)
	require.NoError(t, err)
	s, err = s.WithOvertimeMultiplier(decimal.RequireFromString("1.75"))
	require.NoError(t, err)
	s = s.WithCurrency("€")

	s, _, err = s.WithShiftCreated(schedule.CustomShift{
		ID:                     "late",
		Label:                  "Late",
		FromTime:               "22:00",
		ToTime:                 "06:00",
		NormalHours:            decimal.RequireFromString("6.5"),
		OvertimeHours:          decimal.RequireFromString("1.25"),
		NormalAllowanceHours:   decimal.RequireFromString("0.5"),
		OvertimeAllowanceHours: decimal.RequireFromString("0.333"),
		ApplicableDays:         schedule.ApplicableDays{Friday: true, SpecialDay: true},
	})
	require.NoError(t, err)
	s, _, err = s.WithShiftCreated(schedule.CustomShift{
		ID:             "early",
		Label:          "Early",
		FromTime:       "06:00",
		ToTime:         "14:00",
		NormalHours:    decimal.RequireFromString("8"),
		ApplicableDays: schedule.EveryWeekday(),
	})
	require.NoError(t, err)
	return s
}

// =============================================================================
// DEFAULTS
// =============================================================================

func TestStore_EmptyLoadsDefaults(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snap, err := pay.LoadSnapshot(ctx, store)
	require.NoError(t, err)

	assert.Equal(t, 0, snap.Schedule.Len())
	assert.Equal(t, 0, snap.SpecialDates.Len())
	assert.Equal(t, pay.DefaultSettings(), snap.Settings)
	assert.Equal(t, "", snap.Title)
}

// =============================================================================
// ROUND TRIPS
// =============================================================================

func TestStore_ScheduleKeepsOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sched := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{
		d("2025-03-10"): {"late", "early"},
		d("2025-03-11"): {"early"},
	})
	require.NoError(t, store.SaveSchedule(ctx, sched))

	back, err := store.LoadSchedule(ctx)
	require.NoError(t, err)
	assert.Equal(t, sched, back)
	assert.Equal(t, []schedule.ShiftID{"late", "early"}, back.ShiftsOn(d("2025-03-10")))

	// Saving replaces, it does not merge
	require.NoError(t, store.SaveSchedule(ctx, sched.WithDateCleared(d("2025-03-10"))))
	back, err = store.LoadSchedule(ctx)
	require.NoError(t, err)
	assert.Equal(t, []schedule.Date{d("2025-03-11")}, back.Dates())
}

func TestStore_SpecialDates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sd := schedule.NewSpecialDates(d("2025-12-25"), d("2025-12-26"))
	require.NoError(t, store.SaveSpecialDates(ctx, sd))

	back, err := store.LoadSpecialDates(ctx)
	require.NoError(t, err)
	assert.Equal(t, sd, back)
}

func TestStore_SettingsAndShifts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	settings := fixtureSettings(t)
	require.NoError(t, store.SaveSettings(ctx, settings))

	back, err := store.LoadSettings(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(35000), back.BasicSalary)
	assert.True(t, settings.HourlyRate.Equal(back.HourlyRate))
	assert.True(t, decimal.RequireFromString("1.75").Equal(back.OvertimeMultiplier))
	assert.Equal(t, "€", back.Currency)
	require.Len(t, back.CustomShifts, 2)
	assert.Equal(t, schedule.ShiftID("late"), back.CustomShifts[0].ID)
	assert.Equal(t, schedule.ShiftID("early"), back.CustomShifts[1].ID)

	late := back.CustomShifts[0]
	assert.Equal(t, "22:00", late.FromTime)
	assert.True(t, decimal.RequireFromString("0.333").Equal(late.OvertimeAllowanceHours))
	assert.Equal(t, schedule.ApplicableDays{Friday: true, SpecialDay: true}, late.ApplicableDays)
	assert.True(t, late.Enabled)

	// Priced the same before and after the round trip
	sched := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{d("2025-03-14"): {"late", "early"}})
	want := pay.AmountForDate(d("2025-03-14"), sched, settings, schedule.SpecialDates{})
	got := pay.AmountForDate(d("2025-03-14"), sched, back, schedule.SpecialDates{})
	assert.True(t, want.Equal(got), "want %s got %s", want, got)
}

func TestStore_ManualRateSurvives(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	settings, err := fixtureSettings(t).WithManualHourlyRate(decimal.RequireFromString("12.34"))
	require.NoError(t, err)
	require.NoError(t, store.SaveSettings(ctx, settings))

	back, err := store.LoadSettings(ctx)
	require.NoError(t, err)
	assert.True(t, back.ManualRate)
	assert.Equal(t, "12.34", back.HourlyRate.String())
}

func TestStore_SnapshotAndReset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snap := pay.Snapshot{
		Schedule:     schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{d("2025-03-10"): {"early"}}),
		SpecialDates: schedule.NewSpecialDates(d("2025-03-10")),
		Settings:     fixtureSettings(t),
		Title:        "Ward 7",
	}
	require.NoError(t, pay.SaveSnapshot(ctx, store, snap))

	back, err := pay.LoadSnapshot(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, snap.Schedule, back.Schedule)
	assert.Equal(t, snap.SpecialDates, back.SpecialDates)
	assert.Equal(t, "Ward 7", back.Title)
	assert.Len(t, back.Settings.CustomShifts, 2)

	require.NoError(t, store.Reset(ctx))
	back, err = pay.LoadSnapshot(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 0, back.Schedule.Len())
	assert.Empty(t, back.Settings.CustomShifts)
	assert.Equal(t, "", back.Title)
}

func TestStore_LoadSnapshotNeverSeesHalfAWrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// GIVEN: Two states, one with a template in use and one where it was
	// deleted and pruned from the schedule
	withShift := pay.Snapshot{
		Schedule: schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{d("2025-03-10"): {"early"}}),
		Settings: fixtureSettings(t),
	}
	deleted, pruned, err := pay.DeleteShift(withShift.Settings, withShift.Schedule, "early")
	require.NoError(t, err)
	withoutShift := pay.Snapshot{Schedule: pruned, Settings: deleted}
	require.NoError(t, pay.SaveSnapshot(ctx, store, withShift))

	// WHEN: A writer flips between them while a reader loads snapshots
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			next := withShift
			if i%2 == 0 {
				next = withoutShift
			}
			if err := pay.SaveSnapshot(ctx, store, next); err != nil {
				t.Error(err)
				return
			}
		}
	}()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	// THEN: Every snapshot read has a template for every scheduled id
	for reading := true; reading; {
		select {
		case <-done:
			reading = false
		default:
		}
		snap, err := store.LoadSnapshot(ctx)
		require.NoError(t, err)
		assert.Empty(t, pay.DanglingShiftIDs(snap.Schedule, snap.Settings))
	}
}
