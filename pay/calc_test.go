package pay_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-pay/pay"
	"github.com/warp/shift-pay/pay/store"
	"github.com/warp/shift-pay/schedule"
)

func d(s string) schedule.Date { return schedule.MustParseDate(s) }

// payrollFixture: 35000 salary, 1.5 multiplier, one 8+2 shift and one
// 4 hour evening shift with allowances.
func payrollFixture(t *testing.T) pay.Settings {
	t.Helper()
	s := settingsWithSalary(t, 35000)

	var err error
	s, _, err = s.WithShiftCreated(shift("long", "08:00", "18:00", "8", "2"))
	require.NoError(t, err)

	evening := shift("evening", "18:00", "22:00", "4", "0")
	evening.NormalAllowanceHours = dec("0.5")
	evening.OvertimeAllowanceHours = dec("1")
	s, _, err = s.WithShiftCreated(evening)
	require.NoError(t, err)
	return s
}

// =============================================================================
// PER DATE
// =============================================================================

func TestAmountForDate_NormalAndOvertime(t *testing.T) {
	settings := payrollFixture(t)
	sched := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{
		d("2025-03-10"): {"long"},
	})

	// 8 x 201.92 + 2 x 302.88 = 1615.36 + 605.76
	got := pay.AmountForDate(d("2025-03-10"), sched, settings, schedule.SpecialDates{})
	assertDec(t, "2221.12", got)
}

func TestAmountForDate_Allowances(t *testing.T) {
	settings := payrollFixture(t)
	sched := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{
		d("2025-03-10"): {"evening"},
	})

	// 4 x 201.92 + 0.5 x 201.92 + 1 x 302.88 = 807.68 + 100.96 + 302.88
	got := pay.AmountForDate(d("2025-03-10"), sched, settings, schedule.SpecialDates{})
	assertDec(t, "1211.52", got)

	b := pay.BreakdownForDate(d("2025-03-10"), sched, settings, schedule.SpecialDates{})
	assertDec(t, "4", b.NormalHours)
	assertDec(t, "0.5", b.NormalAllowanceHours)
	assertDec(t, "1", b.OvertimeAllowanceHours)
	assertDec(t, "5.5", b.TotalHours())
	assert.Equal(t, 1, b.Shifts)
}

func TestAmountForDate_Additive(t *testing.T) {
	settings := payrollFixture(t)
	both := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{d("2025-03-10"): {"long", "evening"}})
	onlyLong := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{d("2025-03-10"): {"long"}})
	evening, _ := settings.Shift("evening")

	sum := pay.AmountForDate(d("2025-03-10"), onlyLong, settings, schedule.SpecialDates{}).
		Add(pay.ShiftAmount(evening, settings))
	assertDec(t, sum.String(), pay.AmountForDate(d("2025-03-10"), both, settings, schedule.SpecialDates{}))
}

func TestAmountForDate_SpecialDayDoesNotChangeRate(t *testing.T) {
	settings := payrollFixture(t)
	sched := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{d("2025-12-25"): {"long"}})

	plain := pay.AmountForDate(d("2025-12-25"), sched, settings, schedule.SpecialDates{})
	special := pay.AmountForDate(d("2025-12-25"), sched, settings, schedule.NewSpecialDates(d("2025-12-25")))
	assertDec(t, plain.String(), special)
}

func TestAmountForDate_DanglingContributesZero(t *testing.T) {
	// Ids without a template are tolerated: they add nothing and are reported.
	settings := payrollFixture(t)
	sched := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{
		d("2025-03-10"): {"ghost", "long"},
		d("2025-03-11"): {"ghost"},
	})

	b := pay.BreakdownForDate(d("2025-03-10"), sched, settings, schedule.SpecialDates{})
	assertDec(t, "2221.12", b.Amount)
	assert.Equal(t, []schedule.ShiftID{"ghost"}, b.Dangling)

	assertDec(t, "0", pay.AmountForDate(d("2025-03-11"), sched, settings, schedule.SpecialDates{}))
	assert.Equal(t, []schedule.ShiftID{"ghost"}, pay.DanglingShiftIDs(sched, settings))
}

func TestAmountForDate_EmptyDate(t *testing.T) {
	settings := payrollFixture(t)
	assertDec(t, "0", pay.AmountForDate(d("2025-03-10"), schedule.Schedule{}, settings, schedule.SpecialDates{}))
}

// =============================================================================
// MONTH TOTALS
// =============================================================================

func TestMonthTotal_EndToEnd(t *testing.T) {
	// GIVEN: 35000 salary -> 201.92/h, 302.88/h overtime
	settings := payrollFixture(t)
	require.True(t, dec("201.92").Equal(settings.HourlyRate))

	// AND: The 8+2 shift on five dates of March, plus dates in other months
	sched := schedule.NewSchedule(nil)
	for _, day := range []string{"2025-03-03", "2025-03-07", "2025-03-12", "2025-03-20", "2025-03-31"} {
		sched = schedule.ToggleShift(d(day), "long", sched)
	}
	sched = schedule.ToggleShift(d("2025-02-28"), "long", sched)
	sched = schedule.ToggleShift(d("2025-04-01"), "long", sched)

	// WHEN/THEN: March totals five dates
	got := pay.MonthTotal(2025, time.March, sched, settings, schedule.SpecialDates{})
	assertDec(t, "11105.60", got)
}

func TestSummarizeMonth(t *testing.T) {
	settings := payrollFixture(t)
	sched := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{
		d("2025-03-20"): {"evening", "long"},
		d("2025-03-02"): {"long"},
		d("2025-03-05"): {"ghost"},
	})
	special := schedule.NewSpecialDates(d("2025-03-20"))

	sum := pay.SummarizeMonth(2025, time.March, sched, settings, special)

	require.Len(t, sum.Days, 3)
	assert.Equal(t, d("2025-03-02"), sum.Days[0].Date)
	assert.Equal(t, d("2025-03-20"), sum.Days[2].Date)
	assert.True(t, sum.Days[2].Special)
	assert.Equal(t, []schedule.ShiftID{"long", "evening"}, sum.Days[2].Shifts)
	assert.Equal(t, 2, sum.WorkedDays)
	assert.Equal(t, 3, sum.Total.Shifts)
	assertDec(t, "5653.76", sum.Total.Amount) // 2221.12 x 2 + 1211.52
	assertDec(t, "20", sum.Total.NormalHours)
	assertDec(t, "4", sum.Total.OvertimeHours)
	assert.Equal(t, []schedule.ShiftID{"ghost"}, sum.Total.Dangling)
}

func TestMonthToDateTotal(t *testing.T) {
	settings := payrollFixture(t)
	sched := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{
		d("2025-03-01"): {"long"},
		d("2025-03-10"): {"long"},
		d("2025-03-11"): {"long"},
		d("2025-02-27"): {"long"},
	})
	today := d("2025-03-10")

	// Today counts, tomorrow and last month do not
	assertDec(t, "4442.24", pay.MonthToDateTotal(today, sched, settings, schedule.SpecialDates{}))
	assertDec(t, "6663.36", pay.MonthTotal(2025, time.March, sched, settings, schedule.SpecialDates{}))

	assert.True(t, pay.IsCurrentMonth(2025, time.March, today))
	assert.False(t, pay.IsCurrentMonth(2025, time.February, today))
	assert.False(t, pay.IsCurrentMonth(2024, time.March, today))
}

func TestMonthTotal_FollowsSettingsChanges(t *testing.T) {
	// Totals are recomputed from current state, so a rate change shows up
	// on the next call without any invalidation step.
	settings := payrollFixture(t)
	sched := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{d("2025-03-10"): {"long"}})

	before := pay.MonthTotal(2025, time.March, sched, settings, schedule.SpecialDates{})

	doubled, err := settings.WithOvertimeMultiplier(dec("2"))
	require.NoError(t, err)
	after := pay.MonthTotal(2025, time.March, sched, doubled, schedule.SpecialDates{})

	assertDec(t, "2221.12", before)
	assertDec(t, "2423.04", after) // 8 x 201.92 + 2 x 403.84
}

// =============================================================================
// STORE ROUND TRIP
// =============================================================================

func TestSnapshot_MemoryStore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	// An empty store yields defaults
	snap, err := pay.LoadSnapshot(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Schedule.Len())
	assert.Equal(t, pay.DefaultCurrency, snap.Settings.Currency)

	snap.Settings = payrollFixture(t)
	snap.Schedule = schedule.ToggleShift(d("2025-03-10"), "long", snap.Schedule)
	snap.SpecialDates = snap.SpecialDates.WithToggled(d("2025-03-10"))
	snap.Title = "March rota"
	require.NoError(t, pay.SaveSnapshot(ctx, st, snap))

	back, err := pay.LoadSnapshot(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, snap.Schedule, back.Schedule)
	assert.Equal(t, snap.SpecialDates, back.SpecialDates)
	assert.Equal(t, "March rota", back.Title)
	assertDec(t, "2221.12", pay.AmountForDate(d("2025-03-10"), back.Schedule, back.Settings, back.SpecialDates))

	// The single-lock read agrees with the per-part reads
	whole, err := st.LoadSnapshot(ctx)
	require.NoError(t, err)
	sched, err := st.LoadSchedule(ctx)
	require.NoError(t, err)
	settings, err := st.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, sched, whole.Schedule)
	assert.Equal(t, settings, whole.Settings)
}
