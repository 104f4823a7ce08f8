package schedule_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-pay/schedule"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func day(s string) schedule.Date { return schedule.MustParseDate(s) }

func ids(xs ...string) []schedule.ShiftID {
	out := make([]schedule.ShiftID, len(xs))
	for i, x := range xs {
		out[i] = schedule.ShiftID(x)
	}
	return out
}

// =============================================================================
// COMPATIBILITY RULES
// =============================================================================

func TestCanAssign_ExclusionTable(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		current   []string
		want      bool
	}{
		{"12-10 blocked by 9-4", "12-10", []string{"9-4"}, false},
		{"12-10 blocked by 4-10", "12-10", []string{"4-10"}, false},
		{"9-4 on empty date", "9-4", nil, true},
		{"9-4 blocked by 12-10", "9-4", []string{"12-10"}, false},
		{"4-10 blocked by 12-10", "4-10", []string{"12-10"}, false},
		{"9-4 with 4-10", "9-4", []string{"4-10"}, true},
		{"unlisted id unconstrained", "N", []string{"9-4", "4-10"}, true},
		{"unlisted id next to 12-10", "custom", []string{"12-10"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := schedule.CanAssign(schedule.ShiftID(tt.candidate), ids(tt.current...))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConflicts_ListsBlockingIDs(t *testing.T) {
	got := schedule.Conflicts("12-10", ids("4-10", "x", "9-4"))
	assert.Equal(t, ids("4-10", "9-4"), got)
}

// =============================================================================
// TOGGLE
// =============================================================================

func TestToggleShift_AddsThenRemoves(t *testing.T) {
	// GIVEN: An empty schedule
	s := schedule.NewSchedule(nil)
	d := day("2025-03-10")

	// WHEN: Toggling a shift on
	s1 := schedule.ToggleShift(d, "9-4", s)

	// THEN: The date carries the shift
	assert.Equal(t, ids("9-4"), s1.ShiftsOn(d))
	assert.Equal(t, 1, s1.Len())

	// WHEN: Toggling it again
	s2 := schedule.ToggleShift(d, "9-4", s1)

	// THEN: The date disappears entirely
	assert.Equal(t, 0, s2.Len())
	assert.Empty(t, s2.ShiftsOn(d))
	assert.Equal(t, s, s2)
}

func TestToggleShift_IsItsOwnInverse(t *testing.T) {
	d := day("2025-03-10")
	base := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{
		d:                 ids("4-10"),
		day("2025-03-11"): ids("12-10"),
	})

	once, changed := base.WithShiftToggled(d, "9-4")
	require.True(t, changed)
	twice, changed := once.WithShiftToggled(d, "9-4")
	require.True(t, changed)

	assert.Equal(t, base, twice)
}

func TestToggleShift_BlockedAddIsNoOp(t *testing.T) {
	// GIVEN: 9-4 already on the date
	d := day("2025-03-10")
	s := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{d: ids("9-4")})

	// WHEN: Toggling the incompatible 12-10
	next, changed := s.WithShiftToggled(d, "12-10")

	// THEN: Nothing changes
	assert.False(t, changed)
	assert.Equal(t, s, next)
	assert.Equal(t, ids("9-4"), next.ShiftsOn(d))
}

func TestToggleShift_RemovalNeverBlocked(t *testing.T) {
	// Data written before the rules existed can hold an incompatible pair.
	d := day("2025-03-10")
	s := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{d: ids("9-4", "12-10")})

	next := schedule.ToggleShift(d, "12-10", s)
	assert.Equal(t, ids("9-4"), next.ShiftsOn(d))
}

func TestToggleShift_DoesNotMutateReceiver(t *testing.T) {
	d := day("2025-03-10")
	s := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{d: ids("9-4")})

	_ = schedule.ToggleShift(d, "4-10", s)
	_ = schedule.ToggleShift(d, "9-4", s)

	assert.Equal(t, ids("9-4"), s.ShiftsOn(d))
}

// =============================================================================
// CLEARING AND PRUNING
// =============================================================================

func TestWithoutShift_PrunesEveryDate(t *testing.T) {
	// GIVEN: A deleted template referenced on several dates
	s := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{
		day("2025-03-10"): ids("gone"),
		day("2025-03-11"): ids("gone", "keep"),
		day("2025-04-01"): ids("keep"),
	})

	// WHEN: Pruning it
	next := s.WithoutShift("gone")

	// THEN: No date references it and no empty date remains
	assert.Equal(t, []schedule.Date{day("2025-03-11"), day("2025-04-01")}, next.Dates())
	assert.Equal(t, ids("keep"), next.ShiftsOn(day("2025-03-11")))
	for _, d := range next.Dates() {
		assert.NotEmpty(t, next.ShiftsOn(d))
		assert.False(t, next.Has(d, "gone"))
	}
}

func TestWithMonthCleared_LeavesOtherMonths(t *testing.T) {
	s := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{
		day("2025-02-28"): ids("a"),
		day("2025-03-01"): ids("a"),
		day("2025-03-31"): ids("b"),
		day("2025-04-01"): ids("c"),
	})

	next := s.WithMonthCleared(2025, time.March)

	assert.Equal(t, []schedule.Date{day("2025-02-28"), day("2025-04-01")}, next.Dates())
	assert.Equal(t, 4, s.Len())
}

func TestWithDateCleared(t *testing.T) {
	s := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{
		day("2025-03-10"): ids("a", "b"),
		day("2025-03-11"): ids("a"),
	})

	next := s.WithDateCleared(day("2025-03-10"))

	assert.Equal(t, []schedule.Date{day("2025-03-11")}, next.Dates())
	assert.Equal(t, s, s.WithDateCleared(day("2030-01-01")))
}

func TestNewSchedule_DropsEmptyDates(t *testing.T) {
	s := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{
		day("2025-03-10"): {},
		day("2025-03-11"): ids("a"),
	})
	assert.Equal(t, 1, s.Len())
}

func TestDatesIn_SortedWithinMonth(t *testing.T) {
	s := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{
		day("2025-03-20"): ids("a"),
		day("2025-03-02"): ids("a"),
		day("2025-04-02"): ids("a"),
	})
	assert.Equal(t, []schedule.Date{day("2025-03-02"), day("2025-03-20")}, s.DatesIn(2025, time.March))
}

// =============================================================================
// SPECIAL DATES
// =============================================================================

func TestSpecialDates_Toggle(t *testing.T) {
	sd := schedule.NewSpecialDates()
	xmas := day("2025-12-25")

	on := sd.WithToggled(xmas)
	assert.True(t, on.IsSpecial(xmas))
	assert.False(t, sd.IsSpecial(xmas))

	off := on.WithToggled(xmas)
	assert.False(t, off.IsSpecial(xmas))
	assert.Equal(t, 0, off.Len())
}

func TestSpecialDates_MonthCleared(t *testing.T) {
	sd := schedule.NewSpecialDates(day("2025-12-25"), day("2025-12-26"), day("2026-01-01"))
	next := sd.WithMonthCleared(2025, time.December)
	assert.Equal(t, []schedule.Date{day("2026-01-01")}, next.Dates())
}

// =============================================================================
// JSON
// =============================================================================

func TestSchedule_JSON(t *testing.T) {
	s := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{
		day("2025-03-10"): ids("9-4", "4-10"),
	})

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"2025-03-10":["9-4","4-10"]}`, string(b))

	var back schedule.Schedule
	require.NoError(t, json.Unmarshal([]byte(`{"2025-03-10":["9-4","4-10"],"2025-03-11":[]}`), &back))
	assert.Equal(t, s, back)
}

func TestSchedule_JSONRejectsBadDate(t *testing.T) {
	var s schedule.Schedule
	err := json.Unmarshal([]byte(`{"10/03/2025":["a"]}`), &s)
	assert.Error(t, err)
}

func TestSpecialDates_JSONDropsFalse(t *testing.T) {
	var sd schedule.SpecialDates
	require.NoError(t, json.Unmarshal([]byte(`{"2025-12-25":true,"2025-12-26":false}`), &sd))
	assert.Equal(t, []schedule.Date{day("2025-12-25")}, sd.Dates())

	b, err := json.Marshal(schedule.SpecialDates{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))
}

// =============================================================================
// RECURRING FILL
// =============================================================================

func TestWithRecurringShift_WeeklyMondays(t *testing.T) {
	// GIVEN: March 2025 with 12-10 already on the 17th
	s := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{
		day("2025-03-17"): ids("12-10"),
	})

	// WHEN: Filling 9-4 on every Monday of the month
	next, added, err := s.WithRecurringShift("9-4", "FREQ=WEEKLY;BYDAY=MO", day("2025-03-01"), day("2025-03-31"))
	require.NoError(t, err)

	// THEN: Every Monday except the blocked one gets the shift
	assert.Equal(t, []schedule.Date{
		day("2025-03-03"), day("2025-03-10"), day("2025-03-24"), day("2025-03-31"),
	}, added)
	assert.Equal(t, ids("12-10"), next.ShiftsOn(day("2025-03-17")))
	assert.Equal(t, 5, next.Len())
}

func TestWithRecurringShift_SkipsExisting(t *testing.T) {
	s := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{
		day("2025-03-02"): ids("x"),
	})
	next, added, err := s.WithRecurringShift("x", "FREQ=DAILY", day("2025-03-01"), day("2025-03-03"))
	require.NoError(t, err)
	assert.Equal(t, []schedule.Date{day("2025-03-01"), day("2025-03-03")}, added)
	assert.Equal(t, ids("x"), next.ShiftsOn(day("2025-03-02")))
}

func TestRecurringDates_Invalid(t *testing.T) {
	_, err := schedule.RecurringDates("FREQ=SOMETIMES", day("2025-03-01"), day("2025-03-31"))
	assert.ErrorIs(t, err, schedule.ErrInvalidRecurrence)

	_, err = schedule.RecurringDates("FREQ=DAILY", day("2025-03-31"), day("2025-03-01"))
	assert.ErrorIs(t, err, schedule.ErrInvalidRecurrence)
}

func TestRecurringDates_WindowCap(t *testing.T) {
	// GIVEN: A leap year, which is exactly the largest window allowed
	dates, err := schedule.RecurringDates("FREQ=DAILY", day("2024-01-01"), day("2024-12-31"))
	require.NoError(t, err)
	assert.Len(t, dates, schedule.MaxRecurrenceDays)

	// WHEN: The window grows by one day
	_, err = schedule.RecurringDates("FREQ=DAILY", day("2024-01-01"), day("2025-01-01"))

	// THEN: The fill is refused before any date is generated
	assert.ErrorIs(t, err, schedule.ErrInvalidRecurrence)

	s := schedule.NewSchedule(nil)
	next, added, err := s.WithRecurringShift("x", "FREQ=DAILY", day("2000-01-01"), day("2039-12-31"))
	assert.ErrorIs(t, err, schedule.ErrInvalidRecurrence)
	assert.Empty(t, added)
	assert.Equal(t, 0, next.Len())
}

func TestWithRecurringShift_DoesNotMutateReceiver(t *testing.T) {
	s := schedule.NewSchedule(map[schedule.Date][]schedule.ShiftID{
		day("2025-03-03"): ids("4-10"),
	})
	next, added, err := s.WithRecurringShift("9-4", "FREQ=DAILY", day("2025-03-01"), day("2025-03-07"))
	require.NoError(t, err)

	assert.Len(t, added, 7)
	assert.Equal(t, ids("4-10", "9-4"), next.ShiftsOn(day("2025-03-03")))
	assert.Equal(t, ids("4-10"), s.ShiftsOn(day("2025-03-03")))
	assert.Equal(t, 1, s.Len())
}
