/*
shift.go - Shift templates (CustomShift) and their day applicability

PURPOSE:
  A CustomShift is a reusable definition of a work period: a wall-clock
  range plus the hours it pays. Templates are referenced from the schedule
  by id only, so editing a template changes the pay of every date that
  carries it.

HOUR BUCKETS:
  NormalHours             paid at the hourly rate
  OvertimeHours           paid at hourly rate x overtime multiplier
  NormalAllowanceHours    paid at the hourly rate, tracked apart from worked hours
  OvertimeAllowanceHours  paid at the overtime rate, tracked apart from worked hours

APPLICABILITY:
  ApplicableDays holds one flag per weekday plus SpecialDay. On a date
  flagged special only SpecialDay is consulted; on any other date only
  the weekday flag is.

SEE ALSO:
  - validate.go: Template validation rules
  - schedule.go: Date -> template id assignments
*/
package schedule

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ShiftID string

// NewShiftID returns a fresh opaque template id.
func NewShiftID() ShiftID {
	return ShiftID(uuid.NewString())
}

// =============================================================================
// APPLICABLE DAYS
// =============================================================================

type ApplicableDays struct {
	Monday     bool `json:"monday"`
	Tuesday    bool `json:"tuesday"`
	Wednesday  bool `json:"wednesday"`
	Thursday   bool `json:"thursday"`
	Friday     bool `json:"friday"`
	Saturday   bool `json:"saturday"`
	Sunday     bool `json:"sunday"`
	SpecialDay bool `json:"specialDay"`
}

// EveryWeekday applies to Monday through Sunday but not to special days.
func EveryWeekday() ApplicableDays {
	return ApplicableDays{
		Monday: true, Tuesday: true, Wednesday: true, Thursday: true,
		Friday: true, Saturday: true, Sunday: true,
	}
}

// On reports the flag for a weekday.
func (a ApplicableDays) On(wd time.Weekday) bool {
	switch wd {
	case time.Monday:
		return a.Monday
	case time.Tuesday:
		return a.Tuesday
	case time.Wednesday:
		return a.Wednesday
	case time.Thursday:
		return a.Thursday
	case time.Friday:
		return a.Friday
	case time.Saturday:
		return a.Saturday
	case time.Sunday:
		return a.Sunday
	}
	return false
}

// AnyWeekday reports whether at least one weekday flag is set.
func (a ApplicableDays) AnyWeekday() bool {
	return a.Monday || a.Tuesday || a.Wednesday || a.Thursday ||
		a.Friday || a.Saturday || a.Sunday
}

// Any reports whether the template can be used on any kind of day.
func (a ApplicableDays) Any() bool {
	return a.AnyWeekday() || a.SpecialDay
}

// AppliesTo reports whether the flags admit a date of the given kind.
func (a ApplicableDays) AppliesTo(d Date, special bool) bool {
	if special {
		return a.SpecialDay
	}
	return a.On(d.Weekday())
}

// =============================================================================
// CUSTOM SHIFT
// =============================================================================

type CustomShift struct {
	ID                     ShiftID         `json:"id"`
	Label                  string          `json:"label"`
	FromTime               string          `json:"fromTime"`
	ToTime                 string          `json:"toTime"`
	NormalHours            decimal.Decimal `json:"normalHours"`
	OvertimeHours          decimal.Decimal `json:"overtimeHours"`
	NormalAllowanceHours   decimal.Decimal `json:"normalAllowanceHours"`
	OvertimeAllowanceHours decimal.Decimal `json:"overtimeAllowanceHours"`
	ApplicableDays         ApplicableDays  `json:"applicableDays"`
	Enabled                bool            `json:"enabled"`
}

// UnmarshalJSON fills the defaults of older exports: templates saved before
// day applicability existed apply to every weekday, and templates saved
// before the enabled flag existed are enabled.
func (s *CustomShift) UnmarshalJSON(b []byte) error {
	type plain CustomShift
	var raw struct {
		plain
		ApplicableDays *ApplicableDays `json:"applicableDays"`
		Enabled        *bool           `json:"enabled"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = CustomShift(raw.plain)
	s.ApplicableDays = EveryWeekday()
	if raw.ApplicableDays != nil {
		s.ApplicableDays = *raw.ApplicableDays
	}
	s.Enabled = true
	if raw.Enabled != nil {
		s.Enabled = *raw.Enabled
	}
	return nil
}

// Duration is the wall-clock span of the template in hours.
func (s CustomShift) Duration() (decimal.Decimal, error) {
	return TimeDifference(s.FromTime, s.ToTime)
}

// WorkedHours is normal + overtime; allowance hours are not worked time.
func (s CustomShift) WorkedHours() decimal.Decimal {
	return s.NormalHours.Add(s.OvertimeHours)
}

// IsOvernight reports whether the range crosses midnight.
func (s CustomShift) IsOvernight() bool {
	from, err1 := ParseClock(s.FromTime)
	to, err2 := ParseClock(s.ToTime)
	return err1 == nil && err2 == nil && to <= from
}

// startMinutes sorts unparseable times last.
func (s CustomShift) startMinutes() int {
	m, err := ParseClock(s.FromTime)
	if err != nil {
		return minutesPerDay
	}
	return m
}

// =============================================================================
// LOOKUPS
// =============================================================================

// Index maps template ids to templates.
type Index map[ShiftID]CustomShift

func NewIndex(shifts []CustomShift) Index {
	idx := make(Index, len(shifts))
	for _, s := range shifts {
		idx[s.ID] = s
	}
	return idx
}

// SortByStart orders ids by their template's start time for display.
// Unknown ids keep their relative order at the end.
func (idx Index) SortByStart(ids []ShiftID) []ShiftID {
	out := append([]ShiftID(nil), ids...)
	sort.SliceStable(out, func(i, j int) bool {
		return idx.start(out[i]) < idx.start(out[j])
	})
	return out
}

func (idx Index) start(id ShiftID) int {
	s, ok := idx[id]
	if !ok {
		return minutesPerDay + 1
	}
	return s.startMinutes()
}

// EligibleShifts returns the enabled templates that may be assigned on d,
// ordered by start time.
func EligibleShifts(d Date, special bool, shifts []CustomShift) []CustomShift {
	var out []CustomShift
	for _, s := range shifts {
		if s.Enabled && s.ApplicableDays.AppliesTo(d, special) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].startMinutes() < out[j].startMinutes()
	})
	return out
}
