/*
schedule.go - Sparse date -> shift assignments and special-date flags

PURPOSE:
  Schedule maps calendar dates to the template ids worked on that date.
  SpecialDates is the parallel set of dates flagged special (holidays,
  premium days). Both are immutable values: every edit returns a new
  snapshot and leaves the receiver untouched, so a snapshot can be handed
  to the pay engine, a store and an HTTP response at the same time.

SPARSENESS:
  A date with no shifts is absent from the map. Every operation that can
  empty a date's list removes the date, so "absent" and "empty" never
  need to be told apart.

ORDER:
  Ids keep insertion order within a date. Order carries no pay meaning;
  display code sorts by start time (Index.SortByStart).

JSON:
  Both types encode as the plain objects used by the export format:
    schedule:     {"2025-03-10": ["9-4", "4-10"]}
    specialDates: {"2025-12-25": true}

SEE ALSO:
  - rules.go: CanAssign, consulted before any id is added
  - pay/calc.go: Reads schedules to compute amounts
*/
package schedule

import (
	"encoding/json"
	"sort"
	"time"
)

// =============================================================================
// SCHEDULE
// =============================================================================

type Schedule struct {
	days map[Date][]ShiftID
}

// NewSchedule copies entries, dropping dates with no shifts.
func NewSchedule(entries map[Date][]ShiftID) Schedule {
	days := make(map[Date][]ShiftID, len(entries))
	for d, ids := range entries {
		if len(ids) > 0 {
			days[d] = append([]ShiftID(nil), ids...)
		}
	}
	return build(days)
}

// ShiftsOn returns a copy of the ids assigned to d.
func (s Schedule) ShiftsOn(d Date) []ShiftID {
	return append([]ShiftID(nil), s.days[d]...)
}

// Has reports whether id is assigned to d.
func (s Schedule) Has(d Date, id ShiftID) bool {
	return containsID(s.days[d], id)
}

func containsID(ids []ShiftID, id ShiftID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// Len is the number of dates with at least one shift.
func (s Schedule) Len() int { return len(s.days) }

// Dates returns every scheduled date in ascending order.
func (s Schedule) Dates() []Date {
	out := make([]Date, 0, len(s.days))
	for d := range s.days {
		out = append(out, d)
	}
	sortDates(out)
	return out
}

// DatesIn returns the scheduled dates of one month in ascending order.
func (s Schedule) DatesIn(year int, month time.Month) []Date {
	var out []Date
	for d := range s.days {
		if d.InMonth(year, month) {
			out = append(out, d)
		}
	}
	sortDates(out)
	return out
}

// Entries returns a deep copy of the underlying map.
func (s Schedule) Entries() map[Date][]ShiftID {
	return s.clone()
}

func (s Schedule) clone() map[Date][]ShiftID {
	days := make(map[Date][]ShiftID, len(s.days))
	for d, ids := range s.days {
		days[d] = append([]ShiftID(nil), ids...)
	}
	return days
}

// =============================================================================
// EDITS - Each returns a new Schedule
// =============================================================================

// WithShiftToggled removes id from d when present, otherwise adds it if
// CanAssign allows. changed is false when the add was blocked.
func (s Schedule) WithShiftToggled(d Date, id ShiftID) (next Schedule, changed bool) {
	if s.Has(d, id) {
		return s.withShiftRemoved(d, id), true
	}
	return s.WithShiftAdded(d, id)
}

// ToggleShift is WithShiftToggled without the changed flag: a blocked add
// returns the schedule unchanged.
func ToggleShift(d Date, id ShiftID, s Schedule) Schedule {
	next, _ := s.WithShiftToggled(d, id)
	return next
}

// WithShiftAdded appends id to d unless it is already there or a rule
// blocks it.
func (s Schedule) WithShiftAdded(d Date, id ShiftID) (Schedule, bool) {
	current := s.days[d]
	if s.Has(d, id) || !CanAssign(id, current) {
		return s, false
	}
	days := s.clone()
	days[d] = append(days[d], id)
	return build(days), true
}

func (s Schedule) withShiftRemoved(d Date, id ShiftID) Schedule {
	days := s.clone()
	kept := days[d][:0]
	for _, x := range days[d] {
		if x != id {
			kept = append(kept, x)
		}
	}
	if len(kept) == 0 {
		delete(days, d)
	} else {
		days[d] = kept
	}
	return build(days)
}

// WithDateCleared removes every shift from d.
func (s Schedule) WithDateCleared(d Date) Schedule {
	if _, ok := s.days[d]; !ok {
		return s
	}
	days := s.clone()
	delete(days, d)
	return build(days)
}

// WithMonthCleared removes every shift in the given month.
func (s Schedule) WithMonthCleared(year int, month time.Month) Schedule {
	days := s.clone()
	for d := range days {
		if d.InMonth(year, month) {
			delete(days, d)
		}
	}
	return build(days)
}

// WithoutShift removes id from every date, dropping dates left empty.
// Used when a template is deleted.
func (s Schedule) WithoutShift(id ShiftID) Schedule {
	days := make(map[Date][]ShiftID, len(s.days))
	for d, ids := range s.days {
		var kept []ShiftID
		for _, x := range ids {
			if x != id {
				kept = append(kept, x)
			}
		}
		if len(kept) > 0 {
			days[d] = kept
		}
	}
	return build(days)
}

// =============================================================================
// JSON
// =============================================================================

func (s Schedule) MarshalJSON() ([]byte, error) {
	if s.days == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.days)
}

func (s *Schedule) UnmarshalJSON(b []byte) error {
	var days map[Date][]ShiftID
	if err := json.Unmarshal(b, &days); err != nil {
		return err
	}
	*s = NewSchedule(days)
	return nil
}

// =============================================================================
// SPECIAL DATES
// =============================================================================

type SpecialDates struct {
	days map[Date]bool
}

func NewSpecialDates(dates ...Date) SpecialDates {
	days := make(map[Date]bool, len(dates))
	for _, d := range dates {
		days[d] = true
	}
	return buildSpecial(days)
}

func (sd SpecialDates) IsSpecial(d Date) bool { return sd.days[d] }
func (sd SpecialDates) Len() int              { return len(sd.days) }

// Dates returns the special dates in ascending order.
func (sd SpecialDates) Dates() []Date {
	out := make([]Date, 0, len(sd.days))
	for d := range sd.days {
		out = append(out, d)
	}
	sortDates(out)
	return out
}

// WithToggled flips the special flag of d.
func (sd SpecialDates) WithToggled(d Date) SpecialDates {
	return sd.WithSpecial(d, !sd.IsSpecial(d))
}

// WithSpecial sets or clears the special flag of d.
func (sd SpecialDates) WithSpecial(d Date, special bool) SpecialDates {
	days := sd.clone()
	if special {
		days[d] = true
	} else {
		delete(days, d)
	}
	return buildSpecial(days)
}

// WithMonthCleared clears every special flag in the given month.
func (sd SpecialDates) WithMonthCleared(year int, month time.Month) SpecialDates {
	days := sd.clone()
	for d := range days {
		if d.InMonth(year, month) {
			delete(days, d)
		}
	}
	return buildSpecial(days)
}

func (sd SpecialDates) clone() map[Date]bool {
	days := make(map[Date]bool, len(sd.days))
	for d := range sd.days {
		days[d] = true
	}
	return days
}

func (sd SpecialDates) MarshalJSON() ([]byte, error) {
	if sd.days == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(sd.days)
}

// UnmarshalJSON keeps only dates mapped to true.
func (sd *SpecialDates) UnmarshalJSON(b []byte) error {
	var raw map[Date]bool
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var dates []Date
	for d, special := range raw {
		if special {
			dates = append(dates, d)
		}
	}
	*sd = NewSpecialDates(dates...)
	return nil
}

// build and buildSpecial keep the zero value as the one empty
// representation, so equal snapshots compare equal with reflect.DeepEqual.
func build(days map[Date][]ShiftID) Schedule {
	if len(days) == 0 {
		return Schedule{}
	}
	return Schedule{days: days}
}

func buildSpecial(days map[Date]bool) SpecialDates {
	if len(days) == 0 {
		return SpecialDates{}
	}
	return SpecialDates{days: days}
}

func sortDates(dates []Date) {
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
}
