package schedule

import (
	"fmt"
	"strings"

	"github.com/teambition/rrule-go"
)

// =============================================================================
// RECURRING FILL - Assign one shift on every date an RRULE produces
// =============================================================================

// MaxRecurrenceDays bounds the window of one recurring fill.
const MaxRecurrenceDays = 366

// RecurringDates expands an RFC 5545 rule ("FREQ=WEEKLY;BYDAY=MO,WE") over
// the inclusive window [from, to]. The rule starts on from.
func RecurringDates(rule string, from, to Date) ([]Date, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: window ends %s before it starts %s", ErrInvalidRecurrence, to, from)
	}
	if days := int(to.Time().Sub(from.Time()).Hours()/24) + 1; days > MaxRecurrenceDays {
		return nil, fmt.Errorf("%w: window of %d days exceeds %d", ErrInvalidRecurrence, days, MaxRecurrenceDays)
	}
	rule = strings.TrimPrefix(strings.TrimSpace(rule), "RRULE:")
	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecurrence, err)
	}
	opt.Dtstart = from.Time()

	rr, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecurrence, err)
	}

	var out []Date
	for _, t := range rr.Between(from.Time(), to.Time(), true) {
		out = append(out, DateOf(t))
	}
	return out, nil
}

// WithRecurringShift adds id on every date of the rule within [from, to].
// Dates that already carry id, or where a compatibility rule blocks it, are
// skipped. added lists the dates that changed.
func (s Schedule) WithRecurringShift(id ShiftID, rule string, from, to Date) (next Schedule, added []Date, err error) {
	dates, err := RecurringDates(rule, from, to)
	if err != nil {
		return s, nil, err
	}
	days := s.clone()
	for _, d := range dates {
		current := days[d]
		if containsID(current, id) || !CanAssign(id, current) {
			continue
		}
		days[d] = append(current, id)
		added = append(added, d)
	}
	if len(added) == 0 {
		return s, nil, nil
	}
	return build(days), added, nil
}
