package schedule

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TEMPLATE VALIDATION
// =============================================================================

var maxDuration = decimal.NewFromInt(24)

// ValidateShiftTimes checks that both times are present and well formed and
// that the range they describe lasts more than zero and at most 24 hours.
func ValidateShiftTimes(fromTime, toTime string) error {
	if strings.TrimSpace(fromTime) == "" || strings.TrimSpace(toTime) == "" {
		return ErrMissingTime
	}
	diff, err := TimeDifference(fromTime, toTime)
	if err != nil {
		return err
	}
	if !diff.IsPositive() {
		return ErrNonPositiveDuration
	}
	if diff.GreaterThan(maxDuration) {
		return ErrExcessiveDuration
	}
	return nil
}

// ValidateHours rejects normal + overtime hours beyond the template's span.
// Equality is accepted.
func ValidateHours(normalHours, overtimeHours decimal.Decimal, fromTime, toTime string) error {
	diff, err := TimeDifference(fromTime, toTime)
	if err != nil {
		return err
	}
	worked := normalHours.Add(overtimeHours)
	if worked.GreaterThan(diff) {
		return &HoursExceedError{Hours: worked, Duration: diff}
	}
	return nil
}

// CheckDuplicateTimes rejects a time range already used by another template.
// The template being edited (excluding) is ignored; pass "" when creating.
func CheckDuplicateTimes(fromTime, toTime string, existing []CustomShift, excluding ShiftID) error {
	from, to := strings.TrimSpace(fromTime), strings.TrimSpace(toTime)
	for _, s := range existing {
		if excluding != "" && s.ID == excluding {
			continue
		}
		if strings.TrimSpace(s.FromTime) == from && strings.TrimSpace(s.ToTime) == to {
			return &DuplicateTimeError{FromTime: from, ToTime: to, Existing: s}
		}
	}
	return nil
}

// ValidateShift runs every template check in order and returns the first
// failure: times, duplicate range, label, applicable days, hours.
func ValidateShift(s CustomShift, existing []CustomShift) error {
	if err := ValidateShiftTimes(s.FromTime, s.ToTime); err != nil {
		return err
	}
	if err := CheckDuplicateTimes(s.FromTime, s.ToTime, existing, s.ID); err != nil {
		return err
	}
	if strings.TrimSpace(s.Label) == "" {
		return ErrEmptyLabel
	}
	if !s.ApplicableDays.Any() {
		return ErrNoApplicableDay
	}
	for _, h := range []decimal.Decimal{
		s.NormalHours, s.OvertimeHours, s.NormalAllowanceHours, s.OvertimeAllowanceHours,
	} {
		if h.IsNegative() {
			return ErrNegativeHours
		}
	}
	return ValidateHours(s.NormalHours, s.OvertimeHours, s.FromTime, s.ToTime)
}
