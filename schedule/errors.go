/*
errors.go - Validation errors for shift templates and schedule edits

PURPOSE:
  Every error in this package is a user-correctable validation failure.
  None of them is fatal: the worst outcome of a rejected edit is that the
  schedule or the template list stays as it was.

ERROR CATEGORIES:
  1. Time range errors   - MissingTime, InvalidTime, NonPositiveDuration, ExcessiveDuration
  2. Hour allocation     - HoursExceedDuration, NegativeHours
  3. Template metadata   - DuplicateTimeRange, EmptyLabel, NoApplicableDay
  4. Lookups             - ShiftNotFound, InvalidDate, InvalidRecurrence

USAGE:
  if errors.Is(err, schedule.ErrDuplicateTimeRange) {
      var dup *schedule.DuplicateTimeError
      errors.As(err, &dup) // dup.Existing names the conflicting template
  }
*/
package schedule

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingTime is returned when a template has no start or end time.
	ErrMissingTime = errors.New("start and end times are required")

	// ErrInvalidTime is returned when a time is not HH:MM on a 24-hour clock.
	ErrInvalidTime = errors.New("time must be HH:MM on a 24-hour clock")

	// ErrNonPositiveDuration is returned when a time range spans no time.
	ErrNonPositiveDuration = errors.New("shift duration must be positive")

	// ErrExcessiveDuration is returned when a time range spans more than a day.
	ErrExcessiveDuration = errors.New("shift duration cannot exceed 24 hours")

	// ErrHoursExceedDuration is returned when normal + overtime hours are
	// larger than the time between start and end.
	ErrHoursExceedDuration = errors.New("normal and overtime hours exceed the shift duration")

	// ErrNegativeHours is returned when any hour quantity is below zero.
	ErrNegativeHours = errors.New("hours cannot be negative")

	// ErrDuplicateTimeRange is returned when another template already uses
	// the same start and end time.
	ErrDuplicateTimeRange = errors.New("a shift with the same start and end time already exists")

	// ErrEmptyLabel is returned when a template label is blank.
	ErrEmptyLabel = errors.New("shift label is required")

	// ErrNoApplicableDay is returned when a template applies to no day at all.
	ErrNoApplicableDay = errors.New("select at least one day the shift applies to")

	// ErrShiftNotFound is returned when a template id does not resolve.
	ErrShiftNotFound = errors.New("shift not found")

	// ErrShiftExists is returned when creating a template with an id in use.
	ErrShiftExists = errors.New("shift id already in use")

	// ErrInvalidDate is returned when a date is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

	// ErrInvalidRecurrence is returned when a recurrence rule or window is malformed.
	ErrInvalidRecurrence = errors.New("invalid recurrence rule")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DuplicateTimeError names the template that already owns a time range.
type DuplicateTimeError struct {
	FromTime string
	ToTime   string
	Existing CustomShift
}

func (e *DuplicateTimeError) Error() string {
	return fmt.Sprintf("%s: %s-%s is used by %q",
		ErrDuplicateTimeRange, e.FromTime, e.ToTime, e.Existing.Label)
}

func (e *DuplicateTimeError) Unwrap() error {
	return ErrDuplicateTimeRange
}

// HoursExceedError reports the hours requested against the span available.
type HoursExceedError struct {
	Hours    decimal.Decimal
	Duration decimal.Decimal
}

func (e *HoursExceedError) Error() string {
	return fmt.Sprintf("%s: %s hours requested, shift lasts %s hours",
		ErrHoursExceedDuration, e.Hours.String(), e.Duration.Round(2).String())
}

func (e *HoursExceedError) Unwrap() error {
	return ErrHoursExceedDuration
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidationError returns true if the error is a rejected template edit.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingTime) ||
		errors.Is(err, ErrInvalidTime) ||
		errors.Is(err, ErrNonPositiveDuration) ||
		errors.Is(err, ErrExcessiveDuration) ||
		errors.Is(err, ErrHoursExceedDuration) ||
		errors.Is(err, ErrNegativeHours) ||
		errors.Is(err, ErrDuplicateTimeRange) ||
		errors.Is(err, ErrEmptyLabel) ||
		errors.Is(err, ErrNoApplicableDay) ||
		errors.Is(err, ErrShiftExists) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidRecurrence)
}

// IsNotFound returns true if the error indicates a missing template.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrShiftNotFound)
}
