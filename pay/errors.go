package pay

import (
	"errors"

	"github.com/warp/shift-pay/schedule"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidFormula is returned when a salary formula does not parse or
	// does not evaluate to a finite number.
	ErrInvalidFormula = errors.New("invalid salary formula")

	// ErrInvalidMultiplier is returned when the overtime multiplier is below 1.
	ErrInvalidMultiplier = errors.New("overtime multiplier must be at least 1")

	// ErrNegativeSalary is returned when the basic salary is below zero.
	ErrNegativeSalary = errors.New("basic salary cannot be negative")

	// ErrInvalidRate is returned when an hourly rate would be negative.
	ErrInvalidRate = errors.New("hourly rate cannot be negative")
)

// IsValidationError returns true if the error is a rejected settings or
// template edit.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidFormula) ||
		errors.Is(err, ErrInvalidMultiplier) ||
		errors.Is(err, ErrNegativeSalary) ||
		errors.Is(err, ErrInvalidRate) ||
		schedule.IsValidationError(err)
}
