/*
settings.go - Pay settings and shift template management

PURPOSE:
  Settings is the one configuration value every calculation needs. It is
  passed explicitly to each call and replaced, never mutated: every setter
  returns a new Settings (and an error when the edit is rejected, in which
  case the receiver is still the current state).

HOURLY RATE:
  HourlyRate is always the effective rate. It is derived from BasicSalary
  through Formula, unless ManualRate is set, in which case the user typed
  the rate directly and salary or formula edits leave it alone.

TEMPLATES:
  CustomShifts is the shift definition store. Create, update and delete go
  through the methods below so that validation runs before any change and
  deletion prunes the schedule in the same step.

SEE ALSO:
  - formula.go: Formula evaluation
  - calc.go: Uses Settings to price schedules
  - schedule/validate.go: Template rules
*/
package pay

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-pay/schedule"
)

const DefaultCurrency = "£"

var (
	DefaultOvertimeMultiplier = decimal.RequireFromString("1.5")
	one                       = decimal.NewFromInt(1)
)

type Settings struct {
	BasicSalary        int64                  `json:"basicSalary"`
	HourlyRate         decimal.Decimal        `json:"hourlyRate"`
	Formula            string                 `json:"formula,omitempty"`
	ManualRate         bool                   `json:"manualRate,omitempty"`
	OvertimeMultiplier decimal.Decimal        `json:"overtimeMultiplier"`
	Currency           string                 `json:"currency"`
	CustomShifts       []schedule.CustomShift `json:"customShifts"`
}

// DefaultSettings is what a fresh install starts with.
func DefaultSettings() Settings {
	return Settings{
		HourlyRate:         decimal.Zero,
		Formula:            DefaultFormula,
		OvertimeMultiplier: DefaultOvertimeMultiplier,
		Currency:           DefaultCurrency,
		CustomShifts:       []schedule.CustomShift{},
	}
}

// Normalize fills fields a stored or imported document may lack.
func (s Settings) Normalize() Settings {
	s = s.clone()
	if s.OvertimeMultiplier.LessThan(one) {
		s.OvertimeMultiplier = DefaultOvertimeMultiplier
	}
	if strings.TrimSpace(s.Currency) == "" {
		s.Currency = DefaultCurrency
	}
	if s.BasicSalary < 0 {
		s.BasicSalary = 0
	}
	if s.HourlyRate.IsNegative() {
		s.HourlyRate = decimal.Zero
	}
	if s.Formula != "" && ValidateFormula(s.Formula) != nil {
		s.Formula = DefaultFormula
	}
	if s.CustomShifts == nil {
		s.CustomShifts = []schedule.CustomShift{}
	}
	return s
}

// OvertimeRate is HourlyRate x OvertimeMultiplier, unrounded.
func (s Settings) OvertimeRate() decimal.Decimal {
	return s.HourlyRate.Mul(s.OvertimeMultiplier)
}

func (s Settings) clone() Settings {
	shifts := make([]schedule.CustomShift, len(s.CustomShifts))
	copy(shifts, s.CustomShifts)
	s.CustomShifts = shifts
	return s
}

// =============================================================================
// RATE SETTERS
// =============================================================================

// WithBasicSalary sets the salary and re-derives the rate unless it is manual.
func (s Settings) WithBasicSalary(salary int64) (Settings, error) {
	if salary < 0 {
		return s, ErrNegativeSalary
	}
	next := s.clone()
	next.BasicSalary = salary
	return next.rederive()
}

// WithFormula validates the formula against a probe salary, then applies
// it to the real one unless the rate is manual.
func (s Settings) WithFormula(formula string) (Settings, error) {
	formula = strings.TrimSpace(formula)
	if formula != "" {
		if err := ValidateFormula(formula); err != nil {
			return s, err
		}
	}
	next := s.clone()
	next.Formula = formula
	return next.rederive()
}

// WithManualHourlyRate overrides the derived rate.
func (s Settings) WithManualHourlyRate(rate decimal.Decimal) (Settings, error) {
	if rate.IsNegative() {
		return s, ErrInvalidRate
	}
	next := s.clone()
	next.ManualRate = true
	next.HourlyRate = rate.Round(2)
	return next, nil
}

// WithDerivedRate drops a manual override and derives the rate again.
func (s Settings) WithDerivedRate() (Settings, error) {
	next := s.clone()
	next.ManualRate = false
	return next.rederive()
}

// WithOvertimeMultiplier sets the overtime multiplier (at least 1).
func (s Settings) WithOvertimeMultiplier(m decimal.Decimal) (Settings, error) {
	if m.LessThan(one) {
		return s, fmt.Errorf("%w: got %s", ErrInvalidMultiplier, m)
	}
	next := s.clone()
	next.OvertimeMultiplier = m
	return next, nil
}

// WithCurrency sets the display currency; blank falls back to the default.
func (s Settings) WithCurrency(currency string) Settings {
	next := s.clone()
	next.Currency = strings.TrimSpace(currency)
	if next.Currency == "" {
		next.Currency = DefaultCurrency
	}
	return next
}

func (s Settings) rederive() (Settings, error) {
	if s.ManualRate {
		return s, nil
	}
	rate, err := RateFromFormula(s.Formula, s.BasicSalary)
	if err != nil {
		return s, err
	}
	if rate.IsNegative() {
		return s, fmt.Errorf("%w: formula gives %s", ErrInvalidRate, rate)
	}
	s.HourlyRate = rate
	return s, nil
}

// =============================================================================
// SHIFT DEFINITION STORE
// =============================================================================

// Shift looks up a template by id.
func (s Settings) Shift(id schedule.ShiftID) (schedule.CustomShift, bool) {
	for _, c := range s.CustomShifts {
		if c.ID == id {
			return c, true
		}
	}
	return schedule.CustomShift{}, false
}

// WithShiftCreated validates and appends a template. A blank id is replaced
// with a fresh one; new templates are always enabled.
func (s Settings) WithShiftCreated(shift schedule.CustomShift) (Settings, schedule.CustomShift, error) {
	shift = cleanShift(shift)
	if shift.ID == "" {
		shift.ID = schedule.NewShiftID()
	} else if _, exists := s.Shift(shift.ID); exists {
		return s, schedule.CustomShift{}, fmt.Errorf("%w: %s", schedule.ErrShiftExists, shift.ID)
	}
	shift.Enabled = true
	if err := schedule.ValidateShift(shift, s.CustomShifts); err != nil {
		return s, schedule.CustomShift{}, err
	}
	next := s.clone()
	next.CustomShifts = append(next.CustomShifts, shift)
	return next, shift, nil
}

// WithShiftUpdated validates and replaces the template with the same id.
// The template's own time range does not count as a duplicate.
func (s Settings) WithShiftUpdated(shift schedule.CustomShift) (Settings, error) {
	shift = cleanShift(shift)
	pos := s.indexOf(shift.ID)
	if pos < 0 {
		return s, fmt.Errorf("%w: %s", schedule.ErrShiftNotFound, shift.ID)
	}
	if err := schedule.ValidateShift(shift, s.CustomShifts); err != nil {
		return s, err
	}
	next := s.clone()
	next.CustomShifts[pos] = shift
	return next, nil
}

// DeleteShift removes a template and every schedule reference to it.
func DeleteShift(s Settings, sched schedule.Schedule, id schedule.ShiftID) (Settings, schedule.Schedule, error) {
	pos := s.indexOf(id)
	if pos < 0 {
		return s, sched, fmt.Errorf("%w: %s", schedule.ErrShiftNotFound, id)
	}
	next := s.clone()
	next.CustomShifts = append(next.CustomShifts[:pos], next.CustomShifts[pos+1:]...)
	return next, sched.WithoutShift(id), nil
}

func (s Settings) indexOf(id schedule.ShiftID) int {
	for i, c := range s.CustomShifts {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func cleanShift(shift schedule.CustomShift) schedule.CustomShift {
	shift.ID = schedule.ShiftID(strings.TrimSpace(string(shift.ID)))
	shift.Label = strings.TrimSpace(shift.Label)
	shift.FromTime = strings.TrimSpace(shift.FromTime)
	shift.ToTime = strings.TrimSpace(shift.ToTime)
	return shift
}
