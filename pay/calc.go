/*
calc.go - Pay calculation over a schedule

PURPOSE:
  Prices the shifts assigned to a date and aggregates dates into month and
  month-to-date totals. Every function is a pure function of its inputs:
  (schedule, settings, special dates, target). Nothing is cached; a month
  holds at most 31 dates of a handful of shifts, so totals are recomputed
  in full whenever anything they depend on changes.

FORMULA (per assigned template):
  normal            x rate
  + overtime        x rate x multiplier
  + normal allow.   x rate
  + overtime allow. x rate x multiplier

  A date's amount is the sum over its templates. Templates do not interact,
  so the amount of [A, B] is the amount of [A] plus the amount of [B].

SPECIAL DAYS:
  The special flag does not change the rate. It only decides which
  templates are offered for the date (see schedule.EligibleShifts).

DANGLING IDS:
  An id with no template contributes zero rather than failing, so a
  calendar keeps rendering when data is inconsistent. Breakdowns list such
  ids in Dangling so callers can warn about them.

SEE ALSO:
  - settings.go: Rates and templates
  - schedule/schedule.go: Date -> template ids
*/
package pay

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-pay/schedule"
)

// =============================================================================
// BREAKDOWN - Amount plus the hours behind it
// =============================================================================

type Breakdown struct {
	Amount                 decimal.Decimal
	NormalHours            decimal.Decimal
	OvertimeHours          decimal.Decimal
	NormalAllowanceHours   decimal.Decimal
	OvertimeAllowanceHours decimal.Decimal
	Shifts                 int
	Dangling               []schedule.ShiftID
}

func (b Breakdown) Add(o Breakdown) Breakdown {
	return Breakdown{
		Amount:                 b.Amount.Add(o.Amount),
		NormalHours:            b.NormalHours.Add(o.NormalHours),
		OvertimeHours:          b.OvertimeHours.Add(o.OvertimeHours),
		NormalAllowanceHours:   b.NormalAllowanceHours.Add(o.NormalAllowanceHours),
		OvertimeAllowanceHours: b.OvertimeAllowanceHours.Add(o.OvertimeAllowanceHours),
		Shifts:                 b.Shifts + o.Shifts,
		Dangling:               append(append([]schedule.ShiftID(nil), b.Dangling...), o.Dangling...),
	}
}

// TotalHours is every paid hour, worked or allowance.
func (b Breakdown) TotalHours() decimal.Decimal {
	return b.NormalHours.Add(b.OvertimeHours).
		Add(b.NormalAllowanceHours).
		Add(b.OvertimeAllowanceHours)
}

// =============================================================================
// PER SHIFT AND PER DATE
// =============================================================================

// ShiftAmount prices one template under the given settings.
func ShiftAmount(shift schedule.CustomShift, settings Settings) decimal.Decimal {
	return shiftBreakdown(shift, settings).Amount
}

func shiftBreakdown(shift schedule.CustomShift, settings Settings) Breakdown {
	rate := settings.HourlyRate
	ot := settings.OvertimeRate()
	amount := shift.NormalHours.Mul(rate).
		Add(shift.OvertimeHours.Mul(ot)).
		Add(shift.NormalAllowanceHours.Mul(rate)).
		Add(shift.OvertimeAllowanceHours.Mul(ot))
	return Breakdown{
		Amount:                 amount,
		NormalHours:            shift.NormalHours,
		OvertimeHours:          shift.OvertimeHours,
		NormalAllowanceHours:   shift.NormalAllowanceHours,
		OvertimeAllowanceHours: shift.OvertimeAllowanceHours,
		Shifts:                 1,
	}
}

// AmountForDate is the pay for every shift assigned to d.
func AmountForDate(d schedule.Date, sched schedule.Schedule, settings Settings, special schedule.SpecialDates) decimal.Decimal {
	return BreakdownForDate(d, sched, settings, special).Amount
}

// BreakdownForDate is AmountForDate with hour totals and dangling ids.
// Special dates are accepted for symmetry with the month functions; they
// do not affect the rate.
func BreakdownForDate(d schedule.Date, sched schedule.Schedule, settings Settings, _ schedule.SpecialDates) Breakdown {
	return breakdownForDate(d, sched, settings, schedule.NewIndex(settings.CustomShifts))
}

func breakdownForDate(d schedule.Date, sched schedule.Schedule, settings Settings, idx schedule.Index) Breakdown {
	total := zeroBreakdown()
	for _, id := range sched.ShiftsOn(d) {
		shift, ok := idx[id]
		if !ok {
			total.Dangling = append(total.Dangling, id)
			continue
		}
		total = total.Add(shiftBreakdown(shift, settings))
	}
	return total
}

func zeroBreakdown() Breakdown {
	return Breakdown{
		Amount:                 decimal.Zero,
		NormalHours:            decimal.Zero,
		OvertimeHours:          decimal.Zero,
		NormalAllowanceHours:   decimal.Zero,
		OvertimeAllowanceHours: decimal.Zero,
	}
}

// =============================================================================
// MONTH AGGREGATES
// =============================================================================

// DayAmount is one scheduled date of a month summary.
type DayAmount struct {
	Date      schedule.Date
	Special   bool
	Shifts    []schedule.ShiftID
	Breakdown Breakdown
}

// MonthSummary is every scheduled date of a month with its totals.
type MonthSummary struct {
	Year       int
	Month      time.Month
	Days       []DayAmount
	Total      Breakdown
	WorkedDays int
}

// MonthTotal sums AmountForDate over every scheduled date in the month.
func MonthTotal(year int, month time.Month, sched schedule.Schedule, settings Settings, special schedule.SpecialDates) decimal.Decimal {
	return SummarizeMonth(year, month, sched, settings, special).Total.Amount
}

// MonthToDateTotal sums the dates of today's month up to and including
// today. Callers showing another month should not ask for it; see
// IsCurrentMonth.
func MonthToDateTotal(today schedule.Date, sched schedule.Schedule, settings Settings, special schedule.SpecialDates) decimal.Decimal {
	return summarize(today.Year, today.Month, &today, sched, settings, special).Total.Amount
}

// IsCurrentMonth reports whether year/month is the month containing today.
func IsCurrentMonth(year int, month time.Month, today schedule.Date) bool {
	return today.InMonth(year, month)
}

// SummarizeMonth prices every scheduled date of a month, in date order.
func SummarizeMonth(year int, month time.Month, sched schedule.Schedule, settings Settings, special schedule.SpecialDates) MonthSummary {
	return summarize(year, month, nil, sched, settings, special)
}

func summarize(year int, month time.Month, until *schedule.Date, sched schedule.Schedule, settings Settings, special schedule.SpecialDates) MonthSummary {
	idx := schedule.NewIndex(settings.CustomShifts)
	sum := MonthSummary{Year: year, Month: month, Total: zeroBreakdown()}
	for _, d := range sched.DatesIn(year, month) {
		if until != nil && d.After(*until) {
			continue
		}
		b := breakdownForDate(d, sched, settings, idx)
		sum.Days = append(sum.Days, DayAmount{
			Date:      d,
			Special:   special.IsSpecial(d),
			Shifts:    idx.SortByStart(sched.ShiftsOn(d)),
			Breakdown: b,
		})
		sum.Total = sum.Total.Add(b)
		if b.Shifts > 0 {
			sum.WorkedDays++
		}
	}
	return sum
}

// DanglingShiftIDs lists ids referenced by the schedule that no template
// resolves, each once, in date order of first appearance.
func DanglingShiftIDs(sched schedule.Schedule, settings Settings) []schedule.ShiftID {
	idx := schedule.NewIndex(settings.CustomShifts)
	seen := make(map[schedule.ShiftID]bool)
	var out []schedule.ShiftID
	for _, d := range sched.Dates() {
		for _, id := range sched.ShiftsOn(d) {
			if _, ok := idx[id]; !ok && !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}
