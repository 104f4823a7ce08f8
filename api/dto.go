/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Requests carry
  validator tags checked before any domain call; responses add derived
  values (overtime rate, durations, formatted amounts) so clients never
  have to repeat pay arithmetic.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Wrappers around several DTOs

DECIMALS:
  Hours and money are decimal strings ("7.5", "201.92") in both directions.
  Formatted* fields are for display only.

SEE ALSO:
  - handlers.go: Uses these types
  - pay/calc.go: Breakdown and MonthSummary
*/
package api

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-pay/pay"
	"github.com/warp/shift-pay/schedule"
)

// =============================================================================
// REQUESTS
// =============================================================================

// UpdateSettingsRequest changes only the fields that are present.
// HourlyRate sets a manual rate; UseDerivedRate drops it again.
type UpdateSettingsRequest struct {
	BasicSalary        *int64           `json:"basicSalary" validate:"omitempty,min=0"`
	Formula            *string          `json:"formula" validate:"omitempty,max=100"`
	HourlyRate         *decimal.Decimal `json:"hourlyRate"`
	UseDerivedRate     bool             `json:"useDerivedRate"`
	OvertimeMultiplier *decimal.Decimal `json:"overtimeMultiplier"`
	Currency           *string          `json:"currency" validate:"omitempty,max=8"`
}

// ShiftRequest creates or updates a template. Missing applicableDays means
// every weekday; missing enabled means enabled.
type ShiftRequest struct {
	ID                     string                   `json:"id" validate:"omitempty,max=64,printascii"`
	Label                  string                   `json:"label" validate:"max=80"`
	FromTime               string                   `json:"fromTime" validate:"omitempty,clock"`
	ToTime                 string                   `json:"toTime" validate:"omitempty,clock"`
	NormalHours            decimal.Decimal          `json:"normalHours"`
	OvertimeHours          decimal.Decimal          `json:"overtimeHours"`
	NormalAllowanceHours   decimal.Decimal          `json:"normalAllowanceHours"`
	OvertimeAllowanceHours decimal.Decimal          `json:"overtimeAllowanceHours"`
	ApplicableDays         *schedule.ApplicableDays `json:"applicableDays"`
	Enabled                *bool                    `json:"enabled"`
}

func (r ShiftRequest) toShift(id schedule.ShiftID) schedule.CustomShift {
	s := schedule.CustomShift{
		ID:                     id,
		Label:                  r.Label,
		FromTime:               r.FromTime,
		ToTime:                 r.ToTime,
		NormalHours:            r.NormalHours,
		OvertimeHours:          r.OvertimeHours,
		NormalAllowanceHours:   r.NormalAllowanceHours,
		OvertimeAllowanceHours: r.OvertimeAllowanceHours,
		ApplicableDays:         schedule.EveryWeekday(),
		Enabled:                true,
	}
	if r.ApplicableDays != nil {
		s.ApplicableDays = *r.ApplicableDays
	}
	if r.Enabled != nil {
		s.Enabled = *r.Enabled
	}
	return s
}

type ToggleShiftRequest struct {
	ShiftID string `json:"shiftId" validate:"required,max=64"`
}

// RecurringRequest assigns a shift on every date an RRULE yields in
// [from, to].
type RecurringRequest struct {
	ShiftID string `json:"shiftId" validate:"required,max=64"`
	Rule    string `json:"rule" validate:"required,max=256"`
	From    string `json:"from" validate:"required,datetime=2006-01-02"`
	To      string `json:"to" validate:"required,datetime=2006-01-02"`
}

type TitleRequest struct {
	Title string `json:"title" validate:"max=120"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenarioId" validate:"required"`
}

// =============================================================================
// RESPONSES
// =============================================================================

type SettingsDTO struct {
	BasicSalary         int64           `json:"basicSalary"`
	HourlyRate          decimal.Decimal `json:"hourlyRate"`
	Formula             string          `json:"formula"`
	ManualRate          bool            `json:"manualRate"`
	OvertimeMultiplier  decimal.Decimal `json:"overtimeMultiplier"`
	OvertimeRate        decimal.Decimal `json:"overtimeRate"`
	Currency            string          `json:"currency"`
	FormattedHourlyRate string          `json:"formattedHourlyRate"`
	FormattedOvertime   string          `json:"formattedOvertimeRate"`
	CustomShifts        []ShiftDTO      `json:"customShifts"`
}

type ShiftDTO struct {
	schedule.CustomShift
	Duration  decimal.Decimal `json:"duration"`
	Overnight bool            `json:"overnight"`
}

// UnmarshalJSON keeps the derived fields, which the embedded template's own
// UnmarshalJSON would otherwise swallow.
func (s *ShiftDTO) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, &s.CustomShift); err != nil {
		return err
	}
	var derived struct {
		Duration  decimal.Decimal `json:"duration"`
		Overnight bool            `json:"overnight"`
	}
	if err := json.Unmarshal(b, &derived); err != nil {
		return err
	}
	s.Duration, s.Overnight = derived.Duration, derived.Overnight
	return nil
}

type BreakdownDTO struct {
	Amount                 decimal.Decimal `json:"amount"`
	FormattedAmount        string          `json:"formattedAmount"`
	NormalHours            decimal.Decimal `json:"normalHours"`
	OvertimeHours          decimal.Decimal `json:"overtimeHours"`
	NormalAllowanceHours   decimal.Decimal `json:"normalAllowanceHours"`
	OvertimeAllowanceHours decimal.Decimal `json:"overtimeAllowanceHours"`
	TotalHours             decimal.Decimal `json:"totalHours"`
	Shifts                 int             `json:"shifts"`
	Dangling               []string        `json:"dangling,omitempty"`
}

type DayDTO struct {
	Date    string       `json:"date"`
	Weekday string       `json:"weekday"`
	Special bool         `json:"special"`
	Shifts  []string     `json:"shifts"`
	Pay     BreakdownDTO `json:"pay"`
}

// MonthDTO is the month view every mutation answers with.
type MonthDTO struct {
	Year                 int          `json:"year"`
	Month                int          `json:"month"`
	Title                string       `json:"title"`
	Currency             string       `json:"currency"`
	Days                 []DayDTO     `json:"days"`
	SpecialDates         []string     `json:"specialDates"`
	Total                BreakdownDTO `json:"total"`
	WorkedDays           int          `json:"workedDays"`
	IsCurrentMonth       bool         `json:"isCurrentMonth"`
	MonthToDate          *string      `json:"monthToDate,omitempty"`
	FormattedMonthToDate string       `json:"formattedMonthToDate,omitempty"`
}

// SummaryDTO is the headline numbers of a month without per-date detail.
type SummaryDTO struct {
	Year                 int     `json:"year"`
	Month                int     `json:"month"`
	Total                string  `json:"total"`
	FormattedTotal       string  `json:"formattedTotal"`
	WorkedDays           int     `json:"workedDays"`
	IsCurrentMonth       bool    `json:"isCurrentMonth"`
	MonthToDate          *string `json:"monthToDate,omitempty"`
	FormattedMonthToDate string  `json:"formattedMonthToDate,omitempty"`
}

// MutationResponse answers every write with the recomputed month.
type MutationResponse struct {
	Settings *SettingsDTO `json:"settings,omitempty"`
	Shift    *ShiftDTO    `json:"shift,omitempty"`
	Changed  *bool        `json:"changed,omitempty"`
	Added    []string     `json:"added,omitempty"`
	Month    MonthDTO     `json:"month"`
}

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type BackupDTO struct {
	File string `json:"file"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code"`
	Details string       `json:"details,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}

type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toSettingsDTO(s pay.Settings) SettingsDTO {
	shifts := make([]ShiftDTO, len(s.CustomShifts))
	for i, cs := range s.CustomShifts {
		shifts[i] = toShiftDTO(cs)
	}
	return SettingsDTO{
		BasicSalary:         s.BasicSalary,
		HourlyRate:          s.HourlyRate,
		Formula:             s.Formula,
		ManualRate:          s.ManualRate,
		OvertimeMultiplier:  s.OvertimeMultiplier,
		OvertimeRate:        s.OvertimeRate().Round(2),
		Currency:            s.Currency,
		FormattedHourlyRate: pay.FormatMoney(s.HourlyRate, s.Currency),
		FormattedOvertime:   pay.FormatMoney(s.OvertimeRate(), s.Currency),
		CustomShifts:        shifts,
	}
}

func toShiftDTO(s schedule.CustomShift) ShiftDTO {
	dur, err := s.Duration()
	if err != nil {
		dur = decimal.Zero
	}
	return ShiftDTO{CustomShift: s, Duration: dur, Overnight: s.IsOvernight()}
}

func toShiftDTOs(shifts []schedule.CustomShift) []ShiftDTO {
	out := make([]ShiftDTO, len(shifts))
	for i, s := range shifts {
		out[i] = toShiftDTO(s)
	}
	return out
}

func toBreakdownDTO(b pay.Breakdown, currency string) BreakdownDTO {
	return BreakdownDTO{
		Amount:                 b.Amount,
		FormattedAmount:        pay.FormatMoney(b.Amount, currency),
		NormalHours:            b.NormalHours,
		OvertimeHours:          b.OvertimeHours,
		NormalAllowanceHours:   b.NormalAllowanceHours,
		OvertimeAllowanceHours: b.OvertimeAllowanceHours,
		TotalHours:             b.TotalHours(),
		Shifts:                 b.Shifts,
		Dangling:               idStrings(b.Dangling),
	}
}

func toMonthDTO(snap pay.Snapshot, year int, month time.Month, today schedule.Date) MonthDTO {
	currency := snap.Settings.Currency
	sum := pay.SummarizeMonth(year, month, snap.Schedule, snap.Settings, snap.SpecialDates)

	days := make([]DayDTO, len(sum.Days))
	for i, d := range sum.Days {
		days[i] = DayDTO{
			Date:    d.Date.String(),
			Weekday: d.Date.Weekday().String(),
			Special: d.Special,
			Shifts:  idStrings(d.Shifts),
			Pay:     toBreakdownDTO(d.Breakdown, currency),
		}
	}

	special := []string{}
	for _, d := range snap.SpecialDates.Dates() {
		if d.InMonth(year, month) {
			special = append(special, d.String())
		}
	}

	dto := MonthDTO{
		Year:           year,
		Month:          int(month),
		Title:          snap.Title,
		Currency:       currency,
		Days:           days,
		SpecialDates:   special,
		Total:          toBreakdownDTO(sum.Total, currency),
		WorkedDays:     sum.WorkedDays,
		IsCurrentMonth: pay.IsCurrentMonth(year, month, today),
	}
	if dto.IsCurrentMonth {
		mtd := pay.MonthToDateTotal(today, snap.Schedule, snap.Settings, snap.SpecialDates)
		s := mtd.StringFixed(2)
		dto.MonthToDate = &s
		dto.FormattedMonthToDate = pay.FormatMoney(mtd, currency)
	}
	return dto
}

func toSummaryDTO(m MonthDTO) SummaryDTO {
	return SummaryDTO{
		Year:                 m.Year,
		Month:                m.Month,
		Total:                m.Total.Amount.StringFixed(2),
		FormattedTotal:       m.Total.FormattedAmount,
		WorkedDays:           m.WorkedDays,
		IsCurrentMonth:       m.IsCurrentMonth,
		MonthToDate:          m.MonthToDate,
		FormattedMonthToDate: m.FormattedMonthToDate,
	}
}

func idStrings(ids []schedule.ShiftID) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
