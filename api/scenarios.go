/*
scenarios.go - Ready-made rotas for demos and manual testing

PURPOSE:

	Provides pre-built scenarios that replace the stored state with a
	realistic rota for the current month. Each scenario creates settings,
	shift templates (through the same validation as the API), and fills
	the schedule with recurrence rules.

AVAILABLE SCENARIOS:

	standard-rota:  9-4, 12-10 and 4-10 templates, weekday cover
	night-worker:   overnight template with allowance hours
	weekend-cover:  weekend and special-day only templates, double time

HOW SCENARIOS WORK:
 1. Reset the store
 2. Build settings with validated templates
 3. Fill the current month from RRULEs
 4. Save the snapshot in one step

USAGE VIA API:

	POST /api/scenarios/load
	{"scenarioId": "standard-rota"}

NOTE:

	Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: ResetDatabase
  - schedule/recur.go: RRULE expansion
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-pay/pay"
	"github.com/warp/shift-pay/schedule"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenario struct {
	ScenarioDTO
	build func(today schedule.Date) (pay.Snapshot, error)
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "standard-rota",
			Name:        "Standard Rota",
			Description: "Day, long day and late templates with weekday cover",
		},
		build: buildStandardRota,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "night-worker",
			Name:        "Night Worker",
			Description: "Overnight shifts on Fridays and Saturdays with allowance hours",
		},
		build: buildNightWorker,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "weekend-cover",
			Name:        "Weekend Cover",
			Description: "Weekend and special-day templates at double time",
		},
		build: buildWeekendCover,
	},
}

func findScenario(id string) (scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return scenario{}, false
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	out := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		out[i] = s.ScenarioDTO
	}
	writeJSON(w, http.StatusOK, out)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	s, ok := findScenario(current)
	if !ok {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, s.ScenarioDTO)
}

// LoadScenario resets the store and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := h.readJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	sc, ok := findScenario(req.ScenarioID)
	if !ok {
		h.writeError(w, r, fmt.Errorf("%w: %s", errScenarioNotFound, req.ScenarioID))
		return
	}

	today := h.today()
	snap, err := h.loadScenario(r.Context(), sc, today)
	if err != nil {
		h.writeError(w, r, fmt.Errorf("load scenario %s: %w", sc.ID, err))
		return
	}

	h.Logger.Info().Str("scenario", sc.ID).Int("dates", snap.Schedule.Len()).Msg("scenario loaded")
	writeJSON(w, http.StatusOK, MutationResponse{Month: toMonthDTO(snap, today.Year, today.Month, today)})
}

func (h *Handler) loadScenario(ctx context.Context, sc scenario, today schedule.Date) (pay.Snapshot, error) {
	snap, err := sc.build(today)
	if err != nil {
		return pay.Snapshot{}, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.resetLocked(ctx); err != nil {
		return pay.Snapshot{}, err
	}
	if err := pay.SaveSnapshot(ctx, h.Store, snap); err != nil {
		return pay.Snapshot{}, err
	}
	h.currentScenario = sc.ID
	return snap, nil
}

// =============================================================================
// SCENARIO BUILDERS
// =============================================================================

// rota accumulates a scenario snapshot, stopping at the first error.
type rota struct {
	snap  pay.Snapshot
	first schedule.Date
	last  schedule.Date
	err   error
}

func newRota(today schedule.Date, salary int64, title string) *rota {
	r := &rota{
		snap: pay.Snapshot{
			Settings: pay.DefaultSettings(),
			Title:    title,
		},
		first: schedule.NewDate(today.Year, today.Month, 1),
		last:  schedule.NewDate(today.Year, today.Month, schedule.DaysInMonth(today.Year, today.Month)),
	}
	r.snap.Settings, r.err = r.snap.Settings.WithBasicSalary(salary)
	return r
}

func (r *rota) multiplier(m string) {
	if r.err != nil {
		return
	}
	r.snap.Settings, r.err = r.snap.Settings.WithOvertimeMultiplier(decimal.RequireFromString(m))
}

func (r *rota) template(s schedule.CustomShift) {
	if r.err != nil {
		return
	}
	r.snap.Settings, _, r.err = r.snap.Settings.WithShiftCreated(s)
}

func (r *rota) recur(id schedule.ShiftID, rule string) {
	if r.err != nil {
		return
	}
	r.snap.Schedule, _, r.err = r.snap.Schedule.WithRecurringShift(id, rule, r.first, r.last)
}

func (r *rota) special(d schedule.Date, id schedule.ShiftID) {
	if r.err != nil {
		return
	}
	r.snap.SpecialDates = r.snap.SpecialDates.WithSpecial(d, true)
	r.snap.Schedule, _ = r.snap.Schedule.WithShiftAdded(d, id)
}

func (r *rota) result() (pay.Snapshot, error) {
	return r.snap, r.err
}

func hoursTemplate(id, label, from, to, normal, overtime string, days schedule.ApplicableDays) schedule.CustomShift {
	return schedule.CustomShift{
		ID:             schedule.ShiftID(id),
		Label:          label,
		FromTime:       from,
		ToTime:         to,
		NormalHours:    decimal.RequireFromString(normal),
		OvertimeHours:  decimal.RequireFromString(overtime),
		ApplicableDays: days,
		Enabled:        true,
	}
}

func buildStandardRota(today schedule.Date) (pay.Snapshot, error) {
	r := newRota(today, 30000, "Standard rota")
	r.template(hoursTemplate("9-4", "Day", "09:00", "16:00", "7", "0", schedule.EveryWeekday()))
	r.template(hoursTemplate("12-10", "Long day", "12:00", "22:00", "8", "2", schedule.EveryWeekday()))
	r.template(hoursTemplate("4-10", "Late", "16:00", "22:00", "6", "0", schedule.EveryWeekday()))

	// The first five weekdays get a day shift, the first Wednesday a late as well
	r.recur("9-4", "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR;COUNT=5")
	r.recur("4-10", "FREQ=MONTHLY;BYDAY=+1WE")
	// Long days on Saturdays
	r.recur("12-10", "FREQ=WEEKLY;BYDAY=SA")
	return r.result()
}

func buildNightWorker(today schedule.Date) (pay.Snapshot, error) {
	r := newRota(today, 32000, "Nights")
	night := hoursTemplate("night", "Night", "22:00", "07:00", "8", "1", schedule.ApplicableDays{
		Friday: true, Saturday: true, Sunday: true, SpecialDay: true,
	})
	night.NormalAllowanceHours = decimal.RequireFromString("0.5")
	night.OvertimeAllowanceHours = decimal.RequireFromString("0.5")
	r.template(night)
	r.recur("night", "FREQ=WEEKLY;BYDAY=FR,SA")
	return r.result()
}

func buildWeekendCover(today schedule.Date) (pay.Snapshot, error) {
	r := newRota(today, 28000, "Weekend cover")
	r.multiplier("2")
	r.template(hoursTemplate("weekend", "Weekend", "08:00", "20:00", "8", "4", schedule.ApplicableDays{
		Saturday: true, Sunday: true, SpecialDay: true,
	}))
	r.template(hoursTemplate("bank-holiday", "Bank holiday", "10:00", "18:00", "8", "0", schedule.ApplicableDays{
		SpecialDay: true,
	}))
	r.recur("weekend", "FREQ=WEEKLY;BYDAY=SA,SU")
	r.special(r.last, "bank-holiday")
	return r.result()
}
