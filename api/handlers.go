/*
handlers.go - HTTP API handlers for the shift pay engine

PURPOSE:
  Exposes the pure schedule and pay operations via REST API. Handles HTTP
  request/response, JSON serialization and validation, and delegates to the
  domain packages. Handlers hold no state between requests except the
  store; every answer is recomputed from the current snapshot.

ENDPOINTS:
  Settings:
    GET    /api/settings                        Settings with derived rates
    PUT    /api/settings                        Partial update

  Shift templates:
    GET    /api/shifts                          List templates
    POST   /api/shifts                          Create template
    PUT    /api/shifts/{id}                     Update template
    DELETE /api/shifts/{id}                     Delete template and prune schedule
    GET    /api/shifts/eligible?date=           Templates offered for a date

  Schedule:
    GET    /api/schedule?year=&month=           Month view
    POST   /api/schedule/{date}/toggle          Toggle a shift on a date
    DELETE /api/schedule/{date}                 Clear a date
    DELETE /api/schedule/months/{year}/{month}  Clear a month
    POST   /api/schedule/recurring              Fill a shift over an RRULE
    POST   /api/special-dates/{date}/toggle     Toggle the special flag
    PUT    /api/title                           Rename the schedule

  Totals:
    GET    /api/summary?year=&month=            Month total and month-to-date

  Data:
    GET    /api/export                          Download export document
    POST   /api/import                          Replace state from a document
    POST   /api/backups                         Write an automatic backup now
    POST   /api/reset                           Clear everything

WRITES:
  Every write loads the snapshot, applies one pure operation, saves the
  result and answers with the recomputed month it touched. Writes are
  serialized by a mutex so two requests never interleave load and save.
  Month-less writes (settings, templates) report the month named by
  ?year=&month=, or the current month.

ERROR HANDLING:
  Errors are returned as JSON {error, code} with HTTP status:
  - 400: Validation errors, invalid input
  - 404: Unknown template, scenario, or disabled feature
  - 409: Template id already in use
  - 500: Internal errors (logged)

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Rota scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/warp/shift-pay/backup"
	"github.com/warp/shift-pay/pay"
	"github.com/warp/shift-pay/schedule"
)

var (
	errInvalidBody      = errors.New("invalid request body")
	errInvalidMonth     = errors.New("year and month must be a valid calendar month")
	errScenarioNotFound = errors.New("scenario not found")
	errBackupsDisabled  = errors.New("automatic backups are not configured")
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store pay.Store

	// Backups is nil when no backup directory is configured.
	Backups *backup.Scheduler

	Logger zerolog.Logger
	Now    func() time.Time

	validate *validator.Validate
	mu       sync.Mutex

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store pay.Store) *Handler {
	return &Handler{
		Store:    store,
		Logger:   log.Logger,
		Now:      time.Now,
		validate: newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := schedule.ParseClock(fl.Field().String())
		return err == nil
	})
	return v
}

func (h *Handler) today() schedule.Date {
	return schedule.DateOf(h.Now())
}

func (h *Handler) snapshot(ctx context.Context) (pay.Snapshot, error) {
	return pay.LoadSnapshot(ctx, h.Store)
}

// mutate runs one load-change-save cycle. A rejected change saves nothing.
func (h *Handler) mutate(ctx context.Context, change func(pay.Snapshot) (pay.Snapshot, error)) (pay.Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	snap, err := h.snapshot(ctx)
	if err != nil {
		return pay.Snapshot{}, err
	}
	next, err := change(snap)
	if err != nil {
		return snap, err
	}
	if err := pay.SaveSnapshot(ctx, h.Store, next); err != nil {
		return snap, err
	}
	return next, nil
}

// =============================================================================
// SETTINGS
// =============================================================================

// GetSettings returns settings with derived rates.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshot(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(snap.Settings))
}

// UpdateSettings applies the present fields in a fixed order: currency,
// multiplier, salary, formula, then the manual rate or its removal.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := h.readJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	year, month, err := h.monthQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	snap, err := h.mutate(r.Context(), func(snap pay.Snapshot) (pay.Snapshot, error) {
		s := snap.Settings
		var err error
		if req.Currency != nil {
			s = s.WithCurrency(*req.Currency)
		}
		if req.OvertimeMultiplier != nil {
			if s, err = s.WithOvertimeMultiplier(*req.OvertimeMultiplier); err != nil {
				return snap, err
			}
		}
		if req.BasicSalary != nil {
			if s, err = s.WithBasicSalary(*req.BasicSalary); err != nil {
				return snap, err
			}
		}
		if req.Formula != nil {
			if s, err = s.WithFormula(*req.Formula); err != nil {
				return snap, err
			}
		}
		switch {
		case req.HourlyRate != nil:
			if s, err = s.WithManualHourlyRate(*req.HourlyRate); err != nil {
				return snap, err
			}
		case req.UseDerivedRate:
			if s, err = s.WithDerivedRate(); err != nil {
				return snap, err
			}
		}
		snap.Settings = s
		return snap, nil
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	settings := toSettingsDTO(snap.Settings)
	writeJSON(w, http.StatusOK, MutationResponse{
		Settings: &settings,
		Month:    toMonthDTO(snap, year, month, h.today()),
	})
}

// =============================================================================
// SHIFT TEMPLATES
// =============================================================================

// ListShifts returns all templates in creation order.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshot(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTOs(snap.Settings.CustomShifts))
}

// CreateShift validates and stores a new template.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req ShiftRequest
	if err := h.readJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	year, month, err := h.monthQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var created schedule.CustomShift
	snap, err := h.mutate(r.Context(), func(snap pay.Snapshot) (pay.Snapshot, error) {
		next, shift, err := snap.Settings.WithShiftCreated(req.toShift(schedule.ShiftID(req.ID)))
		if err != nil {
			return snap, err
		}
		created = shift
		snap.Settings = next
		return snap, nil
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	dto := toShiftDTO(created)
	writeJSON(w, http.StatusCreated, MutationResponse{
		Shift: &dto,
		Month: toMonthDTO(snap, year, month, h.today()),
	})
}

// UpdateShift replaces a template. Omitted applicableDays and enabled keep
// their current values.
func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	id := schedule.ShiftID(chi.URLParam(r, "id"))

	var req ShiftRequest
	if err := h.readJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	year, month, err := h.monthQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var updated schedule.CustomShift
	snap, err := h.mutate(r.Context(), func(snap pay.Snapshot) (pay.Snapshot, error) {
		existing, ok := snap.Settings.Shift(id)
		if !ok {
			return snap, fmt.Errorf("%w: %s", schedule.ErrShiftNotFound, id)
		}
		shift := req.toShift(id)
		if req.ApplicableDays == nil {
			shift.ApplicableDays = existing.ApplicableDays
		}
		if req.Enabled == nil {
			shift.Enabled = existing.Enabled
		}
		next, err := snap.Settings.WithShiftUpdated(shift)
		if err != nil {
			return snap, err
		}
		updated, _ = next.Shift(id)
		snap.Settings = next
		return snap, nil
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	dto := toShiftDTO(updated)
	writeJSON(w, http.StatusOK, MutationResponse{
		Shift: &dto,
		Month: toMonthDTO(snap, year, month, h.today()),
	})
}

// DeleteShift removes a template and every schedule reference to it.
func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	id := schedule.ShiftID(chi.URLParam(r, "id"))
	year, month, err := h.monthQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	snap, err := h.mutate(r.Context(), func(snap pay.Snapshot) (pay.Snapshot, error) {
		settings, sched, err := pay.DeleteShift(snap.Settings, snap.Schedule, id)
		if err != nil {
			return snap, err
		}
		snap.Settings, snap.Schedule = settings, sched
		return snap, nil
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MutationResponse{Month: toMonthDTO(snap, year, month, h.today())})
}

// EligibleShifts returns the enabled templates offered for a date.
func (h *Handler) EligibleShifts(w http.ResponseWriter, r *http.Request) {
	d, err := schedule.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	snap, err := h.snapshot(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	eligible := schedule.EligibleShifts(d, snap.SpecialDates.IsSpecial(d), snap.Settings.CustomShifts)
	writeJSON(w, http.StatusOK, toShiftDTOs(eligible))
}

// =============================================================================
// SCHEDULE
// =============================================================================

// GetSchedule returns the month view.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	year, month, err := h.monthQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	snap, err := h.snapshot(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthDTO(snap, year, month, h.today()))
}

// ToggleShift removes the shift from the date when present, otherwise adds
// it unless a compatibility rule blocks it. Adding an id with no template
// is rejected; removing one is allowed so stale data can be cleaned up.
func (h *Handler) ToggleShift(w http.ResponseWriter, r *http.Request) {
	d, err := schedule.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req ToggleShiftRequest
	if err := h.readJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	id := schedule.ShiftID(req.ShiftID)

	var changed bool
	snap, err := h.mutate(r.Context(), func(snap pay.Snapshot) (pay.Snapshot, error) {
		if _, ok := snap.Settings.Shift(id); !ok && !snap.Schedule.Has(d, id) {
			return snap, fmt.Errorf("%w: %s", schedule.ErrShiftNotFound, id)
		}
		snap.Schedule, changed = snap.Schedule.WithShiftToggled(d, id)
		return snap, nil
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MutationResponse{
		Changed: &changed,
		Month:   toMonthDTO(snap, d.Year, d.Month, h.today()),
	})
}

// ClearDate removes every shift from a date; ?special=true also drops its
// special flag.
func (h *Handler) ClearDate(w http.ResponseWriter, r *http.Request) {
	d, err := schedule.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	withSpecial := queryBool(r, "special")

	snap, err := h.mutate(r.Context(), func(snap pay.Snapshot) (pay.Snapshot, error) {
		snap.Schedule = snap.Schedule.WithDateCleared(d)
		if withSpecial {
			snap.SpecialDates = snap.SpecialDates.WithSpecial(d, false)
		}
		return snap, nil
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MutationResponse{Month: toMonthDTO(snap, d.Year, d.Month, h.today())})
}

// ClearMonth removes every shift in a month; ?special=true also clears the
// month's special flags.
func (h *Handler) ClearMonth(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseMonth(chi.URLParam(r, "year"), chi.URLParam(r, "month"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	withSpecial := queryBool(r, "special")

	snap, err := h.mutate(r.Context(), func(snap pay.Snapshot) (pay.Snapshot, error) {
		snap.Schedule = snap.Schedule.WithMonthCleared(year, month)
		if withSpecial {
			snap.SpecialDates = snap.SpecialDates.WithMonthCleared(year, month)
		}
		return snap, nil
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MutationResponse{Month: toMonthDTO(snap, year, month, h.today())})
}

// FillRecurring assigns a template on every date of an RRULE window.
func (h *Handler) FillRecurring(w http.ResponseWriter, r *http.Request) {
	var req RecurringRequest
	if err := h.readJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	from, err := schedule.ParseDate(req.From)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	to, err := schedule.ParseDate(req.To)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id := schedule.ShiftID(req.ShiftID)

	var added []schedule.Date
	snap, err := h.mutate(r.Context(), func(snap pay.Snapshot) (pay.Snapshot, error) {
		if _, ok := snap.Settings.Shift(id); !ok {
			return snap, fmt.Errorf("%w: %s", schedule.ErrShiftNotFound, id)
		}
		next, dates, err := snap.Schedule.WithRecurringShift(id, req.Rule, from, to)
		if err != nil {
			return snap, err
		}
		snap.Schedule, added = next, dates
		return snap, nil
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]string, len(added))
	for i, d := range added {
		out[i] = d.String()
	}
	writeJSON(w, http.StatusOK, MutationResponse{
		Added: out,
		Month: toMonthDTO(snap, from.Year, from.Month, h.today()),
	})
}

// ToggleSpecialDate flips the special flag of a date.
func (h *Handler) ToggleSpecialDate(w http.ResponseWriter, r *http.Request) {
	d, err := schedule.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	snap, err := h.mutate(r.Context(), func(snap pay.Snapshot) (pay.Snapshot, error) {
		snap.SpecialDates = snap.SpecialDates.WithToggled(d)
		return snap, nil
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MutationResponse{Month: toMonthDTO(snap, d.Year, d.Month, h.today())})
}

// SetTitle renames the schedule.
func (h *Handler) SetTitle(w http.ResponseWriter, r *http.Request) {
	var req TitleRequest
	if err := h.readJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	year, month, err := h.monthQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	snap, err := h.mutate(r.Context(), func(snap pay.Snapshot) (pay.Snapshot, error) {
		snap.Title = strings.TrimSpace(req.Title)
		return snap, nil
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MutationResponse{Month: toMonthDTO(snap, year, month, h.today())})
}

// =============================================================================
// TOTALS
// =============================================================================

// GetSummary returns the month total, plus month-to-date for the current
// month only.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	year, month, err := h.monthQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	snap, err := h.snapshot(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(toMonthDTO(snap, year, month, h.today())))
}

// =============================================================================
// EXPORT / IMPORT / ADMIN
// =============================================================================

// Export downloads the current state as an export document.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshot(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	now := h.Now()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="shiftpay-export-%s.json"`, now.Format("2006-01-02")))
	w.WriteHeader(http.StatusOK)
	if err := backup.Encode(w, backup.Export(snap, now)); err != nil {
		h.Logger.Error().Err(err).Msg("export encode failed")
	}
}

// Import replaces all state with the posted export document.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	imported, doc, err := backup.ReadSnapshot(r.Body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	snap, err := h.mutate(r.Context(), func(pay.Snapshot) (pay.Snapshot, error) {
		return imported, nil
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.Logger.Info().
		Str("version", doc.Version).
		Int("dates", snap.Schedule.Len()).
		Int("templates", len(snap.Settings.CustomShifts)).
		Msg("import applied")

	today := h.today()
	writeJSON(w, http.StatusOK, MutationResponse{Month: toMonthDTO(snap, today.Year, today.Month, today)})
}

// RunBackup writes an automatic backup immediately.
func (h *Handler) RunBackup(w http.ResponseWriter, r *http.Request) {
	if h.Backups == nil {
		h.writeError(w, r, errBackupsDisabled)
		return
	}
	path, err := h.Backups.RunNow(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, BackupDTO{File: filepath.Base(path)})
}

// resetter is implemented by stores that can drop all data in one step.
type resetter interface {
	Reset(ctx context.Context) error
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	snap, err := h.reset(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	today := h.today()
	writeJSON(w, http.StatusOK, MutationResponse{Month: toMonthDTO(snap, today.Year, today.Month, today)})
}

func (h *Handler) reset(ctx context.Context) (pay.Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.resetLocked(ctx)
}

func (h *Handler) resetLocked(ctx context.Context) (pay.Snapshot, error) {
	h.currentScenario = ""
	if rs, ok := h.Store.(resetter); ok {
		if err := rs.Reset(ctx); err != nil {
			return pay.Snapshot{}, err
		}
		return h.snapshot(ctx)
	}
	empty := pay.Snapshot{Settings: pay.DefaultSettings()}
	if err := pay.SaveSnapshot(ctx, h.Store, empty); err != nil {
		return pay.Snapshot{}, err
	}
	return empty, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) readJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return h.validate.Struct(v)
}

// monthQuery reads ?year=&month=, defaulting to the current month.
func (h *Handler) monthQuery(r *http.Request) (int, time.Month, error) {
	q := r.URL.Query()
	y, m := q.Get("year"), q.Get("month")
	if y == "" && m == "" {
		today := h.today()
		return today.Year, today.Month, nil
	}
	return parseMonth(y, m)
}

func parseMonth(y, m string) (int, time.Month, error) {
	year, err := strconv.Atoi(y)
	if err != nil || year < 1 || year > 9999 {
		return 0, 0, fmt.Errorf("%w: year %q", errInvalidMonth, y)
	}
	month, err := strconv.Atoi(m)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: month %q", errInvalidMonth, m)
	}
	return year, time.Month(month), nil
}

func queryBool(r *http.Request, key string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return v
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// errorStatus maps domain errors to HTTP answers. First match wins.
var errorStatus = []struct {
	err    error
	status int
	code   string
}{
	{backup.ErrUnsupportedVersion, http.StatusBadRequest, "unsupported_version"},
	{backup.ErrInvalidDocument, http.StatusBadRequest, "invalid_document"},
	{schedule.ErrMissingTime, http.StatusBadRequest, "missing_time"},
	{schedule.ErrInvalidTime, http.StatusBadRequest, "invalid_time"},
	{schedule.ErrNonPositiveDuration, http.StatusBadRequest, "non_positive_duration"},
	{schedule.ErrExcessiveDuration, http.StatusBadRequest, "excessive_duration"},
	{schedule.ErrHoursExceedDuration, http.StatusBadRequest, "hours_exceed_duration"},
	{schedule.ErrNegativeHours, http.StatusBadRequest, "negative_hours"},
	{schedule.ErrDuplicateTimeRange, http.StatusBadRequest, "duplicate_time_range"},
	{schedule.ErrEmptyLabel, http.StatusBadRequest, "empty_label"},
	{schedule.ErrNoApplicableDay, http.StatusBadRequest, "no_applicable_day"},
	{schedule.ErrInvalidDate, http.StatusBadRequest, "invalid_date"},
	{schedule.ErrInvalidRecurrence, http.StatusBadRequest, "invalid_recurrence"},
	{schedule.ErrShiftNotFound, http.StatusNotFound, "shift_not_found"},
	{schedule.ErrShiftExists, http.StatusConflict, "shift_exists"},
	{pay.ErrInvalidFormula, http.StatusBadRequest, "invalid_formula"},
	{pay.ErrInvalidMultiplier, http.StatusBadRequest, "invalid_multiplier"},
	{pay.ErrNegativeSalary, http.StatusBadRequest, "negative_salary"},
	{pay.ErrInvalidRate, http.StatusBadRequest, "invalid_rate"},
	{errInvalidBody, http.StatusBadRequest, "invalid_body"},
	{errInvalidMonth, http.StatusBadRequest, "invalid_month"},
	{errScenarioNotFound, http.StatusNotFound, "scenario_not_found"},
	{errBackupsDisabled, http.StatusNotFound, "backups_disabled"},
}

func classify(err error) (int, string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest, "validation"
	}
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status, e.code
		}
	}
	return http.StatusInternalServerError, "internal"
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	resp := ErrorResponse{Error: err.Error(), Code: code}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Error = "request failed validation"
		for _, fe := range verrs {
			resp.Fields = append(resp.Fields, FieldError{Field: fe.Field(), Tag: fe.Tag()})
		}
	}
	if status == http.StatusInternalServerError {
		h.Logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		resp.Error = "internal error"
	}
	writeJSON(w, status, resp)
}
