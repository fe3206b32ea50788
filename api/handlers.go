/*
handlers.go - HTTP API handlers for break scheduling

PURPOSE:
  Exposes the break distribution engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the engine.

ENDPOINTS:
  Roster:
    GET    /api/schedules/{date}                          Roster, coverage and stats
    PUT    /api/schedules/{date}/agents/{userID}/breaks   Place breaks by hand
    PUT    /api/schedules/{date}/agents/{userID}/shift    Set an agent's shift

  Distribution:
    GET    /api/distribution/strategies   Selectable strategies
    POST   /api/distribution/preview      Run a strategy, cache the preview
    POST   /api/distribution/apply        Write a cached preview
    GET    /api/distribution/runs         Applied runs, newest first

  Rules:
    GET    /api/rules                     All rules
    POST   /api/rules                     Create rule
    POST   /api/rules/validate            Check parameters without saving
    GET    /api/rules/{id}                Get rule
    PUT    /api/rules/{id}                Replace rule
    DELETE /api/rules/{id}                Delete rule

  Configuration:
    GET    /api/settings                  Ladder settings per shift
    PUT    /api/settings/{shift}          Save ladder settings
    GET    /api/shift-hours               Shift windows
    PUT    /api/shift-hours/{shift}       Save a shift window

  Agents:
    GET    /api/agents                    List agents
    POST   /api/agents                    Create agent
    GET    /api/agents/{id}               Get agent
    DELETE /api/agents/{id}               Delete agent

  Demo:
    GET    /api/scenarios                 List scenarios
    GET    /api/scenarios/current         Loaded scenario, if any
    POST   /api/scenarios/load            Reset and load a scenario

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access
  - Distributor: preview/apply orchestration over the same store
  - RuleFactory: JSON to typed rule conversion
  - previews: cached previews awaiting apply

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, unknown strategy, bad rule parameters
  - 404: Unknown agent, rule, or expired preview
  - 409: Duplicate rule name
  - 422: Manual breaks blocked by rules
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scheduler.go: Cron-driven auto distribution
  - scenarios.go: Demo data loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/workforce-portal/breaks"
	"github.com/warp/workforce-portal/factory"
	"github.com/warp/workforce-portal/metrics"
	"github.com/warp/workforce-portal/store/sqlite"
)

// Run triggers recorded in distribution history.
const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
)

// DefaultPreviewTTL is how long a preview can be applied after generation.
const DefaultPreviewTTL = 30 * time.Minute

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store           *sqlite.Store
	Distributor     *breaks.Distributor
	RuleFactory     *factory.RuleFactory
	DefaultStrategy breaks.StrategyName

	previews        *previewCache
	currentScenario string
}

// NewHandler creates a new handler with the given store and distributor.
func NewHandler(store *sqlite.Store, distributor *breaks.Distributor) *Handler {
	return &Handler{
		Store:           store,
		Distributor:     distributor,
		RuleFactory:     factory.NewRuleFactory(),
		DefaultStrategy: breaks.DefaultStrategy,
		previews:        newPreviewCache(DefaultPreviewTTL),
	}
}

// SetPreviewTTL changes how long previews stay applicable.
func (h *Handler) SetPreviewTTL(ttl time.Duration) {
	if ttl > 0 {
		h.previews.ttl = ttl
	}
}

// =============================================================================
// ROSTER HANDLERS
// =============================================================================

// GetSchedule returns the roster, coverage and stats of a date.
// GET /api/schedules/{date}?department=
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	day, err := h.Store.GetScheduleForDate(r.Context(), date, r.URL.Query().Get("department"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load schedule", err)
		return
	}

	writeJSON(w, http.StatusOK, ScheduleDTO{
		Date:     date,
		Agents:   toAgentScheduleDTOs(day.Agents),
		Coverage: toCoverageSlotDTOs(day.Coverage),
		Stats:    toCoverageStatsDTO(day.Coverage.Stats()),
	})
}

// UpdateAgentBreaks validates hand-placed breaks and writes them.
// PUT /api/schedules/{date}/agents/{userID}/breaks
func (h *Handler) UpdateAgentBreaks(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}
	userID := chi.URLParam(r, "userID")

	var req UpdateBreaksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var b breaks.BreakTimes
	for _, f := range []struct {
		raw string
		dst *breaks.TimeOfDay
	}{{req.HB1, &b.HB1}, {req.B, &b.B}, {req.HB2, &b.HB2}} {
		if strings.TrimSpace(f.raw) == "" {
			continue
		}
		t, err := breaks.ParseTimeOfDay(f.raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid break time", err)
			return
		}
		*f.dst = t
	}

	result, err := h.Distributor.UpdateAgentBreaks(r.Context(), date, userID, b)
	if err != nil {
		writeEngineError(w, "Failed to update breaks", err)
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, UpdateResultDTO{Success: result.Success, Violations: toViolationDTOs(result.Violations)})
}

// UpdateAgentShift sets an agent's shift for a date.
// PUT /api/schedules/{date}/agents/{userID}/shift
func (h *Handler) UpdateAgentShift(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}
	userID := chi.URLParam(r, "userID")

	var req UpdateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	shift := breaks.ShiftType(strings.ToUpper(strings.TrimSpace(req.ShiftType)))
	if shift == "" {
		writeError(w, http.StatusBadRequest, "shift_type is required", nil)
		return
	}

	agent, err := h.Store.GetAgent(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get agent", err)
		return
	}
	if agent == nil {
		writeError(w, http.StatusNotFound, "Agent not found", nil)
		return
	}

	if err := h.Store.SaveShiftAssignment(r.Context(), userID, date, shift); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save shift", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"user_id": userID, "date": date, "shift_type": string(shift)})
}

// =============================================================================
// DISTRIBUTION HANDLERS
// =============================================================================

// ListStrategies returns every selectable strategy.
// GET /api/distribution/strategies
func (h *Handler) ListStrategies(w http.ResponseWriter, r *http.Request) {
	dtos := make([]StrategyDTO, 0, len(breaks.StrategyNames))
	for _, name := range breaks.StrategyNames {
		dtos = append(dtos, StrategyDTO{Name: string(name), IsDefault: name == h.DefaultStrategy})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// PreviewDistribution runs a strategy and caches the result for apply.
// POST /api/distribution/preview
func (h *Handler) PreviewDistribution(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	preq, err := h.parsePreviewRequest(req)
	if err != nil {
		writeEngineError(w, "Invalid preview request", err)
		return
	}

	preview, expires, err := h.GeneratePreview(r.Context(), preq)
	if err != nil {
		writeEngineError(w, "Failed to generate preview", err)
		return
	}
	writeJSON(w, http.StatusOK, toPreviewDTO(preview, expires))
}

func (h *Handler) parsePreviewRequest(req PreviewRequest) (breaks.PreviewRequest, error) {
	if _, err := breaks.ParseDate(req.ScheduleDate); err != nil {
		return breaks.PreviewRequest{}, err
	}
	strategy := h.DefaultStrategy
	if strings.TrimSpace(req.Strategy) != "" {
		var err error
		if strategy, err = breaks.ParseStrategyName(req.Strategy); err != nil {
			return breaks.PreviewRequest{}, err
		}
	}
	mode, err := breaks.ParseApplyMode(req.ApplyMode)
	if err != nil {
		return breaks.PreviewRequest{}, err
	}
	return breaks.PreviewRequest{
		ScheduleDate: req.ScheduleDate,
		Department:   req.Department,
		Strategy:     strategy,
		ApplyMode:    mode,
	}, nil
}

// GeneratePreview runs the distributor, records metrics and caches the
// preview. Shared by the HTTP handler and the scheduler.
func (h *Handler) GeneratePreview(ctx context.Context, req breaks.PreviewRequest) (*breaks.Preview, time.Time, error) {
	start := time.Now()
	preview, err := h.Distributor.GenerateDistributionPreview(ctx, req)
	if err != nil {
		return nil, time.Time{}, err
	}
	metrics.ObservePreview(string(preview.Strategy), time.Since(start),
		len(preview.ProposedSchedules), len(preview.FailedAgents),
		preview.CoverageStats.Min, preview.CoverageStats.Variance,
		preview.RuleCompliance.Blocking, preview.RuleCompliance.Warning)

	expires := h.previews.put(preview)
	return preview, expires, nil
}

// ApplyDistribution writes a cached preview.
// POST /api/distribution/apply
func (h *Handler) ApplyDistribution(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.PreviewID == "" {
		writeError(w, http.StatusBadRequest, "preview_id is required", nil)
		return
	}

	preview, ok := h.previews.take(req.PreviewID)
	if !ok {
		writeEngineError(w, "Preview not found or expired", fmt.Errorf("%w: %s", breaks.ErrPreviewNotFound, req.PreviewID))
		return
	}

	run, summary, err := h.ApplyPreview(r.Context(), preview, TriggerManual)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to apply distribution", err)
		return
	}

	rejected := make([]RejectedWriteDTO, 0, len(summary.Rejected))
	for _, rw := range summary.Rejected {
		rejected = append(rejected, RejectedWriteDTO{UserID: rw.UserID, Violations: toViolationDTOs(rw.Violations)})
	}
	writeJSON(w, http.StatusOK, ApplyResponse{
		RunID:    run.ID,
		Applied:  summary.Applied,
		Skipped:  summary.Skipped,
		Rejected: rejected,
	})
}

// ApplyPreview writes a preview and records the run, failed or not.
func (h *Handler) ApplyPreview(ctx context.Context, preview *breaks.Preview, trigger string) (sqlite.DistributionRun, breaks.ApplySummary, error) {
	summary, applyErr := h.Distributor.ApplyDistribution(ctx, preview, preview.ScheduleDate)
	metrics.ObserveApply(summary.Applied, summary.Skipped, len(summary.Rejected))

	run := sqlite.DistributionRun{
		ID:               uuid.NewString(),
		PreviewID:        preview.ID,
		ScheduleDate:     preview.ScheduleDate,
		Department:       preview.Department,
		Strategy:         string(preview.Strategy),
		ApplyMode:        string(preview.ApplyMode),
		Trigger:          trigger,
		Status:           "completed",
		Proposed:         len(preview.ProposedSchedules),
		Applied:          summary.Applied,
		Skipped:          summary.Skipped,
		Rejected:         len(summary.Rejected),
		Failed:           len(preview.FailedAgents),
		CoverageMin:      preview.CoverageStats.Min,
		CoverageMax:      preview.CoverageStats.Max,
		CoverageAvg:      preview.CoverageStats.Avg,
		CoverageVariance: preview.CoverageStats.Variance,
	}
	if applyErr != nil {
		run.Status = "failed"
		run.Error = applyErr.Error()
	}

	// Use a fresh context so a cancelled request still leaves a record.
	if err := h.Store.SaveDistributionRun(context.WithoutCancel(ctx), run); err != nil {
		log.Printf("[Distribution] Failed to record run %s: %v", run.ID, err)
	}
	return run, summary, applyErr
}

// ListDistributionRuns returns run history.
// GET /api/distribution/runs?date=
func (h *Handler) ListDistributionRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.GetDistributionRuns(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}
	dtos := make([]DistributionRunDTO, 0, len(runs))
	for _, run := range runs {
		dtos = append(dtos, toDistributionRunDTO(run))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RULE HANDLERS
// =============================================================================

// ListRules returns every rule, active or not.
// GET /api/rules
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListRules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rules", err)
		return
	}
	dtos := make([]factory.RuleJSON, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, factory.ToJSON(rec.Rule))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRule returns a single rule.
// GET /api/rules/{id}
func (h *Handler) GetRule(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetRule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get rule", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Rule not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, factory.ToJSON(rec.Rule))
}

// CreateRule validates and saves a new rule.
// POST /api/rules
func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req factory.RuleJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	h.saveRule(w, r, req, http.StatusCreated)
}

// UpdateRule replaces an existing rule.
// PUT /api/rules/{id}
func (h *Handler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.Store.GetRule(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get rule", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Rule not found", nil)
		return
	}

	var req factory.RuleJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.ID = id
	h.saveRule(w, r, req, http.StatusOK)
}

func (h *Handler) saveRule(w http.ResponseWriter, r *http.Request, req factory.RuleJSON, status int) {
	rule, err := h.RuleFactory.FromJSON(req)
	if err != nil {
		writeEngineError(w, "Invalid rule", err)
		return
	}
	if err := h.Store.SaveRule(r.Context(), *rule); err != nil {
		if sqlite.IsUniqueConstraintError(err) {
			writeError(w, http.StatusConflict, "A rule with this name already exists", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save rule", err)
		return
	}
	writeJSON(w, status, factory.ToJSON(*rule))
}

// DeleteRule removes a rule.
// DELETE /api/rules/{id}
func (h *Handler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteRule(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete rule", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ValidateRule checks rule parameters without saving them.
// POST /api/rules/validate
func (h *Handler) ValidateRule(w http.ResponseWriter, r *http.Request) {
	var req ValidateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if _, err := h.RuleFactory.ParseParameters(req.RuleType, req.Parameters); err != nil {
		writeJSON(w, http.StatusOK, ValidateRuleResponse{Valid: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ValidateRuleResponse{Valid: true})
}

// =============================================================================
// CONFIGURATION HANDLERS
// =============================================================================

// ListSettings returns ladder settings for every configured shift.
// GET /api/settings
func (h *Handler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Store.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	dtos := make([]factory.SettingsJSON, 0, len(settings))
	for _, shift := range breaks.LadderShiftOrder {
		if s, ok := settings[shift]; ok {
			dtos = append(dtos, factory.SettingsToJSON(s))
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveSettings stores ladder settings for one shift.
// PUT /api/settings/{shift}
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var req factory.SettingsJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.ShiftType = chi.URLParam(r, "shift")

	settings, err := factory.ParseSettings(req)
	if err != nil {
		writeEngineError(w, "Invalid settings", err)
		return
	}
	if err := h.Store.SaveSettings(r.Context(), settings); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.SettingsToJSON(settings))
}

// ListShiftHours returns every configured shift window.
// GET /api/shift-hours
func (h *Handler) ListShiftHours(w http.ResponseWriter, r *http.Request) {
	hours, err := h.Store.GetShiftHoursMap(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load shift hours", err)
		return
	}
	dtos := make([]factory.ShiftHoursJSON, 0, len(hours))
	for _, shift := range []breaks.ShiftType{breaks.ShiftAM, breaks.ShiftBET, breaks.ShiftPM, breaks.ShiftOFF} {
		window, ok := hours[shift]
		if !ok {
			continue
		}
		dto := factory.ShiftHoursJSON{ShiftType: string(shift)}
		if window != nil {
			dto.Start, dto.End = string(window.Start), string(window.End)
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveShiftHours stores one shift window.
// PUT /api/shift-hours/{shift}
func (h *Handler) SaveShiftHours(w http.ResponseWriter, r *http.Request) {
	var req factory.ShiftHoursJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.ShiftType = chi.URLParam(r, "shift")

	shift, window, err := factory.ParseShiftHours(req)
	if err != nil {
		writeEngineError(w, "Invalid shift hours", err)
		return
	}
	if err := h.Store.SaveShiftHours(r.Context(), shift, window); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save shift hours", err)
		return
	}

	dto := factory.ShiftHoursJSON{ShiftType: string(shift)}
	if window != nil {
		dto.Start, dto.End = string(window.Start), string(window.End)
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// AGENT HANDLERS
// =============================================================================

// ListAgents returns all agents.
// GET /api/agents?department=
func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.Store.ListAgents(r.Context(), r.URL.Query().Get("department"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list agents", err)
		return
	}
	dtos := make([]AgentDTO, 0, len(agents))
	for _, a := range agents {
		dtos = append(dtos, toAgentDTO(a))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetAgent returns a single agent.
// GET /api/agents/{id}
func (h *Handler) GetAgent(w http.ResponseWriter, r *http.Request) {
	agent, err := h.Store.GetAgent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get agent", err)
		return
	}
	if agent == nil {
		writeError(w, http.StatusNotFound, "Agent not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toAgentDTO(*agent))
}

// CreateAgent creates a new agent.
// POST /api/agents
func (h *Handler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var req AgentDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	agent := sqlite.Agent{ID: req.ID, Name: req.Name, Email: req.Email, Department: req.Department}
	if err := h.Store.SaveAgent(r.Context(), agent); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create agent", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAgentDTO(agent))
}

// DeleteAgent removes an agent with their shifts and breaks.
// DELETE /api/agents/{id}
func (h *Handler) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteAgent(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete agent", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps engine errors to 400/404/500.
func writeEngineError(w http.ResponseWriter, message string, err error) {
	switch {
	case breaks.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case breaks.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func dateParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := chi.URLParam(r, "date")
	if _, err := breaks.ParseDate(date); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return "", false
	}
	return date, true
}
