package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/client"
	"github.com/cypherlabdev/prediction-evaluator-service/internal/metrics"
	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
	"github.com/cypherlabdev/prediction-evaluator-service/internal/service"
	"github.com/cypherlabdev/prediction-evaluator-service/pkg/evaluator"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 8 << 20

// EvaluationHandler handles HTTP requests for prediction evaluation
type EvaluationHandler struct {
	service *service.EvaluationService
	logger  zerolog.Logger
}

// NewEvaluationHandler creates a new evaluation HTTP handler
func NewEvaluationHandler(service *service.EvaluationService, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service: service,
		logger:  logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// EvaluateRequest is the body of POST /api/v1/evaluations
type EvaluateRequest struct {
	GuessType string                    `json:"guess_type"`
	Records   []models.PredictionRecord `json:"records"`
	service.Overrides
}

// MixRequest is the body of POST /api/v1/mix
type MixRequest struct {
	Defaults    []models.PredictionRecord `json:"default_records"`
	Assists     []models.PredictionRecord `json:"assist_records"`
	SwitchAfter int                       `json:"switch_strategy"`
	service.Overrides
}

// ProjectionRequest is the body of POST /api/v1/projections. A missing
// stake uses the stored setting.
type ProjectionRequest struct {
	Outcomes string              `json:"outcomes"`
	Stake    *models.StakeConfig `json:"stake,omitempty"`
}

// SettingsRequest is the body of PUT /api/v1/settings
type SettingsRequest struct {
	Policy           models.MatchPolicy `json:"match_policy"`
	ContinueAfterWin bool               `json:"continue_after_win"`
	Stake            models.StakeConfig `json:"stake"`
}

// RegisterRoutes registers HTTP routes with the provided router
func (h *EvaluationHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/evaluations", h.handleEvaluate)
		r.Get("/reports/{guessType}", h.handleGetReport)
		r.Get("/reports/{guessType}/cached", h.handleCachedReports)
		r.Post("/reports/refresh", h.handleRefreshReports)
		r.Post("/mix", h.handleMix)
		r.Get("/comparisons", h.handleCompare)
		r.Post("/projections", h.handleProject)
		r.Get("/settings", h.handleGetSettings)
		r.Put("/settings", h.handleUpdateSettings)
	})
}

// handleEvaluate handles POST /api/v1/evaluations
func (h *EvaluationHandler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := h.decode(w, r, &req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.GuessType == "" {
		h.errorResponse(w, http.StatusBadRequest, "guess_type is required")
		return
	}

	report, err := h.service.EvaluateRecords(r.Context(), metrics.SourceHTTP, req.GuessType, req.Records, req.Overrides)
	if err != nil {
		h.serviceError(w, err, "failed to evaluate records")
		return
	}

	h.jsonResponse(w, http.StatusOK, report)
}

// handleGetReport handles GET /api/v1/reports/{guessType}
func (h *EvaluationHandler) handleGetReport(w http.ResponseWriter, r *http.Request) {
	guessType := chi.URLParam(r, "guessType")

	overrides, err := parseOverrides(r)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.service.GetReport(r.Context(), guessType, overrides)
	if err != nil {
		h.serviceError(w, err, "failed to build report")
		return
	}

	h.jsonResponse(w, http.StatusOK, report)
}

// handleCachedReports handles GET /api/v1/reports/{guessType}/cached
func (h *EvaluationHandler) handleCachedReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.CachedReports(r.Context(), chi.URLParam(r, "guessType"))
	if err != nil {
		h.serviceError(w, err, "failed to list cached reports")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"count":   len(reports),
		"reports": reports,
	})
}

// handleRefreshReports handles POST /api/v1/reports/refresh
func (h *EvaluationHandler) handleRefreshReports(w http.ResponseWriter, r *http.Request) {
	overrides, err := parseOverrides(r)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	reports, err := h.service.RefreshReports(r.Context(), overrides)
	if err != nil {
		h.serviceError(w, err, "failed to refresh reports")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"count":   len(reports),
		"reports": reports,
	})
}

// handleMix handles POST /api/v1/mix
func (h *EvaluationHandler) handleMix(w http.ResponseWriter, r *http.Request) {
	var req MixRequest
	if err := h.decode(w, r, &req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Mix(r.Context(), req.Defaults, req.Assists, req.SwitchAfter, req.Overrides)
	if err != nil {
		h.serviceError(w, err, "failed to mix records")
		return
	}

	h.jsonResponse(w, http.StatusOK, result)
}

// handleCompare handles GET /api/v1/comparisons?models=a,b&limit=50&strategies=1,2
func (h *EvaluationHandler) handleCompare(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 0
	if v := query.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > service.MaxFetchLimit {
			h.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("limit must be an integer between 1 and %d", service.MaxFetchLimit))
			return
		}
		limit = n
	}

	strategies, err := parseInts(query.Get("strategies"))
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, "strategies must be a comma separated list of positive integers")
		return
	}
	for _, n := range strategies {
		if n < 1 {
			h.errorResponse(w, http.StatusBadRequest, "strategies must be a comma separated list of positive integers")
			return
		}
	}

	overrides, err := parseOverrides(r)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := h.service.CompareModels(r.Context(), splitList(query.Get("models")), limit, strategies, overrides)
	if err != nil {
		h.serviceError(w, err, "failed to compare models")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"count":   len(results),
		"results": results,
	})
}

// handleProject handles POST /api/v1/projections
func (h *EvaluationHandler) handleProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectionRequest
	if err := h.decode(w, r, &req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	h.jsonResponse(w, http.StatusOK, h.service.Project(r.Context(), req.Outcomes, req.Stake))
}

// handleGetSettings handles GET /api/v1/settings
func (h *EvaluationHandler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, h.service.GetSettings(r.Context()))
}

// handleUpdateSettings handles PUT /api/v1/settings
func (h *EvaluationHandler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := h.decode(w, r, &req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	params, err := h.service.UpdateSettings(r.Context(), models.EvaluationParams{
		Policy:           req.Policy,
		ContinueAfterWin: req.ContinueAfterWin,
		Stake:            req.Stake,
	})
	if err != nil {
		h.serviceError(w, err, "failed to update settings")
		return
	}

	h.jsonResponse(w, http.StatusOK, params)
}

func (h *EvaluationHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// serviceError maps service errors to status codes
func (h *EvaluationHandler) serviceError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, evaluator.ErrInvalidPolicy),
		errors.Is(err, evaluator.ErrInvalidWindow),
		errors.Is(err, evaluator.ErrInvalidStrategy):
		h.errorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, client.ErrAPI):
		h.logger.Warn().Err(err).Msg(msg)
		h.errorResponse(w, http.StatusBadGateway, err.Error())
	default:
		h.logger.Error().Err(err).Msg(msg)
		h.errorResponse(w, http.StatusInternalServerError, msg)
	}
}

// jsonResponse writes a JSON response
func (h *EvaluationHandler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// errorResponse writes a JSON error response
func (h *EvaluationHandler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{
		"error": message,
	})
}

// parseOverrides reads match_policy, continue_after_win and window from the query
func parseOverrides(r *http.Request) (service.Overrides, error) {
	var o service.Overrides
	query := r.URL.Query()

	if v := query.Get("match_policy"); v != "" {
		p := models.MatchPolicy(v)
		if !p.Valid() {
			return o, fmt.Errorf("unknown match_policy %q", v)
		}
		o.Policy = &p
	}
	if v := query.Get("window"); v != "" {
		win := models.Window(v)
		if !win.Valid() {
			return o, fmt.Errorf("unknown window %q", v)
		}
		o.Window = &win
	}
	if v := query.Get("continue_after_win"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return o, fmt.Errorf("continue_after_win must be a boolean")
		}
		o.ContinueAfterWin = &b
	}

	return o, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseInts(v string) ([]int, error) {
	var out []int
	for _, s := range splitList(v) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
