// Package handlers provides HTTP handlers for simulations, sensitivity sweeps
// and the supporting calculators.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/aristath/breakeven/internal/modules/recommendation"
	"github.com/aristath/breakeven/internal/modules/sensitivity"
	"github.com/aristath/breakeven/internal/modules/simulation"
	"github.com/aristath/breakeven/internal/services"
	"github.com/aristath/breakeven/internal/utils"
	"github.com/aristath/breakeven/pkg/formulas"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// Deposit calculator defaults: 3M at 19% for 5 years
const (
	defaultDepositPrincipal   = 3_000_000
	defaultDepositRatePercent = 19
	defaultDepositYears       = 5
)

// Handler handles simulation HTTP requests
type Handler struct {
	service *services.ComparisonService
	log     zerolog.Logger
}

// NewHandler creates a new simulation handler
func NewHandler(service *services.ComparisonService, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "simulation").Logger(),
	}
}

// SensitivityRequest is the body of POST /api/sensitivity.
// Params is a partial parameter set applied over the defaults. When Rates is
// empty, Samples (with From/To) selects an evenly spaced range; otherwise the
// default range is used.
type SensitivityRequest struct {
	Params  json.RawMessage `json:"params,omitempty"`
	Rates   []float64       `json:"rates,omitempty"`
	From    *float64        `json:"from,omitempty"`
	To      *float64        `json:"to,omitempty"`
	Samples int             `json:"samples,omitempty"`
}

// RecommendationRequest is the body of POST /api/recommendation
type RecommendationRequest struct {
	BreakEvenYear  *int `json:"break_even_year"`
	ThresholdYears int  `json:"threshold_years,omitempty"`
}

// HandleGetDefaults handles GET /api/simulation/defaults
func (h *Handler) HandleGetDefaults(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, simulation.DefaultParameters())
}

// HandleRunSimulation handles POST /api/simulation/run
func (h *Handler) HandleRunSimulation(w http.ResponseWriter, r *http.Request) {
	params, ok := h.readParameters(w, r)
	if !ok {
		return
	}

	outcome, err := h.service.Simulate(r.Context(), params)
	if err != nil {
		h.writeServiceError(w, err, "Simulation failed")
		return
	}

	h.writeJSON(w, http.StatusOK, outcome)
}

// HandleSensitivity handles POST /api/sensitivity
func (h *Handler) HandleSensitivity(w http.ResponseWriter, r *http.Request) {
	params, rates, ok := h.readSensitivityRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.Analyze(r.Context(), params, rates)
	if err != nil {
		h.writeServiceError(w, err, "Sensitivity analysis failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": result.Entries,
		"summary": sensitivity.Summarize(result),
	})
}

// HandleRecommendation handles POST /api/recommendation
func (h *Handler) HandleRecommendation(w http.ResponseWriter, r *http.Request) {
	var req RecommendationRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ThresholdYears < 0 {
		h.writeError(w, http.StatusBadRequest, "threshold_years must not be negative")
		return
	}

	threshold := req.ThresholdYears
	if threshold == 0 {
		threshold = h.service.Threshold()
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"break_even_year": req.BreakEvenYear,
		"threshold_years": threshold,
		"recommendation":  h.service.Recommend(req.BreakEvenYear, threshold),
		"message":         recommendation.BreakEvenMessage(req.BreakEvenYear),
	})
}

// HandleCapitalChart handles GET and POST /api/charts/capital.
// GET uses the default parameters; POST accepts a partial parameter set.
func (h *Handler) HandleCapitalChart(w http.ResponseWriter, r *http.Request) {
	params := simulation.DefaultParameters()
	if r.Method == http.MethodPost {
		var ok bool
		if params, ok = h.readParameters(w, r); !ok {
			return
		}
	}

	result, err := simulation.Simulate(params)
	if err != nil {
		h.writeServiceError(w, err, "Simulation failed")
		return
	}

	n := len(result.Years)
	years := make([]int, n)
	deposit := make([]float64, n)
	equity := make([]float64, n)
	for i, y := range result.Years {
		years[i] = y.Year
		deposit[i] = y.DepositBalance
		equity[i] = y.PropertyEquity
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"years":           years,
		"deposit":         deposit,
		"equity":          equity,
		"break_even_year": result.BreakEvenYear,
	})
}

// HandleSensitivityChart handles GET and POST /api/charts/sensitivity.
// GET accepts an optional comma-separated rates query over the default scenario.
// Rates that never break even are reported as null.
func (h *Handler) HandleSensitivityChart(w http.ResponseWriter, r *http.Request) {
	params := simulation.DefaultParameters()
	var rates []float64
	if r.Method == http.MethodPost {
		var ok bool
		if params, rates, ok = h.readSensitivityRequest(w, r); !ok {
			return
		}
	} else {
		var err error
		if rates, err = utils.ParseFloatList(r.URL.Query().Get("rates")); err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	result, err := h.service.Analyze(r.Context(), params, rates)
	if err != nil {
		h.writeServiceError(w, err, "Sensitivity analysis failed")
		return
	}

	years := make([]*int, result.Len())
	for i, e := range result.Entries {
		years[i] = e.BreakEvenYear
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"rates":            result.Rates(),
		"break_even_years": years,
	})
}

// HandleDepositSchedule handles GET /api/deposit/schedule.
// Query: principal (amount), rate (annual percent, e.g. 19), years.
func (h *Handler) HandleDepositSchedule(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	principal, err := floatQuery(q.Get("principal"), defaultDepositPrincipal)
	if err != nil || principal < 0 {
		h.writeError(w, http.StatusBadRequest, "principal must be a finite, non-negative number")
		return
	}
	ratePercent, err := floatQuery(q.Get("rate"), defaultDepositRatePercent)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "rate must be a finite number")
		return
	}
	years := defaultDepositYears
	if raw := q.Get("years"); raw != "" {
		years, err = strconv.Atoi(raw)
		if err != nil || years < 1 || years > simulation.MaxHorizonYears {
			h.writeError(w, http.StatusBadRequest,
				fmt.Sprintf("years must be an integer between 1 and %d", simulation.MaxHorizonYears))
			return
		}
	}

	rows := formulas.DepositSchedule(principal, ratePercent/100, years)
	if !formulas.ScheduleFinite(rows) {
		h.writeError(w, http.StatusBadRequest, "principal and rate overflow the schedule")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"principal":    principal,
		"rate_percent": ratePercent,
		"years":        years,
		"schedule":     rows,
		"total_income": formulas.TotalIncome(rows),
		"final_amount": rows[len(rows)-1].EndAmount,
	})
}

// readParameters decodes a partial parameter set over the defaults.
// An empty body yields the defaults.
func (h *Handler) readParameters(w http.ResponseWriter, r *http.Request) (simulation.Parameters, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Failed to read request body")
		return simulation.Parameters{}, false
	}
	return h.decodeParameters(w, body)
}

func (h *Handler) decodeParameters(w http.ResponseWriter, body []byte) (simulation.Parameters, bool) {
	params, err := simulation.ParseJSON(body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return simulation.Parameters{}, false
	}
	return params, true
}

func (h *Handler) readSensitivityRequest(w http.ResponseWriter, r *http.Request) (simulation.Parameters, []float64, bool) {
	var req SensitivityRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Failed to read request body")
		return simulation.Parameters{}, nil, false
	}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid request body")
			return simulation.Parameters{}, nil, false
		}
	}

	params, ok := h.decodeParameters(w, req.Params)
	if !ok {
		return simulation.Parameters{}, nil, false
	}

	rates := req.Rates
	if len(rates) == 0 && req.Samples > 0 {
		from, to := sensitivity.DefaultRateFrom, sensitivity.DefaultRateTo
		if req.From != nil {
			from = *req.From
		}
		if req.To != nil {
			to = *req.To
		}
		rates, err = sensitivity.RateRange(from, to, req.Samples)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return simulation.Parameters{}, nil, false
		}
	}

	return params, rates, true
}

// floatQuery parses a finite number; ParseFloat alone accepts NaN and Inf
func floatQuery(raw string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", raw)
	}
	return v, nil
}

// writeServiceError maps validation failures to 400 and everything else to 500
func (h *Handler) writeServiceError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, simulation.ErrInvalidParameter) || errors.Is(err, sensitivity.ErrInvalidRates) {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.log.Error().Err(err).Msg(message)
	h.writeError(w, http.StatusInternalServerError, message)
}

// writeJSON encodes before writing the header so an encoding failure is a 500
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
		status = http.StatusInternalServerError
		body = []byte(`{"error":"Failed to encode response"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
