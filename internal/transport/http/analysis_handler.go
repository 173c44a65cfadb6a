// Package http contains the HTTP transport layer: handlers that bind query
// parameters, call the service and render JSON responses.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/render"

	apierrors "estatepulse/internal/errors"
	"estatepulse/internal/metrics"
	"estatepulse/internal/services"
)

// AnalysisHandler serves the price-analysis endpoint.
type AnalysisHandler struct {
	service      *services.AnalysisService
	errorHandler *apierrors.ErrorHandler
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// NewAnalysisHandler creates the analysis handler.
func NewAnalysisHandler(service *services.AnalysisService, errorHandler *apierrors.ErrorHandler, m *metrics.Metrics, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		errorHandler: errorHandler,
		metrics:      m,
		logger:       logger.With(slog.String("handler", "analysis")),
	}
}

// GetPriceAnalysis handles GET /api/price-analysis. All parameters are
// optional query strings; the response is the full analysis result. Each
// completed run is counted by outcome; bind failures never reach the
// service and are not counted as runs.
func (h *AnalysisHandler) GetPriceAnalysis(w http.ResponseWriter, r *http.Request) {
	req, err := bindAnalysisRequest(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Analyze(r.Context(), req)
	if err != nil {
		h.metrics.RecordAnalysis(analysisOutcome(err))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.metrics.RecordAnalysis(metrics.OutcomeOK)
	render.JSON(w, r, result)
}

// analysisOutcome maps a service failure onto its counter label.
func analysisOutcome(err error) string {
	if errors.Is(err, apierrors.ErrNoListingsFound) {
		return metrics.OutcomeEmpty
	}
	return metrics.OutcomeError
}

// bindAnalysisRequest maps query parameters onto the service request.
// Numeric parameters that fail to parse are rejected here so the service
// only ever sees well-typed values.
func bindAnalysisRequest(query url.Values) (services.AnalysisRequest, error) {
	req := services.AnalysisRequest{
		City:          query.Get("city"),
		District:      query.Get("district"),
		Neighbourhood: query.Get("neighbourhood"),
		PropertyType:  query.Get("property_type"),
		ListingType:   query.Get("listing_type"),
		AsOf:          query.Get("as_of"),
		Granularity:   query.Get("granularity"),
	}

	for param, target := range map[string]**float64{
		"min_size":  &req.MinSize,
		"max_size":  &req.MaxSize,
		"min_rooms": &req.MinRooms,
		"max_rooms": &req.MaxRooms,
		"min_age":   &req.MinAge,
		"max_age":   &req.MaxAge,
	} {
		raw := query.Get(param)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, apierrors.ErrValidation(param, "must be a number")
		}
		*target = &v
	}

	return req, nil
}
