package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"estatepulse/internal/services"
)

// HealthHandler serves liveness and readiness information.
type HealthHandler struct {
	service   *services.AnalysisService
	logger    *slog.Logger
	startedAt time.Time
	version   string
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(service *services.AnalysisService, version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service:   service,
		logger:    logger.With(slog.String("handler", "health")),
		startedAt: time.Now(),
		version:   version,
	}
}

// healthResponse is the payload for GET /api/health.
type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	UptimeSec int64  `json:"uptime_seconds"`
	Listings  int    `json:"listings,omitempty"`
	Error     string `json:"error,omitempty"`
}

// GetHealth handles GET /api/health. The endpoint degrades to "degraded"
// rather than failing when the listing source cannot be read, so load
// balancers keep the process alive while operators investigate.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "healthy",
		Version:   h.version,
		UptimeSec: int64(time.Since(h.startedAt).Seconds()),
	}

	count, err := h.service.RecordCount(r.Context())
	if err != nil {
		h.logger.WarnContext(r.Context(), "health check found data source unavailable", "error", err.Error())
		resp.Status = "degraded"
		resp.Error = "listing source unavailable"
	} else {
		resp.Listings = count
	}

	render.JSON(w, r, resp)
}
