package http

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-assistant/internal/lifecycle"
	"github.com/kjstillabower/weather-assistant/internal/observability"
	"github.com/kjstillabower/weather-assistant/internal/traffic"
)

// HealthInfo describes the running assistant in /health responses.
type HealthInfo struct {
	Service   string
	Version   string
	Model     string
	Mode      string
	StartTime time.Time

	// Degraded is reported when at least DegradedFailurePct of the queries in
	// DegradedWindow failed or hit a weather error. Zero values disable it.
	DegradedWindow     time.Duration
	DegradedFailurePct int
}

// Handler serves the ops endpoints.
type Handler struct {
	info   HealthInfo
	logger *zap.Logger

	healthStatusMu   sync.Mutex
	healthStatusPrev string
}

// NewHandler returns a new Handler.
func NewHandler(info HealthInfo, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{info: info, logger: logger}
}

type healthResult struct {
	status     string
	statusCode int
	reason     string
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	result := h.computeHealthStatus()
	status := result.status

	h.healthStatusMu.Lock()
	if prev := h.healthStatusPrev; prev != "" && prev != status {
		h.logger.Info("health status transition",
			zap.String("previous_status", prev),
			zap.String("current_status", status),
			zap.String("reason", result.reason))
	}
	h.healthStatusPrev = status
	h.healthStatusMu.Unlock()

	resp := map[string]interface{}{
		"status":    status,
		"service":   h.info.Service,
		"version":   h.info.Version,
		"model":     h.info.Model,
		"mode":      h.info.Mode,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if !h.info.StartTime.IsZero() {
		resp["uptimeSeconds"] = int64(time.Since(h.info.StartTime).Seconds())
	}
	if h.info.DegradedWindow > 0 {
		resp["queries"] = traffic.Counts(h.info.DegradedWindow)
	}
	writeJSON(w, result.statusCode, resp)
}

// computeHealthStatus evaluates, in order: lifecycle phase, then the recent
// query failure ratio.
func (h *Handler) computeHealthStatus() healthResult {
	switch state := lifecycle.Current(); state {
	case lifecycle.Serving:
	case lifecycle.ShuttingDown:
		return healthResult{state.String(), http.StatusServiceUnavailable, "signal"}
	default:
		return healthResult{state.String(), http.StatusServiceUnavailable, "not_ready"}
	}

	if h.info.DegradedWindow > 0 && h.info.DegradedFailurePct > 0 {
		failed, total := traffic.FailureRate(h.info.DegradedWindow,
			observability.OutcomeFailed, observability.OutcomeAnsweredWeatherError)
		if total > 0 && failed*100 >= h.info.DegradedFailurePct*total {
			return healthResult{"degraded", http.StatusServiceUnavailable, "failure_rate_breach"}
		}
	}
	return healthResult{lifecycle.Serving.String(), http.StatusOK, ""}
}

// writeJSON writes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
