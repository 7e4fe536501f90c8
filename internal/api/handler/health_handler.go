package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const probeTimeout = 3 * time.Second

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

// HealthHandler serves the liveness and readiness probes. A nil Redis pinger
// means Redis is not configured and is reported as disabled.
type HealthHandler struct {
	env     string
	origins []string
	mongo   Pinger
	redis   Pinger
	started time.Time
	now     func() time.Time
}

func NewHealthHandler(env string, origins []string, mongo, redis Pinger) *HealthHandler {
	return &HealthHandler{
		env:     env,
		origins: origins,
		mongo:   mongo,
		redis:   redis,
		started: time.Now(),
		now:     time.Now,
	}
}

type livenessResponse struct {
	Status             string    `json:"status"`
	Timestamp          time.Time `json:"timestamp"`
	Env                string    `json:"env"`
	CORSAllowedOrigins []string  `json:"cors_allowed_origins"`
	Database           string    `json:"database"`
	Uptime             float64   `json:"uptime"`
}

// Liveness handles GET /health. It always answers 200 and reports database
// connectivity as a field.
//
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  livenessResponse
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), probeTimeout)
	defer cancel()

	database := "connected"
	if err := h.mongo(ctx); err != nil {
		database = "disconnected"
	}

	now := h.now()
	return c.JSON(http.StatusOK, livenessResponse{
		Status:             "ok",
		Timestamp:          now.UTC(),
		Env:                h.env,
		CORSAllowedOrigins: h.origins,
		Database:           database,
		Uptime:             now.Sub(h.started).Seconds(),
	})
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness handles GET /health/ready. It answers 503 when a configured
// dependency is unreachable.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), probeTimeout)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	if err := h.mongo(ctx); err != nil {
		deps["mongodb"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["mongodb"] = dependencyStatus{Status: "ok"}
	}

	switch {
	case h.redis == nil:
		deps["redis"] = dependencyStatus{Status: "disabled"}
	default:
		if err := h.redis(ctx); err != nil {
			deps["redis"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
		} else {
			deps["redis"] = dependencyStatus{Status: "ok"}
		}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}

// API handles GET /api/health.
//
// @Summary      API health
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/health [get]
func (h *HealthHandler) API(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "ok",
		"message":   "API is operational",
		"timestamp": h.now().UTC(),
	})
}
