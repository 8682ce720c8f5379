package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const readinessTimeout = 3 * time.Second

// HealthHandler serves the liveness and readiness probes.
//
// mongo and redis are optional; a nil dependency is reported as "disabled"
// and does not affect readiness. Probe failures are logged, never returned.
type HealthHandler struct {
	mongo *mongo.Database
	redis *redis.Client
	log   zerolog.Logger
}

func NewHealthHandler(db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{mongo: db, redis: rdb, log: log}
}

type dependencyStatus struct {
	Status string `json:"status"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Liveness handles GET /health. It only proves the process is serving.
//
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness handles GET /health/ready.
//
// @Summary  Readiness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  readinessResponse
// @Failure  503  {object}  readinessResponse
// @Router   /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	deps := map[string]dependencyStatus{
		"mongodb": h.checkMongo(ctx),
		"redis":   h.checkRedis(ctx),
	}

	status, code := "ok", http.StatusOK
	for _, d := range deps {
		if d.Status == "unhealthy" {
			status, code = "degraded", http.StatusServiceUnavailable
			break
		}
	}

	return c.JSON(code, readinessResponse{Status: status, Dependencies: deps})
}

func (h *HealthHandler) checkMongo(ctx context.Context) dependencyStatus {
	if h.mongo == nil {
		return dependencyStatus{Status: "disabled"}
	}
	if err := h.mongo.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		h.log.Warn().Err(err).Str("dependency", "mongodb").Msg("readiness check failed")
		return dependencyStatus{Status: "unhealthy"}
	}
	return dependencyStatus{Status: "ok"}
}

func (h *HealthHandler) checkRedis(ctx context.Context) dependencyStatus {
	if h.redis == nil {
		return dependencyStatus{Status: "disabled"}
	}
	if err := h.redis.Ping(ctx).Err(); err != nil {
		h.log.Warn().Err(err).Str("dependency", "redis").Msg("readiness check failed")
		return dependencyStatus{Status: "unhealthy"}
	}
	return dependencyStatus{Status: "ok"}
}
