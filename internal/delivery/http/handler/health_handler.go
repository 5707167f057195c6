package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/streetsmart-service/internal/usecase/dto"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker - зависимость, которую можно проверить пингом (БД, Redis)
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler - состояние сервиса
type HealthHandler struct {
	checks map[string]HealthChecker
	logger *zap.Logger
}

// NewHealthHandler - checks может быть пустым: тогда проверяется только сам процесс
func NewHealthHandler(checks map[string]HealthChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		logger: logger,
	}
}

// Health godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /api/v1/health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	resp := dto.HealthResponse{
		Status: "healthy",
		Time:   time.Now().UTC(),
	}

	if len(h.checks) > 0 {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
		defer cancel()

		resp.Dependencies = make(map[string]string, len(h.checks))
		for name, check := range h.checks {
			if err := check.Health(ctx); err != nil {
				h.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
				resp.Dependencies[name] = "unhealthy"
				resp.Status = "degraded"
				continue
			}
			resp.Dependencies[name] = "healthy"
		}
	}

	if resp.Status != "healthy" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
