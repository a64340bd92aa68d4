package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"interview-platform/internal/models"
	"interview-platform/internal/services"
)

type HealthHandler struct {
	db     *gorm.DB
	llm    services.LLMService
	vector services.VectorService
}

func NewHealthHandler(db *gorm.DB, llm services.LLMService, vector services.VectorService) *HealthHandler {
	return &HealthHandler{db: db, llm: llm, vector: vector}
}

// HandleHealth handles GET /health. Reports each dependency
// individually; overall status is degraded when any check fails.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	checks := map[string]string{
		"database": "ok",
		"ollama":   "ok",
		"qdrant":   "ok",
	}
	status := "ok"

	if sqlDB, err := h.db.DB(); err != nil {
		checks["database"] = err.Error()
		status = "degraded"
	} else if err := sqlDB.Ping(); err != nil {
		checks["database"] = err.Error()
		status = "degraded"
	}

	if !h.llm.CheckHealth(c.Context()) {
		checks["ollama"] = "unreachable"
		status = "degraded"
	}

	if !h.vector.CheckHealth(c.Context()) {
		checks["qdrant"] = "unreachable"
		status = "degraded"
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(models.HealthResponse{
		Status:   status,
		Services: checks,
	})
}
