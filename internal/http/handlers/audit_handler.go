package handlers

import (
	"github.com/gaming-marketplace/backend/internal/http/dto"
	"github.com/gaming-marketplace/backend/internal/repositories"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuditHandler serves the dashboard's audit and error consoles straight from
// the repositories; there is no business logic to mediate.
type AuditHandler struct {
	auditRepo    *repositories.AuditRepo
	errorLogRepo *repositories.ErrorLogRepo
	log          *zap.Logger
}

func NewAuditHandler(auditRepo *repositories.AuditRepo, errorLogRepo *repositories.ErrorLogRepo, log *zap.Logger) *AuditHandler {
	return &AuditHandler{auditRepo: auditRepo, errorLogRepo: errorLogRepo, log: log}
}

// GET /audit/:entityType/:id
func (h *AuditHandler) GetByEntity(c *fiber.Ctx) error {
	entityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid entity id"})
	}
	logs, err := h.auditRepo.GetByEntity(c.Context(), c.Params("entityType"), entityID,
		c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, logs)
}

// GET /errors
func (h *AuditHandler) RecentErrors(c *fiber.Ctx) error {
	entries, err := h.errorLogRepo.Recent(c.Context(), c.QueryInt("limit", 100))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, entries)
}
