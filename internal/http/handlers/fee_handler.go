package handlers

import (
	"github.com/gaming-marketplace/backend/internal/http/dto"
	"github.com/gaming-marketplace/backend/internal/middleware"
	"github.com/gaming-marketplace/backend/internal/models"
	"github.com/gaming-marketplace/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type FeeHandler struct {
	feeService *services.FeeService
	log        *zap.Logger
}

func NewFeeHandler(feeService *services.FeeService, log *zap.Logger) *FeeHandler {
	return &FeeHandler{feeService: feeService, log: log}
}

// GET /fees
func (h *FeeHandler) GetCurrent(c *fiber.Ctx) error {
	cfg, err := h.feeService.GetCurrent(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, cfg)
}

// PUT /fees
func (h *FeeHandler) UpdateFees(c *fiber.Ctx) error {
	var req dto.UpdateFeesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	update, err := h.feeService.UpdateFees(c.Context(), req.UsdFee, req.TomanFee, middleware.GetAdminID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, update)
}

// POST /fees/enable and /fees/disable
func (h *FeeHandler) SetEnabled(enabled bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cfg, err := h.feeService.SetEnabled(c.Context(), enabled, middleware.GetAdminID(c))
		if err != nil {
			return respondError(c, err)
		}
		return respondOK(c, cfg)
	}
}

// POST /fees/reset
func (h *FeeHandler) ResetToDefaults(c *fiber.Ctx) error {
	cfg, err := h.feeService.ResetToDefaults(c.Context(), middleware.GetAdminID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, cfg)
}

// GET /fees/history
func (h *FeeHandler) History(c *fiber.Ctx) error {
	history, err := h.feeService.History(c.Context(), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, history)
}

// POST /fees/quote
func (h *FeeHandler) Quote(c *fiber.Ctx) error {
	var req dto.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	quote, err := h.feeService.Quote(c.Context(), req.Amount, models.Currency(req.Currency))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, quote)
}
