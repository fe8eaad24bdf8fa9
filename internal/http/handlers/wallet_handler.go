package handlers

import (
	"context"

	"github.com/gaming-marketplace/backend/internal/http/dto"
	"github.com/gaming-marketplace/backend/internal/middleware"
	"github.com/gaming-marketplace/backend/internal/models"
	"github.com/gaming-marketplace/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WalletHandler struct {
	walletService *services.WalletService
	log           *zap.Logger
}

func NewWalletHandler(walletService *services.WalletService, log *zap.Logger) *WalletHandler {
	return &WalletHandler{walletService: walletService, log: log}
}

// GET /users/:userId/wallet
func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id"})
	}
	wallet, err := h.walletService.GetWallet(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, wallet)
}

// POST /users/:userId/wallet/gold
func (h *WalletHandler) CreateGoldWallet(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id"})
	}
	var req dto.CreateGoldWalletRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	realmID, err := uuid.Parse(req.RealmID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid realm id"})
	}

	wallet, err := h.walletService.CreateGoldWallet(c.Context(), userID, realmID, middleware.GetAdminID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: wallet})
}

// POST /users/:userId/wallet/deposits
func (h *WalletHandler) AddSuspendedGold(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id"})
	}
	var req dto.DepositRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	realmID, err := uuid.Parse(req.RealmID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid realm id"})
	}

	receipt, err := h.walletService.AddSuspendedGold(c.Context(), userID, realmID, req.Amount, middleware.GetAdminID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: receipt})
}

// POST /users/:userId/wallet/convert
func (h *WalletHandler) ConvertSuspendedGold(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id"})
	}
	var req dto.ConvertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	realmID, err := uuid.Parse(req.RealmID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid realm id"})
	}

	result, err := h.walletService.ConvertSuspendedGold(c.Context(), userID, realmID,
		req.Amount, models.Currency(req.Currency), middleware.GetAdminID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, result)
}

// POST /users/:userId/wallet/withdraw
func (h *WalletHandler) WithdrawGold(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id"})
	}
	var req dto.WithdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	realmID, err := uuid.Parse(req.RealmID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid realm id"})
	}

	if err := h.walletService.WithdrawGold(c.Context(), userID, realmID, req.Amount, middleware.GetAdminID(c)); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, nil)
}

// POST /users/:userId/wallet/credit
func (h *WalletHandler) CreditStatic(c *fiber.Ctx) error {
	return h.staticChange(c, h.walletService.CreditStatic)
}

// POST /users/:userId/wallet/debit
func (h *WalletHandler) DebitStatic(c *fiber.Ctx) error {
	return h.staticChange(c, h.walletService.DebitStatic)
}

type staticOp func(ctx context.Context, userID uuid.UUID, currency models.Currency, amount float64, adminID uuid.UUID) error

func (h *WalletHandler) staticChange(c *fiber.Ctx, apply staticOp) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user id"})
	}
	var req dto.StaticWalletRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	if err := apply(c.Context(), userID, models.Currency(req.Currency), req.Amount, middleware.GetAdminID(c)); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, nil)
}
