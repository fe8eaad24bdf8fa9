package handlers

import (
	"github.com/gaming-marketplace/backend/internal/http/dto"
	"github.com/gaming-marketplace/backend/internal/middleware"
	"github.com/gaming-marketplace/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
	log            *zap.Logger
}

func NewCatalogHandler(catalogService *services.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, log: log}
}

// POST /games
func (h *CatalogHandler) CreateGame(c *fiber.Ctx) error {
	var req dto.CreateGameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	game, err := h.catalogService.CreateGame(c.Context(), req.Name, req.Slug, req.Icon, middleware.GetAdminID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: game})
}

// GET /games
func (h *CatalogHandler) ListGames(c *fiber.Ctx) error {
	games, err := h.catalogService.ListGames(c.Context(), c.QueryBool("include_inactive"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, games)
}

// GET /games/:id
func (h *CatalogHandler) GetGame(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid game id"})
	}
	game, err := h.catalogService.GetGame(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, game)
}

// PUT /games/:id
func (h *CatalogHandler) UpdateGame(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid game id"})
	}
	var req dto.UpdateGameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	game, err := h.catalogService.UpdateGame(c.Context(), id, services.UpdateGameInput{
		Name: req.Name,
		Slug: req.Slug,
		Icon: req.Icon,
	}, middleware.GetAdminID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, game)
}

// POST /games/:id/deactivate and /games/:id/reactivate
func (h *CatalogHandler) SetGameActive(active bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid game id"})
		}
		if err := h.catalogService.SetGameActive(c.Context(), id, active, middleware.GetAdminID(c)); err != nil {
			return respondError(c, err)
		}
		return respondOK(c, nil)
	}
}

// POST /games/:id/realms
func (h *CatalogHandler) CreateRealm(c *fiber.Ctx) error {
	gameID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid game id"})
	}
	var req dto.CreateRealmRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	realm, err := h.catalogService.CreateRealm(c.Context(), gameID, req.RealmName, req.StatusURL, middleware.GetAdminID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: realm})
}

// GET /games/:id/realms
func (h *CatalogHandler) ListRealms(c *fiber.Ctx) error {
	gameID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid game id"})
	}
	realms, err := h.catalogService.ListRealms(c.Context(), gameID, c.QueryBool("include_inactive"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, realms)
}

// GET /realms/:id
func (h *CatalogHandler) GetRealm(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid realm id"})
	}
	realm, err := h.catalogService.GetRealm(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, realm)
}

// PUT /realms/:id
func (h *CatalogHandler) UpdateRealm(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid realm id"})
	}
	var req dto.UpdateRealmRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	realm, err := h.catalogService.UpdateRealm(c.Context(), id, services.UpdateRealmInput{
		RealmName: req.RealmName,
		StatusURL: req.StatusURL,
	}, middleware.GetAdminID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, realm)
}

// POST /realms/:id/deactivate and /realms/:id/reactivate
func (h *CatalogHandler) SetRealmActive(active bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid realm id"})
		}
		if err := h.catalogService.SetRealmActive(c.Context(), id, active, middleware.GetAdminID(c)); err != nil {
			return respondError(c, err)
		}
		return respondOK(c, nil)
	}
}

// GET /realms/:id/status
func (h *CatalogHandler) GetRealmStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid realm id"})
	}
	snap, err := h.catalogService.GetRealmStatus(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, snap)
}
