package handlers

import (
	"github.com/gaming-marketplace/backend/internal/apperrors"
	"github.com/gaming-marketplace/backend/internal/http/dto"
	"github.com/gaming-marketplace/backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps error codes to HTTP statuses. Unknown codes are 500.
func statusFor(code string) int {
	switch code {
	case apperrors.CodeRequiredFieldMissing,
		apperrors.CodeValidationFailed,
		apperrors.CodeInvalidInput:
		return fiber.StatusBadRequest
	case apperrors.CodeInsufficientBalance:
		return fiber.StatusUnprocessableEntity
	case apperrors.CodeDuplicateWallet, apperrors.CodeDuplicateRealm:
		return fiber.StatusConflict
	case apperrors.CodeWalletNotFound,
		apperrors.CodeGameNotFound,
		apperrors.CodeRealmNotFound,
		apperrors.CodeConfigNotFound:
		return fiber.StatusNotFound
	case apperrors.CodeTimeout:
		return fiber.StatusGatewayTimeout
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	app := apperrors.Normalize(err)
	reqID, _ := c.Locals(middleware.CtxRequestID).(string)
	return c.Status(statusFor(app.Code)).JSON(dto.ErrorResponse{
		Error:     app.Message,
		Code:      app.Code,
		Details:   app.Details,
		RequestID: reqID,
	})
}

func respondOK(c *fiber.Ctx, data any) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: data})
}

