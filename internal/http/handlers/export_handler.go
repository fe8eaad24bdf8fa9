package handlers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gaming-marketplace/backend/internal/export"
	"github.com/gaming-marketplace/backend/internal/http/dto"
	"github.com/gaming-marketplace/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ExportHandler struct {
	exportService *services.ExportService
	log           *zap.Logger
}

func NewExportHandler(exportService *services.ExportService, log *zap.Logger) *ExportHandler {
	return &ExportHandler{exportService: exportService, log: log}
}

// GET /exports/wallets?format=csv|json&header=true
func (h *ExportHandler) Wallets(c *fiber.Ctx) error {
	var buf bytes.Buffer
	format := c.Query("format", "csv")

	var err error
	switch format {
	case "json":
		err = h.exportService.WalletsJSON(c.Context(), &buf)
	case "csv":
		err = h.exportService.WalletsCSV(c.Context(), &buf, c.QueryBool("header", true))
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "unsupported format"})
	}
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, "wallets", format, buf.Bytes())
}

// GET /exports/deposits?format=csv|json&from=RFC3339&to=RFC3339
func (h *ExportHandler) Deposits(c *fiber.Ctx) error {
	rng, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	var buf bytes.Buffer
	format := c.Query("format", "csv")
	switch format {
	case "json":
		err = h.exportService.DepositsJSON(c.Context(), &buf, rng)
	case "csv":
		err = h.exportService.DepositsCSV(c.Context(), &buf, rng, c.QueryBool("header", true))
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "unsupported format"})
	}
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, "deposits", format, buf.Bytes())
}

// GET /exports/catalog?format=csv|json
func (h *ExportHandler) Catalog(c *fiber.Ctx) error {
	var buf bytes.Buffer
	format := c.Query("format", "csv")

	var err error
	switch format {
	case "json":
		err = h.exportService.CatalogJSON(c.Context(), &buf)
	case "csv":
		err = h.exportService.CatalogCSV(c.Context(), &buf, c.QueryBool("header", true))
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "unsupported format"})
	}
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, "catalog", format, buf.Bytes())
}

func parseDateRange(c *fiber.Ctx) (*export.DateRange, error) {
	var rng export.DateRange
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return nil, fmt.Errorf("invalid from date: %w", err)
		}
		rng.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return nil, fmt.Errorf("invalid to date: %w", err)
		}
		rng.To = &t
	}
	if rng.From == nil && rng.To == nil {
		return nil, nil
	}
	return &rng, nil
}

func sendFile(c *fiber.Ctx, name, format string, data []byte) error {
	filename := fmt.Sprintf("%s-%s.%s", name, time.Now().UTC().Format("2006-01-02"), format)
	contentType := "text/csv"
	if format == "json" {
		contentType = "application/json"
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(data)
}
