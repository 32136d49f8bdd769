package handler

import (
	"go-pos-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GetDashboardStats returns the current business day overview
// GET /api/v1/dashboard/stats
func (h *ReportHandler) GetDashboardStats(c *fiber.Ctx) error {
	storeID, err := getStoreID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"code": "UNAUTHORIZED", "error": "No store assigned"})
	}

	stats, err := h.service.GetDashboardStats(storeID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(stats)
}

// GetSalesByDay returns the daily sales series for charting
// GET /api/v1/dashboard/sales-by-day?range=7d
func (h *ReportHandler) GetSalesByDay(c *fiber.Ctx) error {
	storeID, err := getStoreID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"code": "UNAUTHORIZED", "error": "No store assigned"})
	}

	rangeParam := c.Query("range", "7d")
	var days int
	switch rangeParam {
	case "7d":
		days = 7
	case "1m":
		days = 30
	case "3m":
		days = 90
	case "6m":
		days = 180
	case "12m":
		days = 365
	default:
		days = 7
	}

	series, err := h.service.GetSalesByDay(storeID, days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": series, "range": rangeParam})
}
