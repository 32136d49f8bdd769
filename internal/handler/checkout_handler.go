package handler

import (
	"time"

	"go-pos-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CheckoutHandler struct {
	service service.CheckoutService
}

func NewCheckoutHandler(s service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: s}
}

// Checkout processes a cart into a sale
// POST /api/v1/checkout
// Rate-limited per cashier by the limiter middleware on this route.
func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"code": "VALIDATION_ERROR", "error": "Invalid JSON"})
	}

	storeID, err := getStoreID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"code": "UNAUTHORIZED", "error": "No store assigned"})
	}
	cashierID, err := uuid.Parse(getUserID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"code": "UNAUTHORIZED", "error": "Invalid cashier identity"})
	}

	result, err := h.service.Checkout(storeID, cashierID, getUserName(c), &req)
	if err != nil {
		return serviceError(c, err)
	}

	status := 201
	if result.Duplicate {
		// Replay of an earlier submission: report the original sale
		status = 200
	}
	return c.Status(status).JSON(fiber.Map{
		"ok":        true,
		"sale_id":   result.SaleID,
		"total":     result.Total,
		"duplicate": result.Duplicate,
	})
}

// VoidSale reverses a completed sale
// POST /api/v1/sales/:id/void
func (h *CheckoutHandler) VoidSale(c *fiber.Ctx) error {
	saleID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"code": "VALIDATION_ERROR", "error": "Invalid sale ID"})
	}

	storeID, err := getStoreID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"code": "UNAUTHORIZED", "error": "No store assigned"})
	}

	sale, err := h.service.VoidSale(storeID, saleID, getUserID(c), getUserName(c))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Sale voided", "data": sale})
}

// GetSale returns one sale with its line items
// GET /api/v1/sales/:id
func (h *CheckoutHandler) GetSale(c *fiber.Ctx) error {
	saleID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"code": "VALIDATION_ERROR", "error": "Invalid sale ID"})
	}

	storeID, err := getStoreID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"code": "UNAUTHORIZED", "error": "No store assigned"})
	}

	sale, err := h.service.GetSale(storeID, saleID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"data": sale})
}

// GetSales lists sales for the store
// GET /api/v1/sales?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *CheckoutHandler) GetSales(c *fiber.Ctx) error {
	storeID, err := getStoreID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"code": "UNAUTHORIZED", "error": "No store assigned"})
	}

	var from, to time.Time
	if raw := c.Query("from"); raw != "" {
		if from, err = time.Parse("2006-01-02", raw); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid from date, use YYYY-MM-DD"})
		}
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid to date, use YYYY-MM-DD"})
		}
		to = parsed.AddDate(0, 0, 1) // inclusive end day
	}

	sales, err := h.service.GetSales(storeID, from, to)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"data": sales, "total": len(sales)})
}

// GetCustomers aggregates purchase history by customer phone
// GET /api/v1/customers
func (h *CheckoutHandler) GetCustomers(c *fiber.Ctx) error {
	storeID, err := getStoreID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"code": "UNAUTHORIZED", "error": "No store assigned"})
	}

	customers, err := h.service.GetCustomerSummaries(storeID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"data": customers, "total": len(customers)})
}
