package handler

import (
	"strconv"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	storeID, err := getStoreID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"code": "UNAUTHORIZED", "error": "No store assigned"})
	}

	if err := h.service.CreateProduct(storeID, &product, getUserID(c), getUserName(c)); err != nil {
		return serviceError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	storeID, err := getStoreID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"code": "UNAUTHORIZED", "error": "No store assigned"})
	}

	updated, err := h.service.UpdateProduct(storeID, productID, &req, getUserID(c), getUserName(c))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	storeID, err := getStoreID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"code": "UNAUTHORIZED", "error": "No store assigned"})
	}

	products, err := h.service.GetProducts(storeID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

// GetProductMovements returns the stock ledger for one product
// GET /api/v1/products/:id/movements?limit=50
func (h *CatalogHandler) GetProductMovements(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	storeID, err := getStoreID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"code": "UNAUTHORIZED", "error": "No store assigned"})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	movements, err := h.service.GetProductMovements(storeID, productID, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"data": movements, "total": len(movements)})
}

// GetStoreMovements returns the store-wide stock ledger, newest first
// GET /api/v1/stock/movements?limit=100
func (h *CatalogHandler) GetStoreMovements(c *fiber.Ctx) error {
	storeID, err := getStoreID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"code": "UNAUTHORIZED", "error": "No store assigned"})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	movements, err := h.service.GetStoreMovements(storeID, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"data": movements, "total": len(movements)})
}

// AdjustStock records a manual stock change
// POST /api/v1/stock/adjust
func (h *CatalogHandler) AdjustStock(c *fiber.Ctx) error {
	var req service.AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	storeID, err := getStoreID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"code": "UNAUTHORIZED", "error": "No store assigned"})
	}

	product, err := h.service.AdjustStock(storeID, &req, getUserID(c), getUserName(c))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Stock adjusted", "data": product})
}
