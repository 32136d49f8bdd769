package handler

import (
	"strconv"

	"go-pos-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CashSessionHandler struct {
	sessionService service.CashSessionService
}

func NewCashSessionHandler(sessionService service.CashSessionService) *CashSessionHandler {
	return &CashSessionHandler{sessionService: sessionService}
}

// OpenSession starts a till shift
// POST /api/v1/cash-sessions/open
func (h *CashSessionHandler) OpenSession(c *fiber.Ctx) error {
	var req service.OpenSessionRequest
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

	session, err := h.sessionService.Open(storeID, cashierID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Cash session opened",
		"data":    session.ToResponse(),
	})
}

// CloseSession ends a till shift and reports the drawer variance
// POST /api/v1/cash-sessions/:id/close
func (h *CashSessionHandler) CloseSession(c *fiber.Ctx) error {
	sessionID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"code": "VALIDATION_ERROR", "error": "Invalid session ID"})
	}

	var req service.CloseSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"code": "VALIDATION_ERROR", "error": "Invalid JSON"})
	}

	storeID, err := getStoreID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"code": "UNAUTHORIZED", "error": "No store assigned"})
	}

	result, err := h.sessionService.Close(storeID, sessionID, getUserID(c), &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Cash session closed", "data": result})
}

// CurrentSession returns the store's open session, if any
// GET /api/v1/cash-sessions/current
func (h *CashSessionHandler) CurrentSession(c *fiber.Ctx) error {
	storeID, err := getStoreID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"code": "UNAUTHORIZED", "error": "No store assigned"})
	}

	session, err := h.sessionService.Current(storeID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"code": "SESSION_NOT_FOUND", "error": "No open cash session"})
	}
	return c.JSON(fiber.Map{"data": session.ToResponse()})
}

// GetSessions lists past sessions with their aggregates
// GET /api/v1/cash-sessions?limit=30
func (h *CashSessionHandler) GetSessions(c *fiber.Ctx) error {
	storeID, err := getStoreID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"code": "UNAUTHORIZED", "error": "No store assigned"})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "30"))
	entries, err := h.sessionService.History(storeID, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"data": entries, "total": len(entries)})
}
