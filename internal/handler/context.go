package handler

import (
	"errors"

	"go-pos-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Helpers to pull user info from the JWT context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system" // shouldn't happen in protected routes
	}
	return userID.(string)
}

func getUserName(c *fiber.Ctx) string {
	userName := c.Locals("user_name")
	if userName == nil {
		return "Unknown"
	}
	return userName.(string)
}

// getStoreID returns the caller's store scope. Every tenant-scoped handler
// goes through this; a user without a store assignment cannot reach the
// POS surface.
func getStoreID(c *fiber.Ctx) (uuid.UUID, error) {
	storeID := c.Locals("store_id")
	if storeID == nil {
		return uuid.Nil, errors.New("missing store context")
	}
	return uuid.Parse(storeID.(string))
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// serviceError maps a domain error to the HTTP status and stable code the
// terminals switch on.
func serviceError(c *fiber.Ctx, err error) error {
	type mapping struct {
		target error
		status int
		code   string
	}
	mappings := []mapping{
		{service.ErrInsufficientStock, 409, "INSUFFICIENT_STOCK"},
		{service.ErrSaleNotFound, 404, "SALE_NOT_FOUND"},
		{service.ErrSaleAlreadyVoided, 409, "ALREADY_VOIDED"},
		{service.ErrProductNotFound, 404, "PRODUCT_NOT_FOUND"},
		{service.ErrSessionAlreadyOpen, 409, "SESSION_ALREADY_OPEN"},
		{service.ErrSessionNotFound, 404, "SESSION_NOT_FOUND"},
		{service.ErrSessionAlreadyClosed, 409, "SESSION_ALREADY_CLOSED"},
		{service.ErrSessionNotOpen, 409, "SESSION_NOT_OPEN"},
		{service.ErrValidation, 400, "VALIDATION_ERROR"},
		{service.ErrCartEmpty, 400, "VALIDATION_ERROR"},
		{service.ErrInvalidTotal, 400, "VALIDATION_ERROR"},
		{service.ErrTotalMismatch, 400, "VALIDATION_ERROR"},
		{service.ErrInvalidPayment, 400, "VALIDATION_ERROR"},
		{service.ErrInvalidQuantity, 400, "VALIDATION_ERROR"},
		{service.ErrNegativeAmount, 400, "VALIDATION_ERROR"},
		{service.ErrInvalidExpenseAmount, 400, "VALIDATION_ERROR"},
		{service.ErrSKUExists, 409, "SKU_EXISTS"},
	}
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(fiber.Map{"code": m.code, "error": err.Error()})
		}
	}
	// Anything unmapped is an infrastructure failure, not bad input. The
	// terminal may retry the same submission; idempotency keys make the
	// retry safe.
	return c.Status(500).JSON(fiber.Map{"code": "TRANSACTION_FAILED", "error": "transaction failed, please retry"})
}
