package handler

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"go-pos-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

func TestServiceErrorStatusMapping(t *testing.T) {
	app := fiber.New()
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return serviceError(c, service.ErrInsufficientStock)
	})
	app.Get("/badinput", func(c *fiber.Ctx) error {
		return serviceError(c, fmt.Errorf("%w: field 'Total' failed on tag 'required'", service.ErrValidation))
	})
	app.Get("/infra", func(c *fiber.Ctx) error {
		return serviceError(c, errors.New("driver: bad connection"))
	})

	cases := []struct {
		path string
		want int
	}{
		{"/conflict", 409},
		{"/badinput", 400},
		// Unmapped errors are infrastructure failures, not bad input.
		{"/infra", 500},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
		if err != nil {
			t.Fatalf("%s: request failed: %v", tc.path, err)
		}
		if resp.StatusCode != tc.want {
			t.Fatalf("%s: expected status %d, got %d", tc.path, tc.want, resp.StatusCode)
		}
	}
}
