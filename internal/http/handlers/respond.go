package handlers

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"shopcatalog/internal/domain"
	applog "shopcatalog/internal/log"
)

// fail maps the error taxonomy onto HTTP statuses with a
// machine-readable code. State-gate violations come back 403 so they
// are distinguishable from plain validation failures.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation", "detail": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	case errors.Is(err, domain.ErrInvalidState):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "invalid_state", "detail": err.Error()})
	case errors.Is(err, domain.ErrProtected):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "protected"})
	default:
		applog.Error(c, "server.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal"})
	}
}

// queryValues converts the request query string to url.Values so the
// transport-independent normalizer can consume it.
func queryValues(c *fiber.Ctx) url.Values {
	vals := url.Values{}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		vals.Add(string(k), string(v))
	})
	return vals
}

// actor identifies who performed a back-office mutation for the audit
// trail. Authentication is external; an X-Actor header wins, otherwise
// a generic admin actor is recorded.
func actor(c *fiber.Ctx) string {
	if a := c.Get("X-Actor"); a != "" {
		return a
	}
	return "admin"
}
