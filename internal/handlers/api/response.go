// Package api implements the JSON admin and decision endpoints. Every
// response uses the same envelope: {"status": "ok", "data": ...} on success,
// {"status": "error", "error": "..."} on failure.
package api

import (
	"github.com/gofiber/fiber/v3"
)

func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}
