package utils

import (
	"log"

	"github.com/skippergoroye/Accman-Server/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// Responses follow the {status_code, status, data|message|error} envelope.

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{
		"status_code": status,
		"status":      "success",
	}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// Fail maps a service error onto the envelope. Internal causes are
// logged server-side and replaced with a generic message.
func Fail(c *fiber.Ctx, err error) error {
	status := apperr.Status(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"status_code": status,
		"status":      "error",
		"error":       apperr.Message(err),
	})
}

// BadRequest reports a malformed request body or parameter.
func BadRequest(c *fiber.Ctx, message string) error {
	return Fail(c, apperr.Validation(message))
}

// Unauthorized reports a missing or invalid credential.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Fail(c, apperr.Authentication(message))
}

// Forbidden reports a role or ownership mismatch.
func Forbidden(c *fiber.Ctx, message string) error {
	return Fail(c, apperr.Authorization(message))
}
