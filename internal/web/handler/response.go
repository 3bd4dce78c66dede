// Package handler holds the JSON response helpers and route conventions shared
// by the HTTP handlers.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/authdesk/authdesk/internal/apperr"
	"github.com/authdesk/authdesk/internal/db/models"
)

// Response is the envelope of every JSON response.
type Response struct {
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// JSON writes a success envelope.
func JSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Message: message, Data: data})
}

// Error writes err as failure envelope. The status is taken from the error
// kind unless status is given. Details of internal errors are only logged.
func Error(c *fiber.Ctx, err error, status ...int) error {
	code := apperr.Status(err)
	if len(status) > 0 {
		code = status[0]
	}

	resp := Response{Message: "internal error"}

	var ae *apperr.Error
	if errors.As(err, &ae) {
		resp.Message = ae.Message
		resp.Errors = ae.Fields
	}

	event := log.Debug()
	if code >= fiber.StatusInternalServerError {
		event = log.Error()
	}

	event.Err(err).
		Int("status", code).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Interface("user_id", c.Locals(LocalsCurrentUserID)).
		Msg("request failed")

	return c.Status(code).JSON(resp)
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(LocalsCurrentUser).(*models.User)

	return user
}
