// Package logout revokes the current session.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/authdesk/authdesk/internal/web/handler"
	"github.com/authdesk/authdesk/internal/web/session"
)

// Path is the logout route below the api group.
const Path = handler.RootPath + "logout"

// Service is the logout handler service.
type Service struct {
	secure bool
}

var _ handler.Service = (*Service)(nil)

// New returns the logout handler. secure marks the cleared cookie Secure.
func New(secure bool) *Service {
	return &Service{secure: secure}
}

// Init registers the logout route.
func (s *Service) Init(router fiber.Router) {
	router.Post(Path, s.Logout)
}

// Logout deletes the session from the storage and clears the cookie.
func (s *Service) Logout(c *fiber.Ctx) error {
	if sessionID := c.Cookies(session.CookieName); sessionID != "" {
		if err := session.Delete(sessionID); err != nil {
			log.Error().Err(err).Msg("failed to delete session")

			return handler.JSON(c, fiber.StatusInternalServerError, "Session could not be revoked", nil)
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		MaxAge:   -1,
		Secure:   s.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return handler.JSON(c, fiber.StatusOK, "Logged out", nil)
}
