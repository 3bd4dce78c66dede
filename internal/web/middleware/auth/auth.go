package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/authdesk/authdesk/internal/apperr"
	"github.com/authdesk/authdesk/internal/db/models"
	"github.com/authdesk/authdesk/internal/web/handler"
	"github.com/authdesk/authdesk/internal/web/session"
)

var errUnauthenticated = apperr.New(apperr.KindForbidden, "unauthenticated", "unauthenticated")

// New returns the session check. Requests without a valid session, or whose
// session user no longer exists, are answered with 401.
func New(db *gorm.DB) fiber.Handler {
	return check(db, fiber.StatusUnauthorized, errUnauthenticated)
}

// NewForbidding is New for routes that answer every failure with a bare 403,
// like the realtime channel authorization.
func NewForbidding(db *gorm.DB) fiber.Handler {
	return check(db, fiber.StatusForbidden, apperr.Forbidden(nil))
}

func check(db *gorm.DB, status int, denied error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// get session cookie
		sessionID := c.Cookies(session.CookieName)
		if sessionID == "" {
			return handler.Error(c, denied, status)
		}

		// check session validity
		sessData := new(session.Data)
		if err := sessData.Read(sessionID); err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				log.Error().Err(err).Msg("failed to read session")
			}

			return handler.Error(c, denied, status)
		}

		if sessData.UserID == 0 {
			return handler.Error(c, denied, status)
		}

		var user models.User
		if err := db.WithContext(c.UserContext()).First(&user, sessData.UserID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return handler.Error(c, apperr.Internal(err))
			}

			return handler.Error(c, denied, status)
		}

		// add the current user to locals for the handlers and the access log
		c.Locals(handler.LocalsCurrentUser, &user)
		c.Locals(handler.LocalsCurrentUserID, user.ID)

		return c.Next()
	}
}
