// Package pusher provides the realtime channel authorization endpoint.
package pusher

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/authdesk/authdesk/internal/apperr"
	"github.com/authdesk/authdesk/internal/realtime"
	"github.com/authdesk/authdesk/internal/web/handler"
)

// Path is the channel authorization endpoint.
const Path = handler.RootPath + "pusher/auth"

// Authorizer signs channel subscriptions.
type Authorizer interface {
	Authorize(ctx context.Context, req realtime.Request) (*realtime.Response, error)
}

// Service provides the realtime authorization route.
type Service struct {
	bridge Authorizer
	guards []fiber.Handler
}

// New returns the realtime authorization handler. guards run before it on the
// route, e.g. a session check answering 403.
func New(bridge Authorizer, guards ...fiber.Handler) *Service {
	return &Service{bridge: bridge, guards: guards}
}

// Init registers routes.
func (s *Service) Init(router fiber.Router) {
	if router == nil || s.bridge == nil {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return
	}

	handlers := append(append([]fiber.Handler{}, s.guards...), s.Auth)
	router.Post(Path, handlers...)
}

// Auth answers the client library's authorization request. Every failure is
// a bare 403.
func (s *Service) Auth(c *fiber.Ctx) error {
	var in struct {
		ChannelName string `json:"channel_name" form:"channel_name"`
		SocketID    string `json:"socket_id"    form:"socket_id"`
	}

	if err := c.BodyParser(&in); err != nil {
		return handler.Error(c, apperr.Forbidden(err), fiber.StatusForbidden)
	}

	resp, err := s.bridge.Authorize(c.UserContext(), realtime.Request{
		ChannelName: in.ChannelName,
		SocketID:    in.SocketID,
		User:        handler.CurrentUser(c),
	})
	if err != nil {
		return handler.Error(c, apperr.Forbidden(err), fiber.StatusForbidden)
	}

	return c.JSON(resp)
}
