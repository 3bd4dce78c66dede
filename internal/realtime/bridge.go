// Package realtime authorizes realtime channel subscriptions.
//
// A subscription is signed only after the channel name was parsed, the chat
// room resolved and the join policy passed; the signer is called at most once
// per request and every failure is reported as a bare Forbidden.
package realtime

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/authdesk/authdesk/internal/apperr"
	"github.com/authdesk/authdesk/internal/db/models"
)

var errUnauthenticated = errors.New("no authenticated user")

// RoomAuthorizer resolves chat rooms and evaluates the join policy.
type RoomAuthorizer interface {
	Room(ctx context.Context, id uint64) (*models.ChatRoom, error)
	Allows(user *models.User, room *models.ChatRoom) bool
}

// Request is an incoming subscription authorization.
type Request struct {
	ChannelName string
	SocketID    string
	User        *models.User
}

// PresenceAuth is the presence part of a Response.
type PresenceAuth struct {
	Auth        string `json:"auth"`
	ChannelData string `json:"channel_data"`
}

// UserInfo describes the subscriber.
type UserInfo struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Type  string `json:"type"`
}

// Response is returned to the realtime client library.
type Response struct {
	Auth         string       `json:"auth"`
	PresenceAuth PresenceAuth `json:"presence_auth"`
	UserInfo     UserInfo     `json:"user_info"`
}

// Bridge authorizes channel subscriptions.
type Bridge struct {
	rooms  RoomAuthorizer
	signer Signer
	prefix string
}

// NewBridge returns a Bridge. prefix, when set, is the only accepted channel scope.
func NewBridge(rooms RoomAuthorizer, signer Signer, prefix string) *Bridge {
	return &Bridge{rooms: rooms, signer: signer, prefix: prefix}
}

// Authorize checks req and signs it. Every error is a Forbidden apperr.Error
// whose cause names the reason.
func (b *Bridge) Authorize(ctx context.Context, req Request) (*Response, error) {
	resp, result, err := b.authorize(ctx, req)

	requestCounter().WithLabelValues(result).Inc()

	if err != nil {
		event := log.Warn()
		if result == ResultProviderError || result == ResultStoreError {
			event = log.Error()
		}

		event.Err(err).
			Str("result", result).
			Str("channel", req.ChannelName).
			Uint64("user_id", userID(req.User)).
			Msg("realtime authorization refused")

		return nil, apperr.Forbidden(err)
	}

	log.Debug().Str("channel", req.ChannelName).Uint64("user_id", req.User.ID).Msg("realtime authorization granted")

	return resp, nil
}

func (b *Bridge) authorize(ctx context.Context, req Request) (*Response, string, error) {
	if req.User == nil {
		return nil, ResultUnauthenticated, errUnauthenticated
	}

	channel, err := ParseChannel(req.ChannelName, b.prefix)
	if err != nil {
		return nil, ResultMalformed, err
	}

	if req.SocketID == "" {
		return nil, ResultMalformed, ErrMalformedChannel
	}

	room, err := b.rooms.Room(ctx, channel.RoomID)
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindNotFound:
			return nil, ResultRoomNotFound, err
		case apperr.KindTimeout:
			return nil, ResultTimeout, err
		default:
			return nil, ResultStoreError, err
		}
	}

	if !b.rooms.Allows(req.User, room) {
		return nil, ResultDenied, errors.New("user may not join room")
	}

	sig, err := b.signer.Sign(ctx, SignRequest{
		SocketID:    req.SocketID,
		ChannelName: channel.Name,
		User:        req.User,
	})
	if err != nil {
		if apperr.Is(err, apperr.KindTimeout) {
			return nil, ResultTimeout, err
		}

		return nil, ResultProviderError, err
	}

	return &Response{
		Auth: sig.Auth,
		PresenceAuth: PresenceAuth{
			Auth:        sig.PresenceAuth,
			ChannelData: sig.ChannelData,
		},
		UserInfo: UserInfo{
			ID:    req.User.ID,
			Name:  req.User.Name,
			Email: req.User.Email,
			Type:  string(req.User.Type),
		},
	}, ResultOK, nil
}

func userID(u *models.User) uint64 {
	if u == nil {
		return 0
	}

	return u.ID
}
