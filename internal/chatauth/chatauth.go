// Package chatauth answers whether a user may join a chat room.
package chatauth

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/authdesk/authdesk/internal/apperr"
	"github.com/authdesk/authdesk/internal/db/models"
)

// Service resolves chat rooms and evaluates the join policy.
type Service struct {
	db     *gorm.DB
	policy Policy
}

// NewService returns a Service. A nil policy falls back to ParticipantPolicy.
func NewService(db *gorm.DB, policy Policy) *Service {
	if policy == nil {
		policy = ParticipantPolicy
	}

	return &Service{db: db, policy: policy}
}

// Room loads a chat room with its participants.
func (s *Service) Room(ctx context.Context, id uint64) (*models.ChatRoom, error) {
	var room models.ChatRoom

	err := s.db.WithContext(ctx).Preload("Participants").First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("chat_room")
		}

		if err = apperr.FromContext(err); apperr.Is(err, apperr.KindTimeout) {
			return nil, err
		}

		return nil, apperr.Internal(err)
	}

	return &room, nil
}

// Allows evaluates the policy. It never panics and denies on nil input.
func (s *Service) Allows(user *models.User, room *models.ChatRoom) (allowed bool) {
	if user == nil || room == nil {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Uint64("user_id", user.ID).Uint64("room_id", room.ID).Msg("chat room policy panicked")

			allowed = false
		}
	}()

	return s.policy(user, room)
}

// IsAuthorized resolves the room and evaluates the policy. Any failure denies.
func (s *Service) IsAuthorized(ctx context.Context, user *models.User, roomID uint64) bool {
	room, err := s.Room(ctx, roomID)
	if err != nil {
		log.Debug().Err(err).Uint64("room_id", roomID).Msg("chat room lookup failed")

		return false
	}

	return s.Allows(user, room)
}
