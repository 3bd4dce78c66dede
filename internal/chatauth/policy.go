package chatauth

import (
	"slices"

	"github.com/authdesk/authdesk/internal/db/models"
)

// Policy decides whether user may join room. Policies are pure: no store
// access, no side effects, same answer for the same inputs.
type Policy func(user *models.User, room *models.ChatRoom) bool

// ParticipantPolicy allows users listed as participants of the room.
func ParticipantPolicy(user *models.User, room *models.ChatRoom) bool {
	return room.HasParticipant(user.ID)
}

// UserTypePolicy allows users whose type is one of types.
func UserTypePolicy(types ...models.UserType) Policy {
	allowed := slices.Clone(types)

	return func(user *models.User, _ *models.ChatRoom) bool {
		return slices.Contains(allowed, user.Type)
	}
}

// AnyOf allows when at least one of policies allows.
func AnyOf(policies ...Policy) Policy {
	return func(user *models.User, room *models.ChatRoom) bool {
		for _, p := range policies {
			if p != nil && p(user, room) {
				return true
			}
		}

		return false
	}
}
