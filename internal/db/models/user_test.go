package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	u := &User{ID: 1, Password: hash}
	assert.True(t, u.VerifyPassword("secret1"))
	assert.False(t, u.VerifyPassword("secret2"))
}

func TestVerifyPasswordInvalidHash(t *testing.T) {
	u := &User{ID: 2, Password: "not-a-hash"}
	assert.False(t, u.VerifyPassword("anything"))
}

func TestChatRoomHasParticipant(t *testing.T) {
	room := ChatRoom{
		ID: 1,
		Participants: []ChatRoomParticipant{
			{ChatRoomID: 1, UserID: 7},
			{ChatRoomID: 1, UserID: 9},
		},
	}

	assert.True(t, room.HasParticipant(7))
	assert.False(t, room.HasParticipant(8))
	assert.False(t, (&ChatRoom{}).HasParticipant(7))
}
