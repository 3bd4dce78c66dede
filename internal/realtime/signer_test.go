package realtime

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authdesk/authdesk/internal/apperr"
	"github.com/authdesk/authdesk/internal/config"
	"github.com/authdesk/authdesk/internal/db/models"
)

func expectedSignature(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))

	return hex.EncodeToString(mac.Sum(nil))
}

func testSigner() *PusherSigner {
	return NewPusherSigner(config.Pusher{AppID: "1", AppKey: "app-key", AppSecret: "app-secret", Cluster: "eu"})
}

func TestPusherSignerSign(t *testing.T) {
	user := &models.User{ID: 7, Name: "Jo Lin", Email: "jo@x.com", Type: models.UserTypeAuthority}

	sig, err := testSigner().Sign(context.Background(), SignRequest{
		SocketID:    "1234.5678",
		ChannelName: "presence-chat.5",
		User:        user,
	})
	require.NoError(t, err)

	assert.Equal(t, "app-key:"+expectedSignature("app-secret", "1234.5678:presence-chat.5"), sig.Auth)

	var member struct {
		UserID   string            `json:"user_id"`
		UserInfo map[string]string `json:"user_info"`
	}
	require.NoError(t, json.Unmarshal([]byte(sig.ChannelData), &member))
	assert.Equal(t, "7", member.UserID)
	assert.Equal(t, map[string]string{"name": "Jo Lin", "email": "jo@x.com", "type": "authority"}, member.UserInfo)

	assert.Equal(t,
		"app-key:"+expectedSignature("app-secret", "1234.5678:presence-chat.5:"+sig.ChannelData),
		sig.PresenceAuth,
	)
}

func TestPusherSignerErrors(t *testing.T) {
	user := &models.User{ID: 7}

	t.Run("invalid socket id", func(t *testing.T) {
		_, err := testSigner().Sign(context.Background(), SignRequest{SocketID: "nope", ChannelName: "chat.1", User: user})
		require.Error(t, err)
		assert.Equal(t, apperr.KindTransientProvider, apperr.KindOf(err))
	})

	t.Run("no user", func(t *testing.T) {
		_, err := testSigner().Sign(context.Background(), SignRequest{SocketID: "1.1", ChannelName: "chat.1"})
		require.Error(t, err)
		assert.Equal(t, apperr.KindTransientProvider, apperr.KindOf(err))
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := testSigner().Sign(ctx, SignRequest{SocketID: "1.1", ChannelName: "chat.1", User: user})
		require.Error(t, err)
		assert.Equal(t, apperr.KindTimeout, apperr.KindOf(err))
	})
}
