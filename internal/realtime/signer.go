package realtime

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	"github.com/pusher/pusher-http-go/v5"

	"github.com/authdesk/authdesk/internal/apperr"
	"github.com/authdesk/authdesk/internal/config"
	"github.com/authdesk/authdesk/internal/db/models"
)

// SignRequest is the input of one signing call.
type SignRequest struct {
	SocketID    string
	ChannelName string
	User        *models.User
}

// Signature holds the subscription signature and the presence payload.
type Signature struct {
	Auth         string
	PresenceAuth string
	ChannelData  string
}

// Signer produces channel subscription signatures.
type Signer interface {
	Sign(ctx context.Context, req SignRequest) (*Signature, error)
}

// PusherSigner signs with the Pusher channels HTTP library.
type PusherSigner struct {
	client *pusher.Client
}

// NewPusherSigner returns a signer for the configured Pusher app.
func NewPusherSigner(cfg config.Pusher) *PusherSigner {
	return &PusherSigner{
		client: &pusher.Client{
			AppID:   cfg.AppID,
			Key:     cfg.AppKey,
			Secret:  cfg.AppSecret,
			Cluster: cfg.Cluster,
			Secure:  true,
		},
	}
}

type authResponse struct {
	Auth        string `json:"auth"`
	ChannelData string `json:"channel_data"`
}

// Sign implements Signer. It returns a Timeout error when ctx is done and a
// TransientProvider error for every other failure.
func (s *PusherSigner) Sign(ctx context.Context, req SignRequest) (*Signature, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Timeout(err)
	}

	if req.User == nil {
		return nil, apperr.TransientProvider(errors.New("no user to sign for"))
	}

	params := []byte(url.Values{
		"channel_name": {req.ChannelName},
		"socket_id":    {req.SocketID},
	}.Encode())

	private, err := s.client.AuthorizePrivateChannel(params)
	if err != nil {
		return nil, apperr.TransientProvider(errors.Wrap(err, "authorize private channel"))
	}

	presence, err := s.client.AuthorizePresenceChannel(params, pusher.MemberData{
		UserID: strconv.FormatUint(req.User.ID, 10),
		UserInfo: map[string]string{
			"name":  req.User.Name,
			"email": req.User.Email,
			"type":  string(req.User.Type),
		},
	})
	if err != nil {
		return nil, apperr.TransientProvider(errors.Wrap(err, "authorize presence channel"))
	}

	var plain, member authResponse
	if err := json.Unmarshal(private, &plain); err != nil {
		return nil, apperr.TransientProvider(errors.Wrap(err, "decode private auth"))
	}

	if err := json.Unmarshal(presence, &member); err != nil {
		return nil, apperr.TransientProvider(errors.Wrap(err, "decode presence auth"))
	}

	if err := ctx.Err(); err != nil {
		return nil, apperr.Timeout(err)
	}

	return &Signature{
		Auth:         plain.Auth,
		PresenceAuth: member.Auth,
		ChannelData:  member.ChannelData,
	}, nil
}
