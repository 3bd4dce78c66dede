package logout

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authdesk/authdesk/internal/web/session"
)

type brokenStorage struct{}

func (brokenStorage) Get(string) ([]byte, error)              { return nil, nil }
func (brokenStorage) Set(string, []byte, time.Duration) error { return nil }
func (brokenStorage) Delete(string) error                     { return errors.New("storage down") }
func (brokenStorage) Reset() error                            { return nil }
func (brokenStorage) Close() error                            { return nil }

func logout(t *testing.T, cookie string) *http.Response {
	t.Helper()

	app := fiber.New()
	New(false).Init(app)

	req := httptest.NewRequest(fiber.MethodPost, Path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func TestLogout(t *testing.T) {
	session.Init(nil, time.Hour)
	require.NoError(t, (&session.Data{UserID: 7}).Write("sid", time.Minute))

	resp := logout(t, "sid")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var cleared bool
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName && c.Value == "" {
			cleared = true
		}
	}
	assert.True(t, cleared)

	var data session.Data
	assert.ErrorIs(t, data.Read("sid"), session.ErrNotFound)
}

func TestLogoutWithoutCookie(t *testing.T) {
	session.Init(nil, time.Hour)

	assert.Equal(t, fiber.StatusOK, logout(t, "").StatusCode)
}

func TestLogoutStorageFailure(t *testing.T) {
	session.Init(brokenStorage{}, time.Hour)
	t.Cleanup(func() { session.Init(nil, time.Hour) })

	assert.Equal(t, fiber.StatusInternalServerError, logout(t, "sid").StatusCode)
}
