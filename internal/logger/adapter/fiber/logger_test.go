package fiber_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authdesk/authdesk/internal/logger"
	adapter "github.com/authdesk/authdesk/internal/logger/adapter/fiber"
)

type accessLine struct {
	IP     string `json:"IP"`
	Status int    `json:"status"`
	URI    string `json:"URI"`
	Method string `json:"method"`
	Error  string `json:"error"`
}

func newApp(cfg adapter.Config) *fiber.App {
	app := fiber.New()
	app.Use(adapter.New(cfg))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/checkalive", func(c *fiber.Ctx) error { return c.SendString("alive") })
	app.Get("/fail", func(_ *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "teapot") })
	app.Get("/boom", func(_ *fiber.Ctx) error { return errors.New("boom") })

	return app
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantError  string
	}{
		{name: "ok with query", path: "/ok?page=2", wantStatus: http.StatusOK},
		{name: "fiber error keeps status", path: "/fail", wantStatus: http.StatusTeapot, wantError: "teapot"},
		{name: "plain error is 500", path: "/boom", wantStatus: http.StatusInternalServerError, wantError: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			app := newApp(adapter.Config{Output: &buf})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get("X-Performance"))

			var line accessLine
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
			assert.Equal(t, tt.wantStatus, line.Status)
			assert.Equal(t, tt.path, line.URI)
			assert.Equal(t, http.MethodGet, line.Method)
			assert.Equal(t, tt.wantError, line.Error)
		})
	}
}

func TestNewSkipsCheckAlive(t *testing.T) {
	var buf bytes.Buffer

	app := newApp(adapter.Config{
		Config:        logger.Log{DisableCheckAlive: true},
		CheckAliveURI: "/checkalive",
		Output:        &buf,
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/checkalive", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, buf.String())
}

func TestNewNext(t *testing.T) {
	var buf bytes.Buffer

	app := newApp(adapter.Config{
		Next:   func(_ *fiber.Ctx) bool { return true },
		Output: &buf,
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Empty(t, buf.String())
}
