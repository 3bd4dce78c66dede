package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authdesk/authdesk/internal/apperr"
	"github.com/authdesk/authdesk/internal/db/models"
)

func TestError(t *testing.T) {
	testCases := []struct {
		name        string
		err         error
		status      []int
		wantStatus  int
		wantMessage string
		wantErrors  map[string]any
	}{
		{
			name:        "validation",
			err:         apperr.InvalidField("email", "email"),
			wantStatus:  fiber.StatusBadRequest,
			wantMessage: "the given data was invalid",
			wantErrors:  map[string]any{"email": "email"},
		},
		{
			name:        "not found",
			err:         apperr.NotFound("authority"),
			wantStatus:  fiber.StatusNotFound,
			wantMessage: "authority not found",
		},
		{
			name:        "override",
			err:         apperr.NotFound("authority_type"),
			status:      []int{fiber.StatusBadRequest},
			wantStatus:  fiber.StatusBadRequest,
			wantMessage: "authority_type not found",
		},
		{
			name:        "internal hides cause",
			err:         apperr.Internal(errors.New("dsn password=secret")),
			wantStatus:  fiber.StatusInternalServerError,
			wantMessage: "internal error",
		},
		{
			name:        "foreign error",
			err:         errors.New("boom"),
			wantStatus:  fiber.StatusInternalServerError,
			wantMessage: "internal error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return Error(c, tc.err, tc.status...) })

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			var body map[string]any
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, tc.wantMessage, body["message"])
			assert.NotContains(t, string(raw), "secret")

			if tc.wantErrors != nil {
				assert.Equal(t, tc.wantErrors, body["errors"])
			} else {
				assert.NotContains(t, body, "errors")
			}
		})
	}
}

func TestCurrentUser(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.Nil(t, CurrentUser(c))

		c.Locals(LocalsCurrentUser, &models.User{ID: 4})
		require.NotNil(t, CurrentUser(c))
		assert.Equal(t, uint64(4), CurrentUser(c).ID)

		return JSON(c, fiber.StatusOK, "ok", nil)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
