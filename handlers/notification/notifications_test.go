package notification

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupath-api/model"
	"github.com/sahilchouksey/edupath-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type listing struct {
	Notifications []model.Notification `json:"notifications"`
	UnreadCount   int                  `json:"unread_count"`
}

func newApp() *fiber.App {
	h := NewNotificationHandler(services.NewNotificationService(nil))
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if id := c.Get("X-Test-User"); id != "" {
			c.Locals("user_id", id)
		}
		return c.Next()
	})
	app.Get("/notifications", h.GetNotifications)
	app.Post("/notifications/read-all", h.MarkAllAsRead)
	app.Post("/notifications/:id/toggle", h.ToggleNotification)
	return app
}

func call(t *testing.T, app *fiber.App, method, target, user string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return resp.StatusCode, env
}

func list(t *testing.T, app *fiber.App, user string) listing {
	t.Helper()
	status, env := call(t, app, http.MethodGet, "/notifications", user)
	require.Equal(t, http.StatusOK, status)
	var l listing
	require.NoError(t, json.Unmarshal(env.Data, &l))
	return l
}

func TestNotificationsLifecycle(t *testing.T) {
	app := newApp()

	l := list(t, app, "u1")
	require.Len(t, l.Notifications, 3)
	assert.Equal(t, 2, l.UnreadCount)

	status, env := call(t, app, http.MethodPost, "/notifications/n3/toggle", "u1")
	require.Equal(t, http.StatusOK, status)
	var n model.Notification
	require.NoError(t, json.Unmarshal(env.Data, &n))
	assert.False(t, n.Read)
	assert.Equal(t, 3, list(t, app, "u1").UnreadCount)

	// other users keep their own copy
	assert.Equal(t, 2, list(t, app, "u2").UnreadCount)

	status, env = call(t, app, http.MethodPost, "/notifications/read-all", "u1")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"updated":3}`, string(env.Data))
	assert.Equal(t, 0, list(t, app, "u1").UnreadCount)
}

func TestToggleUnknownNotification(t *testing.T) {
	app := newApp()

	status, _ := call(t, app, http.MethodPost, "/notifications/n9/toggle", "u1")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestNotificationsRequireUser(t *testing.T) {
	app := newApp()

	status, _ := call(t, app, http.MethodGet, "/notifications", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = call(t, app, http.MethodPost, "/notifications/read-all", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}
