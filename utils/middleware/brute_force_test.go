package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupath-api/utils/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockoutSchedule(t *testing.T) {
	assert.Equal(t, time.Duration(0), lockoutFor(4))
	assert.Equal(t, 2*time.Minute, lockoutFor(5))
	assert.Equal(t, time.Hour, lockoutFor(10))
	assert.Equal(t, 24*time.Hour, lockoutFor(25))
}

func TestBruteForceLocksAfterFiveFailures(t *testing.T) {
	b := NewBruteForceProtection(cache.NewMemoryCache(), nil)

	app := fiber.New()
	app.Post("/login", b.CheckAndRecordAttempt(), func(c *fiber.Ctx) error {
		if c.Query("ok") == "1" {
			_ = b.RecordSuccessfulAttempt(c, c.IP())
			return c.SendStatus(http.StatusOK)
		}
		_ = b.RecordFailedAttempt(c, c.IP(), "asha@example.com")
		return c.SendStatus(http.StatusUnauthorized)
	})

	post := func(query string) *http.Response {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login"+query, nil))
		require.NoError(t, err)
		return resp
	}

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusUnauthorized, post("").StatusCode)
	}

	locked := post("?ok=1")
	assert.Equal(t, http.StatusTooManyRequests, locked.StatusCode)
	assert.NotEmpty(t, locked.Header.Get("Retry-After"))
}

func TestSuccessfulLoginClearsAttempts(t *testing.T) {
	store := cache.NewMemoryCache()
	b := NewBruteForceProtection(store, nil)

	app := fiber.New()
	var count int
	app.Post("/login", func(c *fiber.Ctx) error {
		_ = b.RecordFailedAttempt(c, "1.2.3.4", "")
		_ = b.RecordFailedAttempt(c, "1.2.3.4", "")
		_ = b.RecordSuccessfulAttempt(c, "1.2.3.4")
		n, err := b.GetAttemptCount(c, "1.2.3.4")
		if err != nil {
			return err
		}
		count = n
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, count)
}
