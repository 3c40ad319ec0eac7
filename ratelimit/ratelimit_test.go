package ratelimit

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, cfg Config) *fiber.App {
	t.Helper()

	lim, err := New(cfg, nil)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(lim.Handler())
	app.Get("/seguimiento", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestHandlerDeniesAfterLimit(t *testing.T) {
	app := newTestApp(t, Config{Rate: "2-M"})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/seguimiento", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/seguimiento", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
}

func TestHandlerSkipsConfiguredPaths(t *testing.T) {
	app := newTestApp(t, Config{Rate: "1-M", SkipPaths: []string{"/health"}})

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/health", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Empty(t, resp.Header.Get("X-RateLimit-Limit"))
	}
}

func TestNewRejectsInvalidRate(t *testing.T) {
	_, err := New(Config{Rate: "lots"}, nil)
	assert.Error(t, err)
}

func TestNewStoreWithoutRedis(t *testing.T) {
	store, closeFn, err := NewStore("")
	require.NoError(t, err)
	assert.NotNil(t, store)
	assert.NoError(t, closeFn())

	_, _, err = NewStore("://bad")
	assert.Error(t, err)
}
