package system

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func newHealthApp(p Pinger) *fiber.App {
	app := fiber.New()
	NewHealthApi(NewHealthController(p, zap.NewNop())).Setup(app)
	return app
}

func TestHealthCheck(t *testing.T) {
	resp, err := newHealthApp(stubPinger{}).Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestReadinessCheck(t *testing.T) {
	resp, err := newHealthApp(stubPinger{}).Test(httptest.NewRequest("GET", "/health/ready", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "up", body["database"])
}

func TestReadinessCheckDatabaseDown(t *testing.T) {
	resp, err := newHealthApp(stubPinger{err: errors.New("server selection timeout")}).Test(httptest.NewRequest("GET", "/health/ready", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "down", body["database"])
	assert.Contains(t, body["error"], "server selection")
}
