package delivery

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, httptest.NewRequest(http.MethodGet, "/login", nil))
	env.do(t, httptest.NewRequest(http.MethodGet, "/", nil))

	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, `http_requests_total{method="GET",path="/login",status="200"} 1`)
	assert.Contains(t, body, `http_request_duration_seconds_bucket{method="GET",path="/login",status="200"`)
	assert.Contains(t, body, `status="302"`)
}

func TestHealthProbes(t *testing.T) {
	ready := error(nil)
	env := newTestEnv(t, func(o *Options) {
		o.Ready = func() error { return ready }
	})

	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/liveness", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.do(t, httptest.NewRequest(http.MethodGet, "/readiness", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	ready = errors.New("store is down")
	resp = env.do(t, httptest.NewRequest(http.MethodGet, "/readiness", nil))
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
