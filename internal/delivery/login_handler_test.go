package delivery

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"contacts-service/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginForm(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, `name="username"`)
	assert.Contains(t, body, `name="password"`)
	assert.NotContains(t, body, domain.LoginErrorMessage)
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, formRequest(http.MethodPost, "/login", "username=admin123&password=12345"))
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))

	marker := sessionCookie(resp)
	require.NotNil(t, marker)
	assert.NotEmpty(t, marker.Value)
	assert.Equal(t, "/", marker.Path)
	assert.Equal(t, int(domain.SessionLifetime.Seconds()), marker.MaxAge)
	assert.True(t, marker.HttpOnly)
}

func TestLoginFailure(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"wrong password", "username=admin123&password=123456"},
		{"wrong username", "username=admin&password=12345"},
		{"empty", "username=&password="},
		{"case matters", "username=ADMIN123&password=12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			resp := env.do(t, formRequest(http.MethodPost, "/login", tt.body))
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			assert.Nil(t, sessionCookie(resp))
			assert.Contains(t, readBody(t, resp), domain.LoginErrorMessage)
		})
	}
}

func TestLoginJSON(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, jsonRequest(http.MethodPost, "/login", domain.LoginRequest{Username: "admin123", Password: "nope"}))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"success":false,"message":"Incorrect credentials. Please try again."}`, readBody(t, resp))

	resp = env.do(t, jsonRequest(http.MethodPost, "/login", domain.LoginRequest{Username: "admin123", Password: "12345"}))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, sessionCookie(resp))
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	marker := env.login(t)

	resp := env.do(t, withCookie(jsonRequest(http.MethodGet, "/dashboard/contacts", nil), marker))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 1, env.workspaces.Len())

	resp = env.do(t, withCookie(httptest.NewRequest(http.MethodPost, "/logout", nil), marker))
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))

	cleared := sessionCookie(resp)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Equal(t, 0, env.workspaces.Len())
}

func TestSessionStatus(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/session", nil))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	marker := env.login(t)
	resp = env.do(t, withCookie(httptest.NewRequest(http.MethodGet, "/session", nil), marker))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, `"authenticated":true`)
	assert.Contains(t, body, `"session_id"`)
}
