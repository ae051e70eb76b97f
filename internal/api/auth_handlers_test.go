package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgramapp/foodgram-server/internal/ratelimit"
)

func TestLogin_InvalidCredentials(t *testing.T) {
	ts := setupTestServer(t)
	ts.signUp(t, "ann")

	resp := ts.api.Post("/api/auth/token/login", map[string]any{
		"email":    "ann@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, resp.Body).Code)

	resp = ts.api.Post("/api/auth/token/login", map[string]any{
		"email":    "nobody@example.com",
		"password": "password-ann",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogin_MissingField(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/auth/token/login", map[string]any{"email": "ann@example.com"})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION", decodeError(t, resp.Body).Code)
}

func TestLogout_RevokesToken(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, _ := ts.signUp(t, "ann")

	resp := ts.api.Get("/api/users/me", authHeader)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/auth/token/logout", authHeader)
	require.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/users/me", authHeader)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogout_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/auth/token/logout")
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp.Body).Code)
}

func TestBearerSchemeAccepted(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, _ := ts.signUp(t, "ann")
	token := authHeader[len("Authorization: Token "):]

	resp := ts.api.Get("/api/users/me", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestLogin_RateLimited(t *testing.T) {
	ts := setupTestServer(t)
	ts.authRateLimiter.Stop()
	ts.authRateLimiter = ratelimit.PerInterval(1, time.Hour, 2)

	body := map[string]any{"email": "ann@example.com", "password": "whatever-123"}
	for i := 0; i < 2; i++ {
		resp := ts.api.Post("/api/auth/token/login", body)
		require.Equal(t, http.StatusUnauthorized, resp.Code)
	}

	resp := ts.api.Post("/api/auth/token/login", body)
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "RATE_LIMITED", decodeError(t, resp.Body).Code)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Token abc", "abc", true},
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Basic abc", "", false},
		{"Token ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, ok := bearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}
