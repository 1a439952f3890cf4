package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anish/devshowcase/internal/api/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const allowedOrigin = "http://localhost:5173"

func corsHandler() http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return middleware.CORS(allowedOrigin)(next)
}

func TestCORSAllowedOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Origin", allowedOrigin)
	rec := httptest.NewRecorder()

	corsHandler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, allowedOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
}

func TestCORSDisallowedOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec := httptest.NewRecorder()

	corsHandler().ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	// Vary is set regardless, so caches never reuse an allowed response
	// for another origin.
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/users/projects", nil)
	req.Header.Set("Origin", allowedOrigin)
	rec := httptest.NewRecorder()

	corsHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
}
