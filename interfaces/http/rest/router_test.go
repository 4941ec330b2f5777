package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"crossroads-backend/pkg/auth"
)

func newTestRouter(t *testing.T, opts Options) http.Handler {
	t.Helper()
	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: "test-secret"})
	require.NoError(t, err)
	return NewRouter(nil, nil, validator, opts, zap.NewNop()).Setup()
}

func TestRouter_CORSEnabled(t *testing.T) {
	handler := newTestRouter(t, Options{EnableCORS: true})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_CORSDisabled(t *testing.T) {
	handler := newTestRouter(t, Options{EnableCORS: false})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_APIRequiresAuthentication(t *testing.T) {
	handler := newTestRouter(t, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trees", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
