package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"crossroads-backend/pkg/auth"
)

func testValidator(t *testing.T) *auth.JWTValidator {
	t.Helper()
	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: "test-secret", Issuer: "crossroads-backend"})
	require.NoError(t, err)
	return validator
}

func userEcho(t *testing.T, captured **auth.UserContext) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := auth.GetUserFromContext(r.Context())
		require.NoError(t, err)
		*captured = user
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_BearerToken(t *testing.T) {
	generator, err := auth.NewJWTGenerator(auth.JWTConfig{SecretKey: "test-secret", Issuer: "crossroads-backend"}, time.Hour)
	require.NoError(t, err)
	token, err := generator.GenerateToken("user1", "user1@example.com", []string{"user"})
	require.NoError(t, err)

	var captured *auth.UserContext
	handler := Authenticate(testValidator(t), false, zap.NewNop())(userEcho(t, &captured))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trees", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "user1", captured.UserID)
	assert.Equal(t, "user1@example.com", captured.Email)
}

func TestAuthenticate_MissingToken(t *testing.T) {
	handler := Authenticate(testValidator(t), false, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without credentials")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trees", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_LambdaModeTrustsGatewayHeaders(t *testing.T) {
	var captured *auth.UserContext
	handler := Authenticate(testValidator(t), true, zap.NewNop())(userEcho(t, &captured))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trees", nil)
	req.Header.Set("X-API-Gateway-Authorized", "true")
	req.Header.Set("X-User-ID", "user1")
	req.Header.Set("X-User-Roles", "user,admin")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "user1", captured.UserID)
	assert.Equal(t, []string{"user", "admin"}, captured.Roles)
}

func TestAuthenticate_LambdaModeRejectsUnauthorized(t *testing.T) {
	handler := Authenticate(testValidator(t), true, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without the gateway marker")
	}))

	// A bearer token alone is not enough in Lambda mode; only the gateway
	// marker headers count.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/trees", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
