package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"crossroads-backend/pkg/auth"
	"crossroads-backend/pkg/common"
)

// Authenticate validates the bearer token on every request and attaches the
// authenticated user to the context. When running behind Lambda the API
// Gateway JWT authorizer has already validated the token, so identity is
// taken from the headers the entrypoint sets.
func Authenticate(validator *auth.JWTValidator, lambdaMode bool, logger *zap.Logger) func(next http.Handler) http.Handler {
	if lambdaMode {
		return authenticateForLambda()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing authentication token")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.Warn("Invalid token",
					zap.Error(err),
					zap.String("path", r.URL.Path),
				)
				switch err {
				case auth.ErrExpiredToken:
					common.RespondError(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired")
				case auth.ErrInvalidSignature:
					common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token signature")
				default:
					common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
				}
				return
			}

			ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
				UserID: claims.UserID,
				Email:  claims.Email,
				Roles:  claims.Roles,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticateForLambda trusts the identity headers set by the Lambda
// entrypoint after API Gateway's JWT authorizer ran.
func authenticateForLambda() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-API-Gateway-Authorized") != "true" {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Request not authorized by API Gateway")
				return
			}
			userID := r.Header.Get("X-User-ID")
			if userID == "" {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing user context from API Gateway")
				return
			}

			roles := []string{"authenticated"}
			if userRoles := r.Header.Get("X-User-Roles"); userRoles != "" {
				roles = strings.Split(userRoles, ",")
			}
			ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
				UserID: userID,
				Email:  r.Header.Get("X-User-Email"),
				Roles:  roles,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken pulls the bearer token from the Authorization header.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return authHeader
}
