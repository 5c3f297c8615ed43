package middleware

import (
	"context"
	"net/http"
	"strings"
)

// TokenVerifier validates a bearer token and resolves the user it was
// issued to.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

type contextKey string

const principalContextKey contextKey = "principal"

// Auth extracts and verifies the bearer token, putting the principal's
// user ID into the request context. Requests without a valid token never
// reach the handlers.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			userID, err := verifier.Verify(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := ContextWithPrincipal(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ContextWithPrincipal returns a context carrying the given user ID as
// the authenticated principal.
func ContextWithPrincipal(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, principalContextKey, userID)
}

// PrincipalFromContext extracts the authenticated user ID from context.
func PrincipalFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(principalContextKey).(string)
	return userID, ok
}
