package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/okri/splitbook/internal/adapter/http/middleware"
	"github.com/okri/splitbook/internal/infrastructure/auth"
)

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("test-secret", time.Minute)
	token, err := manager.Generate("user-1")
	require.NoError(t, err)

	var gotPrincipal string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPrincipal, _ = middleware.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware.Auth(manager)(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid token", header: "Bearer " + token, wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + token, wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-token", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotPrincipal = ""
			req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				require.Equal(t, "user-1", gotPrincipal)
			} else {
				require.Empty(t, gotPrincipal)
			}
		})
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	t.Parallel()

	expired := auth.NewJWTManager("test-secret", -time.Minute)
	token, err := expired.Generate("user-1")
	require.NoError(t, err)

	handler := middleware.Auth(auth.NewJWTManager("test-secret", time.Minute))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not run with an expired token")
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
