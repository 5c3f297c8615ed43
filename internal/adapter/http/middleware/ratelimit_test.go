package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/okri/splitbook/internal/adapter/http/middleware"
)

func TestRateLimiterThrottlesPerPrincipal(t *testing.T) {
	t.Parallel()

	limiter := middleware.NewRateLimiter(1, 1)
	handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(principal string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
		req = req.WithContext(middleware.ContextWithPrincipal(req.Context(), principal))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, send("user-1"))
	require.Equal(t, http.StatusTooManyRequests, send("user-1"))

	// A different principal has its own bucket.
	require.Equal(t, http.StatusOK, send("user-2"))

	limiter.Reset()
	require.Equal(t, http.StatusOK, send("user-1"))
}
