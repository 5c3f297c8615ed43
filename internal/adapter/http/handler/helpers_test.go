package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/okri/splitbook/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrAccountNotFound, http.StatusNotFound},
		{domain.ErrTransactionNotFound, http.StatusNotFound},
		{domain.ErrShareNotFound, http.StatusNotFound},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrInvalidToken, http.StatusUnauthorized},
		{domain.ErrExpiredToken, http.StatusUnauthorized},
		{domain.ErrAlreadyShared, http.StatusConflict},
		{domain.ErrAccountNotEmpty, http.StatusConflict},
		{domain.ErrSameAccount, http.StatusBadRequest},
		{domain.ErrInvalidAmount, http.StatusBadRequest},
		{domain.ErrCurrencyMismatch, http.StatusBadRequest},
		{domain.ErrImmutableField, http.StatusBadRequest},
		{domain.ErrDirectTransferAdd, http.StatusBadRequest},
		{domain.ErrSelfShare, http.StatusBadRequest},
		{domain.ErrInvalidAccessLevel, http.StatusBadRequest},
		{domain.ErrScopeAborted, http.StatusInternalServerError},
		{errors.New("driver failure"), http.StatusInternalServerError},
		{fmt.Errorf("lookup: %w", domain.ErrAccountNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: connection reset", domain.ErrScopeAborted), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			require.Equal(t, tt.want, mapDomainError(tt.err))
		})
	}
}

func TestWriteDomainErrorHidesInternals(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	cause := fmt.Errorf("%w: pq: deadlock detected", domain.ErrScopeAborted)
	writeDomainError(rec, cause, "failed to record transaction")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "deadlock")
	require.Contains(t, rec.Body.String(), "internal error")
}

func TestWriteDomainErrorPassesClientFaults(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeDomainError(rec, domain.ErrCurrencyMismatch, "failed to transfer")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), domain.ErrCurrencyMismatch.Error())
}
