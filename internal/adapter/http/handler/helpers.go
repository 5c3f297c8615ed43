package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/okri/splitbook/internal/adapter/http/dto"
	"github.com/okri/splitbook/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps a domain error to its status code. Aborted scopes
// log the underlying cause and hide it from the client.
func writeDomainError(w http.ResponseWriter, err error, message string) {
	status := mapDomainError(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg(message)
		writeError(w, status, message, "internal error")
		return
	}

	writeError(w, status, message, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrShareNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAlreadyShared),
		errors.Is(err, domain.ErrAccountNotEmpty):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrInvalidTransactionKind),
		errors.Is(err, domain.ErrImmutableField),
		errors.Is(err, domain.ErrDirectTransferAdd),
		errors.Is(err, domain.ErrSelfShare),
		errors.Is(err, domain.ErrInvalidAccessLevel),
		errors.Is(err, domain.ErrInvalidAccountName),
		errors.Is(err, domain.ErrInvalidCurrency):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
