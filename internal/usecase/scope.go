package usecase

import (
	"errors"
	"fmt"

	"github.com/okri/splitbook/internal/domain"
)

// abort classifies an error raised inside an atomic scope. Domain outcomes
// (absent records, unmappable deltas) pass through untouched; anything else
// is a persistence failure and surfaces wrapped in ErrScopeAborted after
// the scope rolls back.
func abort(err error) error {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrInvalidTransactionKind),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrCurrencyMismatch):
		return err
	default:
		return fmt.Errorf("%w: %v", domain.ErrScopeAborted, err)
	}
}
