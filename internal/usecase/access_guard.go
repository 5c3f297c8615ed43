package usecase

import (
	"context"

	"github.com/okri/splitbook/internal/domain"
)

// AccessGuard resolves a principal's capability on an account and gates
// every operation behind the level it requires. All entry points go through
// Require or RequireLocked; nothing reimplements the level comparison.
type AccessGuard struct {
	accountRepo AccountRepository
}

// NewAccessGuard creates a new AccessGuard.
func NewAccessGuard(accountRepo AccountRepository) *AccessGuard {
	return &AccessGuard{accountRepo: accountRepo}
}

// Require loads the account and checks that the principal holds at least
// min on it. Accounts the principal cannot see at all resolve to not found,
// so callers cannot distinguish hidden accounts from absent ones.
func (g *AccessGuard) Require(ctx context.Context, accountID, principalID string, min domain.AccessLevel) (*domain.Account, error) {
	account, err := g.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := g.RequireLocked(account, principalID, min); err != nil {
		return nil, err
	}

	return account, nil
}

// RequireLocked applies the same check to an account that was already
// loaded, typically under a row lock inside an atomic scope.
func (g *AccessGuard) RequireLocked(account *domain.Account, principalID string, min domain.AccessLevel) error {
	level := account.AccessFor(principalID)

	if level == domain.AccessNone {
		return domain.ErrAccountNotFound
	}

	if !level.AtLeast(min) {
		return domain.ErrForbidden
	}

	return nil
}
