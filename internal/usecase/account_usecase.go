package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okri/splitbook/internal/domain"
)

// AccountUseCase owns the account lifecycle and sharing. Balances are
// mutated only through the ledger and transfer scopes; account update
// deliberately cannot touch them.
type AccountUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	guard           *AccessGuard
	idGen           IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	guard *AccessGuard,
	idGen IDGenerator,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		guard:           guard,
		idGen:           idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name          string
	Currency      string
	Balance       decimal.Decimal
	AccountNumber *string
	Description   string
	Type          string
}

// CreateAccount creates an account owned by the principal. The opening
// balance is the one balance write that bypasses the delta primitive.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, principalID string, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:            uc.idGen.Generate(),
		OwnerID:       principalID,
		Name:          input.Name,
		Currency:      input.Currency,
		Balance:       input.Balance,
		AccountNumber: input.AccountNumber,
		Description:   input.Description,
		Type:          input.Type,
		SharedWith:    []domain.SharedAccess{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, abort(err)
	}

	return account, nil
}

// GetAccount retrieves an account visible to the principal.
func (uc *AccountUseCase) GetAccount(ctx context.Context, accountID, principalID string) (*domain.Account, error) {
	return uc.guard.Require(ctx, accountID, principalID, domain.AccessRead)
}

// ListAccounts lists every account the principal owns or has been granted
// access to.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, principalID string) ([]*domain.Account, error) {
	return uc.accountRepo.ListByUser(ctx, principalID)
}

// AccountPatch carries the updatable account fields. Balance is absent on
// purpose: it only moves through transaction deltas.
type AccountPatch struct {
	Name          *string
	AccountNumber *string
	Description   *string
	Type          *string
}

// UpdateAccount patches account metadata. Full access is enough; only the
// owner can share or delete.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, accountID, principalID string, patch AccountPatch) (*domain.Account, error) {
	account, err := uc.guard.Require(ctx, accountID, principalID, domain.AccessFull)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if err := domain.ValidateAccountName(*patch.Name); err != nil {
			return nil, err
		}
		account.Name = *patch.Name
	}

	if patch.AccountNumber != nil {
		account.AccountNumber = patch.AccountNumber
	}

	if patch.Description != nil {
		account.Description = *patch.Description
	}

	if patch.Type != nil {
		account.Type = *patch.Type
	}

	account.UpdatedAt = time.Now().UTC()

	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, abort(err)
	}

	return account, nil
}

// DeleteAccount removes an empty account. The emptiness check and the
// delete share one atomic scope so a concurrent insert cannot slip a
// transaction into an account being deleted.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, accountID, principalID string) error {
	if _, err := uc.guard.Require(ctx, accountID, principalID, domain.AccessOwner); err != nil {
		return err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return abort(err)
	}
	defer tx.Rollback(ctx)

	if _, err := uc.accountRepo.GetForUpdate(ctx, tx, accountID); err != nil {
		return abort(err)
	}

	count, err := uc.transactionRepo.CountByAccount(ctx, tx, accountID)
	if err != nil {
		return abort(err)
	}

	if count > 0 {
		return domain.ErrAccountNotEmpty
	}

	if err := uc.accountRepo.Delete(ctx, tx, accountID); err != nil {
		return abort(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return abort(err)
	}

	return nil
}

// ShareAccount grants another user read or full access. Owner only.
func (uc *AccountUseCase) ShareAccount(ctx context.Context, accountID, principalID, targetUserID string, level domain.AccessLevel) error {
	if _, err := uc.guard.Require(ctx, accountID, principalID, domain.AccessOwner); err != nil {
		return err
	}

	if targetUserID == principalID {
		return domain.ErrSelfShare
	}

	ok, err := uc.accountRepo.AddShare(ctx, accountID, domain.SharedAccess{
		UserID: targetUserID,
		Level:  level,
	}, time.Now().UTC())
	if err != nil {
		return abort(err)
	}

	if !ok {
		return domain.ErrAlreadyShared
	}

	return nil
}

// UpdateShare changes an existing grant's level. Owner only.
func (uc *AccountUseCase) UpdateShare(ctx context.Context, accountID, principalID, targetUserID string, level domain.AccessLevel) error {
	if _, err := uc.guard.Require(ctx, accountID, principalID, domain.AccessOwner); err != nil {
		return err
	}

	ok, err := uc.accountRepo.UpdateShare(ctx, accountID, targetUserID, level, time.Now().UTC())
	if err != nil {
		return abort(err)
	}

	if !ok {
		return domain.ErrShareNotFound
	}

	return nil
}

// UnshareAccount revokes a grant. Owner only. Revocation takes effect for
// all operations that start after it commits; in-flight scopes finish under
// the capability they observed at their access check.
func (uc *AccountUseCase) UnshareAccount(ctx context.Context, accountID, principalID, targetUserID string) error {
	if _, err := uc.guard.Require(ctx, accountID, principalID, domain.AccessOwner); err != nil {
		return err
	}

	ok, err := uc.accountRepo.RemoveShare(ctx, accountID, targetUserID, time.Now().UTC())
	if err != nil {
		return abort(err)
	}

	if !ok {
		return domain.ErrShareNotFound
	}

	return nil
}
