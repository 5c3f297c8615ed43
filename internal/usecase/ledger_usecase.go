package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okri/splitbook/internal/domain"
)

// LedgerUseCase owns transaction records and keeps each account's balance
// in step with them. Every mutation runs in a single atomic scope that
// locks the account row: the record change and its balance delta commit
// together or not at all.
type LedgerUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	guard           *AccessGuard
	idGen           IDGenerator
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	guard *AccessGuard,
	idGen IDGenerator,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		guard:           guard,
		idGen:           idGen,
	}
}

// AddTransactionInput represents input for adding a transaction.
type AddTransactionInput struct {
	Type        domain.TransactionType
	Category    string
	Amount      decimal.Decimal
	Currency    string
	Description string
	Date        *time.Time
}

// AddTransaction records an income or expense on the account and applies
// its delta to the balance in the same atomic scope. Transfer-typed
// transactions are rejected here: a single-sided insert cannot give the
// two-account atomicity the transfer coordinator provides.
func (uc *LedgerUseCase) AddTransaction(ctx context.Context, accountID, principalID string, input AddTransactionInput) (*domain.Transaction, error) {
	if _, err := uc.guard.Require(ctx, accountID, principalID, domain.AccessFull); err != nil {
		return nil, err
	}

	if input.Type == domain.TypeTransfer {
		return nil, domain.ErrDirectTransferAdd
	}

	now := time.Now().UTC()

	date := now
	if input.Date != nil {
		date = input.Date.UTC()
	}

	txn := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		AccountID:   accountID,
		Type:        input.Type,
		Category:    input.Category,
		Amount:      input.Amount,
		Currency:    input.Currency,
		Date:        date,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	delta, err := txn.Delta()
	if err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, abort(err)
	}
	defer tx.Rollback(ctx)

	// Lock the account row so concurrent scopes serialize their
	// read-modify-write of the balance.
	if _, err := uc.accountRepo.GetForUpdate(ctx, tx, accountID); err != nil {
		return nil, abort(err)
	}

	if err := uc.transactionRepo.Create(ctx, tx, txn); err != nil {
		return nil, abort(err)
	}

	if err := uc.accountRepo.ApplyDelta(ctx, tx, accountID, delta, now); err != nil {
		return nil, abort(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, abort(err)
	}

	return txn, nil
}

// TransactionPatch carries the updatable transaction fields. The role
// fields are present only so their use can be rejected: changing them
// would invalidate the delta formula and the transfer pairing, so callers
// must delete and re-add instead.
type TransactionPatch struct {
	Category    *string
	Amount      *decimal.Decimal
	Currency    *string
	Description *string
	Date        *time.Time

	AccountID         *string
	Type              *string
	SenderAccountID   *string
	ReceiverAccountID *string
}

// Validate rejects patches that touch immutable fields or carry invalid
// replacement values.
func (p *TransactionPatch) Validate() error {
	if p.AccountID != nil || p.Type != nil || p.SenderAccountID != nil || p.ReceiverAccountID != nil {
		return domain.ErrImmutableField
	}

	if p.Amount != nil {
		if err := domain.ValidateAmount(*p.Amount); err != nil {
			return err
		}
	}

	if p.Currency != nil {
		if err := domain.ValidateCurrency(*p.Currency); err != nil {
			return err
		}
	}

	return nil
}

func (p *TransactionPatch) apply(txn *domain.Transaction, now time.Time) {
	if p.Category != nil {
		txn.Category = *p.Category
	}

	if p.Amount != nil {
		txn.Amount = *p.Amount
	}

	if p.Currency != nil {
		txn.Currency = *p.Currency
	}

	if p.Description != nil {
		txn.Description = *p.Description
	}

	if p.Date != nil {
		txn.Date = p.Date.UTC()
	}

	txn.UpdatedAt = now
}

// UpdateTransaction patches a transaction inside one atomic scope: the
// original delta is reversed, the patch is applied, and the patched
// record's delta is applied. On any failure the scope rolls back to the
// exact pre-update record and balance.
func (uc *LedgerUseCase) UpdateTransaction(ctx context.Context, id, accountID, principalID string, patch TransactionPatch) (*domain.Transaction, error) {
	if _, err := uc.guard.Require(ctx, accountID, principalID, domain.AccessFull); err != nil {
		return nil, err
	}

	if err := patch.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, abort(err)
	}
	defer tx.Rollback(ctx)

	if _, err := uc.accountRepo.GetForUpdate(ctx, tx, accountID); err != nil {
		return nil, abort(err)
	}

	txn, err := uc.transactionRepo.GetForUpdate(ctx, tx, id, accountID)
	if err != nil {
		return nil, abort(err)
	}

	reversal, err := txn.ReversalDelta()
	if err != nil {
		return nil, abort(err)
	}

	if err := uc.accountRepo.ApplyDelta(ctx, tx, accountID, reversal, now); err != nil {
		return nil, abort(err)
	}

	patch.apply(txn, now)

	delta, err := txn.Delta()
	if err != nil {
		return nil, abort(err)
	}

	if err := uc.transactionRepo.Update(ctx, tx, txn); err != nil {
		return nil, abort(err)
	}

	if err := uc.accountRepo.ApplyDelta(ctx, tx, accountID, delta, now); err != nil {
		return nil, abort(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, abort(err)
	}

	return txn, nil
}

// DeleteTransaction removes a transaction and reverses its balance effect
// in one atomic scope.
func (uc *LedgerUseCase) DeleteTransaction(ctx context.Context, id, accountID, principalID string) error {
	if _, err := uc.guard.Require(ctx, accountID, principalID, domain.AccessFull); err != nil {
		return err
	}

	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return abort(err)
	}
	defer tx.Rollback(ctx)

	if _, err := uc.accountRepo.GetForUpdate(ctx, tx, accountID); err != nil {
		return abort(err)
	}

	txn, err := uc.transactionRepo.GetForUpdate(ctx, tx, id, accountID)
	if err != nil {
		return abort(err)
	}

	reversal, err := txn.ReversalDelta()
	if err != nil {
		return abort(err)
	}

	if err := uc.transactionRepo.Delete(ctx, tx, id, accountID); err != nil {
		return abort(err)
	}

	if err := uc.accountRepo.ApplyDelta(ctx, tx, accountID, reversal, now); err != nil {
		return abort(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return abort(err)
	}

	return nil
}

// GetTransaction retrieves a single transaction visible to the principal.
func (uc *LedgerUseCase) GetTransaction(ctx context.Context, id, accountID, principalID string) (*domain.Transaction, error) {
	if _, err := uc.guard.Require(ctx, accountID, principalID, domain.AccessRead); err != nil {
		return nil, err
	}

	return uc.transactionRepo.GetByID(ctx, id, accountID)
}

// ListTransactions lists the account's transactions, newest first.
func (uc *LedgerUseCase) ListTransactions(ctx context.Context, accountID, principalID string) ([]*domain.Transaction, error) {
	if _, err := uc.guard.Require(ctx, accountID, principalID, domain.AccessRead); err != nil {
		return nil, err
	}

	return uc.transactionRepo.ListByAccount(ctx, accountID)
}
