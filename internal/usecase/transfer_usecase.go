package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okri/splitbook/internal/domain"
)

// TransferInput represents input for a two-account transfer.
type TransferInput struct {
	SenderAccountID   string
	ReceiverAccountID string
	Amount            decimal.Decimal
	Currency          string
	Category          string
	Description       string
}

// TransferResult carries the IDs of the paired transaction records.
type TransferResult struct {
	SenderTransactionID   string
	ReceiverTransactionID string
}

// TransferCoordinator moves value between two accounts. Both balance
// updates and both transaction records commit in a single atomic scope,
// with account rows locked in ascending ID order so two transfers in
// opposite directions can never deadlock.
type TransferCoordinator struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	guard           *AccessGuard
	idGen           IDGenerator
}

// NewTransferCoordinator creates a new TransferCoordinator.
func NewTransferCoordinator(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	guard *AccessGuard,
	idGen IDGenerator,
) *TransferCoordinator {
	return &TransferCoordinator{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		guard:           guard,
		idGen:           idGen,
	}
}

// PerformTransfer executes the transfer on behalf of the principal. The
// principal needs full access to the sender and read access to the
// receiver. On success both accounts carry a transfer record referencing
// its counterpart.
func (uc *TransferCoordinator) PerformTransfer(ctx context.Context, principalID string, input TransferInput) (*TransferResult, error) {
	if input.SenderAccountID == input.ReceiverAccountID {
		return nil, domain.ErrSameAccount
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, abort(err)
	}
	defer tx.Rollback(ctx)

	// Lock both rows in ascending ID order regardless of transfer
	// direction.
	ids := []string{input.SenderAccountID, input.ReceiverAccountID}
	sort.Strings(ids)

	accounts, err := uc.accountRepo.GetManyForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, abort(err)
	}

	var sender, receiver *domain.Account
	for _, acc := range accounts {
		switch acc.ID {
		case input.SenderAccountID:
			sender = acc
		case input.ReceiverAccountID:
			receiver = acc
		}
	}

	if sender == nil || receiver == nil {
		return nil, domain.ErrAccountNotFound
	}

	if err := uc.guard.RequireLocked(sender, principalID, domain.AccessFull); err != nil {
		return nil, err
	}

	if err := uc.guard.RequireLocked(receiver, principalID, domain.AccessRead); err != nil {
		return nil, err
	}

	if sender.Currency != input.Currency || receiver.Currency != input.Currency {
		return nil, domain.ErrCurrencyMismatch
	}

	now := time.Now().UTC()

	// Allocate both IDs up front so each record carries its final
	// counterpart reference in a single insert pass.
	senderTxnID := uc.idGen.Generate()
	receiverTxnID := uc.idGen.Generate()

	senderTxn := &domain.Transaction{
		ID:                   senderTxnID,
		AccountID:            input.SenderAccountID,
		Type:                 domain.TypeTransfer,
		Category:             input.Category,
		Amount:               input.Amount,
		Currency:             input.Currency,
		Date:                 now,
		Description:          fmt.Sprintf("Transfer to account %s: %s", input.ReceiverAccountID, input.Description),
		RelatedTransactionID: &receiverTxnID,
		SenderAccountID:      &input.SenderAccountID,
		ReceiverAccountID:    &input.ReceiverAccountID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	receiverTxn := &domain.Transaction{
		ID:                   receiverTxnID,
		AccountID:            input.ReceiverAccountID,
		Type:                 domain.TypeTransfer,
		Category:             input.Category,
		Amount:               input.Amount,
		Currency:             input.Currency,
		Date:                 now,
		Description:          fmt.Sprintf("Transfer from account %s: %s", input.SenderAccountID, input.Description),
		RelatedTransactionID: &senderTxnID,
		SenderAccountID:      &input.SenderAccountID,
		ReceiverAccountID:    &input.ReceiverAccountID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	senderDelta, err := senderTxn.Delta()
	if err != nil {
		return nil, abort(err)
	}

	receiverDelta, err := receiverTxn.Delta()
	if err != nil {
		return nil, abort(err)
	}

	if err := uc.accountRepo.ApplyDelta(ctx, tx, input.SenderAccountID, senderDelta, now); err != nil {
		return nil, abort(err)
	}

	if err := uc.accountRepo.ApplyDelta(ctx, tx, input.ReceiverAccountID, receiverDelta, now); err != nil {
		return nil, abort(err)
	}

	if err := uc.transactionRepo.Create(ctx, tx, senderTxn); err != nil {
		return nil, abort(err)
	}

	if err := uc.transactionRepo.Create(ctx, tx, receiverTxn); err != nil {
		return nil, abort(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, abort(err)
	}

	return &TransferResult{
		SenderTransactionID:   senderTxnID,
		ReceiverTransactionID: receiverTxnID,
	}, nil
}
