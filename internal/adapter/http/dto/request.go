package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/okri/splitbook/internal/domain"
	"github.com/okri/splitbook/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name          string          `json:"name"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
	AccountNumber *string         `json:"account_number,omitempty"`
	Description   string          `json:"description,omitempty"`
	Type          string          `json:"type,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:          r.Name,
		Currency:      r.Currency,
		Balance:       r.Balance,
		AccountNumber: r.AccountNumber,
		Description:   r.Description,
		Type:          r.Type,
	}
}

// UpdateAccountRequest represents a partial account update. Absent fields
// are left untouched.
type UpdateAccountRequest struct {
	Name          *string `json:"name,omitempty"`
	AccountNumber *string `json:"account_number,omitempty"`
	Description   *string `json:"description,omitempty"`
	Type          *string `json:"type,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput() usecase.AccountPatch {
	return usecase.AccountPatch{
		Name:          r.Name,
		AccountNumber: r.AccountNumber,
		Description:   r.Description,
		Type:          r.Type,
	}
}

// ShareAccountRequest represents a request to grant account access.
type ShareAccountRequest struct {
	UserID string `json:"user_id"`
	Level  string `json:"level"`
}

// UpdateShareRequest represents a request to change a grant's level.
type UpdateShareRequest struct {
	Level string `json:"level"`
}

// AddTransactionRequest represents a request to record a transaction.
type AddTransactionRequest struct {
	Type        string          `json:"type"`
	Category    string          `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description,omitempty"`
	Date        *time.Time      `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AddTransactionRequest) ToUseCaseInput() usecase.AddTransactionInput {
	return usecase.AddTransactionInput{
		Type:        domain.TransactionType(r.Type),
		Category:    r.Category,
		Amount:      r.Amount,
		Currency:    r.Currency,
		Description: r.Description,
		Date:        r.Date,
	}
}

// UpdateTransactionRequest represents a partial transaction update. The
// role fields are decoded so that attempts to change them surface as a
// clear rejection instead of being silently ignored.
type UpdateTransactionRequest struct {
	Category    *string          `json:"category,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Currency    *string          `json:"currency,omitempty"`
	Description *string          `json:"description,omitempty"`
	Date        *time.Time       `json:"date,omitempty"`

	AccountID         *string `json:"account_id,omitempty"`
	Type              *string `json:"type,omitempty"`
	SenderAccountID   *string `json:"sender_account_id,omitempty"`
	ReceiverAccountID *string `json:"receiver_account_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateTransactionRequest) ToUseCaseInput() usecase.TransactionPatch {
	return usecase.TransactionPatch{
		Category:          r.Category,
		Amount:            r.Amount,
		Currency:          r.Currency,
		Description:       r.Description,
		Date:              r.Date,
		AccountID:         r.AccountID,
		Type:              r.Type,
		SenderAccountID:   r.SenderAccountID,
		ReceiverAccountID: r.ReceiverAccountID,
	}
}

// CreateTransferRequest represents a request to move value between two
// accounts.
type CreateTransferRequest struct {
	SenderAccountID   string          `json:"sender_account_id"`
	ReceiverAccountID string          `json:"receiver_account_id"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Category          string          `json:"category,omitempty"`
	Description       string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput() usecase.TransferInput {
	return usecase.TransferInput{
		SenderAccountID:   r.SenderAccountID,
		ReceiverAccountID: r.ReceiverAccountID,
		Amount:            r.Amount,
		Currency:          r.Currency,
		Category:          r.Category,
		Description:       r.Description,
	}
}
