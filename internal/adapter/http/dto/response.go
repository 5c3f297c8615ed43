package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/okri/splitbook/internal/domain"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID            string              `json:"id"`
	OwnerID       string              `json:"owner_id"`
	Name          string              `json:"name"`
	Currency      string              `json:"currency"`
	Balance       decimal.Decimal     `json:"balance"`
	AccountNumber *string             `json:"account_number,omitempty"`
	Description   string              `json:"description,omitempty"`
	Type          string              `json:"type,omitempty"`
	SharedWith    []SharedAccessEntry `json:"shared_with"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// SharedAccessEntry represents one grant in API responses.
type SharedAccessEntry struct {
	UserID string `json:"user_id"`
	Level  string `json:"level"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	shared := make([]SharedAccessEntry, len(a.SharedWith))
	for i, s := range a.SharedWith {
		shared[i] = SharedAccessEntry{UserID: s.UserID, Level: s.Level.String()}
	}

	return &AccountResponse{
		ID:            a.ID,
		OwnerID:       a.OwnerID,
		Name:          a.Name,
		Currency:      a.Currency,
		Balance:       a.Balance,
		AccountNumber: a.AccountNumber,
		Description:   a.Description,
		Type:          a.Type,
		SharedWith:    shared,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID                   string          `json:"id"`
	AccountID            string          `json:"account_id"`
	Type                 string          `json:"type"`
	Category             string          `json:"category,omitempty"`
	Amount               decimal.Decimal `json:"amount"`
	Currency             string          `json:"currency"`
	Date                 time.Time       `json:"date"`
	Description          string          `json:"description,omitempty"`
	RelatedTransactionID *string         `json:"related_transaction_id,omitempty"`
	SenderAccountID      *string         `json:"sender_account_id,omitempty"`
	ReceiverAccountID    *string         `json:"receiver_account_id,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// TransactionFromDomain converts domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                   t.ID,
		AccountID:            t.AccountID,
		Type:                 string(t.Type),
		Category:             t.Category,
		Amount:               t.Amount,
		Currency:             t.Currency,
		Date:                 t.Date,
		Description:          t.Description,
		RelatedTransactionID: t.RelatedTransactionID,
		SenderAccountID:      t.SenderAccountID,
		ReceiverAccountID:    t.ReceiverAccountID,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// TransferResponse represents a completed transfer in API responses.
type TransferResponse struct {
	SenderTransactionID   string `json:"sender_transaction_id"`
	ReceiverTransactionID string `json:"receiver_transaction_id"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
