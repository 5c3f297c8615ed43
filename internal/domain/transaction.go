package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies how a transaction affects its account balance.
type TransactionType string

const (
	TypeIncome   TransactionType = "income"
	TypeExpense  TransactionType = "expense"
	TypeTransfer TransactionType = "transfer"
)

// IsValid checks if the type is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer:
		return true
	default:
		return false
	}
}

// Transaction is a single movement on one account. Transfer transactions
// come in pairs: each side references its sibling on the other account via
// RelatedTransactionID and carries both account roles.
type Transaction struct {
	ID                   string
	AccountID            string
	Type                 TransactionType
	Category             string
	Amount               decimal.Decimal
	Currency             string
	Date                 time.Time
	Description          string
	RelatedTransactionID *string
	SenderAccountID      *string
	ReceiverAccountID    *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Delta returns the signed effect this transaction has on its account's
// balance: +amount for income, -amount for expense, -amount on the sender
// side of a transfer and +amount on the receiver side. A transfer whose
// sender/receiver roles do not match AccountID cannot be mapped to a delta.
func (t *Transaction) Delta() (decimal.Decimal, error) {
	switch t.Type {
	case TypeIncome:
		return t.Amount, nil
	case TypeExpense:
		return t.Amount.Neg(), nil
	case TypeTransfer:
		if t.SenderAccountID != nil && *t.SenderAccountID == t.AccountID {
			return t.Amount.Neg(), nil
		}

		if t.ReceiverAccountID != nil && *t.ReceiverAccountID == t.AccountID {
			return t.Amount, nil
		}
	}

	return decimal.Zero, ErrInvalidTransactionKind
}

// ReversalDelta returns the delta that cancels the transaction's effect.
func (t *Transaction) ReversalDelta() (decimal.Decimal, error) {
	delta, err := t.Delta()
	if err != nil {
		return decimal.Zero, err
	}

	return delta.Neg(), nil
}

// Validate checks the fields every transaction must carry.
func (t *Transaction) Validate() error {
	if !t.Type.IsValid() {
		return ErrInvalidTransactionKind
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return ValidateCurrency(t.Currency)
}
