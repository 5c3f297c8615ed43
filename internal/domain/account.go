package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SharedAccess grants another user a capability on an account.
type SharedAccess struct {
	UserID string      `json:"user_id"`
	Level  AccessLevel `json:"level"`
}

// Account represents a personal or shared money account. The balance is
// derived state: after creation it only moves through transaction effects,
// never through direct writes.
type Account struct {
	ID            string
	OwnerID       string
	Name          string
	Currency      string
	Balance       decimal.Decimal
	AccountNumber *string
	Description   string
	Type          string
	SharedWith    []SharedAccess
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AccessFor resolves the capability userID holds on the account: owner for
// the owning user, the shared entry's level for shared users, none otherwise.
func (a *Account) AccessFor(userID string) AccessLevel {
	if a.OwnerID == userID {
		return AccessOwner
	}

	for _, s := range a.SharedWith {
		if s.UserID == userID {
			return s.Level
		}
	}

	return AccessNone
}

// SharedWithUser reports whether userID already has a shared entry.
func (a *Account) SharedWithUser(userID string) bool {
	for _, s := range a.SharedWith {
		if s.UserID == userID {
			return true
		}
	}

	return false
}
