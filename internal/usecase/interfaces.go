package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okri/splitbook/internal/domain"
)

// AccountRepository defines data access for accounts. ApplyDelta is the only
// way a balance ever changes after creation, and only the ledger and the
// transfer coordinator call it.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetManyForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, tx Transaction, id string) error
	ApplyDelta(ctx context.Context, tx Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error

	// Share mutations are conditional: they report false without touching
	// anything when the guard condition does not hold (duplicate entry on
	// add, absent entry on update/remove).
	AddShare(ctx context.Context, accountID string, share domain.SharedAccess, updatedAt time.Time) (bool, error)
	UpdateShare(ctx context.Context, accountID, userID string, level domain.AccessLevel, updatedAt time.Time) (bool, error)
	RemoveShare(ctx context.Context, accountID, userID string, updatedAt time.Time) (bool, error)
}

// TransactionRepository defines data access for transaction records. The
// ledger and the transfer coordinator are their only writers.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id, accountID string) (*domain.Transaction, error)
	GetForUpdate(ctx context.Context, tx Transaction, id, accountID string) (*domain.Transaction, error)
	Update(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	Delete(ctx context.Context, tx Transaction, id, accountID string) error
	ListByAccount(ctx context.Context, accountID string) ([]*domain.Transaction, error)
	CountByAccount(ctx context.Context, tx Transaction, accountID string) (int64, error)
}

// Transaction represents a database transaction: the atomic scope all
// multi-record mutations run in.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
