package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okri/splitbook/internal/domain"
	"github.com/okri/splitbook/internal/usecase"
)

const transactionColumns = `id, account_id, type, category, amount, currency, date, description, related_transaction_id, sender_account_id, receiver_account_id, created_at, updated_at`

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a transaction record inside a scope.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		txn.ID,
		txn.AccountID,
		string(txn.Type),
		txn.Category,
		decimalToNumeric(txn.Amount),
		txn.Currency,
		timeToPgTimestamptz(txn.Date),
		txn.Description,
		txn.RelatedTransactionID,
		txn.SenderAccountID,
		txn.ReceiverAccountID,
		timeToPgTimestamptz(txn.CreatedAt),
		timeToPgTimestamptz(txn.UpdatedAt),
	)

	return err
}

// GetByID retrieves a transaction within its account.
func (r *TransactionRepository) GetByID(ctx context.Context, id, accountID string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+` FROM transactions WHERE id = $1 AND account_id = $2`,
		id, accountID)

	return scanTransaction(row)
}

// GetForUpdate retrieves a transaction within its account under a row lock.
func (r *TransactionRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, id, accountID string) (*domain.Transaction, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+transactionColumns+` FROM transactions WHERE id = $1 AND account_id = $2 FOR UPDATE`,
		id, accountID)

	return scanTransaction(row)
}

// Update rewrites a transaction record inside a scope.
func (r *TransactionRepository) Update(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE transactions
		SET category = $3, amount = $4, currency = $5, date = $6, description = $7, updated_at = $8
		WHERE id = $1 AND account_id = $2`,
		txn.ID,
		txn.AccountID,
		txn.Category,
		decimalToNumeric(txn.Amount),
		txn.Currency,
		timeToPgTimestamptz(txn.Date),
		txn.Description,
		timeToPgTimestamptz(txn.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// Delete removes a transaction record inside a scope.
func (r *TransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, id, accountID string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		DELETE FROM transactions WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// ListByAccount lists the account's transactions, newest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE account_id = $1
		ORDER BY date DESC, id DESC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

// CountByAccount counts the account's transactions inside a scope.
func (r *TransactionRepository) CountByAccount(ctx context.Context, tx usecase.Transaction, accountID string) (int64, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var count int64
	err := pgxTx.QueryRow(ctx, `
		SELECT COUNT(*) FROM transactions WHERE account_id = $1`, accountID).Scan(&count)

	return count, err
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn       domain.Transaction
		txnType   string
		amount    pgtype.Numeric
		date      pgtype.Timestamptz
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&txn.ID,
		&txn.AccountID,
		&txnType,
		&txn.Category,
		&amount,
		&txn.Currency,
		&date,
		&txn.Description,
		&txn.RelatedTransactionID,
		&txn.SenderAccountID,
		&txn.ReceiverAccountID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	txn.Type = domain.TransactionType(txnType)
	txn.Amount = numericToDecimal(amount)
	txn.Date = date.Time
	txn.CreatedAt = createdAt.Time
	txn.UpdatedAt = updatedAt.Time

	return &txn, nil
}
