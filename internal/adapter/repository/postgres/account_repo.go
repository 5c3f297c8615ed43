package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/okri/splitbook/internal/domain"
	"github.com/okri/splitbook/internal/usecase"
)

const accountColumns = `id, owner_id, name, currency, balance, account_number, description, type, shared_with, created_at, updated_at`

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	shared, err := sharedToJSON(account.SharedWith)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		account.ID,
		account.OwnerID,
		account.Name,
		account.Currency,
		decimalToNumeric(account.Balance),
		account.AccountNumber,
		account.Description,
		account.Type,
		shared,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)

	return scanAccount(row)
}

// GetForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id)

	return scanAccount(row)
}

// GetManyForUpdate retrieves multiple accounts with FOR UPDATE locks. Rows
// are locked in ascending ID order so concurrent multi-account scopes
// acquire them in the same sequence.
func (r *AccountRepository) GetManyForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// ListByUser lists every account the user owns or holds a grant on.
func (r *AccountRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+` FROM accounts
		WHERE owner_id = $1
		   OR shared_with @> jsonb_build_array(jsonb_build_object('user_id', $1::text))
		ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// Update rewrites account metadata. Balance is deliberately not part of the
// statement.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET name = $2, account_number = $3, description = $4, type = $5, updated_at = $6
		WHERE id = $1`,
		account.ID,
		account.Name,
		account.AccountNumber,
		account.Description,
		account.Type,
		timeToPgTimestamptz(account.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// Delete removes an account inside a scope.
func (r *AccountRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// ApplyDelta adjusts the balance by a signed delta inside a scope. This is
// the sole balance write after account creation.
func (r *AccountRepository) ApplyDelta(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE accounts SET balance = balance + $2, updated_at = $3 WHERE id = $1`,
		id,
		decimalToNumeric(delta),
		timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// AddShare appends a grant unless one already exists for the user. The
// guard lives in the statement so concurrent shares cannot both succeed.
func (r *AccountRepository) AddShare(ctx context.Context, accountID string, share domain.SharedAccess, updatedAt time.Time) (bool, error) {
	entry, err := json.Marshal(share)
	if err != nil {
		return false, err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET shared_with = shared_with || $2::jsonb, updated_at = $3
		WHERE id = $1
		  AND NOT shared_with @> jsonb_build_array(jsonb_build_object('user_id', $4::text))`,
		accountID,
		entry,
		timeToPgTimestamptz(updatedAt),
		share.UserID,
	)
	if err != nil {
		return false, err
	}

	if tag.RowsAffected() == 0 {
		exists, err := r.accountExists(ctx, accountID)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, domain.ErrAccountNotFound
		}
		return false, nil
	}

	return true, nil
}

// UpdateShare rewrites an existing grant's level; reports false when no
// grant exists for the user.
func (r *AccountRepository) UpdateShare(ctx context.Context, accountID, userID string, level domain.AccessLevel, updatedAt time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET shared_with = (
			SELECT jsonb_agg(
				CASE WHEN e->>'user_id' = $2 THEN jsonb_set(e, '{level}', to_jsonb($3::text)) ELSE e END
			)
			FROM jsonb_array_elements(shared_with) e
		), updated_at = $4
		WHERE id = $1
		  AND shared_with @> jsonb_build_array(jsonb_build_object('user_id', $2::text))`,
		accountID,
		userID,
		level.String(),
		timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return false, err
	}

	if tag.RowsAffected() == 0 {
		exists, err := r.accountExists(ctx, accountID)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, domain.ErrAccountNotFound
		}
		return false, nil
	}

	return true, nil
}

// RemoveShare drops the user's grant; reports false when none exists.
func (r *AccountRepository) RemoveShare(ctx context.Context, accountID, userID string, updatedAt time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET shared_with = COALESCE(
			(SELECT jsonb_agg(e) FROM jsonb_array_elements(shared_with) e WHERE e->>'user_id' <> $2),
			'[]'::jsonb
		), updated_at = $3
		WHERE id = $1
		  AND shared_with @> jsonb_build_array(jsonb_build_object('user_id', $2::text))`,
		accountID,
		userID,
		timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return false, err
	}

	if tag.RowsAffected() == 0 {
		exists, err := r.accountExists(ctx, accountID)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, domain.ErrAccountNotFound
		}
		return false, nil
	}

	return true, nil
}

func (r *AccountRepository) accountExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account   domain.Account
		balance   pgtype.Numeric
		shared    []byte
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&account.ID,
		&account.OwnerID,
		&account.Name,
		&account.Currency,
		&balance,
		&account.AccountNumber,
		&account.Description,
		&account.Type,
		&shared,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	account.Balance = numericToDecimal(balance)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time

	if err := json.Unmarshal(shared, &account.SharedWith); err != nil {
		return nil, fmt.Errorf("decode shared_with: %w", err)
	}

	return &account, nil
}

func sharedToJSON(shares []domain.SharedAccess) ([]byte, error) {
	if shares == nil {
		shares = []domain.SharedAccess{}
	}

	return json.Marshal(shares)
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
