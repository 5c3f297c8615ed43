package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okri/splitbook/internal/domain"
	"github.com/okri/splitbook/internal/usecase"
	"github.com/okri/splitbook/internal/usecase/mocks"
)

type fixture struct {
	store           *mocks.Store
	accountRepo     *mocks.MockAccountRepository
	transactionRepo *mocks.MockTransactionRepository
	txManager       *mocks.StoreTxManager
	guard           *usecase.AccessGuard
	idGen           *mocks.SequenceIDGenerator
}

func newFixture() *fixture {
	store := mocks.NewStore()
	accountRepo := mocks.NewMockAccountRepository(store)
	return &fixture{
		store:           store,
		accountRepo:     accountRepo,
		transactionRepo: mocks.NewMockTransactionRepository(store),
		txManager:       mocks.NewStoreTxManager(store),
		guard:           usecase.NewAccessGuard(accountRepo),
		idGen:           mocks.NewSequenceIDGenerator("txn"),
	}
}

func (f *fixture) ledger() *usecase.LedgerUseCase {
	return usecase.NewLedgerUseCase(f.txManager, f.accountRepo, f.transactionRepo, f.guard, f.idGen)
}

func (f *fixture) transfers() *usecase.TransferCoordinator {
	return usecase.NewTransferCoordinator(f.txManager, f.accountRepo, f.transactionRepo, f.guard, f.idGen)
}

func (f *fixture) accounts() *usecase.AccountUseCase {
	return usecase.NewAccountUseCase(f.txManager, f.accountRepo, f.transactionRepo, f.guard, f.idGen)
}

func seedAccount(f *fixture, id, ownerID, currency, balance string, shares ...domain.SharedAccess) {
	f.store.Seed(&domain.Account{
		ID:         id,
		OwnerID:    ownerID,
		Name:       "Account " + id,
		Currency:   currency,
		Balance:    decimal.RequireFromString(balance),
		SharedWith: shares,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	})
}

func TestLedgerUseCase_AddTransaction(t *testing.T) {
	tests := []struct {
		name        string
		principalID string
		accountID   string
		input       usecase.AddTransactionInput
		wantBalance string
		errorType   error
	}{
		{
			name:        "income credits the balance",
			principalID: "user-1",
			accountID:   "acc-1",
			input: usecase.AddTransactionInput{
				Type:     domain.TypeIncome,
				Category: "salary",
				Amount:   decimal.RequireFromString("250.75"),
				Currency: "USD",
			},
			wantBalance: "350.75",
		},
		{
			name:        "expense debits the balance",
			principalID: "user-1",
			accountID:   "acc-1",
			input: usecase.AddTransactionInput{
				Type:     domain.TypeExpense,
				Category: "groceries",
				Amount:   decimal.RequireFromString("30.25"),
				Currency: "USD",
			},
			wantBalance: "69.75",
		},
		{
			name:        "shared full access can record",
			principalID: "user-2",
			accountID:   "acc-1",
			input: usecase.AddTransactionInput{
				Type:     domain.TypeIncome,
				Amount:   decimal.NewFromInt(10),
				Currency: "USD",
			},
			wantBalance: "110",
		},
		{
			name:        "direct transfer insert rejected",
			principalID: "user-1",
			accountID:   "acc-1",
			input: usecase.AddTransactionInput{
				Type:     domain.TypeTransfer,
				Amount:   decimal.NewFromInt(10),
				Currency: "USD",
			},
			errorType: domain.ErrDirectTransferAdd,
		},
		{
			name:        "zero amount rejected",
			principalID: "user-1",
			accountID:   "acc-1",
			input: usecase.AddTransactionInput{
				Type:     domain.TypeIncome,
				Amount:   decimal.Zero,
				Currency: "USD",
			},
			errorType: domain.ErrInvalidAmount,
		},
		{
			name:        "read access cannot record",
			principalID: "user-3",
			accountID:   "acc-1",
			input: usecase.AddTransactionInput{
				Type:     domain.TypeIncome,
				Amount:   decimal.NewFromInt(10),
				Currency: "USD",
			},
			errorType: domain.ErrForbidden,
		},
		{
			name:        "stranger sees no account",
			principalID: "user-9",
			accountID:   "acc-1",
			input: usecase.AddTransactionInput{
				Type:     domain.TypeIncome,
				Amount:   decimal.NewFromInt(10),
				Currency: "USD",
			},
			errorType: domain.ErrAccountNotFound,
		},
		{
			name:        "unknown account",
			principalID: "user-1",
			accountID:   "acc-missing",
			input: usecase.AddTransactionInput{
				Type:     domain.TypeIncome,
				Amount:   decimal.NewFromInt(10),
				Currency: "USD",
			},
			errorType: domain.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			seedAccount(f, "acc-1", "user-1", "USD", "100",
				domain.SharedAccess{UserID: "user-2", Level: domain.AccessFull},
				domain.SharedAccess{UserID: "user-3", Level: domain.AccessRead},
			)

			txn, err := f.ledger().AddTransaction(context.Background(), tt.accountID, tt.principalID, tt.input)

			if tt.errorType != nil {
				if !errors.Is(err, tt.errorType) {
					t.Fatalf("expected %v, got %v", tt.errorType, err)
				}
				if got := f.store.Account("acc-1").Balance; !got.Equal(decimal.NewFromInt(100)) {
					t.Errorf("balance changed on failed add: %s", got)
				}
				if f.store.TransactionCount() != 0 {
					t.Errorf("transaction recorded on failed add")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := f.store.Account(tt.accountID).Balance; !got.Equal(decimal.RequireFromString(tt.wantBalance)) {
				t.Errorf("balance = %s, want %s", got, tt.wantBalance)
			}
			stored := f.store.Transaction(txn.ID)
			if stored == nil {
				t.Fatal("transaction not persisted")
			}
			if stored.Type != tt.input.Type || !stored.Amount.Equal(tt.input.Amount) {
				t.Errorf("persisted record does not match input: %+v", stored)
			}
		})
	}
}

func TestLedgerUseCase_UpdateTransaction(t *testing.T) {
	amount := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}
	str := func(s string) *string { return &s }

	tests := []struct {
		name        string
		patch       usecase.TransactionPatch
		wantBalance string
		errorType   error
	}{
		{
			name:        "raising an expense amount debits the difference",
			patch:       usecase.TransactionPatch{Amount: amount("50")},
			wantBalance: "50",
		},
		{
			name:        "lowering an expense amount credits the difference",
			patch:       usecase.TransactionPatch{Amount: amount("10")},
			wantBalance: "90",
		},
		{
			name:        "metadata change leaves the balance alone",
			patch:       usecase.TransactionPatch{Category: str("dining"), Description: str("lunch")},
			wantBalance: "70",
		},
		{
			name:      "account move rejected",
			patch:     usecase.TransactionPatch{AccountID: str("acc-2")},
			errorType: domain.ErrImmutableField,
		},
		{
			name:      "kind change rejected",
			patch:     usecase.TransactionPatch{Type: str("income")},
			errorType: domain.ErrImmutableField,
		},
		{
			name:      "transfer endpoint change rejected",
			patch:     usecase.TransactionPatch{SenderAccountID: str("acc-9")},
			errorType: domain.ErrImmutableField,
		},
		{
			name:      "invalid replacement currency rejected",
			patch:     usecase.TransactionPatch{Currency: str("NOPE")},
			errorType: domain.ErrInvalidCurrency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			seedAccount(f, "acc-1", "user-1", "USD", "100")
			ledger := f.ledger()

			txn, err := ledger.AddTransaction(context.Background(), "acc-1", "user-1", usecase.AddTransactionInput{
				Type:     domain.TypeExpense,
				Category: "groceries",
				Amount:   decimal.NewFromInt(30),
				Currency: "USD",
			})
			if err != nil {
				t.Fatalf("seed add failed: %v", err)
			}

			updated, err := ledger.UpdateTransaction(context.Background(), txn.ID, "acc-1", "user-1", tt.patch)

			if tt.errorType != nil {
				if !errors.Is(err, tt.errorType) {
					t.Fatalf("expected %v, got %v", tt.errorType, err)
				}
				if got := f.store.Account("acc-1").Balance; !got.Equal(decimal.NewFromInt(70)) {
					t.Errorf("balance changed on rejected update: %s", got)
				}
				stored := f.store.Transaction(txn.ID)
				if !stored.Amount.Equal(decimal.NewFromInt(30)) || stored.Category != "groceries" {
					t.Errorf("record changed on rejected update: %+v", stored)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := f.store.Account("acc-1").Balance; !got.Equal(decimal.RequireFromString(tt.wantBalance)) {
				t.Errorf("balance = %s, want %s", got, tt.wantBalance)
			}
			stored := f.store.Transaction(txn.ID)
			if !stored.Amount.Equal(updated.Amount) {
				t.Errorf("persisted amount %s does not match returned %s", stored.Amount, updated.Amount)
			}
		})
	}
}

func TestLedgerUseCase_UpdateTransaction_RollsBackOnFailure(t *testing.T) {
	f := newFixture()
	seedAccount(f, "acc-1", "user-1", "USD", "100")
	ledger := f.ledger()

	txn, err := ledger.AddTransaction(context.Background(), "acc-1", "user-1", usecase.AddTransactionInput{
		Type:     domain.TypeExpense,
		Category: "groceries",
		Amount:   decimal.NewFromInt(30),
		Currency: "USD",
	})
	if err != nil {
		t.Fatalf("seed add failed: %v", err)
	}

	before := f.store.Account("acc-1")

	// Fail the record write after the reversal delta has already been
	// applied inside the scope.
	f.transactionRepo.UpdateFunc = func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
		return errors.New("connection reset")
	}

	newAmount := decimal.NewFromInt(50)
	_, err = ledger.UpdateTransaction(context.Background(), txn.ID, "acc-1", "user-1", usecase.TransactionPatch{Amount: &newAmount})
	if !errors.Is(err, domain.ErrScopeAborted) {
		t.Fatalf("expected ErrScopeAborted, got %v", err)
	}

	after := f.store.Account("acc-1")
	if !after.Balance.Equal(before.Balance) || !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Errorf("account not restored: before %+v, after %+v", before, after)
	}
	stored := f.store.Transaction(txn.ID)
	if !stored.Amount.Equal(decimal.NewFromInt(30)) {
		t.Errorf("record not restored: %+v", stored)
	}
}

func TestLedgerUseCase_DeleteTransaction_RestoresBalance(t *testing.T) {
	f := newFixture()
	seedAccount(f, "acc-1", "user-1", "USD", "100")
	ledger := f.ledger()

	txn, err := ledger.AddTransaction(context.Background(), "acc-1", "user-1", usecase.AddTransactionInput{
		Type:     domain.TypeIncome,
		Amount:   decimal.RequireFromString("42.42"),
		Currency: "USD",
	})
	if err != nil {
		t.Fatalf("seed add failed: %v", err)
	}

	if err := ledger.DeleteTransaction(context.Background(), txn.ID, "acc-1", "user-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if got := f.store.Account("acc-1").Balance; !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance = %s, want 100", got)
	}
	if f.store.Transaction(txn.ID) != nil {
		t.Error("record still present after delete")
	}

	if err := ledger.DeleteTransaction(context.Background(), txn.ID, "acc-1", "user-1"); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound on second delete, got %v", err)
	}
}

func TestLedgerUseCase_ConcurrentAdds(t *testing.T) {
	f := newFixture()
	seedAccount(f, "acc-1", "user-1", "USD", "0")
	ledger := f.ledger()

	const workers = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.AddTransaction(context.Background(), "acc-1", "user-1", usecase.AddTransactionInput{
				Type:     domain.TypeIncome,
				Amount:   decimal.NewFromInt(1),
				Currency: "USD",
			})
			if err != nil {
				t.Errorf("concurrent add failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := f.store.Account("acc-1").Balance; !got.Equal(decimal.NewFromInt(workers)) {
		t.Errorf("balance = %s, want %d", got, workers)
	}
	if got := f.store.TransactionCount(); got != workers {
		t.Errorf("recorded %d transactions, want %d", got, workers)
	}
}

func TestLedgerUseCase_ListTransactions(t *testing.T) {
	f := newFixture()
	seedAccount(f, "acc-1", "user-1", "USD", "0",
		domain.SharedAccess{UserID: "user-3", Level: domain.AccessRead},
	)
	ledger := f.ledger()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		date := base.AddDate(0, 0, i)
		_, err := ledger.AddTransaction(context.Background(), "acc-1", "user-1", usecase.AddTransactionInput{
			Type:     domain.TypeIncome,
			Amount:   decimal.NewFromInt(int64(i + 1)),
			Currency: "USD",
			Date:     &date,
		})
		if err != nil {
			t.Fatalf("seed add failed: %v", err)
		}
	}

	txns, err := ledger.ListTransactions(context.Background(), "acc-1", "user-3")
	if err != nil {
		t.Fatalf("read-level list failed: %v", err)
	}
	if len(txns) != 3 {
		t.Fatalf("got %d transactions, want 3", len(txns))
	}
	for i := 1; i < len(txns); i++ {
		if txns[i].Date.After(txns[i-1].Date) {
			t.Errorf("transactions not newest first: %s before %s", txns[i-1].Date, txns[i].Date)
		}
	}

	if _, err := ledger.ListTransactions(context.Background(), "acc-1", "user-9"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound for stranger, got %v", err)
	}
}

func TestLedgerUseCase_GetTransaction(t *testing.T) {
	f := newFixture()
	seedAccount(f, "acc-1", "user-1", "USD", "0")
	seedAccount(f, "acc-2", "user-1", "USD", "0")
	ledger := f.ledger()

	txn, err := ledger.AddTransaction(context.Background(), "acc-1", "user-1", usecase.AddTransactionInput{
		Type:     domain.TypeIncome,
		Amount:   decimal.NewFromInt(5),
		Currency: "USD",
	})
	if err != nil {
		t.Fatalf("seed add failed: %v", err)
	}

	got, err := ledger.GetTransaction(context.Background(), txn.ID, "acc-1", "user-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ID != txn.ID {
		t.Errorf("got %s, want %s", got.ID, txn.ID)
	}

	// A record is only addressable through its own account.
	if _, err := ledger.GetTransaction(context.Background(), txn.ID, "acc-2", "user-1"); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound via wrong account, got %v", err)
	}
}
