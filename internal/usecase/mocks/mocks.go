package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okri/splitbook/internal/domain"
	"github.com/okri/splitbook/internal/usecase"
)

// Store is an in-memory backing store shared by the mock repositories.
// Its transaction manager holds the store lock from Begin until Commit or
// Rollback, so scopes serialize exactly like row-locked database
// transactions, and Begin snapshots all state so Rollback restores the
// store byte for byte.
type Store struct {
	mu           sync.Mutex
	accounts     map[string]*domain.Account
	transactions map[string]*domain.Transaction
}

func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]*domain.Account),
		transactions: make(map[string]*domain.Transaction),
	}
}

// Seed inserts an account directly, bypassing any scope. Test setup only.
func (s *Store) Seed(account *domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.ID] = copyAccount(account)
}

// Account returns a copy of the stored account, or nil.
func (s *Store) Account(id string) *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.accounts[id]; ok {
		return copyAccount(acc)
	}
	return nil
}

// Transaction returns a copy of the stored transaction, or nil.
func (s *Store) Transaction(id string) *domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if txn, ok := s.transactions[id]; ok {
		return copyTransaction(txn)
	}
	return nil
}

// TransactionCount reports how many transactions the store holds.
func (s *Store) TransactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transactions)
}

func (s *Store) snapshot() (map[string]*domain.Account, map[string]*domain.Transaction) {
	accounts := make(map[string]*domain.Account, len(s.accounts))
	for id, acc := range s.accounts {
		accounts[id] = copyAccount(acc)
	}
	transactions := make(map[string]*domain.Transaction, len(s.transactions))
	for id, txn := range s.transactions {
		transactions[id] = copyTransaction(txn)
	}
	return accounts, transactions
}

func copyAccount(a *domain.Account) *domain.Account {
	c := *a
	c.SharedWith = append([]domain.SharedAccess(nil), a.SharedWith...)
	return &c
}

func copyTransaction(t *domain.Transaction) *domain.Transaction {
	c := *t
	return &c
}

// StoreTxManager implements usecase.TransactionManager over a Store.
type StoreTxManager struct {
	store *Store

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewStoreTxManager(store *Store) *StoreTxManager {
	return &StoreTxManager{store: store}
}

func (m *StoreTxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.store.mu.Lock()
	accounts, transactions := m.store.snapshot()
	return &storeTx{store: m.store, accounts: accounts, transactions: transactions}, nil
}

type storeTx struct {
	store        *Store
	accounts     map[string]*domain.Account
	transactions map[string]*domain.Transaction
	done         bool
}

func (t *storeTx) Commit(ctx context.Context) error {
	if t.done {
		return fmt.Errorf("transaction already closed")
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

func (t *storeTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.accounts = t.accounts
	t.store.transactions = t.transactions
	t.store.mu.Unlock()
	return nil
}

// MockAccountRepository is a Store-backed implementation of
// AccountRepository. Methods that take a scope run without locking since
// the scope already holds the store lock; the rest lock themselves. Any
// Func field, when set, replaces the default behaviour.
type MockAccountRepository struct {
	store *Store

	CreateFunc           func(ctx context.Context, account *domain.Account) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Account, error)
	GetForUpdateFunc     func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	GetManyForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	ApplyDeltaFunc       func(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error
	AddShareFunc         func(ctx context.Context, accountID string, share domain.SharedAccess, updatedAt time.Time) (bool, error)
}

func NewMockAccountRepository(store *Store) *MockAccountRepository {
	return &MockAccountRepository{store: store}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.accounts[account.ID] = copyAccount(account)
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if acc, ok := m.store.accounts[id]; ok {
		return copyAccount(acc), nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, tx, id)
	}
	if acc, ok := m.store.accounts[id]; ok {
		return copyAccount(acc), nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetManyForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.GetManyForUpdateFunc != nil {
		return m.GetManyForUpdateFunc(ctx, tx, ids)
	}
	var accounts []*domain.Account
	for _, id := range ids {
		if acc, ok := m.store.accounts[id]; ok {
			accounts = append(accounts, copyAccount(acc))
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Account, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var accounts []*domain.Account
	for _, acc := range m.store.accounts {
		if acc.OwnerID == userID || acc.SharedWithUser(userID) {
			accounts = append(accounts, copyAccount(acc))
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if _, ok := m.store.accounts[account.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	m.store.accounts[account.ID] = copyAccount(account)
	return nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if _, ok := m.store.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(m.store.accounts, id)
	return nil
}

func (m *MockAccountRepository) ApplyDelta(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) error {
	if m.ApplyDeltaFunc != nil {
		return m.ApplyDeltaFunc(ctx, tx, id, delta, updatedAt)
	}
	acc, ok := m.store.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Balance = acc.Balance.Add(delta)
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) AddShare(ctx context.Context, accountID string, share domain.SharedAccess, updatedAt time.Time) (bool, error) {
	if m.AddShareFunc != nil {
		return m.AddShareFunc(ctx, accountID, share, updatedAt)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	acc, ok := m.store.accounts[accountID]
	if !ok {
		return false, domain.ErrAccountNotFound
	}
	if acc.SharedWithUser(share.UserID) {
		return false, nil
	}
	acc.SharedWith = append(acc.SharedWith, share)
	acc.UpdatedAt = updatedAt
	return true, nil
}

func (m *MockAccountRepository) UpdateShare(ctx context.Context, accountID, userID string, level domain.AccessLevel, updatedAt time.Time) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	acc, ok := m.store.accounts[accountID]
	if !ok {
		return false, domain.ErrAccountNotFound
	}
	for i := range acc.SharedWith {
		if acc.SharedWith[i].UserID == userID {
			acc.SharedWith[i].Level = level
			acc.UpdatedAt = updatedAt
			return true, nil
		}
	}
	return false, nil
}

func (m *MockAccountRepository) RemoveShare(ctx context.Context, accountID, userID string, updatedAt time.Time) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	acc, ok := m.store.accounts[accountID]
	if !ok {
		return false, domain.ErrAccountNotFound
	}
	for i := range acc.SharedWith {
		if acc.SharedWith[i].UserID == userID {
			acc.SharedWith = append(acc.SharedWith[:i], acc.SharedWith[i+1:]...)
			acc.UpdatedAt = updatedAt
			return true, nil
		}
	}
	return false, nil
}

// MockTransactionRepository is a Store-backed implementation of
// TransactionRepository.
type MockTransactionRepository struct {
	store *Store

	CreateFunc func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	UpdateFunc func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	DeleteFunc func(ctx context.Context, tx usecase.Transaction, id, accountID string) error
}

func NewMockTransactionRepository(store *Store) *MockTransactionRepository {
	return &MockTransactionRepository{store: store}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.store.transactions[txn.ID] = copyTransaction(txn)
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id, accountID string) (*domain.Transaction, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if txn, ok := m.store.transactions[id]; ok && txn.AccountID == accountID {
		return copyTransaction(txn), nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, id, accountID string) (*domain.Transaction, error) {
	if txn, ok := m.store.transactions[id]; ok && txn.AccountID == accountID {
		return copyTransaction(txn), nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, txn)
	}
	if _, ok := m.store.transactions[txn.ID]; !ok {
		return domain.ErrTransactionNotFound
	}
	m.store.transactions[txn.ID] = copyTransaction(txn)
	return nil
}

func (m *MockTransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, id, accountID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id, accountID)
	}
	if txn, ok := m.store.transactions[id]; ok && txn.AccountID == accountID {
		delete(m.store.transactions, id)
		return nil
	}
	return domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Transaction, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var txns []*domain.Transaction
	for _, txn := range m.store.transactions {
		if txn.AccountID == accountID {
			txns = append(txns, copyTransaction(txn))
		}
	}
	sort.Slice(txns, func(i, j int) bool {
		if !txns[i].Date.Equal(txns[j].Date) {
			return txns[i].Date.After(txns[j].Date)
		}
		return txns[i].ID > txns[j].ID
	})
	return txns, nil
}

func (m *MockTransactionRepository) CountByAccount(ctx context.Context, tx usecase.Transaction, accountID string) (int64, error) {
	var count int64
	for _, txn := range m.store.transactions {
		if txn.AccountID == accountID {
			count++
		}
	}
	return count, nil
}

// SequenceIDGenerator generates deterministic IDs for tests.
type SequenceIDGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

func NewSequenceIDGenerator(prefix string) *SequenceIDGenerator {
	return &SequenceIDGenerator{prefix: prefix}
}

func (g *SequenceIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%04d", g.prefix, g.next)
}
