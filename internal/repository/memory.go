package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/eaglebank/finance/internal/models"
	"github.com/shopspring/decimal"
)

// NewMemoryRepositories returns repositories that keep everything in
// process memory. They honour the same contract as the SQL backend:
// ErrConflict on duplicate user emails, and no check that a referenced
// user or account exists.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Users:        &MemoryUserRepository{byID: map[string]models.User{}},
		Accounts:     &MemoryAccountRepository{byID: map[string]models.Account{}},
		Transactions: &MemoryTransactionRepository{byID: map[string]models.Transaction{}},
	}
}

type MemoryUserRepository struct {
	mu   sync.RWMutex
	byID map[string]models.User
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[user.ID]; ok {
		return fmt.Errorf("%w: users.id %s", ErrConflict, user.ID)
	}
	for _, u := range r.byID {
		if u.Email == user.Email {
			return fmt.Errorf("%w: users.email %s", ErrConflict, user.Email)
		}
	}
	r.byID[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

type MemoryAccountRepository struct {
	mu   sync.RWMutex
	byID map[string]models.Account
}

func (r *MemoryAccountRepository) Create(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[account.ID]; ok {
		return fmt.Errorf("%w: accounts.account_id %s", ErrConflict, account.ID)
	}
	r.byID[account.ID] = cloneAccount(*account)
	return nil
}

func (r *MemoryAccountRepository) GetByID(_ context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok || a.DeletedAt != nil {
		return nil, ErrNotFound
	}
	a = cloneAccount(a)
	return &a, nil
}

func (r *MemoryAccountRepository) ListByUserID(_ context.Context, userID string) ([]models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := []models.Account{}
	for _, a := range r.byID {
		if a.UserID == userID && a.DeletedAt == nil {
			accounts = append(accounts, cloneAccount(a))
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		if !accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
		}
		return accounts[i].ID < accounts[j].ID
	})
	return accounts, nil
}

func (r *MemoryAccountRepository) SetActive(_ context.Context, id string, active bool) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	a.IsActive = active
	r.byID[id] = a
	a = cloneAccount(a)
	return &a, nil
}

func (r *MemoryAccountRepository) SoftDelete(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok || a.DeletedAt != nil {
		return ErrNotFound
	}
	at = at.UTC()
	a.DeletedAt = &at
	r.byID[id] = a
	return nil
}

func cloneAccount(a models.Account) models.Account {
	if a.Institution != nil {
		v := *a.Institution
		a.Institution = &v
	}
	if a.DeletedAt != nil {
		v := *a.DeletedAt
		a.DeletedAt = &v
	}
	return a
}

type MemoryTransactionRepository struct {
	mu   sync.RWMutex
	byID map[string]models.Transaction
}

func (r *MemoryTransactionRepository) Create(_ context.Context, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[tx.ID]; ok {
		return fmt.Errorf("%w: transactions.transaction_id %s", ErrConflict, tx.ID)
	}
	r.byID[tx.ID] = *tx
	return nil
}

func (r *MemoryTransactionRepository) GetByID(_ context.Context, id string) (*models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.byID[id]
	if !ok || tx.DeletedAt != nil {
		return nil, ErrNotFound
	}
	return &tx, nil
}

func (r *MemoryTransactionRepository) ListByAccountID(_ context.Context, accountID string) ([]models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	transactions := []models.Transaction{}
	for _, tx := range r.byID {
		if tx.AccountID == accountID && tx.DeletedAt == nil {
			transactions = append(transactions, tx)
		}
	}
	sort.Slice(transactions, func(i, j int) bool {
		if !transactions[i].Date.Equal(transactions[j].Date) {
			return transactions[i].Date.After(transactions[j].Date)
		}
		return transactions[i].CreatedAt.After(transactions[j].CreatedAt)
	})
	return transactions, nil
}

func (r *MemoryTransactionRepository) SumByAccountID(_ context.Context, accountID string) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sum := decimal.Zero
	for _, tx := range r.byID {
		if tx.AccountID == accountID && tx.DeletedAt == nil {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum, nil
}

func (r *MemoryTransactionRepository) SoftDelete(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.byID[id]
	if !ok || tx.DeletedAt != nil {
		return ErrNotFound
	}
	at = at.UTC()
	tx.DeletedAt = &at
	r.byID[id] = tx
	return nil
}
