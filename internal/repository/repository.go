// Package repository is the storage layer consumed by the services.
//
// Each entity has a repository interface covering the create / find-unique /
// find-many / update / aggregate calls the services make. SQLRepositories
// backs them with Postgres or SQLite; MemoryRepositories is an in-process
// substitute used in tests and for the memory driver.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/eaglebank/finance/internal/models"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a key lookup or keyed update matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrConflict wraps unique-constraint violations reported by the database.
	ErrConflict = errors.New("unique constraint violation")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	// GetByID excludes soft-deleted accounts.
	GetByID(ctx context.Context, id string) (*models.Account, error)
	// ListByUserID returns the user's accounts whose deleted_at is unset.
	ListByUserID(ctx context.Context, userID string) ([]models.Account, error)
	// SetActive updates is_active by key only; soft-deleted rows are updated too.
	SetActive(ctx context.Context, id string, active bool) (*models.Account, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	// ListByAccountID returns non-deleted transactions, newest transaction date first.
	ListByAccountID(ctx context.Context, accountID string) ([]models.Transaction, error)
	// SumByAccountID sums non-deleted amounts; an empty set sums to zero.
	SumByAccountID(ctx context.Context, accountID string) (decimal.Decimal, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// Repositories groups one repository per entity over a single backend.
type Repositories struct {
	Users        UserRepository
	Accounts     AccountRepository
	Transactions TransactionRepository
}
