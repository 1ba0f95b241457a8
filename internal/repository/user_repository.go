package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eaglebank/finance/internal/models"
)

// SQLUserRepository persists users in the users table.
type SQLUserRepository struct {
	db *DB
}

func NewSQLUserRepository(db *DB) *SQLUserRepository {
	return &SQLUserRepository{db: db}
}

// Create performs no uniqueness pre-check; a duplicate email surfaces as
// ErrConflict wrapping the driver error.
func (r *SQLUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, full_name, created_at)
		VALUES (?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query), user.ID, user.Email, user.FullName, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", translateError(err))
	}
	return nil
}

func (r *SQLUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `SELECT id, email, full_name, created_at FROM users WHERE id = ?`, id)
}

func (r *SQLUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT id, email, full_name, created_at FROM users WHERE email = ?`, email)
}

func (r *SQLUserRepository) getOne(ctx context.Context, query string, key string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), key).Scan(
		&user.ID, &user.Email, &user.FullName, &user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}
