package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eaglebank/finance/internal/models"
)

const accountColumns = `account_id, user_id, account_name, account_type, currency, institution, is_active, deleted_at, created_at`

// SQLAccountRepository persists accounts in the accounts table.
type SQLAccountRepository struct {
	db *DB
}

func NewSQLAccountRepository(db *DB) *SQLAccountRepository {
	return &SQLAccountRepository{db: db}
}

func (r *SQLAccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (account_id, user_id, account_name, account_type, currency, institution, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		account.ID, account.UserID, account.Name, account.Type, account.Currency,
		nullString(account.Institution), account.IsActive, account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", translateError(err))
	}
	return nil
}

func (r *SQLAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ? AND deleted_at IS NULL`
	return r.getOne(ctx, query, id)
}

func (r *SQLAccountRepository) ListByUserID(ctx context.Context, userID string) ([]models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = ? AND deleted_at IS NULL
		ORDER BY created_at ASC, account_id ASC
	`
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (r *SQLAccountRepository) SetActive(ctx context.Context, id string, active bool) (*models.Account, error) {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE accounts SET is_active = ? WHERE account_id = ?`), active, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrNotFound
	}
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = ?`, id)
}

func (r *SQLAccountRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE accounts SET deleted_at = ? WHERE account_id = ? AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), at, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLAccountRepository) getOne(ctx context.Context, query, id string) (*models.Account, error) {
	account, err := scanAccount(r.db.QueryRowContext(ctx, r.db.Rebind(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		account     models.Account
		institution sql.NullString
		deletedAt   sql.NullTime
	)
	if err := row.Scan(
		&account.ID, &account.UserID, &account.Name, &account.Type, &account.Currency,
		&institution, &account.IsActive, &deletedAt, &account.CreatedAt,
	); err != nil {
		return nil, err
	}
	account.Institution = stringPtr(institution)
	account.DeletedAt = timePtr(deletedAt)
	account.CreatedAt = account.CreatedAt.UTC()
	return &account, nil
}
