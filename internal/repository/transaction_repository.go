package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eaglebank/finance/internal/models"
	"github.com/shopspring/decimal"
)

const transactionColumns = `transaction_id, account_id, amount, description, source, transaction_date, deleted_at, created_at`

// SQLTransactionRepository persists transactions in the transactions table.
type SQLTransactionRepository struct {
	db *DB
}

func NewSQLTransactionRepository(db *DB) *SQLTransactionRepository {
	return &SQLTransactionRepository{db: db}
}

func (r *SQLTransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transactions (transaction_id, account_id, amount, description, source, transaction_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		tx.ID, tx.AccountID, tx.Amount, tx.Description, tx.Source, tx.Date, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", translateError(err))
	}
	return nil
}

func (r *SQLTransactionRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = ? AND deleted_at IS NULL`
	tx, err := scanTransaction(r.db.QueryRowContext(ctx, r.db.Rebind(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

func (r *SQLTransactionRepository) ListByAccountID(ctx context.Context, accountID string) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = ? AND deleted_at IS NULL
		ORDER BY transaction_date DESC, created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

func (r *SQLTransactionRepository) SumByAccountID(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if r.db.Driver() == DriverSQLite {
		return r.sumInProcess(ctx, accountID)
	}

	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE account_id = ? AND deleted_at IS NULL`
	var sum decimal.Decimal
	if err := r.db.QueryRowContext(ctx, r.db.Rebind(query), accountID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return sum, nil
}

// sumInProcess adds amounts with decimal arithmetic. SQLite keeps amounts as
// TEXT and its SUM would go through float64.
func (r *SQLTransactionRepository) sumInProcess(ctx context.Context, accountID string) (decimal.Decimal, error) {
	query := `SELECT amount FROM transactions WHERE account_id = ? AND deleted_at IS NULL`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}
	defer rows.Close()

	sum := decimal.Zero
	for rows.Next() {
		var amount decimal.Decimal
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, fmt.Errorf("failed to scan amount: %w", err)
		}
		sum = sum.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return sum, nil
}

func (r *SQLTransactionRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE transactions SET deleted_at = ? WHERE transaction_id = ? AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), at, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
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

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		tx        models.Transaction
		deletedAt sql.NullTime
	)
	if err := row.Scan(
		&tx.ID, &tx.AccountID, &tx.Amount, &tx.Description, &tx.Source,
		&tx.Date, &deletedAt, &tx.CreatedAt,
	); err != nil {
		return nil, err
	}
	tx.Date = tx.Date.UTC()
	tx.CreatedAt = tx.CreatedAt.UTC()
	tx.DeletedAt = timePtr(deletedAt)
	return &tx, nil
}
