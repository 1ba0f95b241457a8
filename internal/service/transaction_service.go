package service

import (
	"context"
	"fmt"
	"time"

	"github.com/eaglebank/finance/internal/events"
	"github.com/eaglebank/finance/internal/models"
	"github.com/eaglebank/finance/internal/repository"
	"github.com/eaglebank/finance/internal/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CreateTransactionCommand struct {
	AccountID   string
	Amount      decimal.Decimal
	Description string
	Source      string
	// Date defaults to the clock's current time when zero.
	Date time.Time
}

type TransactionService struct {
	repo      repository.TransactionRepository
	clock     Clock
	publisher EventPublisher
	log       *zap.Logger
}

func NewTransactionService(repo repository.TransactionRepository, clock Clock, publisher EventPublisher, log *zap.Logger) *TransactionService {
	return &TransactionService{repo: repo, clock: clock, publisher: publisher, log: log.Named("transactions")}
}

// Create records a transaction as given. Neither the amount sign nor the
// account's existence is checked.
func (s *TransactionService) Create(ctx context.Context, cmd CreateTransactionCommand) (*models.Transaction, error) {
	now := s.clock.Now().UTC()
	date := cmd.Date
	if date.IsZero() {
		date = now
	}

	tx := &models.Transaction{
		ID:          utils.GenerateID(utils.TransactionIDPrefix),
		AccountID:   cmd.AccountID,
		Amount:      cmd.Amount,
		Description: cmd.Description,
		Source:      cmd.Source,
		Date:        date.UTC(),
		CreatedAt:   now,
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	publish(ctx, s.publisher, s.log, events.TransactionEventsStream, events.TransactionCreated, events.TransactionCreatedEvent{
		TransactionID: tx.ID,
		AccountID:     tx.AccountID,
		Amount:        tx.Amount,
		Source:        tx.Source,
	})
	return tx, nil
}

func (s *TransactionService) Get(ctx context.Context, transactionID string) (*models.Transaction, error) {
	tx, err := s.repo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

// ListForAccount returns non-deleted transactions, most recent date first.
func (s *TransactionService) ListForAccount(ctx context.Context, accountID string) ([]models.Transaction, error) {
	txs, err := s.repo.ListByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// GetBalance sums the amounts of the account's non-deleted transactions.
// An account with no transactions, or an unknown account, has a zero balance.
func (s *TransactionService) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	balance, err := s.repo.SumByAccountID(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute balance: %w", err)
	}
	return balance, nil
}

func (s *TransactionService) Delete(ctx context.Context, transactionID string) error {
	if err := s.repo.SoftDelete(ctx, transactionID, s.clock.Now().UTC()); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	publish(ctx, s.publisher, s.log, events.TransactionEventsStream, events.TransactionDeleted, events.TransactionDeletedEvent{
		TransactionID: transactionID,
	})
	return nil
}
