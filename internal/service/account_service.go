package service

import (
	"context"
	"fmt"

	"github.com/eaglebank/finance/internal/events"
	"github.com/eaglebank/finance/internal/models"
	"github.com/eaglebank/finance/internal/repository"
	"github.com/eaglebank/finance/internal/utils"
	"go.uber.org/zap"
)

type CreateAccountCommand struct {
	UserID      string
	Name        string
	Type        string
	Currency    string
	Institution *string
}

type AccountService struct {
	repo      repository.AccountRepository
	clock     Clock
	publisher EventPublisher
	log       *zap.Logger
}

func NewAccountService(repo repository.AccountRepository, clock Clock, publisher EventPublisher, log *zap.Logger) *AccountService {
	return &AccountService{repo: repo, clock: clock, publisher: publisher, log: log.Named("accounts")}
}

// Create stores an active account. The owning user is not checked.
func (s *AccountService) Create(ctx context.Context, cmd CreateAccountCommand) (*models.Account, error) {
	account := &models.Account{
		ID:          utils.GenerateID(utils.AccountIDPrefix),
		UserID:      cmd.UserID,
		Name:        cmd.Name,
		Type:        cmd.Type,
		Currency:    cmd.Currency,
		Institution: cmd.Institution,
		IsActive:    true,
		CreatedAt:   s.clock.Now().UTC(),
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	publish(ctx, s.publisher, s.log, events.AccountEventsStream, events.AccountCreated, events.AccountCreatedEvent{
		AccountID: account.ID,
		UserID:    account.UserID,
		Name:      account.Name,
		Type:      account.Type,
	})
	return account, nil
}

func (s *AccountService) Get(ctx context.Context, accountID string) (*models.Account, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// ListForUser returns the user's accounts that are not soft-deleted,
// deactivated ones included, oldest first.
func (s *AccountService) ListForUser(ctx context.Context, userID string) ([]models.Account, error) {
	accounts, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// Deactivate clears the active flag. deleted_at is left alone, so the
// account keeps showing up in listings and its transactions still count.
func (s *AccountService) Deactivate(ctx context.Context, accountID string) (*models.Account, error) {
	account, err := s.repo.SetActive(ctx, accountID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate account: %w", err)
	}

	publish(ctx, s.publisher, s.log, events.AccountEventsStream, events.AccountDeactivated, events.AccountDeactivatedEvent{
		AccountID: account.ID,
		UserID:    account.UserID,
	})
	return account, nil
}

// Delete soft-deletes the account. Its transactions are not touched.
func (s *AccountService) Delete(ctx context.Context, accountID string) error {
	if err := s.repo.SoftDelete(ctx, accountID, s.clock.Now().UTC()); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	publish(ctx, s.publisher, s.log, events.AccountEventsStream, events.AccountDeleted, events.AccountDeletedEvent{
		AccountID: accountID,
	})
	return nil
}
