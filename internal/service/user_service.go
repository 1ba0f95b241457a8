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

type UserService struct {
	repo      repository.UserRepository
	clock     Clock
	publisher EventPublisher
	log       *zap.Logger
}

func NewUserService(repo repository.UserRepository, clock Clock, publisher EventPublisher, log *zap.Logger) *UserService {
	return &UserService{repo: repo, clock: clock, publisher: publisher, log: log.Named("users")}
}

// Create stores a new user. Email uniqueness is left to the store, so a
// duplicate surfaces as repository.ErrConflict.
func (s *UserService) Create(ctx context.Context, email, fullName string) (*models.User, error) {
	user := &models.User{
		ID:        utils.GenerateID(utils.UserIDPrefix),
		Email:     email,
		FullName:  fullName,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	publish(ctx, s.publisher, s.log, events.UserEventsStream, events.UserCreated, events.UserCreatedEvent{
		UserID: user.ID,
		Email:  user.Email,
	})
	s.log.Debug("user created", zap.String("userId", user.ID))
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}
