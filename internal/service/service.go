// Package service holds the user, account and transaction services. Each one
// writes through its repository and announces mutations on the event streams.
package service

import (
	"context"
	"time"

	"github.com/eaglebank/finance/internal/repository"
	"go.uber.org/zap"
)

// Clock supplies the current time for generated timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// EventPublisher is satisfied by events.Publisher and events.NopPublisher.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// Service bundles the three services over one set of repositories.
type Service struct {
	Users        *UserService
	Accounts     *AccountService
	Transactions *TransactionService
}

func New(repos *repository.Repositories, clock Clock, publisher EventPublisher, log *zap.Logger) *Service {
	return &Service{
		Users:        NewUserService(repos.Users, clock, publisher, log),
		Accounts:     NewAccountService(repos.Accounts, clock, publisher, log),
		Transactions: NewTransactionService(repos.Transactions, clock, publisher, log),
	}
}

// publish logs failures instead of returning them; the write has already
// been committed by the time an event goes out.
func publish(ctx context.Context, p EventPublisher, log *zap.Logger, stream, eventType string, data any) {
	if err := p.Publish(ctx, stream, eventType, data); err != nil {
		log.Warn("failed to publish event", zap.String("type", eventType), zap.Error(err))
	}
}
