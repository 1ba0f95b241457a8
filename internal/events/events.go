package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	UserCreated = "user.created"

	AccountCreated     = "account.created"
	AccountDeactivated = "account.deactivated"
	AccountDeleted     = "account.deleted"

	TransactionCreated = "transaction.created"
	TransactionDeleted = "transaction.deleted"
)

// Stream names
const (
	UserEventsStream        = "user.events"
	AccountEventsStream     = "account.events"
	TransactionEventsStream = "transaction.events"
)

// Streams lists every stream the services publish to.
var Streams = []string{UserEventsStream, AccountEventsStream, TransactionEventsStream}

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// User events
type UserCreatedEvent struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Account events
type AccountCreatedEvent struct {
	AccountID string `json:"accountId"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Type      string `json:"accountType"`
}

type AccountDeactivatedEvent struct {
	AccountID string `json:"accountId"`
	UserID    string `json:"userId"`
}

type AccountDeletedEvent struct {
	AccountID string `json:"accountId"`
}

// Transaction events
type TransactionCreatedEvent struct {
	TransactionID string          `json:"transactionId"`
	AccountID     string          `json:"accountId"`
	Amount        decimal.Decimal `json:"amount"`
	Source        string          `json:"source"`
}

type TransactionDeletedEvent struct {
	TransactionID string `json:"transactionId"`
}
