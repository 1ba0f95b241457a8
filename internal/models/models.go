package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	CreatedAt time.Time `json:"createdTimestamp"`
}

// Account belongs to exactly one user. IsActive and DeletedAt are independent:
// deactivation only flips IsActive.
type Account struct {
	ID          string     `json:"accountId"`
	UserID      string     `json:"userId"`
	Name        string     `json:"name"`
	Type        string     `json:"accountType"`
	Currency    string     `json:"currency"`
	Institution *string    `json:"institution,omitempty"`
	IsActive    bool       `json:"isActive"`
	DeletedAt   *time.Time `json:"deletedTimestamp,omitempty"`
	CreatedAt   time.Time  `json:"createdTimestamp"`
}

type Transaction struct {
	ID          string          `json:"transactionId"`
	AccountID   string          `json:"accountId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Source      string          `json:"source"`
	Date        time.Time       `json:"transactionDate"`
	DeletedAt   *time.Time      `json:"deletedTimestamp,omitempty"`
	CreatedAt   time.Time       `json:"createdTimestamp"`
}
