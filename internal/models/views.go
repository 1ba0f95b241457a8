package models

import "github.com/shopspring/decimal"

// BalanceView is the response projection of an account balance.
type BalanceView struct {
	AccountID string          `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
}

// AccountListView wraps a user's accounts for the list endpoint.
type AccountListView struct {
	Accounts []Account `json:"accounts"`
}

// TransactionListView wraps an account's transactions for the list endpoint.
type TransactionListView struct {
	Transactions []Transaction `json:"transactions"`
}
