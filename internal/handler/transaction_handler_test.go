package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/eaglebank/finance/internal/models"
	"github.com/eaglebank/finance/internal/repository"
	"github.com/eaglebank/finance/internal/service"
	"github.com/shopspring/decimal"
)

// ---- mock implementations ----

type mockTransactionService struct {
	createFn  func(service.CreateTransactionCommand) (*models.Transaction, error)
	getFn     func(string) (*models.Transaction, error)
	listFn    func(string) ([]models.Transaction, error)
	balanceFn func(string) (decimal.Decimal, error)
	deleteFn  func(string) error
}

func (m *mockTransactionService) Create(_ context.Context, cmd service.CreateTransactionCommand) (*models.Transaction, error) {
	if m.createFn != nil {
		return m.createFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockTransactionService) Get(_ context.Context, id string) (*models.Transaction, error) {
	if m.getFn != nil {
		return m.getFn(id)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockTransactionService) ListForAccount(_ context.Context, accountID string) ([]models.Transaction, error) {
	if m.listFn != nil {
		return m.listFn(accountID)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockTransactionService) GetBalance(_ context.Context, accountID string) (decimal.Decimal, error) {
	if m.balanceFn != nil {
		return m.balanceFn(accountID)
	}
	return decimal.Zero, fmt.Errorf("not configured")
}

func (m *mockTransactionService) Delete(_ context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return fmt.Errorf("not configured")
}

// ---- test data ----

var testTransaction = &models.Transaction{
	ID:          testTransactionID,
	AccountID:   testAccountID,
	Amount:      decimal.RequireFromString("12.50"),
	Description: "Coffee",
	Source:      "manual",
	Date:        time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC),
	CreatedAt:   time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC),
}

// ---- tests ----

func TestCreateTransaction(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		createFn       func(service.CreateTransactionCommand) (*models.Transaction, error)
		expectedStatus int
	}{
		{
			name: "success - numeric amount, no date",
			body: map[string]any{"amount": -12.5, "description": "Coffee", "source": "manual"},
			createFn: func(cmd service.CreateTransactionCommand) (*models.Transaction, error) {
				if !cmd.Amount.Equal(decimal.RequireFromString("-12.5")) || !cmd.Date.IsZero() || cmd.AccountID != testAccountID {
					return nil, fmt.Errorf("unexpected command: %+v", cmd)
				}
				return testTransaction, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "success - string amount with date",
			body: map[string]any{"amount": "100.10", "transactionDate": "2024-02-01T08:00:00Z"},
			createFn: func(cmd service.CreateTransactionCommand) (*models.Transaction, error) {
				if !cmd.Date.Equal(time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)) {
					return nil, fmt.Errorf("unexpected date: %v", cmd.Date)
				}
				return testTransaction, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - missing amount",
			body:           map[string]any{"description": "Coffee"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - non numeric amount",
			body:           map[string]any{"amount": "ten"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "internal error",
			body:           map[string]any{"amount": 1},
			createFn:       func(service.CreateTransactionCommand) (*models.Transaction, error) { return nil, fmt.Errorf("db down") },
			expectedStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(RouterConfig{Transactions: &mockTransactionService{createFn: tt.createFn}})
			w := doRequest(router, http.MethodPost, "/v1/accounts/"+testAccountID+"/transactions", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestListTransactions(t *testing.T) {
	router := newTestRouter(RouterConfig{Transactions: &mockTransactionService{
		listFn: func(string) ([]models.Transaction, error) {
			return []models.Transaction{*testTransaction}, nil
		},
	}})

	w := doRequest(router, http.MethodGet, "/v1/accounts/"+testAccountID+"/transactions", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got models.TransactionListView
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got.Transactions) != 1 || !got.Transactions[0].Amount.Equal(testTransaction.Amount) {
		t.Errorf("unexpected transactions: %+v", got.Transactions)
	}
}

func TestGetBalance(t *testing.T) {
	tests := []struct {
		name           string
		balanceFn      func(string) (decimal.Decimal, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success",
			balanceFn:      func(string) (decimal.Decimal, error) { return decimal.NewFromInt(75), nil },
			expectedStatus: http.StatusOK,
			expectedBody:   `{"accountId":"` + testAccountID + `","balance":"75"}`,
		},
		{
			name:           "no transactions",
			balanceFn:      func(string) (decimal.Decimal, error) { return decimal.Zero, nil },
			expectedStatus: http.StatusOK,
			expectedBody:   `{"accountId":"` + testAccountID + `","balance":"0"}`,
		},
		{
			name:           "internal error",
			balanceFn:      func(string) (decimal.Decimal, error) { return decimal.Zero, fmt.Errorf("db down") },
			expectedStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(RouterConfig{Transactions: &mockTransactionService{balanceFn: tt.balanceFn}})
			w := doRequest(router, http.MethodGet, "/v1/accounts/"+testAccountID+"/balance", nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedBody != "" && w.Body.String() != tt.expectedBody {
				t.Errorf("[%s] expected body %s, got %s", tt.name, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestGetTransaction(t *testing.T) {
	tests := []struct {
		name           string
		getFn          func(string) (*models.Transaction, error)
		expectedStatus int
	}{
		{
			name:           "success",
			getFn:          func(string) (*models.Transaction, error) { return testTransaction, nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "not found",
			getFn:          func(string) (*models.Transaction, error) { return nil, repository.ErrNotFound },
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(RouterConfig{Transactions: &mockTransactionService{getFn: tt.getFn}})
			w := doRequest(router, http.MethodGet, "/v1/transactions/"+testTransactionID, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestDeleteTransaction(t *testing.T) {
	tests := []struct {
		name           string
		deleteFn       func(string) error
		expectedStatus int
	}{
		{
			name:           "success",
			deleteFn:       func(string) error { return nil },
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "not found",
			deleteFn:       func(string) error { return repository.ErrNotFound },
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(RouterConfig{Transactions: &mockTransactionService{deleteFn: tt.deleteFn}})
			w := doRequest(router, http.MethodDelete, "/v1/transactions/"+testTransactionID, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
