package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/eaglebank/finance/internal/middleware"
	"github.com/eaglebank/finance/internal/models"
	"github.com/eaglebank/finance/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionService defines the operations used by TransactionHandler.
type TransactionService interface {
	Create(ctx context.Context, cmd service.CreateTransactionCommand) (*models.Transaction, error)
	Get(ctx context.Context, transactionID string) (*models.Transaction, error)
	ListForAccount(ctx context.Context, accountID string) ([]models.Transaction, error)
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	Delete(ctx context.Context, transactionID string) error
}

type TransactionHandler struct {
	transactions TransactionService
}

// CreateTransactionRequest accepts amount as a JSON number or string.
// A missing transactionDate is filled in by the service.
type CreateTransactionRequest struct {
	Amount          *decimal.Decimal `json:"amount" validate:"required"`
	Description     string           `json:"description" validate:"max=500"`
	Source          string           `json:"source" validate:"max=64"`
	TransactionDate *time.Time       `json:"transactionDate"`
}

func NewTransactionHandler(transactions TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	accountID, ok := accountIDParam(c)
	if !ok {
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	cmd := service.CreateTransactionCommand{
		AccountID:   accountID,
		Amount:      *req.Amount,
		Description: req.Description,
		Source:      req.Source,
	}
	if req.TransactionDate != nil {
		cmd.Date = *req.TransactionDate
	}

	tx, err := h.transactions.Create(c.Request.Context(), cmd)
	if err != nil {
		respondServiceError(c, err, "Account not found", "Transaction already exists", "Failed to create transaction")
		return
	}

	c.JSON(http.StatusCreated, tx)
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	accountID, ok := accountIDParam(c)
	if !ok {
		return
	}

	txs, err := h.transactions.ListForAccount(c.Request.Context(), accountID)
	if err != nil {
		respondServiceError(c, err, "Account not found", "Conflict", "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, models.TransactionListView{Transactions: txs})
}

func (h *TransactionHandler) GetBalance(c *gin.Context) {
	accountID, ok := accountIDParam(c)
	if !ok {
		return
	}

	balance, err := h.transactions.GetBalance(c.Request.Context(), accountID)
	if err != nil {
		respondServiceError(c, err, "Account not found", "Conflict", "Failed to compute balance")
		return
	}

	c.JSON(http.StatusOK, models.BalanceView{AccountID: accountID, Balance: balance})
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	transactionID, ok := transactionIDParam(c)
	if !ok {
		return
	}

	tx, err := h.transactions.Get(c.Request.Context(), transactionID)
	if err != nil {
		respondServiceError(c, err, "Transaction not found", "Conflict", "Failed to fetch transaction")
		return
	}

	c.JSON(http.StatusOK, tx)
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	transactionID, ok := transactionIDParam(c)
	if !ok {
		return
	}

	if err := h.transactions.Delete(c.Request.Context(), transactionID); err != nil {
		respondServiceError(c, err, "Transaction not found", "Conflict", "Failed to delete transaction")
		return
	}

	c.Status(http.StatusNoContent)
}
