package handler

import (
	"context"
	"net/http"

	"github.com/eaglebank/finance/internal/middleware"
	"github.com/eaglebank/finance/internal/models"
	"github.com/eaglebank/finance/internal/service"
	"github.com/gin-gonic/gin"
)

// AccountService defines the operations used by AccountHandler.
type AccountService interface {
	Create(ctx context.Context, cmd service.CreateAccountCommand) (*models.Account, error)
	Get(ctx context.Context, accountID string) (*models.Account, error)
	ListForUser(ctx context.Context, userID string) ([]models.Account, error)
	Deactivate(ctx context.Context, accountID string) (*models.Account, error)
	Delete(ctx context.Context, accountID string) error
}

type AccountHandler struct {
	accounts AccountService
}

type CreateAccountRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	AccountType string  `json:"accountType" validate:"required,max=64"`
	Currency    string  `json:"currency" validate:"required,len=3"`
	Institution *string `json:"institution" validate:"omitempty,max=255"`
}

func NewAccountHandler(accounts AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	account, err := h.accounts.Create(c.Request.Context(), service.CreateAccountCommand{
		UserID:      userID,
		Name:        req.Name,
		Type:        req.AccountType,
		Currency:    req.Currency,
		Institution: req.Institution,
	})
	if err != nil {
		respondServiceError(c, err, "Account not found", "Account already exists", "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, account)
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	accounts, err := h.accounts.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "User not found", "Conflict", "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, models.AccountListView{Accounts: accounts})
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	accountID, ok := accountIDParam(c)
	if !ok {
		return
	}

	account, err := h.accounts.Get(c.Request.Context(), accountID)
	if err != nil {
		respondServiceError(c, err, "Account not found", "Conflict", "Failed to fetch account")
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) DeactivateAccount(c *gin.Context) {
	accountID, ok := accountIDParam(c)
	if !ok {
		return
	}

	account, err := h.accounts.Deactivate(c.Request.Context(), accountID)
	if err != nil {
		respondServiceError(c, err, "Account not found", "Conflict", "Failed to deactivate account")
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	accountID, ok := accountIDParam(c)
	if !ok {
		return
	}

	if err := h.accounts.Delete(c.Request.Context(), accountID); err != nil {
		respondServiceError(c, err, "Account not found", "Conflict", "Failed to delete account")
		return
	}

	c.Status(http.StatusNoContent)
}
