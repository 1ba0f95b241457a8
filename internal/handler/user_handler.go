package handler

import (
	"context"
	"net/http"

	"github.com/eaglebank/finance/internal/middleware"
	"github.com/eaglebank/finance/internal/models"
	"github.com/gin-gonic/gin"
)

// UserService defines the operations used by UserHandler.
type UserService interface {
	Create(ctx context.Context, email, fullName string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type UserHandler struct {
	users UserService
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"fullName" validate:"required,max=255"`
}

type FindUserQuery struct {
	Email string `form:"email" validate:"required,email"`
}

func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	user, err := h.users.Create(c.Request.Context(), req.Email, req.FullName)
	if err != nil {
		respondServiceError(c, err, "User not found", "A user with this email already exists", "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "User not found", "Conflict", "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// FindUser serves GET /v1/users?email=.
func (h *UserHandler) FindUser(c *gin.Context) {
	var q FindUserQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	if validationErrors := middleware.ValidateRequest(q); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), q.Email)
	if err != nil {
		respondServiceError(c, err, "User not found", "Conflict", "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, user)
}
