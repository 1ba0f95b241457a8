package handler

import (
	"net/http"

	"github.com/eaglebank/finance/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Users        UserService
	Accounts     AccountService
	Transactions TransactionService
	// JWTSecret empty leaves the /v1 routes unauthenticated.
	JWTSecret string
	Logger    *zap.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Logger != nil {
		router.Use(middleware.LoggingMiddleware(cfg.Logger))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	userHandler := NewUserHandler(cfg.Users)
	accountHandler := NewAccountHandler(cfg.Accounts)
	transactionHandler := NewTransactionHandler(cfg.Transactions)

	// user registration stays open so callers can bootstrap
	router.POST("/v1/users", userHandler.CreateUser)

	v1 := router.Group("/v1")
	if cfg.JWTSecret != "" {
		v1.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	}
	{
		v1.GET("/users", userHandler.FindUser)
		v1.GET("/users/:userId", userHandler.GetUser)
		v1.POST("/users/:userId/accounts", accountHandler.CreateAccount)
		v1.GET("/users/:userId/accounts", accountHandler.ListAccounts)

		v1.GET("/accounts/:accountId", accountHandler.GetAccount)
		v1.POST("/accounts/:accountId/deactivate", accountHandler.DeactivateAccount)
		v1.DELETE("/accounts/:accountId", accountHandler.DeleteAccount)
		v1.POST("/accounts/:accountId/transactions", transactionHandler.CreateTransaction)
		v1.GET("/accounts/:accountId/transactions", transactionHandler.ListTransactions)
		v1.GET("/accounts/:accountId/balance", transactionHandler.GetBalance)

		v1.GET("/transactions/:transactionId", transactionHandler.GetTransaction)
		v1.DELETE("/transactions/:transactionId", transactionHandler.DeleteTransaction)
	}

	return router
}
