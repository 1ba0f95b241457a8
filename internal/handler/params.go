package handler

import (
	"net/http"

	"github.com/eaglebank/finance/internal/middleware"
	"github.com/eaglebank/finance/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathID returns the route parameter when it carries the expected id prefix
// and answers 400 otherwise.
func pathID(c *gin.Context, param, prefix, entity string) (string, bool) {
	id := c.Param(param)
	if !utils.HasIDPrefix(id, prefix) {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid "+entity+" ID format")
		return "", false
	}
	return id, true
}

func userIDParam(c *gin.Context) (string, bool) {
	return pathID(c, "userId", utils.UserIDPrefix, "user")
}

func accountIDParam(c *gin.Context) (string, bool) {
	return pathID(c, "accountId", utils.AccountIDPrefix, "account")
}

func transactionIDParam(c *gin.Context) (string, bool) {
	return pathID(c, "transactionId", utils.TransactionIDPrefix, "transaction")
}
