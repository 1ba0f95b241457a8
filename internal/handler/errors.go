package handler

import (
	"errors"
	"net/http"

	"github.com/eaglebank/finance/internal/middleware"
	"github.com/eaglebank/finance/internal/repository"
	"github.com/gin-gonic/gin"
)

// respondServiceError maps service errors onto HTTP status codes. The raw
// error is attached to the gin context for the request logger.
func respondServiceError(c *gin.Context, err error, notFound, conflict, fallback string) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, repository.ErrNotFound):
		middleware.RespondWithError(c, http.StatusNotFound, notFound)
	case errors.Is(err, repository.ErrConflict):
		middleware.RespondWithError(c, http.StatusConflict, conflict)
	default:
		middleware.RespondWithError(c, http.StatusInternalServerError, fallback)
	}
}
