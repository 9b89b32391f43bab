package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/access"
	"go.uber.org/zap"
)

// respondAccessError maps access-control failures to their HTTP statuses.
func respondAccessError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, access.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, access.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	default:
		zap.L().Error("access check failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
