package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pookiesms/pookiesms/internal/apperr"
	"go.uber.org/zap"
)

// respondError translates a service error into an HTTP response. Anything
// that is not a classified AppError, and every INTERNAL error, is logged
// server-side and collapsed into a generic 500 with no detail leaked.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var appErr *apperr.AppError
	if !errors.As(err, &appErr) {
		logger.Error("unclassified error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	switch appErr.Code {
	case apperr.CodeInvalidArgument:
		c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
	case apperr.CodeNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": appErr.Message})
	case apperr.CodeAlreadyExists:
		c.JSON(http.StatusConflict, gin.H{"error": appErr.Message})
	case apperr.CodeUnauthenticated:
		c.JSON(http.StatusUnauthorized, gin.H{"error": appErr.Message})
	default:
		logger.Error("internal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
