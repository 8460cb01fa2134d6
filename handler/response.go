package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zac-t-smith/restoration-intel/allocator"
	"github.com/zac-t-smith/restoration-intel/pkg/logger"
	"github.com/zac-t-smith/restoration-intel/service"
)

const dateLayout = "2006-01-02"

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// respondError maps service errors to a status and the {"error": ...}
// envelope. Unrecognized errors are logged and reported as 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoCashBalance),
		errors.Is(err, service.ErrExpenseNotFound),
		errors.Is(err, service.ErrReportNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrVendorNotFound),
		errors.Is(err, service.ErrProjectNotFound),
		errors.Is(err, allocator.ErrDuplicateObligation),
		errors.Is(err, allocator.ErrMissingID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrArchiveDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
