package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MansiJagta/echo-forge-create/models"
	"github.com/MansiJagta/echo-forge-create/platform/logging"
)

// abortWithError maps the service error taxonomy to HTTP statuses. Upstream
// detail is logged for operators and never echoed to the caller.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrInvalidUpload):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, models.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
	case errors.Is(err, models.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		if ue, ok := models.AsUpstream(err); ok {
			logging.Error("upstream request failed", "service", ue.Service, "status", ue.Status, "timeout", ue.Timeout, "body", ue.Body)
			if ue.Timeout {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Upstream service timed out, please retry"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "Upstream service error"})
			return
		}
		logging.Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
