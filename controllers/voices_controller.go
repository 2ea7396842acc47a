package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const voiceCatalogTTL = 5 * time.Minute

// VoiceCatalog is the slice of the synthesis provider the voices endpoints
// need.
type VoiceCatalog interface {
	ListVoices(ctx context.Context) ([]byte, error)
	DeleteVoice(ctx context.Context, voiceID string) error
}

// VoiceCache holds a short-lived copy of the provider catalog.
type VoiceCache interface {
	VoiceCatalog(ctx context.Context) ([]byte, bool)
	SetVoiceCatalog(ctx context.Context, data []byte, expiration time.Duration)
	InvalidateVoiceCatalog(ctx context.Context)
}

type VoicesController struct {
	Provider VoiceCatalog
	Cache    VoiceCache
}

// List handles GET /voices: a passthrough of the provider catalog, cached
// briefly to spare the provider quota.
func (ctrl *VoicesController) List(c *gin.Context) {
	ctx := c.Request.Context()

	if ctrl.Cache != nil {
		if data, ok := ctrl.Cache.VoiceCatalog(ctx); ok {
			c.Data(http.StatusOK, "application/json", data)
			return
		}
	}

	data, err := ctrl.Provider.ListVoices(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if ctrl.Cache != nil {
		ctrl.Cache.SetVoiceCatalog(ctx, data, voiceCatalogTTL)
	}
	c.Data(http.StatusOK, "application/json", data)
}

// Delete handles DELETE /voices/:id.
func (ctrl *VoicesController) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	if err := ctrl.Provider.DeleteVoice(ctx, c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	if ctrl.Cache != nil {
		ctrl.Cache.InvalidateVoiceCatalog(ctx)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Voice deleted successfully"})
}

// HealthCheck is liveness only; it touches no collaborator.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Voice clone API is running",
	})
}
