package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MansiJagta/echo-forge-create/models"
	"github.com/MansiJagta/echo-forge-create/platform/middleware"
	"github.com/MansiJagta/echo-forge-create/platform/storage"
	"github.com/MansiJagta/echo-forge-create/services"
)

type CloneController struct {
	Service *services.CloneService
	Audio   storage.AudioStore
}

// CloneVoice handles POST /clone-voice: multipart text + voice_sample.
func (ctrl *CloneController) CloneVoice(c *gin.Context) {
	text := c.PostForm("text")

	file, header, err := c.Request.FormFile("voice_sample")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "voice_sample file is required"})
		return
	}
	defer file.Close()

	upload := &models.Upload{
		Reader:      file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}

	userID, _ := middleware.UserID(c)

	result, err := ctrl.Service.CloneVoice(c.Request.Context(), text, upload, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Download handles GET /download/:filename, streaming a generated file.
func (ctrl *CloneController) Download(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" || strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filename"})
		return
	}

	audio, size, err := ctrl.Audio.Open(c.Request.Context(), filename)
	if err != nil {
		abortWithError(c, err)
		return
	}
	defer audio.Close()

	extraHeaders := map[string]string{
		"Content-Disposition": `attachment; filename="` + filename + `"`,
	}
	c.DataFromReader(http.StatusOK, size, "audio/mpeg", audio, extraHeaders)
}
