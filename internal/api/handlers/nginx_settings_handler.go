package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nginxadmin/backend/internal/models"
	"github.com/nginxadmin/backend/internal/nginx"
	"github.com/nginxadmin/backend/internal/services"
)

// NginxSettingsHandler exposes the settings singleton, the test/reload
// commands and SSL file management.
type NginxSettingsHandler struct {
	settings      *services.SettingsService
	sslFiles      *nginx.SSLFileManager
	notifications *services.NotificationService
}

func NewNginxSettingsHandler(settings *services.SettingsService, sslFiles *nginx.SSLFileManager, notifications *services.NotificationService) *NginxSettingsHandler {
	return &NginxSettingsHandler{settings: settings, sslFiles: sslFiles, notifications: notifications}
}

func (h *NginxSettingsHandler) Get(c *gin.Context) {
	settings, err := h.settings.GetSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *NginxSettingsHandler) Save(c *gin.Context) {
	var incoming models.NginxSettings
	if err := c.ShouldBindJSON(&incoming); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.settings.SaveSettings(incoming)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, saved)
}

// Test runs the configured test command and reports the structured result.
func (h *NginxSettingsHandler) Test(c *gin.Context) {
	result, err := h.settings.TestConfig(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !result.Success {
		h.notifications.Notify(services.EventNginx, models.NotificationError,
			"nginx config test failed", result.Error)
	}
	c.JSON(http.StatusOK, result)
}

// Reload runs the configured reload command.
func (h *NginxSettingsHandler) Reload(c *gin.Context) {
	result, err := h.settings.Reload(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !result.Success {
		h.notifications.Notify(services.EventNginx, models.NotificationError,
			"nginx reload failed", result.Error)
	}
	c.JSON(http.StatusOK, result)
}

type sslSaveRequest struct {
	Name        string `json:"name" binding:"required"`
	Certificate string `json:"certificate" binding:"required"`
	PrivateKey  string `json:"private_key" binding:"required"`
}

// SaveSSLFiles writes PEM material to the configured SSL directories without
// creating a certificate entity.
func (h *NginxSettingsHandler) SaveSSLFiles(c *gin.Context) {
	var req sslSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.sslFiles.SaveCertificate(req.Name, req.Certificate, req.PrivateKey)
	if !result.Success {
		c.JSON(http.StatusInternalServerError, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteSSLFiles removes the on-disk material for a certificate name.
func (h *NginxSettingsHandler) DeleteSSLFiles(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	result := h.sslFiles.DeleteCertificate(name)
	if !result.Success {
		c.JSON(http.StatusInternalServerError, result)
		return
	}
	c.JSON(http.StatusOK, result)
}
