package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nginxadmin/backend/internal/metrics"
	"github.com/nginxadmin/backend/internal/nginx"
	"github.com/nginxadmin/backend/internal/services"
)

// NginxConfigHandler exposes config generation, validation, version history
// and config file deployment.
type NginxConfigHandler struct {
	generator *nginx.Generator
	versions  *nginx.VersionStore
	settings  *services.SettingsService
}

func NewNginxConfigHandler(generator *nginx.Generator, versions *nginx.VersionStore, settings *services.SettingsService) *NginxConfigHandler {
	return &NginxConfigHandler{generator: generator, versions: versions, settings: settings}
}

// GetConfig renders the full configuration.
func (h *NginxConfigHandler) GetConfig(c *gin.Context) {
	config, err := h.generator.GenerateFullConfig()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": config})
}

// GetServerConfig renders the standalone server block for one server.
func (h *NginxConfigHandler) GetServerConfig(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	config, err := h.generator.GenerateServerConfig(uint(id))
	if errors.Is(err, nginx.ErrServerNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": config})
}

// Download renders the full configuration as a plain-text attachment.
func (h *NginxConfigHandler) Download(c *gin.Context) {
	config, err := h.generator.GenerateFullConfig()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="nginx.conf"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(config))
}

type validateRequest struct {
	Config string `json:"config"`
}

// Validate checks config text supplied by the caller; with an empty body the
// current full configuration is generated and checked instead.
func (h *NginxConfigHandler) Validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	config := req.Config
	if config == "" {
		generated, err := h.generator.GenerateFullConfig()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		config = generated
	}

	result := nginx.Validate(config)
	if !result.Valid {
		metrics.IncValidationFailure()
	}
	c.JSON(http.StatusOK, result)
}

type saveVersionRequest struct {
	ServerID *uint  `json:"server_id"`
	Name     string `json:"name"`
}

// SaveVersion generates the scoped configuration and stores it as the new
// active snapshot.
func (h *NginxConfigHandler) SaveVersion(c *gin.Context) {
	var req saveVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var config string
	var err error
	if req.ServerID != nil {
		config, err = h.generator.GenerateServerConfig(*req.ServerID)
		if errors.Is(err, nginx.ErrServerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
	} else {
		config, err = h.generator.GenerateFullConfig()
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	version, err := h.versions.Save(config, req.ServerID, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, version)
}

// ListVersions returns recent snapshots, optionally filtered by server.
func (h *NginxConfigHandler) ListVersions(c *gin.Context) {
	serverID, ok := parseServerIDQuery(c)
	if !ok {
		return
	}

	versions, err := h.versions.List(serverID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, versions)
}

// GetActiveVersion returns the active snapshot of a scope.
func (h *NginxConfigHandler) GetActiveVersion(c *gin.Context) {
	serverID, ok := parseServerIDQuery(c)
	if !ok {
		return
	}

	version, err := h.versions.GetActive(serverID)
	if errors.Is(err, nginx.ErrVersionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, version)
}

type renameVersionRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameVersion updates a snapshot's display name.
func (h *NginxConfigHandler) RenameVersion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	var req renameVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	version, err := h.versions.Rename(uint(id), req.Name)
	if errors.Is(err, nginx.ErrVersionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, version)
}

// Deploy generates the full configuration and writes it to the configured
// config path.
func (h *NginxConfigHandler) Deploy(c *gin.Context) {
	config, err := h.generator.GenerateFullConfig()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	path, err := h.settings.WriteConfigFile(config)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

// parseServerIDQuery reads an optional server_id query parameter. On a
// malformed value it writes the error response and reports failure.
func parseServerIDQuery(c *gin.Context) (*uint, bool) {
	raw := c.Query("server_id")
	if raw == "" {
		return nil, true
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid server_id"})
		return nil, false
	}

	serverID := uint(id)
	return &serverID, true
}
