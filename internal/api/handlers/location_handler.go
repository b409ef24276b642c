package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nginxadmin/backend/internal/models"
)

type LocationHandler struct {
	DB *gorm.DB
}

func NewLocationHandler(db *gorm.DB) *LocationHandler {
	return &LocationHandler{DB: db}
}

func (h *LocationHandler) List(c *gin.Context) {
	query := h.DB.Preload("Upstream")
	if serverID := c.Query("server_id"); serverID != "" {
		query = query.Where("server_id = ?", serverID)
	}

	var locations []models.Location
	if err := query.Find(&locations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch locations"})
		return
	}
	c.JSON(http.StatusOK, locations)
}

func (h *LocationHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	var location models.Location
	if err := h.DB.Preload("Upstream").First(&location, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch location"})
		return
	}
	c.JSON(http.StatusOK, location)
}

type locationRequest struct {
	ServerID          uint   `json:"server_id" binding:"required"`
	UpstreamID        uint   `json:"upstream_id" binding:"required"`
	Path              string `json:"path" binding:"required"`
	AdditionalConfig  string `json:"additional_config"`
	ClientMaxBodySize string `json:"client_max_body_size"`
}

func (h *LocationHandler) validate(req locationRequest) (int, string) {
	var server models.HttpServer
	if err := h.DB.First(&server, req.ServerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return http.StatusBadRequest, "Server does not exist"
		}
		return http.StatusInternalServerError, "Failed to fetch server"
	}

	var upstream models.Upstream
	if err := h.DB.First(&upstream, req.UpstreamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return http.StatusBadRequest, "Upstream does not exist"
		}
		return http.StatusInternalServerError, "Failed to fetch upstream"
	}

	return 0, ""
}

func (h *LocationHandler) Create(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if status, msg := h.validate(req); status != 0 {
		c.JSON(status, gin.H{"error": msg})
		return
	}

	location := models.Location{
		ServerID:          req.ServerID,
		UpstreamID:        req.UpstreamID,
		Path:              req.Path,
		AdditionalConfig:  req.AdditionalConfig,
		ClientMaxBodySize: req.ClientMaxBodySize,
	}
	if err := h.DB.Create(&location).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create location"})
		return
	}
	c.JSON(http.StatusCreated, location)
}

func (h *LocationHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	var location models.Location
	if err := h.DB.First(&location, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch location"})
		return
	}

	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if status, msg := h.validate(req); status != 0 {
		c.JSON(status, gin.H{"error": msg})
		return
	}

	location.ServerID = req.ServerID
	location.UpstreamID = req.UpstreamID
	location.Path = req.Path
	location.AdditionalConfig = req.AdditionalConfig
	location.ClientMaxBodySize = req.ClientMaxBodySize

	if err := h.DB.Save(&location).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update location"})
		return
	}
	c.JSON(http.StatusOK, location)
}

func (h *LocationHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("location_id = ?", id).Delete(&models.AccessRule{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Location{}, id).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete location"})
		return
	}
	c.Status(http.StatusNoContent)
}
