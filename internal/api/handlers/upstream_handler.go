package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nginxadmin/backend/internal/models"
)

type UpstreamHandler struct {
	DB *gorm.DB
}

func NewUpstreamHandler(db *gorm.DB) *UpstreamHandler {
	return &UpstreamHandler{DB: db}
}

func (h *UpstreamHandler) List(c *gin.Context) {
	var upstreams []models.Upstream
	if err := h.DB.Order("name asc").Find(&upstreams).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch upstreams"})
		return
	}
	c.JSON(http.StatusOK, upstreams)
}

func (h *UpstreamHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	var upstream models.Upstream
	if err := h.DB.Preload("Locations").First(&upstream, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Upstream not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch upstream"})
		return
	}
	c.JSON(http.StatusOK, upstream)
}

type upstreamRequest struct {
	Name      string                `json:"name" binding:"required"`
	Server    string                `json:"server" binding:"required"`
	KeepAlive int                   `json:"keep_alive"`
	Status    models.UpstreamStatus `json:"status"`
}

func (h *UpstreamHandler) Create(c *gin.Context) {
	var req upstreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status == "" {
		req.Status = models.UpstreamStatusActive
	}

	upstream := models.Upstream{
		Name:      req.Name,
		Server:    req.Server,
		KeepAlive: req.KeepAlive,
		Status:    req.Status,
	}
	if err := h.DB.Create(&upstream).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to create upstream"})
		return
	}
	c.JSON(http.StatusCreated, upstream)
}

func (h *UpstreamHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	var upstream models.Upstream
	if err := h.DB.First(&upstream, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Upstream not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch upstream"})
		return
	}

	var req upstreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upstream.Name = req.Name
	upstream.Server = req.Server
	upstream.KeepAlive = req.KeepAlive
	if req.Status != "" {
		upstream.Status = req.Status
	}

	if err := h.DB.Save(&upstream).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update upstream"})
		return
	}
	c.JSON(http.StatusOK, upstream)
}

func (h *UpstreamHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	// Locations keep a foreign key to the upstream; refuse to orphan them.
	var count int64
	if err := h.DB.Model(&models.Location{}).Where("upstream_id = ?", id).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check upstream usage"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Upstream is referenced by locations"})
		return
	}

	if err := h.DB.Delete(&models.Upstream{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete upstream"})
		return
	}
	c.Status(http.StatusNoContent)
}
