package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nginxadmin/backend/internal/models"
)

type ListeningPortHandler struct {
	DB *gorm.DB
}

func NewListeningPortHandler(db *gorm.DB) *ListeningPortHandler {
	return &ListeningPortHandler{DB: db}
}

func (h *ListeningPortHandler) List(c *gin.Context) {
	var ports []models.ListeningPort
	if err := h.DB.Order("port asc").Find(&ports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listening ports"})
		return
	}
	c.JSON(http.StatusOK, ports)
}

func (h *ListeningPortHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	var port models.ListeningPort
	if err := h.DB.First(&port, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listening port not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listening port"})
		return
	}
	c.JSON(http.StatusOK, port)
}

type listeningPortRequest struct {
	Name     string `json:"name" binding:"required"`
	Port     int    `json:"port" binding:"required,min=1,max=65535"`
	Protocol string `json:"protocol"`
	SSL      bool   `json:"ssl"`
	HTTP2    bool   `json:"http2"`
}

func (h *ListeningPortHandler) Create(c *gin.Context) {
	var req listeningPortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Protocol == "" {
		req.Protocol = "http"
	}

	port := models.ListeningPort{
		Name:     req.Name,
		Port:     req.Port,
		Protocol: req.Protocol,
		SSL:      req.SSL,
		HTTP2:    req.HTTP2,
	}
	if err := h.DB.Create(&port).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to create listening port"})
		return
	}
	c.JSON(http.StatusCreated, port)
}

func (h *ListeningPortHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	var port models.ListeningPort
	if err := h.DB.First(&port, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listening port not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listening port"})
		return
	}

	var req listeningPortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	port.Name = req.Name
	port.Port = req.Port
	if req.Protocol != "" {
		port.Protocol = req.Protocol
	}
	port.SSL = req.SSL
	port.HTTP2 = req.HTTP2

	if err := h.DB.Save(&port).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listening port"})
		return
	}
	c.JSON(http.StatusOK, port)
}

func (h *ListeningPortHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	var count int64
	if err := h.DB.Model(&models.HttpServer{}).Where("listening_port_id = ?", id).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check port usage"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Listening port is referenced by servers"})
		return
	}

	if err := h.DB.Delete(&models.ListeningPort{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete listening port"})
		return
	}
	c.Status(http.StatusNoContent)
}
