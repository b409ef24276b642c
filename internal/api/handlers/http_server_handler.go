package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nginxadmin/backend/internal/models"
)

type HttpServerHandler struct {
	DB *gorm.DB
}

func NewHttpServerHandler(db *gorm.DB) *HttpServerHandler {
	return &HttpServerHandler{DB: db}
}

func (h *HttpServerHandler) List(c *gin.Context) {
	var servers []models.HttpServer
	err := h.DB.
		Preload("ListeningPort").
		Preload("Locations").
		Preload("DomainMappings.Domain").
		Order("name asc").
		Find(&servers).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch servers"})
		return
	}
	c.JSON(http.StatusOK, servers)
}

func (h *HttpServerHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	var server models.HttpServer
	err = h.DB.
		Preload("ListeningPort").
		Preload("Locations.Upstream").
		Preload("DomainMappings.Domain").
		Preload("Certificate").
		First(&server, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Server not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch server"})
		return
	}
	c.JSON(http.StatusOK, server)
}

type httpServerRequest struct {
	Name             string                  `json:"name" binding:"required"`
	ListeningPortID  uint                    `json:"listening_port_id" binding:"required"`
	AdditionalConfig string                  `json:"additional_config"`
	Status           models.HttpServerStatus `json:"status"`
	AccessLogPath    string                  `json:"access_log_path"`
	ErrorLogPath     string                  `json:"error_log_path"`
	LogLevel         string                  `json:"log_level"`
	CertificateID    *uint                   `json:"certificate_id"`
	DomainIDs        []uint                  `json:"domain_ids"`
}

// validate enforces referential integrity before a write: the listening port
// must exist, an SSL port requires a certificate reference and that
// certificate must exist.
func (h *HttpServerHandler) validate(req httpServerRequest) (int, string) {
	var port models.ListeningPort
	if err := h.DB.First(&port, req.ListeningPortID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return http.StatusBadRequest, "Listening port does not exist"
		}
		return http.StatusInternalServerError, "Failed to fetch listening port"
	}

	if port.SSL && req.CertificateID == nil {
		return http.StatusBadRequest, "SSL listening port requires a certificate"
	}

	if req.CertificateID != nil {
		var cert models.Certificate
		if err := h.DB.First(&cert, *req.CertificateID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return http.StatusBadRequest, "Certificate does not exist"
			}
			return http.StatusInternalServerError, "Failed to fetch certificate"
		}
	}

	return 0, ""
}

func (h *HttpServerHandler) Create(c *gin.Context) {
	var req httpServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if status, msg := h.validate(req); status != 0 {
		c.JSON(status, gin.H{"error": msg})
		return
	}

	if req.Status == "" {
		req.Status = models.HttpServerStatusActive
	}

	server := models.HttpServer{
		Name:             req.Name,
		ListeningPortID:  req.ListeningPortID,
		AdditionalConfig: req.AdditionalConfig,
		Status:           req.Status,
		AccessLogPath:    req.AccessLogPath,
		ErrorLogPath:     req.ErrorLogPath,
		LogLevel:         req.LogLevel,
		CertificateID:    req.CertificateID,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&server).Error; err != nil {
			return err
		}
		for _, domainID := range req.DomainIDs {
			mapping := models.ServerDomainMapping{ServerID: server.ID, DomainID: domainID}
			if err := tx.Create(&mapping).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to create server"})
		return
	}

	c.JSON(http.StatusCreated, server)
}

func (h *HttpServerHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	var server models.HttpServer
	if err := h.DB.First(&server, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Server not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch server"})
		return
	}

	var req httpServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if status, msg := h.validate(req); status != 0 {
		c.JSON(status, gin.H{"error": msg})
		return
	}

	server.Name = req.Name
	server.ListeningPortID = req.ListeningPortID
	server.AdditionalConfig = req.AdditionalConfig
	if req.Status != "" {
		server.Status = req.Status
	}
	server.AccessLogPath = req.AccessLogPath
	server.ErrorLogPath = req.ErrorLogPath
	server.LogLevel = req.LogLevel
	server.CertificateID = req.CertificateID

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&server).Error; err != nil {
			return err
		}
		if err := tx.Where("server_id = ?", server.ID).Delete(&models.ServerDomainMapping{}).Error; err != nil {
			return err
		}
		for _, domainID := range req.DomainIDs {
			mapping := models.ServerDomainMapping{ServerID: server.ID, DomainID: domainID}
			if err := tx.Create(&mapping).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update server"})
		return
	}

	c.JSON(http.StatusOK, server)
}

func (h *HttpServerHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	// Remove the server and everything scoped to it.
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var locationIDs []uint
		if err := tx.Model(&models.Location{}).Where("server_id = ?", id).Pluck("id", &locationIDs).Error; err != nil {
			return err
		}
		if len(locationIDs) > 0 {
			if err := tx.Where("location_id IN ?", locationIDs).Delete(&models.AccessRule{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("server_id = ?", id).Delete(&models.AccessRule{}).Error; err != nil {
			return err
		}
		if err := tx.Where("server_id = ?", id).Delete(&models.Location{}).Error; err != nil {
			return err
		}
		if err := tx.Where("server_id = ?", id).Delete(&models.ServerDomainMapping{}).Error; err != nil {
			return err
		}
		if err := tx.Where("server_id = ?", id).Delete(&models.ConfigVersion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.HttpServer{}, id).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete server"})
		return
	}
	c.Status(http.StatusNoContent)
}
