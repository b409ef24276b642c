package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nginxadmin/backend/internal/models"
	"github.com/nginxadmin/backend/internal/nginx"
)

type CertificateHandler struct {
	DB       *gorm.DB
	sslFiles *nginx.SSLFileManager
}

func NewCertificateHandler(db *gorm.DB, sslFiles *nginx.SSLFileManager) *CertificateHandler {
	return &CertificateHandler{DB: db, sslFiles: sslFiles}
}

func (h *CertificateHandler) List(c *gin.Context) {
	var certs []models.Certificate
	if err := h.DB.Preload("DomainMappings").Order("name asc").Find(&certs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch certificates"})
		return
	}
	c.JSON(http.StatusOK, certs)
}

func (h *CertificateHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	var cert models.Certificate
	if err := h.DB.Preload("DomainMappings.Domain").First(&cert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Certificate not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch certificate"})
		return
	}
	c.JSON(http.StatusOK, cert)
}

type certificateRequest struct {
	Name        string    `json:"name" binding:"required"`
	Certificate string    `json:"certificate" binding:"required"`
	PrivateKey  string    `json:"private_key" binding:"required"`
	Issuer      string    `json:"issuer"`
	ExpiresAt   time.Time `json:"expires_at"`
	AutoRenew   bool      `json:"auto_renew"`
	DomainIDs   []uint    `json:"domain_ids"`
}

// Create stores the certificate row, links its domains and writes the PEM
// material to disk so generated configs can reference it immediately.
func (h *CertificateHandler) Create(c *gin.Context) {
	var req certificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cert := models.Certificate{
		Name:        req.Name,
		Certificate: req.Certificate,
		PrivateKey:  req.PrivateKey,
		Issuer:      req.Issuer,
		ExpiresAt:   req.ExpiresAt,
		AutoRenew:   req.AutoRenew,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&cert).Error; err != nil {
			return err
		}
		for _, domainID := range req.DomainIDs {
			mapping := models.CertificateDomainMapping{CertificateID: cert.ID, DomainID: domainID}
			if err := tx.Create(&mapping).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to create certificate"})
		return
	}

	if result := h.sslFiles.SaveCertificate(cert.Name, cert.Certificate, cert.PrivateKey); !result.Success {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error})
		return
	}

	c.JSON(http.StatusCreated, cert)
}

func (h *CertificateHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	var cert models.Certificate
	if err := h.DB.First(&cert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Certificate not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch certificate"})
		return
	}

	var req certificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	oldName := cert.Name
	cert.Name = req.Name
	cert.Certificate = req.Certificate
	cert.PrivateKey = req.PrivateKey
	cert.Issuer = req.Issuer
	cert.ExpiresAt = req.ExpiresAt
	cert.AutoRenew = req.AutoRenew

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&cert).Error; err != nil {
			return err
		}
		if err := tx.Where("certificate_id = ?", cert.ID).Delete(&models.CertificateDomainMapping{}).Error; err != nil {
			return err
		}
		for _, domainID := range req.DomainIDs {
			mapping := models.CertificateDomainMapping{CertificateID: cert.ID, DomainID: domainID}
			if err := tx.Create(&mapping).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update certificate"})
		return
	}

	if oldName != cert.Name {
		h.sslFiles.DeleteCertificate(oldName)
	}
	if result := h.sslFiles.SaveCertificate(cert.Name, cert.Certificate, cert.PrivateKey); !result.Success {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error})
		return
	}

	c.JSON(http.StatusOK, cert)
}

func (h *CertificateHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	var cert models.Certificate
	if err := h.DB.First(&cert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Certificate not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch certificate"})
		return
	}

	var serverCount int64
	if err := h.DB.Model(&models.HttpServer{}).Where("certificate_id = ?", id).Count(&serverCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check certificate usage"})
		return
	}
	if serverCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Certificate is referenced by servers"})
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("certificate_id = ?", id).Delete(&models.CertificateDomainMapping{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Certificate{}, id).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete certificate"})
		return
	}

	h.sslFiles.DeleteCertificate(cert.Name)
	c.Status(http.StatusNoContent)
}
