package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nginxadmin/backend/internal/models"
)

type AccessRuleHandler struct {
	DB *gorm.DB
}

func NewAccessRuleHandler(db *gorm.DB) *AccessRuleHandler {
	return &AccessRuleHandler{DB: db}
}

func (h *AccessRuleHandler) List(c *gin.Context) {
	query := h.DB.Session(&gorm.Session{})
	if serverID := c.Query("server_id"); serverID != "" {
		query = query.Where("server_id = ?", serverID)
	}
	if locationID := c.Query("location_id"); locationID != "" {
		query = query.Where("location_id = ?", locationID)
	}

	var rules []models.AccessRule
	if err := query.Find(&rules).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch access rules"})
		return
	}
	c.JSON(http.StatusOK, rules)
}

type accessRuleRequest struct {
	IPAddress  string                 `json:"ip_address" binding:"required"`
	Rule       models.AccessRuleType  `json:"rule" binding:"required,oneof=allow deny"`
	Scope      models.AccessRuleScope `json:"scope" binding:"required,oneof=server location"`
	ServerID   *uint                  `json:"server_id"`
	LocationID *uint                  `json:"location_id"`
}

// validate ensures the parent reference matches the declared scope.
func validateAccessRule(req accessRuleRequest) string {
	if req.Scope == models.AccessRuleScopeServer && req.ServerID == nil {
		return "server-scoped rule requires server_id"
	}
	if req.Scope == models.AccessRuleScopeLocation && req.LocationID == nil {
		return "location-scoped rule requires location_id"
	}
	return ""
}

func (h *AccessRuleHandler) Create(c *gin.Context) {
	var req accessRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if msg := validateAccessRule(req); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	rule := models.AccessRule{
		IPAddress:  req.IPAddress,
		Rule:       req.Rule,
		Scope:      req.Scope,
		ServerID:   req.ServerID,
		LocationID: req.LocationID,
	}
	if err := h.DB.Create(&rule).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create access rule"})
		return
	}
	c.JSON(http.StatusCreated, rule)
}

func (h *AccessRuleHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	var rule models.AccessRule
	if err := h.DB.First(&rule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Access rule not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch access rule"})
		return
	}

	var req accessRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if msg := validateAccessRule(req); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	rule.IPAddress = req.IPAddress
	rule.Rule = req.Rule
	rule.Scope = req.Scope
	rule.ServerID = req.ServerID
	rule.LocationID = req.LocationID

	if err := h.DB.Save(&rule).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update access rule"})
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (h *AccessRuleHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	if err := h.DB.Delete(&models.AccessRule{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete access rule"})
		return
	}
	c.Status(http.StatusNoContent)
}
