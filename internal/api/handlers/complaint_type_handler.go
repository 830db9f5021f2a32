package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/naebak/admin-service/internal/api/middleware"
	"github.com/naebak/admin-service/internal/models"
	"github.com/naebak/admin-service/internal/services"
)

// ComplaintTypeHandler manages the complaint classification catalog.
type ComplaintTypeHandler struct {
	DB         *gorm.DB
	Activities *services.ActivityService
}

func NewComplaintTypeHandler(db *gorm.DB, activities *services.ActivityService) *ComplaintTypeHandler {
	return &ComplaintTypeHandler{DB: db, Activities: activities}
}

func (h *ComplaintTypeHandler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/complaint-types")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.GET("/:id/stats", h.Stats)

	manage := g.Group("", middleware.RequirePermission(models.PermManageReferenceData))
	manage.POST("", h.Create)
	manage.PUT("/:id", h.Update)
	manage.POST("/:id/toggle", h.Toggle)
}

// List returns complaint types, optionally filtered by category or council.
func (h *ComplaintTypeHandler) List(c *gin.Context) {
	q := h.DB.Model(&models.ComplaintType{}).Order("display_order, name")
	if c.Query("enabled") == "true" {
		q = q.Where("enabled = ?", true)
	}
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if council := c.Query("council"); council != "" {
		q = q.Where("target_council IN ?", []string{council, models.CouncilBoth})
	}

	var types []models.ComplaintType
	if err := q.Find(&types).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch complaint types"})
		return
	}
	c.JSON(http.StatusOK, types)
}

// Get returns one complaint type.
func (h *ComplaintTypeHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var ct models.ComplaintType
	if err := h.DB.First(&ct, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Complaint type not found"})
		return
	}
	c.JSON(http.StatusOK, ct)
}

// Stats returns per-type complaint figures. The complaint service owns the
// actual records, so totals are reported as zero until it exposes aggregation.
func (h *ComplaintTypeHandler) Stats(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var ct models.ComplaintType
	if err := h.DB.First(&ct, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Complaint type not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"complaint_type_name":     ct.Name,
		"total_complaints":        0,
		"resolved_complaints":     0,
		"pending_complaints":      0,
		"resolution_rate":         0.0,
		"average_resolution_time": 0.0,
	})
}

type ComplaintTypeRequest struct {
	Name                    string `json:"name" binding:"required"`
	NameEN                  string `json:"name_en" binding:"required"`
	Description             string `json:"description"`
	Category                string `json:"category" binding:"required"`
	TargetCouncil           string `json:"target_council"`
	Icon                    string `json:"icon"`
	Color                   string `json:"color"`
	PriorityLevel           string `json:"priority_level"`
	EstimatedResolutionDays uint   `json:"estimated_resolution_days"`
	RequiresAttachments     bool   `json:"requires_attachments"`
	MaxAttachments          uint   `json:"max_attachments"`
	Public                  *bool  `json:"public"`
	DisplayOrder            uint   `json:"display_order"`
}

// Create adds a complaint type.
func (h *ComplaintTypeHandler) Create(c *gin.Context) {
	var req ComplaintTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ct := models.ComplaintType{
		Name:                    req.Name,
		NameEN:                  req.NameEN,
		Description:             req.Description,
		Category:                req.Category,
		TargetCouncil:           req.TargetCouncil,
		Icon:                    req.Icon,
		Color:                   req.Color,
		PriorityLevel:           req.PriorityLevel,
		EstimatedResolutionDays: req.EstimatedResolutionDays,
		RequiresAttachments:     req.RequiresAttachments,
		MaxAttachments:          req.MaxAttachments,
		Enabled:                 true,
		Public:                  true,
		DisplayOrder:            req.DisplayOrder,
	}
	if req.Public != nil {
		ct.Public = *req.Public
	}

	rec := activityEntry(c, models.ActionCreate, "created complaint type "+ct.NameEN)
	rec.ResourceType = "complaint_type"
	rec.ResourceID = ct.NameEN
	rec.NewValues = services.Snapshot(ct)

	err := auditedWrite(h.DB, h.Activities, &rec, func(tx *gorm.DB) error {
		return tx.Create(&ct).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create complaint type"})
		return
	}

	c.JSON(http.StatusCreated, ct)
}

// Update edits complaint type fields.
func (h *ComplaintTypeHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var ct models.ComplaintType
	if err := h.DB.First(&ct, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Complaint type not found"})
		return
	}

	var req struct {
		Name                    string `json:"name"`
		NameEN                  string `json:"name_en"`
		Description             string `json:"description"`
		Category                string `json:"category"`
		TargetCouncil           string `json:"target_council"`
		Icon                    string `json:"icon"`
		Color                   string `json:"color"`
		PriorityLevel           string `json:"priority_level"`
		EstimatedResolutionDays *uint  `json:"estimated_resolution_days"`
		RequiresAttachments     *bool  `json:"requires_attachments"`
		MaxAttachments          *uint  `json:"max_attachments"`
		Public                  *bool  `json:"public"`
		DisplayOrder            *uint  `json:"display_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.NameEN != "" {
		updates["name_en"] = req.NameEN
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.TargetCouncil != "" {
		updates["target_council"] = req.TargetCouncil
	}
	if req.Icon != "" {
		updates["icon"] = req.Icon
	}
	if req.Color != "" {
		updates["color"] = req.Color
	}
	if req.PriorityLevel != "" {
		updates["priority_level"] = req.PriorityLevel
	}
	if req.EstimatedResolutionDays != nil {
		updates["estimated_resolution_days"] = *req.EstimatedResolutionDays
	}
	if req.RequiresAttachments != nil {
		updates["requires_attachments"] = *req.RequiresAttachments
	}
	if req.MaxAttachments != nil {
		updates["max_attachments"] = *req.MaxAttachments
	}
	if req.Public != nil {
		updates["public"] = *req.Public
	}
	if req.DisplayOrder != nil {
		updates["display_order"] = *req.DisplayOrder
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Nothing to update"})
		return
	}

	rec := activityEntry(c, models.ActionUpdate, "updated complaint type "+ct.NameEN)
	rec.ResourceType = "complaint_type"
	rec.ResourceID = ct.NameEN
	rec.OldValues = services.Snapshot(ct)
	rec.NewValues = services.Snapshot(updates)

	err := auditedWrite(h.DB, h.Activities, &rec, func(tx *gorm.DB) error {
		return tx.Model(&models.ComplaintType{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update complaint type"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Complaint type updated successfully"})
}

// Toggle flips the enabled flag.
func (h *ComplaintTypeHandler) Toggle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var ct models.ComplaintType
	if err := h.DB.First(&ct, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Complaint type not found"})
		return
	}

	next := !ct.Enabled
	action := models.ActionSuspend
	if next {
		action = models.ActionActivate
	}

	rec := activityEntry(c, action, "toggled complaint type "+ct.NameEN+" to enabled="+strconv.FormatBool(next))
	rec.ResourceType = "complaint_type"
	rec.ResourceID = ct.NameEN

	err := auditedWrite(h.DB, h.Activities, &rec, func(tx *gorm.DB) error {
		return tx.Model(&models.ComplaintType{}).Where("id = ?", id).Update("enabled", next).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update complaint type"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Complaint type updated successfully", "enabled": next})
}
