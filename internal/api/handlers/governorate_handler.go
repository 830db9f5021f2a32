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

// GovernorateHandler manages the governorate catalog. Reads are open to any
// authenticated account; writes require the reference-data permission.
type GovernorateHandler struct {
	DB         *gorm.DB
	Activities *services.ActivityService
}

func NewGovernorateHandler(db *gorm.DB, activities *services.ActivityService) *GovernorateHandler {
	return &GovernorateHandler{DB: db, Activities: activities}
}

func (h *GovernorateHandler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/governorates")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.GET("/:id/stats", h.Stats)

	manage := g.Group("", middleware.RequirePermission(models.PermManageReferenceData))
	manage.POST("", h.Create)
	manage.PUT("/:id", h.Update)
	manage.POST("/:id/toggle", h.Toggle)
}

// List returns governorates ordered for display. Pass ?enabled=true to get
// only the active catalog, or ?region= to filter by region.
func (h *GovernorateHandler) List(c *gin.Context) {
	q := h.DB.Model(&models.Governorate{}).Order("display_order, name")
	if c.Query("enabled") == "true" {
		q = q.Where("enabled = ?", true)
	}
	if region := c.Query("region"); region != "" {
		q = q.Where("region = ?", region)
	}

	var govs []models.Governorate
	if err := q.Find(&govs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch governorates"})
		return
	}
	c.JSON(http.StatusOK, govs)
}

// Get returns one governorate.
func (h *GovernorateHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var gov models.Governorate
	if err := h.DB.First(&gov, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Governorate not found"})
		return
	}
	c.JSON(http.StatusOK, gov)
}

// Stats returns per-governorate figures. Counts owned by the user, complaint,
// message and rating services are reported as zero until those services expose
// their aggregation endpoints.
func (h *GovernorateHandler) Stats(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var gov models.Governorate
	if err := h.DB.First(&gov, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Governorate not found"})
		return
	}

	var accounts int64
	h.DB.Model(&models.Account{}).Where("governorate_id = ?", gov.ID).Count(&accounts)

	c.JSON(http.StatusOK, gin.H{
		"governorate_name": gov.Name,
		"accounts_count":   accounts,
		"users_count":      0,
		"complaints_count": 0,
		"messages_count":   0,
		"ratings_count":    0,
	})
}

type GovernorateRequest struct {
	Name         string   `json:"name" binding:"required"`
	NameEN       string   `json:"name_en" binding:"required"`
	Code         string   `json:"code" binding:"required"`
	Region       string   `json:"region" binding:"required"`
	Capital      string   `json:"capital"`
	AreaKM2      *float64 `json:"area_km2"`
	Population   *uint    `json:"population"`
	DisplayOrder uint     `json:"display_order"`
}

// Create adds a governorate to the catalog.
func (h *GovernorateHandler) Create(c *gin.Context) {
	var req GovernorateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gov := models.Governorate{
		Name:         req.Name,
		NameEN:       req.NameEN,
		Code:         req.Code,
		Region:       req.Region,
		Capital:      req.Capital,
		AreaKM2:      req.AreaKM2,
		Population:   req.Population,
		Enabled:      true,
		DisplayOrder: req.DisplayOrder,
	}

	rec := activityEntry(c, models.ActionCreate, "created governorate "+gov.Code)
	rec.ResourceType = "governorate"
	rec.ResourceID = gov.Code
	rec.NewValues = services.Snapshot(gov)

	err := auditedWrite(h.DB, h.Activities, &rec, func(tx *gorm.DB) error {
		return tx.Create(&gov).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create governorate"})
		return
	}

	c.JSON(http.StatusCreated, gov)
}

// Update edits governorate fields.
func (h *GovernorateHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var gov models.Governorate
	if err := h.DB.First(&gov, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Governorate not found"})
		return
	}

	var req struct {
		Name         string   `json:"name"`
		NameEN       string   `json:"name_en"`
		Region       string   `json:"region"`
		Capital      string   `json:"capital"`
		AreaKM2      *float64 `json:"area_km2"`
		Population   *uint    `json:"population"`
		DisplayOrder *uint    `json:"display_order"`
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
	if req.Region != "" {
		updates["region"] = req.Region
	}
	if req.Capital != "" {
		updates["capital"] = req.Capital
	}
	if req.AreaKM2 != nil {
		updates["area_km2"] = *req.AreaKM2
	}
	if req.Population != nil {
		updates["population"] = *req.Population
	}
	if req.DisplayOrder != nil {
		updates["display_order"] = *req.DisplayOrder
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Nothing to update"})
		return
	}

	rec := activityEntry(c, models.ActionUpdate, "updated governorate "+gov.Code)
	rec.ResourceType = "governorate"
	rec.ResourceID = gov.Code
	rec.OldValues = services.Snapshot(gov)
	rec.NewValues = services.Snapshot(updates)

	err := auditedWrite(h.DB, h.Activities, &rec, func(tx *gorm.DB) error {
		return tx.Model(&models.Governorate{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update governorate"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Governorate updated successfully"})
}

// Toggle flips the enabled flag. Disabled governorates stay referencable by
// existing records but disappear from public listings.
func (h *GovernorateHandler) Toggle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var gov models.Governorate
	if err := h.DB.First(&gov, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Governorate not found"})
		return
	}

	next := !gov.Enabled
	action := models.ActionSuspend
	if next {
		action = models.ActionActivate
	}

	rec := activityEntry(c, action, "toggled governorate "+gov.Code+" to enabled="+strconv.FormatBool(next))
	rec.ResourceType = "governorate"
	rec.ResourceID = gov.Code

	err := auditedWrite(h.DB, h.Activities, &rec, func(tx *gorm.DB) error {
		return tx.Model(&models.Governorate{}).Where("id = ?", id).Update("enabled", next).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update governorate"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Governorate updated successfully", "enabled": next})
}
