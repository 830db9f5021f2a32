package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/naebak/admin-service/internal/api/middleware"
	"github.com/naebak/admin-service/internal/models"
	"github.com/naebak/admin-service/internal/services"
)

// SettingHandler manages typed platform settings. Public settings are served
// without authentication so the citizen-facing frontends can read them.
type SettingHandler struct {
	DB         *gorm.DB
	Activities *services.ActivityService
}

func NewSettingHandler(db *gorm.DB, activities *services.ActivityService) *SettingHandler {
	return &SettingHandler{DB: db, Activities: activities}
}

func (h *SettingHandler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/settings", middleware.RequirePermission(models.PermManageSettings))
	g.GET("", h.List)
	g.GET("/:key", h.Get)
	g.PUT("/:key", h.Update)
	g.POST("/:key/reset", h.Reset)
}

// RegisterPublicRoutes mounts the unauthenticated public settings endpoint.
func (h *SettingHandler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/settings/public", h.ListPublic)
}

func settingResponse(s *models.Setting) gin.H {
	return gin.H{
		"key":           s.Key,
		"name":          s.Name,
		"description":   s.Description,
		"type":          s.Type,
		"value":         s.TypedValue(),
		"default_value": s.TypedDefault(),
		"public":        s.Public,
		"editable":      s.Editable,
		"category":      s.Category,
		"display_order": s.DisplayOrder,
		"updated_at":    s.UpdatedAt,
	}
}

// List returns all settings grouped for the admin UI.
func (h *SettingHandler) List(c *gin.Context) {
	q := h.DB.Model(&models.Setting{}).Order("category, display_order, key")
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	var settings []models.Setting
	if err := q.Find(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}

	result := make([]gin.H, len(settings))
	for i := range settings {
		result[i] = settingResponse(&settings[i])
	}
	c.JSON(http.StatusOK, result)
}

// ListPublic returns public settings as a flat key/value map.
func (h *SettingHandler) ListPublic(c *gin.Context) {
	var settings []models.Setting
	if err := h.DB.Where("public = ?", true).Find(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}

	result := make(gin.H, len(settings))
	for i := range settings {
		result[settings[i].Key] = settings[i].TypedValue()
	}
	c.JSON(http.StatusOK, result)
}

// Get returns one setting by key.
func (h *SettingHandler) Get(c *gin.Context) {
	var setting models.Setting
	if err := h.DB.Where("key = ?", c.Param("key")).First(&setting).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Setting not found"})
		return
	}
	c.JSON(http.StatusOK, settingResponse(&setting))
}

type UpdateSettingRequest struct {
	Value string `json:"value" binding:"required"`
}

// Update writes a new value. The raw string must coerce to the setting's
// declared type, and read-only settings are rejected.
func (h *SettingHandler) Update(c *gin.Context) {
	var setting models.Setting
	if err := h.DB.Where("key = ?", c.Param("key")).First(&setting).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Setting not found"})
		return
	}
	if !setting.Editable {
		c.JSON(http.StatusForbidden, gin.H{"error": "Setting is read-only"})
		return
	}

	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !setting.Accepts(req.Value) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Value does not match setting type " + setting.Type})
		return
	}

	updates := map[string]interface{}{"value": req.Value}
	if actor := middleware.CurrentAccount(c); actor != nil {
		updates["updated_by_id"] = actor.ID
	}

	rec := activityEntry(c, models.ActionUpdate, "changed setting "+setting.Key)
	rec.ResourceType = "setting"
	rec.ResourceID = setting.Key
	rec.OldValues = services.Snapshot(gin.H{"value": setting.Value})
	rec.NewValues = services.Snapshot(gin.H{"value": req.Value})

	err := auditedWrite(h.DB, h.Activities, &rec, func(tx *gorm.DB) error {
		return tx.Model(&models.Setting{}).Where("key = ?", setting.Key).Updates(updates).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update setting"})
		return
	}

	setting.Value = req.Value
	c.JSON(http.StatusOK, settingResponse(&setting))
}

// Reset restores a setting to its default value.
func (h *SettingHandler) Reset(c *gin.Context) {
	var setting models.Setting
	if err := h.DB.Where("key = ?", c.Param("key")).First(&setting).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Setting not found"})
		return
	}
	if !setting.Editable {
		c.JSON(http.StatusForbidden, gin.H{"error": "Setting is read-only"})
		return
	}

	rec := activityEntry(c, models.ActionUpdate, "reset setting "+setting.Key+" to default")
	rec.ResourceType = "setting"
	rec.ResourceID = setting.Key
	rec.OldValues = services.Snapshot(gin.H{"value": setting.Value})
	rec.NewValues = services.Snapshot(gin.H{"value": setting.DefaultValue})

	err := auditedWrite(h.DB, h.Activities, &rec, func(tx *gorm.DB) error {
		return tx.Model(&models.Setting{}).Where("key = ?", setting.Key).
			Update("value", setting.DefaultValue).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset setting"})
		return
	}

	setting.Value = setting.DefaultValue
	c.JSON(http.StatusOK, settingResponse(&setting))
}
