package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/naebak/admin-service/internal/api/middleware"
	"github.com/naebak/admin-service/internal/models"
	"github.com/naebak/admin-service/internal/services"
)

// RoleHandler manages roles and their permission sets. System roles are
// protected from deletion so the seeded authorization baseline survives
// operator mistakes.
type RoleHandler struct {
	DB         *gorm.DB
	Activities *services.ActivityService
}

func NewRoleHandler(db *gorm.DB, activities *services.ActivityService) *RoleHandler {
	return &RoleHandler{DB: db, Activities: activities}
}

func (h *RoleHandler) RegisterRoutes(r *gin.RouterGroup) {
	roles := r.Group("/roles", middleware.RequirePermission(models.PermManageRoles))
	roles.GET("", h.List)
	roles.GET("/:id", h.Get)
	roles.POST("", h.Create)
	roles.PUT("/:id", h.Update)
	roles.PUT("/:id/permissions", h.SetPermissions)
	roles.DELETE("/:id", h.Delete)

	perms := r.Group("/permissions", middleware.RequirePermission(models.PermManageRoles))
	perms.GET("", h.ListPermissions)
}

// List returns all roles with their permission sets.
func (h *RoleHandler) List(c *gin.Context) {
	var roles []models.Role
	if err := h.DB.Preload("Permissions").Order("name").Find(&roles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch roles"})
		return
	}
	c.JSON(http.StatusOK, roles)
}

// Get returns one role.
func (h *RoleHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var role models.Role
	if err := h.DB.Preload("Permissions").First(&role, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}
	c.JSON(http.StatusOK, role)
}

// ListPermissions returns the permission catalog.
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	var perms []models.Permission
	if err := h.DB.Order("code").Find(&perms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch permissions"})
		return
	}
	c.JSON(http.StatusOK, perms)
}

type RoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	NameEN      string   `json:"name_en"`
	Slug        string   `json:"slug" binding:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
	Enabled     *bool    `json:"enabled"`
}

// Create adds a new role. Roles created through the API are never system
// roles; those only come from seeding.
func (h *RoleHandler) Create(c *gin.Context) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	perms, err := h.resolvePermissions(req.Permissions)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.Role{
		Name:        req.Name,
		NameEN:      req.NameEN,
		Slug:        req.Slug,
		Description: req.Description,
		Permissions: perms,
		Enabled:     true,
	}
	if req.Enabled != nil {
		role.Enabled = *req.Enabled
	}

	rec := activityEntry(c, models.ActionCreate, "created role "+role.Slug)
	rec.ResourceType = "role"
	rec.NewValues = services.Snapshot(role)

	err = auditedWrite(h.DB, h.Activities, &rec, func(tx *gorm.DB) error {
		if err := tx.Create(&role).Error; err != nil {
			return err
		}
		rec.ResourceID = role.Slug
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create role"})
		return
	}

	c.JSON(http.StatusCreated, role)
}

// Update edits role metadata. The slug and system flag are immutable.
func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var role models.Role
	if err := h.DB.First(&role, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}

	var req struct {
		Name        string `json:"name"`
		NameEN      string `json:"name_en"`
		Description string `json:"description"`
		Enabled     *bool  `json:"enabled"`
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
	if req.Enabled != nil {
		updates["enabled"] = *req.Enabled
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Nothing to update"})
		return
	}

	rec := activityEntry(c, models.ActionUpdate, "updated role "+role.Slug)
	rec.ResourceType = "role"
	rec.ResourceID = role.Slug
	rec.NewValues = services.Snapshot(updates)

	err := auditedWrite(h.DB, h.Activities, &rec, func(tx *gorm.DB) error {
		return tx.Model(&models.Role{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role updated successfully"})
}

type SetPermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

// SetPermissions replaces the role's permission set.
func (h *RoleHandler) SetPermissions(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var role models.Role
	if err := h.DB.Preload("Permissions").First(&role, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}

	var req SetPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	perms, err := h.resolvePermissions(req.Permissions)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec := activityEntry(c, models.ActionUpdate, "replaced permission set of role "+role.Slug)
	rec.ResourceType = "role"
	rec.ResourceID = role.Slug
	rec.OldValues = services.Snapshot(role.Permissions)
	rec.NewValues = services.Snapshot(perms)

	err = auditedWrite(h.DB, h.Activities, &rec, func(tx *gorm.DB) error {
		return tx.Model(&role).Association("Permissions").Replace(perms)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update permissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Permissions updated successfully"})
}

// Delete removes a role. System roles cannot be deleted; accounts holding
// the role simply lose it from their assignments.
func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var role models.Role
	if err := h.DB.First(&role, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}
	if role.IsSystemRole {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrSystemRole.Error()})
		return
	}

	rec := activityEntry(c, models.ActionDelete, "deleted role "+role.Slug)
	rec.ResourceType = "role"
	rec.ResourceID = role.Slug
	rec.OldValues = services.Snapshot(role)

	err := auditedWrite(h.DB, h.Activities, &rec, func(tx *gorm.DB) error {
		if err := tx.Model(&role).Association("Permissions").Clear(); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM account_roles WHERE role_id = ?", role.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&role).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role deleted successfully"})
}

func (h *RoleHandler) resolvePermissions(codes []string) ([]models.Permission, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var perms []models.Permission
	if err := h.DB.Where("code IN ?", codes).Find(&perms).Error; err != nil {
		return nil, err
	}
	if len(perms) != len(codes) {
		return nil, errors.New("unknown permission code in request")
	}
	return perms, nil
}
