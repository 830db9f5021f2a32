package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/naebak/admin-service/internal/api/middleware"
	"github.com/naebak/admin-service/internal/models"
	"github.com/naebak/admin-service/internal/services"
)

// SystemHandler exposes maintenance operations: on-demand database backups
// and the backup inventory. Scheduled backups run through the same service
// from the cron entry in main.
type SystemHandler struct {
	Backups    *services.BackupService
	Activities *services.ActivityService
}

func NewSystemHandler(backups *services.BackupService, activities *services.ActivityService) *SystemHandler {
	return &SystemHandler{Backups: backups, Activities: activities}
}

func (h *SystemHandler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/system", middleware.RequirePermission(models.PermManageSystem))
	g.GET("/backups", h.ListBackups)
	g.POST("/backups", h.CreateBackup)
}

// ListBackups returns the backup inventory, newest first.
func (h *SystemHandler) ListBackups(c *gin.Context) {
	backups, err := h.Backups.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list backups"})
		return
	}
	c.JSON(http.StatusOK, backups)
}

// CreateBackup takes an immediate database backup.
func (h *SystemHandler) CreateBackup(c *gin.Context) {
	info, err := h.Backups.Create()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Backup failed"})
		return
	}

	rec := activityEntry(c, models.ActionBackup, "created database backup "+info.Filename)
	rec.ResourceType = "backup"
	rec.ResourceID = info.Filename
	if err := h.Activities.Append(&rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record activity"})
		return
	}

	c.JSON(http.StatusCreated, info)
}
