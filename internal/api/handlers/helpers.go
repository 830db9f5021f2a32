package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/naebak/admin-service/internal/api/middleware"
	"github.com/naebak/admin-service/internal/models"
	"github.com/naebak/admin-service/internal/services"
)

// parseIDParam reads a numeric :id path parameter. Writes the 400 response
// itself and returns ok=false on failure.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// activityEntry seeds an activity record with the request's actor and client
// metadata. Handlers fill in the action specifics before appending.
func activityEntry(c *gin.Context, actionType, description string) models.Activity {
	rec := models.Activity{
		ActionType:  actionType,
		Description: description,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		Success:     true,
	}
	if acct := middleware.CurrentAccount(c); acct != nil {
		rec.ActorID = acct.ID
	}
	return rec
}

// auditedWrite runs the mutation and the audit append in one transaction so
// neither lands without the other, then measures the duration.
func auditedWrite(db *gorm.DB, activities *services.ActivityService, rec *models.Activity, mutate func(tx *gorm.DB) error) error {
	start := time.Now()
	return db.Transaction(func(tx *gorm.DB) error {
		if err := mutate(tx); err != nil {
			return err
		}
		ms := time.Since(start).Milliseconds()
		rec.DurationMS = &ms
		return activities.AppendTx(tx, rec)
	})
}
