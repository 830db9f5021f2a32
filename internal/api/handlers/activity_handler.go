package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/naebak/admin-service/internal/api/middleware"
	"github.com/naebak/admin-service/internal/models"
	"github.com/naebak/admin-service/internal/services"
)

// ActivityHandler serves the audit trail. It is read-only; records only
// enter through the services that perform the audited actions.
type ActivityHandler struct {
	Activities *services.ActivityService
}

func NewActivityHandler(activities *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{Activities: activities}
}

func (h *ActivityHandler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/activities", middleware.RequirePermission(models.PermViewActivityLog))
	g.GET("", h.List)
	g.GET("/:uuid", h.Get)
}

// List returns activity records newest first, with optional filters:
// ?actor_id=, ?action=, ?success=, ?from=, ?to= (RFC 3339), ?page=, ?per_page=.
func (h *ActivityHandler) List(c *gin.Context) {
	var f services.ActivityFilter

	if raw := c.Query("actor_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid actor_id"})
			return
		}
		actor := uint(id)
		f.ActorID = &actor
	}
	f.ActionType = c.Query("action")
	if raw := c.Query("success"); raw != "" {
		ok, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid success flag"})
			return
		}
		f.Success = &ok
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be RFC 3339"})
			return
		}
		f.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be RFC 3339"})
			return
		}
		f.To = &t
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "50"))

	records, total, err := h.Activities.Query(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records":  records,
		"total":    total,
		"page":     f.Page,
		"per_page": f.PerPage,
	})
}

// Get returns a single activity record by its public identifier.
func (h *ActivityHandler) Get(c *gin.Context) {
	rec, err := h.Activities.FindByUUID(c.Param("uuid"))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity record not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity record"})
		return
	}
	c.JSON(http.StatusOK, rec)
}
