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

// PartyHandler manages the political party catalog.
type PartyHandler struct {
	DB         *gorm.DB
	Activities *services.ActivityService
}

func NewPartyHandler(db *gorm.DB, activities *services.ActivityService) *PartyHandler {
	return &PartyHandler{DB: db, Activities: activities}
}

func (h *PartyHandler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/parties")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.GET("/:id/stats", h.Stats)

	manage := g.Group("", middleware.RequirePermission(models.PermManageReferenceData))
	manage.POST("", h.Create)
	manage.PUT("/:id", h.Update)
	manage.POST("/:id/toggle", h.Toggle)
}

// List returns parties ordered for display.
func (h *PartyHandler) List(c *gin.Context) {
	q := h.DB.Model(&models.Party{}).Order("display_order, name")
	if c.Query("enabled") == "true" {
		q = q.Where("enabled = ?", true)
	}

	var parties []models.Party
	if err := q.Find(&parties).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch parties"})
		return
	}
	c.JSON(http.StatusOK, parties)
}

// Get returns one party.
func (h *PartyHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var party models.Party
	if err := h.DB.First(&party, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
		return
	}
	c.JSON(http.StatusOK, party)
}

// Stats returns per-party figures. Membership and rating counts live in the
// candidate and rating services and are reported as zero until wired.
func (h *PartyHandler) Stats(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var party models.Party
	if err := h.DB.First(&party, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"party_name":            party.Name,
		"members_count":         0,
		"candidates_count":      0,
		"current_members_count": 0,
		"average_rating":        0.0,
	})
}

type PartyRequest struct {
	Name         string `json:"name" binding:"required"`
	NameEN       string `json:"name_en" binding:"required"`
	Abbreviation string `json:"abbreviation" binding:"required"`
	Description  string `json:"description"`
	FoundedDate  string `json:"founded_date"` // YYYY-MM-DD
	Headquarters string `json:"headquarters"`
	Website      string `json:"website"`
	Color        string `json:"color"`
	DisplayOrder uint   `json:"display_order"`
}

// Create adds a party to the catalog.
func (h *PartyHandler) Create(c *gin.Context) {
	var req PartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	party := models.Party{
		Name:         req.Name,
		NameEN:       req.NameEN,
		Abbreviation: req.Abbreviation,
		Description:  req.Description,
		Headquarters: req.Headquarters,
		Website:      req.Website,
		Color:        req.Color,
		Enabled:      true,
		DisplayOrder: req.DisplayOrder,
	}
	if req.FoundedDate != "" {
		founded, err := time.Parse("2006-01-02", req.FoundedDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "founded_date must be YYYY-MM-DD"})
			return
		}
		party.FoundedDate = &founded
	}

	rec := activityEntry(c, models.ActionCreate, "created party "+party.Abbreviation)
	rec.ResourceType = "party"
	rec.ResourceID = party.Abbreviation
	rec.NewValues = services.Snapshot(party)

	err := auditedWrite(h.DB, h.Activities, &rec, func(tx *gorm.DB) error {
		return tx.Create(&party).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create party"})
		return
	}

	c.JSON(http.StatusCreated, party)
}

// Update edits party fields.
func (h *PartyHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var party models.Party
	if err := h.DB.First(&party, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
		return
	}

	var req struct {
		Name         string `json:"name"`
		NameEN       string `json:"name_en"`
		Description  string `json:"description"`
		FoundedDate  string `json:"founded_date"`
		Headquarters string `json:"headquarters"`
		Website      string `json:"website"`
		Color        string `json:"color"`
		DisplayOrder *uint  `json:"display_order"`
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
	if req.FoundedDate != "" {
		founded, err := time.Parse("2006-01-02", req.FoundedDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "founded_date must be YYYY-MM-DD"})
			return
		}
		updates["founded_date"] = founded
	}
	if req.Headquarters != "" {
		updates["headquarters"] = req.Headquarters
	}
	if req.Website != "" {
		updates["website"] = req.Website
	}
	if req.Color != "" {
		updates["color"] = req.Color
	}
	if req.DisplayOrder != nil {
		updates["display_order"] = *req.DisplayOrder
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Nothing to update"})
		return
	}

	rec := activityEntry(c, models.ActionUpdate, "updated party "+party.Abbreviation)
	rec.ResourceType = "party"
	rec.ResourceID = party.Abbreviation
	rec.OldValues = services.Snapshot(party)
	rec.NewValues = services.Snapshot(updates)

	err := auditedWrite(h.DB, h.Activities, &rec, func(tx *gorm.DB) error {
		return tx.Model(&models.Party{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update party"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Party updated successfully"})
}

// Toggle flips the enabled flag.
func (h *PartyHandler) Toggle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var party models.Party
	if err := h.DB.First(&party, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
		return
	}

	next := !party.Enabled
	action := models.ActionSuspend
	if next {
		action = models.ActionActivate
	}

	rec := activityEntry(c, action, "toggled party "+party.Abbreviation+" to enabled="+strconv.FormatBool(next))
	rec.ResourceType = "party"
	rec.ResourceID = party.Abbreviation

	err := auditedWrite(h.DB, h.Activities, &rec, func(tx *gorm.DB) error {
		return tx.Model(&models.Party{}).Where("id = ?", id).Update("enabled", next).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update party"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Party updated successfully", "enabled": next})
}
