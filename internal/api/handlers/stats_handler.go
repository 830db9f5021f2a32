package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/naebak/admin-service/internal/api/middleware"
	"github.com/naebak/admin-service/internal/models"
)

// StatsHandler serves aggregate counts for the admin dashboard.
type StatsHandler struct {
	DB *gorm.DB
}

func NewStatsHandler(db *gorm.DB) *StatsHandler {
	return &StatsHandler{DB: db}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/stats", middleware.RequirePermission(models.PermViewStatistics))
	g.GET("/overview", h.Overview)
	g.GET("/governorates", h.ByGovernorate)
	g.GET("/activity", h.ActivityBreakdown)
}

// Overview returns headline counts across the catalogs and accounts.
func (h *StatsHandler) Overview(c *gin.Context) {
	counts := map[string]int64{}
	now := time.Now()

	type counter struct {
		key   string
		query *gorm.DB
	}
	queries := []counter{
		{"governorates", h.DB.Model(&models.Governorate{})},
		{"governorates_enabled", h.DB.Model(&models.Governorate{}).Where("enabled = ?", true)},
		{"parties", h.DB.Model(&models.Party{})},
		{"parties_enabled", h.DB.Model(&models.Party{}).Where("enabled = ?", true)},
		{"complaint_types", h.DB.Model(&models.ComplaintType{})},
		{"complaint_types_enabled", h.DB.Model(&models.ComplaintType{}).Where("enabled = ?", true)},
		{"accounts", h.DB.Model(&models.Account{})},
		{"accounts_enabled", h.DB.Model(&models.Account{}).Where("enabled = ?", true)},
		{"accounts_locked", h.DB.Model(&models.Account{}).Where("locked_until > ?", now)},
		{"roles", h.DB.Model(&models.Role{})},
		{"activity_records", h.DB.Model(&models.Activity{})},
	}
	for _, q := range queries {
		var n int64
		if err := q.query.Count(&n).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
			return
		}
		counts[q.key] = n
	}

	c.JSON(http.StatusOK, gin.H{"counts": counts, "generated_at": now})
}

// ByGovernorate returns account counts per governorate.
func (h *StatsHandler) ByGovernorate(c *gin.Context) {
	type row struct {
		GovernorateID *uint  `json:"governorate_id"`
		Name          string `json:"name"`
		Code          string `json:"code"`
		Accounts      int64  `json:"accounts"`
	}

	var rows []row
	err := h.DB.Model(&models.Governorate{}).
		Select("governorates.id AS governorate_id, governorates.name, governorates.code, COUNT(accounts.id) AS accounts").
		Joins("LEFT JOIN accounts ON accounts.governorate_id = governorates.id").
		Group("governorates.id").
		Order("governorates.display_order").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	c.JSON(http.StatusOK, rows)
}

// ActivityBreakdown returns activity record counts per action type over the
// last N days (default 7).
func (h *StatsHandler) ActivityBreakdown(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}

	since := time.Now().AddDate(0, 0, -days)

	type row struct {
		ActionType string `json:"action_type"`
		Count      int64  `json:"count"`
		Failures   int64  `json:"failures"`
	}
	var rows []row
	err := h.DB.Model(&models.Activity{}).
		Select("action_type, COUNT(*) AS count, SUM(CASE WHEN success THEN 0 ELSE 1 END) AS failures").
		Where("created_at >= ?", since).
		Group("action_type").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"since": since, "actions": rows})
}
