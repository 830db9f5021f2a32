package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/naebak/admin-service/internal/api/middleware"
	"github.com/naebak/admin-service/internal/models"
	"github.com/naebak/admin-service/internal/services"
)

// AccountHandler exposes account management: provisioning, profile updates,
// deactivation, role assignment and the lock/unlock recovery flow. Every
// state change is recorded in the activity log within the same transaction.
type AccountHandler struct {
	DB         *gorm.DB
	Accounts   *services.AccountService
	Activities *services.ActivityService
	Notify     *services.NotificationService
}

func NewAccountHandler(db *gorm.DB, accounts *services.AccountService, activities *services.ActivityService, notify *services.NotificationService) *AccountHandler {
	return &AccountHandler{DB: db, Accounts: accounts, Activities: activities, Notify: notify}
}

func (h *AccountHandler) RegisterRoutes(r *gin.RouterGroup) {
	view := r.Group("/accounts", middleware.RequirePermission(models.PermViewAccounts))
	view.GET("", h.List)
	view.GET("/:id", h.Get)

	manage := r.Group("/accounts", middleware.RequirePermission(models.PermManageAccounts))
	manage.POST("", h.Create)
	manage.PUT("/:id", h.Update)
	manage.POST("/:id/deactivate", h.Deactivate)
	manage.POST("/:id/activate", h.Activate)
	manage.POST("/:id/lock", h.Lock)
	manage.POST("/:id/unlock", h.Unlock)
	manage.POST("/:id/roles/:roleId", h.AssignRole)
	manage.DELETE("/:id/roles/:roleId", h.RevokeRole)
	manage.POST("/:id/permissions", h.GrantPermission)
	manage.DELETE("/:id/permissions/:code", h.RevokePermission)
}

func accountSummary(a *models.Account) gin.H {
	return gin.H{
		"id":                 a.ID,
		"uuid":               a.UUID,
		"username":           a.Username,
		"email":              a.Email,
		"name":               a.Name,
		"department":         a.Department,
		"position":           a.Position,
		"employee_id":        a.EmployeeID,
		"governorate_id":     a.GovernorateID,
		"enabled":            a.Enabled,
		"two_factor_enabled": a.TwoFactorEnabled,
		"roles":              a.Roles,
		"last_login_at":      a.LastLoginAt,
		"last_activity":      a.LastActivity,
		"created_at":         a.CreatedAt,
	}
}

// List returns all administrative accounts.
func (h *AccountHandler) List(c *gin.Context) {
	accounts, err := h.Accounts.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch accounts"})
		return
	}

	result := make([]gin.H, len(accounts))
	for i := range accounts {
		result[i] = accountSummary(&accounts[i])
	}
	c.JSON(http.StatusOK, result)
}

// Get returns a single account, including its lockout state so operators
// can see why a login is being rejected.
func (h *AccountHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	acct, err := h.Accounts.FindByID(id)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch account"})
		return
	}

	out := accountSummary(acct)
	out["permissions"] = acct.Permissions
	out["failed_login_attempts"] = acct.FailedLoginAttempts
	out["locked_until"] = acct.LockedUntil
	out["locked"] = h.Accounts.Policy().IsLocked(acct, time.Now())
	c.JSON(http.StatusOK, out)
}

type CreateAccountRequest struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Name        string `json:"name" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
	PhoneNumber string `json:"phone_number"`
	EmployeeID  string `json:"employee_id"`
	Department  string `json:"department"`
	Position    string `json:"position"`
	Governorate *uint  `json:"governorate_id"`
	RoleIDs     []uint `json:"role_ids"`
}

// Create provisions a new administrative account, attributed to the caller.
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := services.CreateAccountInput{
		Username:    req.Username,
		Email:       req.Email,
		Name:        req.Name,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		EmployeeID:  req.EmployeeID,
		Department:  req.Department,
		Position:    req.Position,
		Governorate: req.Governorate,
		RoleIDs:     req.RoleIDs,
	}
	if creator := middleware.CurrentAccount(c); creator != nil {
		id := creator.ID
		in.CreatedBy = &id
	}

	acct, err := h.Accounts.Create(in)
	if errors.Is(err, services.ErrDuplicate) {
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email already in use"})
		return
	}
	if errors.Is(err, services.ErrValidation) || errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	rec := activityEntry(c, models.ActionCreate, "created administrative account "+acct.Username)
	rec.ResourceType = "account"
	rec.ResourceID = acct.UUID
	rec.NewValues = services.Snapshot(accountSummary(acct))
	if err := h.Activities.Append(&rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record activity"})
		return
	}

	c.JSON(http.StatusCreated, accountSummary(acct))
}

type UpdateAccountRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Department  string `json:"department"`
	Position    string `json:"position"`
	Governorate *uint  `json:"governorate_id"`
	Bio         string `json:"bio"`
}

// Update edits profile fields. Lockout and credential state have their own
// endpoints and are never touched through this path.
func (h *AccountHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	acct, err := h.Accounts.FindByID(id)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch account"})
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.PhoneNumber != "" {
		updates["phone_number"] = req.PhoneNumber
	}
	if req.Department != "" {
		updates["department"] = req.Department
	}
	if req.Position != "" {
		updates["position"] = req.Position
	}
	if req.Governorate != nil {
		updates["governorate_id"] = *req.Governorate
	}
	if req.Bio != "" {
		updates["bio"] = req.Bio
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Nothing to update"})
		return
	}

	rec := activityEntry(c, models.ActionUpdate, "updated account "+acct.Username)
	rec.ResourceType = "account"
	rec.ResourceID = acct.UUID
	rec.OldValues = services.Snapshot(accountSummary(acct))
	rec.NewValues = services.Snapshot(updates)

	err = auditedWrite(h.DB, h.Activities, &rec, func(tx *gorm.DB) error {
		return tx.Model(&models.Account{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account updated successfully"})
}

// Deactivate disables an account. Accounts are never deleted, so audit
// records keep resolving their actors.
func (h *AccountHandler) Deactivate(c *gin.Context) {
	h.setEnabled(c, false, models.ActionSuspend, "deactivated account ")
}

// Activate re-enables an account.
func (h *AccountHandler) Activate(c *gin.Context) {
	h.setEnabled(c, true, models.ActionActivate, "activated account ")
}

func (h *AccountHandler) setEnabled(c *gin.Context, enabled bool, action, verb string) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	acct, err := h.Accounts.FindByID(id)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch account"})
		return
	}

	if !enabled {
		if actor := middleware.CurrentAccount(c); actor != nil && actor.ID == id {
			c.JSON(http.StatusForbidden, gin.H{"error": "Cannot deactivate your own account"})
			return
		}
	}

	rec := activityEntry(c, action, verb+acct.Username)
	rec.ResourceType = "account"
	rec.ResourceID = acct.UUID

	err = auditedWrite(h.DB, h.Activities, &rec, func(tx *gorm.DB) error {
		return tx.Model(&models.Account{}).Where("id = ?", id).Update("enabled", enabled).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account updated successfully"})
}

type LockAccountRequest struct {
	DurationMinutes int `json:"duration_minutes"`
}

// Lock locks an account for a given duration (defaults to the policy
// duration) as an administrative measure.
func (h *AccountHandler) Lock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	acct, err := h.Accounts.FindByID(id)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch account"})
		return
	}

	var req LockAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DurationMinutes < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Duration must not be negative"})
		return
	}

	duration := h.Accounts.Policy().Duration
	if req.DurationMinutes > 0 {
		duration = time.Duration(req.DurationMinutes) * time.Minute
	}
	until := time.Now().Add(duration)

	rec := activityEntry(c, models.ActionLock, "locked account "+acct.Username)
	rec.ResourceType = "account"
	rec.ResourceID = acct.UUID
	rec.NewValues = services.Snapshot(gin.H{"locked_until": until})

	err = auditedWrite(h.DB, h.Activities, &rec, func(tx *gorm.DB) error {
		return tx.Model(&models.Account{}).Where("id = ?", id).Update("locked_until", until).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to lock account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account locked", "locked_until": until})
}

// Unlock clears the lockout state unconditionally. The audit record carries
// the "unlock" action tag so manual recovery is distinguishable from a lock
// that expired on its own.
func (h *AccountHandler) Unlock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	acct, err := h.Accounts.FindByID(id)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch account"})
		return
	}

	rec := activityEntry(c, models.ActionUnlock, "unlocked account "+acct.Username)
	rec.ResourceType = "account"
	rec.ResourceID = acct.UUID
	rec.OldValues = services.Snapshot(gin.H{
		"failed_login_attempts": acct.FailedLoginAttempts,
		"locked_until":          acct.LockedUntil,
	})

	err = auditedWrite(h.DB, h.Activities, &rec, func(tx *gorm.DB) error {
		return tx.Model(&models.Account{}).Where("id = ?", id).
			UpdateColumns(map[string]interface{}{
				"failed_login_attempts": 0,
				"locked_until":          nil,
			}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlock account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account unlocked"})
}

// AssignRole adds a role to the account.
func (h *AccountHandler) AssignRole(c *gin.Context) {
	h.changeRole(c, true)
}

// RevokeRole removes a role from the account.
func (h *AccountHandler) RevokeRole(c *gin.Context) {
	h.changeRole(c, false)
}

func (h *AccountHandler) changeRole(c *gin.Context, assign bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	roleID, ok := parseIDParam(c, "roleId")
	if !ok {
		return
	}

	acct, err := h.Accounts.FindByID(id)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch account"})
		return
	}

	var role models.Role
	if err := h.DB.First(&role, roleID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}

	verb := "revoked role "
	action := models.ActionReject
	op := h.Accounts.RevokeRole
	if assign {
		verb = "assigned role "
		action = models.ActionApprove
		op = h.Accounts.AssignRole
	}

	if err := op(id, roleID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update roles"})
		return
	}

	rec := activityEntry(c, action, verb+role.Slug+" on account "+acct.Username)
	rec.ResourceType = "account"
	rec.ResourceID = acct.UUID
	if err := h.Activities.Append(&rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Roles updated successfully"})
}

type GrantPermissionRequest struct {
	Code string `json:"code" binding:"required"`
}

// GrantPermission adds a direct grant to the account.
func (h *AccountHandler) GrantPermission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req GrantPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Accounts.GrantPermission(id, req.Code); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account or permission not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to grant permission"})
		return
	}

	rec := activityEntry(c, models.ActionApprove, "granted permission "+req.Code)
	rec.ResourceType = "account"
	rec.ResourceID = c.Param("id")
	if err := h.Activities.Append(&rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Permission granted"})
}

// RevokePermission removes a direct grant from the account.
func (h *AccountHandler) RevokePermission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	code := c.Param("code")

	if err := h.Accounts.RevokePermission(id, code); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account or permission not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke permission"})
		return
	}

	rec := activityEntry(c, models.ActionReject, "revoked permission "+code)
	rec.ResourceType = "account"
	rec.ResourceID = c.Param("id")
	if err := h.Activities.Append(&rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Permission revoked"})
}
