package handlers

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/naebak/admin-service/internal/api/middleware"
	"github.com/naebak/admin-service/internal/models"
	"github.com/naebak/admin-service/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	activities  *services.ActivityService
}

func NewAuthHandler(authService *services.AuthService, activities *services.ActivityService) *AuthHandler {
	return &AuthHandler{authService: authService, activities: activities}
}

// isProduction checks if we're running in production mode
func isProduction() bool {
	env := os.Getenv("NAEBAK_ENV")
	return env == "production" || env == "prod"
}

// setSecureCookie sets an auth cookie with security best practices
// - HttpOnly: prevents JavaScript access (XSS protection)
// - Secure: only sent over HTTPS (in production)
// - SameSite=Strict: prevents CSRF attacks
func setSecureCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, value, maxAge, "/", "", isProduction(), true)
}

func clearSecureCookie(c *gin.Context, name string) {
	setSecureCookie(c, name, "", -1)
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	OTPCode  string `json:"otp_code"`
}

// Login authenticates an administrative account and sets the session
// cookie. Every attempt, successful or not, lands in the activity log.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.Login(req.Username, req.Password, req.OTPCode)
	if err != nil {
		h.recordLoginFailure(c, req.Username, err)
		status := http.StatusUnauthorized
		if errors.Is(err, services.ErrAccountLocked) {
			status = http.StatusLocked
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	rec := models.Activity{
		ActorID:     result.Account.ID,
		ActionType:  models.ActionLogin,
		Description: "administrator logged in",
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		Success:     true,
	}
	if err := h.activities.Append(&rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record activity"})
		return
	}

	setSecureCookie(c, "auth_token", result.Token, 3600*24)
	c.JSON(http.StatusOK, gin.H{"token": result.Token})
}

// recordLoginFailure appends an audit entry for a rejected attempt when the
// target account resolves. Unknown usernames have no actor to reference.
func (h *AuthHandler) recordLoginFailure(c *gin.Context, username string, loginErr error) {
	acct, err := h.authService.AccountByUsername(username)
	if err != nil {
		return
	}
	rec := models.Activity{
		ActorID:      acct.ID,
		ActionType:   models.ActionLogin,
		Description:  "failed login attempt",
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
		Success:      false,
		ErrorMessage: loginErr.Error(),
	}
	if err := h.activities.Append(&rec); err != nil {
		middleware.GetRequestLogger(c).WithError(err).Error("failed to record login failure")
	}
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if acct := middleware.CurrentAccount(c); acct != nil {
		rec := activityEntry(c, models.ActionLogout, "administrator logged out")
		if err := h.activities.Append(&rec); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record activity"})
			return
		}
	}
	clearSecureCookie(c, "auth_token")
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the authenticated account's own profile and resolved roles.
func (h *AuthHandler) Me(c *gin.Context) {
	acct := middleware.CurrentAccount(c)
	if acct == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                 acct.ID,
		"uuid":               acct.UUID,
		"username":           acct.Username,
		"email":              acct.Email,
		"name":               acct.Name,
		"department":         acct.Department,
		"position":           acct.Position,
		"roles":              acct.Roles,
		"two_factor_enabled": acct.TwoFactorEnabled,
		"last_login_at":      acct.LastLoginAt,
	})
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	acct := middleware.CurrentAccount(c)
	if acct == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.ChangePassword(acct.ID, req.OldPassword, req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec := activityEntry(c, models.ActionUpdate, "changed own password")
	rec.ResourceType = "account"
	rec.ResourceID = acct.UUID
	if err := h.activities.Append(&rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// EnableTwoFactor provisions a TOTP secret for the caller's account.
func (h *AuthHandler) EnableTwoFactor(c *gin.Context) {
	acct := middleware.CurrentAccount(c)
	if acct == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	secret, url, err := h.authService.EnableTwoFactor(acct.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enable two-factor"})
		return
	}

	rec := activityEntry(c, models.ActionUpdate, "enabled two-factor authentication")
	rec.ResourceType = "account"
	rec.ResourceID = acct.UUID
	if err := h.activities.Append(&rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"secret": secret, "otpauth_url": url})
}

// DisableTwoFactor clears the caller's TOTP enrollment.
func (h *AuthHandler) DisableTwoFactor(c *gin.Context) {
	acct := middleware.CurrentAccount(c)
	if acct == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.authService.DisableTwoFactor(acct.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to disable two-factor"})
		return
	}

	rec := activityEntry(c, models.ActionUpdate, "disabled two-factor authentication")
	rec.ResourceType = "account"
	rec.ResourceID = acct.UUID
	if err := h.activities.Append(&rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Two-factor disabled"})
}
