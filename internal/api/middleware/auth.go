package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/naebak/admin-service/internal/models"
	"github.com/naebak/admin-service/internal/services"
)

// Context keys set by AuthMiddleware.
const (
	AccountKey   = "account"
	AccountIDKey = "accountID"
)

// AuthMiddleware validates the session token from the Authorization header
// or the auth_token cookie, loads the account with its grants, and stores
// both in the request context. Disabled accounts are rejected even with a
// valid token.
func AuthMiddleware(auth *services.AuthService, accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		if cookie, err := c.Cookie("auth_token"); err == nil && cookie != "" {
			tokenString = cookie
		}
		if tokenString == "" {
			header := c.GetHeader("Authorization")
			if header == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
				return
			}
			if !strings.HasPrefix(header, "Bearer ") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Bearer token required"})
				return
			}
			tokenString = strings.TrimPrefix(header, "Bearer ")
		}

		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		acct, err := auth.Account(claims)
		if err != nil || !acct.Enabled {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Account not found or disabled"})
			return
		}

		c.Set(AccountKey, acct)
		c.Set(AccountIDKey, acct.ID)

		// Best effort; the request proceeds even if the stamp fails.
		_ = accounts.TouchActivity(acct.ID, time.Now())

		c.Next()
	}
}

// RequirePermission gates a route on the resolved permission set of the
// authenticated account. Must run after AuthMiddleware.
func RequirePermission(code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		acct := CurrentAccount(c)
		if acct == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if !acct.HasPermission(code) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
			return
		}
		c.Next()
	}
}

// CurrentAccount returns the authenticated account from the context, or nil.
func CurrentAccount(c *gin.Context) *models.Account {
	if v, ok := c.Get(AccountKey); ok {
		if acct, ok := v.(*models.Account); ok {
			return acct
		}
	}
	return nil
}
