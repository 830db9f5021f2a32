package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/naebak/admin-service/internal/config"
	"github.com/naebak/admin-service/internal/models"
)

func setupAuthService(t *testing.T, db *gorm.DB) (*AuthService, *AccountService) {
	t.Helper()
	accounts := NewAccountService(db, DefaultLockoutPolicy)
	cfg := config.Config{JWTSecret: "test-secret", SessionTTL: time.Hour}
	return NewAuthService(accounts, NewNotificationService(""), cfg), accounts
}

func TestAuthService_Login(t *testing.T) {
	db := setupTestDB(t)
	service, accounts := setupAuthService(t, db)

	_, err := accounts.Create(CreateAccountInput{
		Username: "admin", Email: "admin@naebak.com", Password: "password123",
	})
	require.NoError(t, err)

	// Successful login issues a token and stamps the login time.
	result, err := service.Login("admin", "password123", "")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	got, err := accounts.FindByUsername("admin")
	require.NoError(t, err)
	assert.NotNil(t, got.LastLoginAt)

	// Wrong password.
	_, err = service.Login("admin", "wrongpassword", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown accounts fail the same way as wrong passwords.
	_, err = service.Login("ghost", "password123", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_LoginLockout(t *testing.T) {
	db := setupTestDB(t)
	service, accounts := setupAuthService(t, db)

	acct, err := accounts.Create(CreateAccountInput{
		Username: "admin", Email: "admin@naebak.com", Password: "password123",
	})
	require.NoError(t, err)

	for i := 1; i < DefaultLockoutPolicy.Threshold; i++ {
		_, err = service.Login("admin", "wrongpassword", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// The threshold attempt reports the lock, not a credential failure.
	_, err = service.Login("admin", "wrongpassword", "")
	assert.ErrorIs(t, err, ErrAccountLocked)

	// Even the correct password is rejected while locked.
	_, err = service.Login("admin", "password123", "")
	assert.ErrorIs(t, err, ErrAccountLocked)

	// Manual unlock restores access immediately.
	require.NoError(t, accounts.Unlock(acct.ID))
	result, err := service.Login("admin", "password123", "")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestAuthService_LockExpiresNaturally(t *testing.T) {
	db := setupTestDB(t)
	service, accounts := setupAuthService(t, db)

	acct, err := accounts.Create(CreateAccountInput{
		Username: "admin", Email: "admin@naebak.com", Password: "password123",
	})
	require.NoError(t, err)

	// Lock with an expiry already in the past.
	expired := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&models.Account{}).Where("id = ?", acct.ID).
		UpdateColumns(map[string]interface{}{
			"failed_login_attempts": DefaultLockoutPolicy.Threshold,
			"locked_until":          expired,
		}).Error)

	result, err := service.Login("admin", "password123", "")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	// The successful login cleared the stale lockout fields.
	got, err := accounts.FindByID(acct.ID)
	require.NoError(t, err)
	assert.Zero(t, got.FailedLoginAttempts)
	assert.Nil(t, got.LockedUntil)
}

func TestAuthService_DisabledAccount(t *testing.T) {
	db := setupTestDB(t)
	service, accounts := setupAuthService(t, db)

	acct, err := accounts.Create(CreateAccountInput{
		Username: "admin", Email: "admin@naebak.com", Password: "password123",
	})
	require.NoError(t, err)
	require.NoError(t, accounts.Deactivate(acct.ID))

	_, err = service.Login("admin", "password123", "")
	assert.ErrorIs(t, err, ErrAccountDisabled)

	// Rejection happens before the password check, so the counter is untouched.
	got, err := accounts.FindByUsername("admin")
	require.NoError(t, err)
	assert.Zero(t, got.FailedLoginAttempts)
}

func TestAuthService_ValidateToken(t *testing.T) {
	db := setupTestDB(t)
	service, accounts := setupAuthService(t, db)

	acct, err := accounts.Create(CreateAccountInput{
		Username: "admin", Email: "admin@naebak.com", Password: "password123",
	})
	require.NoError(t, err)

	result, err := service.Login("admin", "password123", "")
	require.NoError(t, err)

	claims, err := service.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, acct.ID, claims.AccountID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, acct.UUID, claims.Subject)

	_, err = service.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestAuthService_ChangePassword(t *testing.T) {
	db := setupTestDB(t)
	service, accounts := setupAuthService(t, db)

	acct, err := accounts.Create(CreateAccountInput{
		Username: "admin", Email: "admin@naebak.com", Password: "password123",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, service.ChangePassword(acct.ID, "wrongpassword", "newpassword1"), ErrInvalidCredentials)
	assert.ErrorIs(t, service.ChangePassword(acct.ID, "password123", "short"), ErrValidation)

	require.NoError(t, service.ChangePassword(acct.ID, "password123", "newpassword1"))
	_, err = service.Login("admin", "newpassword1", "")
	require.NoError(t, err)
	_, err = service.Login("admin", "password123", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_TwoFactor(t *testing.T) {
	db := setupTestDB(t)
	service, accounts := setupAuthService(t, db)

	acct, err := accounts.Create(CreateAccountInput{
		Username: "admin", Email: "admin@naebak.com", Password: "password123",
	})
	require.NoError(t, err)

	secret, url, err := service.EnableTwoFactor(acct.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, secret)
	assert.Contains(t, url, "otpauth://")

	// Correct password with a missing or wrong code is a failed attempt.
	_, err = service.Login("admin", "password123", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = service.Login("admin", "password123", "000000")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	got, err := accounts.FindByUsername("admin")
	require.NoError(t, err)
	assert.Equal(t, 2, got.FailedLoginAttempts)

	require.NoError(t, service.DisableTwoFactor(acct.ID))
	result, err := service.Login("admin", "password123", "")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}
