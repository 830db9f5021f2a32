package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/naebak/admin-service/internal/database"
	"github.com/naebak/admin-service/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_journal_mode=WAL&_busy_timeout=5000", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestAccountService_CreateAndDuplicate(t *testing.T) {
	db := setupTestDB(t)
	service := NewAccountService(db, DefaultLockoutPolicy)

	acct, err := service.Create(CreateAccountInput{
		Username: "Admin",
		Email:    "Admin@naebak.com",
		Name:     "Platform Administrator",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", acct.Username, "login names are normalized to lower case")
	assert.Equal(t, "admin@naebak.com", acct.Email)
	assert.NotEmpty(t, acct.UUID)
	assert.True(t, acct.Enabled)
	assert.NotEqual(t, "password123", acct.PasswordHash)

	_, err = service.Create(CreateAccountInput{
		Username: "admin",
		Email:    "other@naebak.com",
		Name:     "Someone Else",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = service.Create(CreateAccountInput{
		Username: "",
		Email:    "x@naebak.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAccountService_DuplicateEmployeeID(t *testing.T) {
	db := setupTestDB(t)
	service := NewAccountService(db, DefaultLockoutPolicy)

	_, err := service.Create(CreateAccountInput{
		Username:   "first",
		Email:      "first@naebak.com",
		Password:   "password123",
		EmployeeID: "EMP-001",
	})
	require.NoError(t, err)

	_, err = service.Create(CreateAccountInput{
		Username:   "second",
		Email:      "second@naebak.com",
		Password:   "password123",
		EmployeeID: "EMP-001",
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestAccountService_CreateWithUnknownRole(t *testing.T) {
	db := setupTestDB(t)
	service := NewAccountService(db, DefaultLockoutPolicy)

	_, err := service.Create(CreateAccountInput{
		Username: "admin",
		Email:    "admin@naebak.com",
		Password: "password123",
		RoleIDs:  []uint{99},
	})
	assert.ErrorIs(t, err, ErrNotFound)

	// The failed transaction must not leave a partial account behind.
	var count int64
	db.Model(&models.Account{}).Count(&count)
	assert.Zero(t, count)
}

func TestAccountService_FindNotFound(t *testing.T) {
	db := setupTestDB(t)
	service := NewAccountService(db, DefaultLockoutPolicy)

	_, err := service.FindByID(42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = service.FindByUsername("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountService_DeactivateActivate(t *testing.T) {
	db := setupTestDB(t)
	service := NewAccountService(db, DefaultLockoutPolicy)

	acct, err := service.Create(CreateAccountInput{
		Username: "admin", Email: "admin@naebak.com", Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, service.Deactivate(acct.ID))
	got, err := service.FindByID(acct.ID)
	require.NoError(t, err)
	assert.False(t, got.Enabled)

	require.NoError(t, service.Activate(acct.ID))
	got, err = service.FindByID(acct.ID)
	require.NoError(t, err)
	assert.True(t, got.Enabled)

	assert.ErrorIs(t, service.Deactivate(999), ErrNotFound)
}

func TestAccountService_RolesAndPermissions(t *testing.T) {
	db := setupTestDB(t)
	service := NewAccountService(db, DefaultLockoutPolicy)

	perm := models.Permission{Code: models.PermViewAccounts}
	require.NoError(t, db.Create(&perm).Error)
	role := models.Role{Name: "Viewer", NameEN: "Viewer", Slug: "viewer", Enabled: true, Permissions: []models.Permission{perm}}
	require.NoError(t, db.Create(&role).Error)

	acct, err := service.Create(CreateAccountInput{
		Username: "admin", Email: "admin@naebak.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.False(t, service.IsAuthorized(acct.ID, models.PermViewAccounts))

	require.NoError(t, service.AssignRole(acct.ID, role.ID))
	assert.True(t, service.IsAuthorized(acct.ID, models.PermViewAccounts))

	require.NoError(t, service.RevokeRole(acct.ID, role.ID))
	assert.False(t, service.IsAuthorized(acct.ID, models.PermViewAccounts))

	// Direct grants work without any role.
	require.NoError(t, service.GrantPermission(acct.ID, models.PermViewAccounts))
	assert.True(t, service.IsAuthorized(acct.ID, models.PermViewAccounts))

	require.NoError(t, service.RevokePermission(acct.ID, models.PermViewAccounts))
	assert.False(t, service.IsAuthorized(acct.ID, models.PermViewAccounts))

	assert.ErrorIs(t, service.GrantPermission(acct.ID, "no_such_permission"), ErrNotFound)
	assert.False(t, service.IsAuthorized(999, models.PermViewAccounts))
}

func TestAccountService_RecordFailedAttempt(t *testing.T) {
	db := setupTestDB(t)
	service := NewAccountService(db, DefaultLockoutPolicy)
	now := time.Now()

	acct, err := service.Create(CreateAccountInput{
		Username: "admin", Email: "admin@naebak.com", Password: "password123",
	})
	require.NoError(t, err)

	for i := 1; i < DefaultLockoutPolicy.Threshold; i++ {
		decision, err := service.RecordFailedAttempt(acct.ID, now)
		require.NoError(t, err)
		assert.False(t, decision.Locked)
		assert.Equal(t, i, decision.Attempts)
	}

	decision, err := service.RecordFailedAttempt(acct.ID, now)
	require.NoError(t, err)
	assert.True(t, decision.Locked)
	require.NotNil(t, decision.LockedUntil)
	firstExpiry := *decision.LockedUntil

	// Another failure counts but keeps the original expiry.
	decision, err = service.RecordFailedAttempt(acct.ID, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, DefaultLockoutPolicy.Threshold+1, decision.Attempts)
	assert.Equal(t, firstExpiry.Unix(), decision.LockedUntil.Unix())

	_, err = service.RecordFailedAttempt(999, now)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountService_ConcurrentFailuresCountAndLockOnce(t *testing.T) {
	db := setupTestDB(t)
	service := NewAccountService(db, DefaultLockoutPolicy)
	now := time.Now()

	acct, err := service.Create(CreateAccountInput{
		Username: "admin", Email: "admin@naebak.com", Password: "password123",
	})
	require.NoError(t, err)

	// Bring the counter to one below the threshold, then race two failures.
	for i := 0; i < DefaultLockoutPolicy.Threshold-1; i++ {
		_, err := service.RecordFailedAttempt(acct.ID, now)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.RecordFailedAttempt(acct.ID, now)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var stored models.Account
	require.NoError(t, db.First(&stored, acct.ID).Error)
	assert.Equal(t, DefaultLockoutPolicy.Threshold+1, stored.FailedLoginAttempts, "both failures must count")
	require.NotNil(t, stored.LockedUntil)
	assert.Equal(t, now.Add(DefaultLockoutPolicy.Duration).Unix(), stored.LockedUntil.Unix(), "expiry set exactly once")
}

func TestAccountService_RecordSuccessAndUnlock(t *testing.T) {
	db := setupTestDB(t)
	service := NewAccountService(db, DefaultLockoutPolicy)
	now := time.Now()

	acct, err := service.Create(CreateAccountInput{
		Username: "admin", Email: "admin@naebak.com", Password: "password123",
	})
	require.NoError(t, err)

	for i := 0; i < DefaultLockoutPolicy.Threshold; i++ {
		_, err := service.RecordFailedAttempt(acct.ID, now)
		require.NoError(t, err)
	}

	require.NoError(t, service.RecordSuccess(acct.ID, now))
	got, err := service.FindByID(acct.ID)
	require.NoError(t, err)
	assert.Zero(t, got.FailedLoginAttempts)
	assert.Nil(t, got.LockedUntil)
	require.NotNil(t, got.LastLoginAt)

	for i := 0; i < DefaultLockoutPolicy.Threshold; i++ {
		_, err := service.RecordFailedAttempt(acct.ID, now)
		require.NoError(t, err)
	}

	require.NoError(t, service.Unlock(acct.ID))
	got, err = service.FindByID(acct.ID)
	require.NoError(t, err)
	assert.Zero(t, got.FailedLoginAttempts)
	assert.Nil(t, got.LockedUntil)

	assert.ErrorIs(t, service.Unlock(999), ErrNotFound)
}
