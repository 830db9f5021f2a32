package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/naebak/admin-service/internal/api/routes"
	"github.com/naebak/admin-service/internal/config"
	"github.com/naebak/admin-service/internal/models"
	"github.com/naebak/admin-service/internal/services"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	token  string
	admin  *models.Account
}

// setupEnv boots the full router against an in-memory database, seeds a
// super admin holding every permission, and logs in through the API.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_journal_mode=WAL&_busy_timeout=5000", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	cfg := config.Config{
		Environment:      "test",
		HTTPPort:         "0",
		DatabasePath:     dsn,
		JWTSecret:        "test-secret",
		SessionTTL:       time.Hour,
		LockoutThreshold: 5,
		LockoutDuration:  30 * time.Minute,
		BackupDir:        t.TempDir(),
		BackupRetention:  3,
	}

	router := gin.New()
	require.NoError(t, routes.Register(router, db, cfg))

	codes := []string{
		models.PermViewAccounts, models.PermManageAccounts, models.PermManageRoles,
		models.PermManageReferenceData, models.PermManageSettings,
		models.PermViewActivityLog, models.PermViewStatistics, models.PermManageSystem,
	}
	perms := make([]models.Permission, len(codes))
	for i, code := range codes {
		perms[i] = models.Permission{Code: code}
		require.NoError(t, db.Create(&perms[i]).Error)
	}
	role := models.Role{Name: "مدير عام", NameEN: "Super Admin", Slug: "super_admin", Enabled: true, IsSystemRole: true, Permissions: perms}
	require.NoError(t, db.Create(&role).Error)

	admin := models.Account{Username: "admin", Email: "admin@naebak.com", Enabled: true, Roles: []models.Role{role}}
	require.NoError(t, admin.SetPassword("password123"))
	require.NoError(t, db.Create(&admin).Error)

	env := &testEnv{router: router, db: db, admin: &admin}
	env.token = env.login(t, "admin", "password123", http.StatusOK)
	return env
}

func (e *testEnv) login(t *testing.T, username, password string, wantStatus int) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/auth/login", gin.H{"username": username, "password": password}, false)
	require.Equal(t, wantStatus, w.Code, w.Body.String())
	if wantStatus != http.StatusOK {
		return ""
	}
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["token"]
}

func (e *testEnv) do(t *testing.T, method, path string, payload interface{}, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer = bytes.NewBuffer(nil)
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) activityCount(t *testing.T, actionType string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.Activity{}).Where("action_type = ?", actionType).Count(&n).Error)
	return n
}

func TestLoginLockoutReturns423(t *testing.T) {
	env := setupEnv(t)

	for i := 1; i < 5; i++ {
		env.login(t, "admin", "wrongpassword", http.StatusUnauthorized)
	}
	env.login(t, "admin", "wrongpassword", http.StatusLocked)
	env.login(t, "admin", "password123", http.StatusLocked)

	// The failed attempts are all on the record.
	var failures int64
	require.NoError(t, env.db.Model(&models.Activity{}).
		Where("action_type = ? AND success = ?", models.ActionLogin, false).
		Count(&failures).Error)
	assert.EqualValues(t, 6, failures)
}

func TestSystemRoleCannotBeDeleted(t *testing.T) {
	env := setupEnv(t)

	var system models.Role
	require.NoError(t, env.db.Where("slug = ?", "super_admin").First(&system).Error)

	w := env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/roles/%d", system.ID), nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), services.ErrSystemRole.Error())

	// A normal role deletes fine and the deletion is audited.
	custom := models.Role{Name: "مؤقت", NameEN: "Temporary", Slug: "temporary", Enabled: true}
	require.NoError(t, env.db.Create(&custom).Error)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/roles/%d", custom.ID), nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, env.activityCount(t, models.ActionDelete))
}

func TestRoleCreatedDisabledStaysDisabled(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/roles", gin.H{
		"name":        "مراجع",
		"name_en":     "Reviewer",
		"slug":        "reviewer",
		"permissions": []string{models.PermViewAccounts},
		"enabled":     false,
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var role models.Role
	require.NoError(t, env.db.Preload("Permissions").Where("slug = ?", "reviewer").First(&role).Error)
	require.False(t, role.Enabled)

	// A disabled role contributes nothing to the permission union.
	holder := models.Account{Username: "reviewer", Email: "reviewer@naebak.com", Enabled: true, Roles: []models.Role{role}}
	require.NoError(t, env.db.Create(&holder).Error)

	var loaded models.Account
	require.NoError(t, env.db.Preload("Roles.Permissions").Preload("Permissions").First(&loaded, holder.ID).Error)
	assert.False(t, loaded.HasPermission(models.PermViewAccounts))
}

func TestAccountLockUnlockAudited(t *testing.T) {
	env := setupEnv(t)

	target := models.Account{Username: "clerk", Email: "clerk@naebak.com", Enabled: true}
	require.NoError(t, target.SetPassword("password123"))
	require.NoError(t, env.db.Create(&target).Error)

	w := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/accounts/%d/lock", target.ID), gin.H{"duration_minutes": 10}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.Account
	require.NoError(t, env.db.First(&stored, target.ID).Error)
	require.NotNil(t, stored.LockedUntil)
	assert.EqualValues(t, 1, env.activityCount(t, models.ActionLock))

	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/accounts/%d/unlock", target.ID), nil, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var unlocked models.Account
	require.NoError(t, env.db.First(&unlocked, target.ID).Error)
	assert.Nil(t, unlocked.LockedUntil)
	assert.Zero(t, unlocked.FailedLoginAttempts)
	assert.EqualValues(t, 1, env.activityCount(t, models.ActionUnlock))
}

func TestCannotDeactivateOwnAccount(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/accounts/%d/deactivate", env.admin.ID), nil, true)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSettingsTypeValidation(t *testing.T) {
	env := setupEnv(t)

	setting := models.Setting{Key: "max_complaint_length", Name: "Max complaint length", Type: models.SettingInteger, Value: "1500", DefaultValue: "1500", Editable: true}
	require.NoError(t, env.db.Create(&setting).Error)

	w := env.do(t, http.MethodPut, "/api/v1/settings/max_complaint_length", gin.H{"value": "not-a-number"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, "/api/v1/settings/max_complaint_length", gin.H{"value": "2000"}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "2000")

	// Read-only settings reject updates.
	locked := models.Setting{Key: "platform_build", Type: models.SettingString, Value: "1", Editable: false}
	require.NoError(t, env.db.Create(&locked).Error)
	w = env.do(t, http.MethodPut, "/api/v1/settings/platform_build", gin.H{"value": "2"}, true)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPublicSettingsNeedNoAuth(t *testing.T) {
	env := setupEnv(t)

	public := models.Setting{Key: "site_name", Type: models.SettingString, Value: "نائبك", Public: true, Editable: true}
	private := models.Setting{Key: "maintenance_mode", Type: models.SettingBoolean, Value: "false", Public: false, Editable: true}
	require.NoError(t, env.db.Create(&public).Error)
	require.NoError(t, env.db.Create(&private).Error)

	w := env.do(t, http.MethodGet, "/api/v1/settings/public", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "site_name")
	assert.NotContains(t, w.Body.String(), "maintenance_mode")
}

func TestReferenceDataCRUDAudited(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/governorates", gin.H{
		"name": "القاهرة", "name_en": "Cairo", "code": "CAI", "region": "cairo", "capital": "القاهرة",
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var gov models.Governorate
	require.NoError(t, env.db.Where("code = ?", "CAI").First(&gov).Error)
	assert.True(t, gov.Enabled)
	assert.EqualValues(t, 1, env.activityCount(t, models.ActionCreate))

	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/governorates/%d/toggle", gov.ID), nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, env.db.First(&gov, gov.ID).Error)
	assert.False(t, gov.Enabled)

	// Reads stay open to any authenticated account, writes are gated.
	w = env.do(t, http.MethodGet, "/api/v1/governorates", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPermissionGateOnWrites(t *testing.T) {
	env := setupEnv(t)

	viewer := models.Account{Username: "viewer", Email: "viewer@naebak.com", Enabled: true}
	require.NoError(t, viewer.SetPassword("password123"))
	require.NoError(t, env.db.Create(&viewer).Error)

	token := env.login(t, "viewer", "password123", http.StatusOK)
	adminToken := env.token
	env.token = token
	defer func() { env.token = adminToken }()

	w := env.do(t, http.MethodPost, "/api/v1/governorates", gin.H{
		"name": "الجيزة", "name_en": "Giza", "code": "GIZ", "region": "cairo",
	}, true)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/accounts", nil, true)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestActivityEndpointFiltersAndOrder(t *testing.T) {
	env := setupEnv(t)

	// Generate some audited writes.
	for i := 0; i < 3; i++ {
		w := env.do(t, http.MethodPost, "/api/v1/parties", gin.H{
			"name":         fmt.Sprintf("حزب %d", i),
			"name_en":      fmt.Sprintf("Party %d", i),
			"abbreviation": fmt.Sprintf("P%d", i),
		}, true)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := env.do(t, http.MethodGet, "/api/v1/activities?action=create", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Records []models.Activity `json:"records"`
		Total   int64             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 3, body.Total)
	for i := 1; i < len(body.Records); i++ {
		assert.False(t, body.Records[i].CreatedAt.After(body.Records[i-1].CreatedAt))
	}
}

func TestStatsOverview(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/stats/overview", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "accounts")
	assert.Contains(t, w.Body.String(), "governorates")
}

func TestHealthEndpoint(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/health", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "naebak-admin")
}
