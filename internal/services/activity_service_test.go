package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/naebak/admin-service/internal/models"
)

func seedActor(t *testing.T, db *gorm.DB) *models.Account {
	t.Helper()
	acct := models.Account{Username: "auditor", Email: "auditor@naebak.com", PasswordHash: "x", Enabled: true}
	require.NoError(t, db.Create(&acct).Error)
	return &acct
}

func TestActivityService_AppendValidation(t *testing.T) {
	db := setupTestDB(t)
	service := NewActivityService(db)
	actor := seedActor(t, db)

	err := service.Append(&models.Activity{ActionType: models.ActionCreate})
	assert.ErrorIs(t, err, ErrValidation)

	err = service.Append(&models.Activity{ActorID: actor.ID})
	assert.ErrorIs(t, err, ErrValidation)

	rec := models.Activity{ActorID: actor.ID, ActionType: models.ActionCreate, Description: "created something", Success: true}
	require.NoError(t, service.Append(&rec))
	assert.NotEmpty(t, rec.UUID)
}

func TestActivityService_QueryNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	service := NewActivityService(db)
	actor := seedActor(t, db)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		rec := models.Activity{
			ActorID:     actor.ID,
			ActionType:  models.ActionUpdate,
			Description: "change",
			Success:     true,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, service.Append(&rec))
	}

	records, total, err := service.Query(ActivityFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, records, 5)
	for i := 1; i < len(records); i++ {
		assert.False(t, records[i].CreatedAt.After(records[i-1].CreatedAt), "records must be newest first")
	}
}

func TestActivityService_QueryFilters(t *testing.T) {
	db := setupTestDB(t)
	service := NewActivityService(db)
	actor := seedActor(t, db)
	other := models.Account{Username: "other", Email: "other@naebak.com", PasswordHash: "x", Enabled: true}
	require.NoError(t, db.Create(&other).Error)

	ok := models.Activity{ActorID: actor.ID, ActionType: models.ActionLogin, Success: true}
	require.NoError(t, service.Append(&ok))
	failed := models.Activity{ActorID: actor.ID, ActionType: models.ActionLogin, Success: false, ErrorMessage: "invalid credentials"}
	require.NoError(t, service.Append(&failed))
	otherRec := models.Activity{ActorID: other.ID, ActionType: models.ActionLock, Success: true}
	require.NoError(t, service.Append(&otherRec))

	records, total, err := service.Query(ActivityFilter{ActorID: &actor.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, records, 2)

	records, total, err = service.Query(ActivityFilter{ActionType: models.ActionLock})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, other.ID, records[0].ActorID)

	failure := false
	records, total, err = service.Query(ActivityFilter{Success: &failure})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "invalid credentials", records[0].ErrorMessage)
}

func TestActivityService_FailureRecordedAsFailure(t *testing.T) {
	db := setupTestDB(t)
	service := NewActivityService(db)
	actor := seedActor(t, db)

	rec := models.Activity{
		ActorID:      actor.ID,
		ActionType:   models.ActionLogin,
		Description:  "login attempt",
		Success:      false,
		ErrorMessage: "invalid credentials",
	}
	require.NoError(t, service.Append(&rec))

	got, err := service.FindByUUID(rec.UUID)
	require.NoError(t, err)
	assert.False(t, got.Success)
	assert.Equal(t, "invalid credentials", got.ErrorMessage)

	failure := false
	_, total, err := service.Query(ActivityFilter{Success: &failure})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestActivityService_Pagination(t *testing.T) {
	db := setupTestDB(t)
	service := NewActivityService(db)
	actor := seedActor(t, db)

	for i := 0; i < 7; i++ {
		rec := models.Activity{ActorID: actor.ID, ActionType: models.ActionView, Success: true}
		require.NoError(t, service.Append(&rec))
	}

	records, total, err := service.Query(ActivityFilter{Page: 1, PerPage: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	assert.Len(t, records, 3)

	records, _, err = service.Query(ActivityFilter{Page: 3, PerPage: 3})
	require.NoError(t, err)
	assert.Len(t, records, 1)

	// Oversized page sizes are capped, nonsense pages default to the first.
	records, _, err = service.Query(ActivityFilter{Page: -1, PerPage: 100000})
	require.NoError(t, err)
	assert.Len(t, records, 7)
}

func TestActivityService_FindByUUID(t *testing.T) {
	db := setupTestDB(t)
	service := NewActivityService(db)
	actor := seedActor(t, db)

	rec := models.Activity{ActorID: actor.ID, ActionType: models.ActionBackup, Success: true}
	require.NoError(t, service.Append(&rec))

	got, err := service.FindByUUID(rec.UUID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	_, err = service.FindByUUID("no-such-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActivityService_RecordsAreImmutableOnReRead(t *testing.T) {
	db := setupTestDB(t)
	service := NewActivityService(db)
	actor := seedActor(t, db)

	rec := models.Activity{ActorID: actor.ID, ActionType: models.ActionDelete, Description: "removed party", Success: true}
	require.NoError(t, service.Append(&rec))

	first, err := service.FindByUUID(rec.UUID)
	require.NoError(t, err)

	// Run unrelated appends, then read again: the stored record is unchanged.
	other := models.Activity{ActorID: actor.ID, ActionType: models.ActionCreate, Success: true}
	require.NoError(t, service.Append(&other))

	second, err := service.FindByUUID(rec.UUID)
	require.NoError(t, err)
	assert.Equal(t, first.Description, second.Description)
	assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())
	assert.Equal(t, first.ActorID, second.ActorID)
}

func TestActivityService_ConcurrentAppends(t *testing.T) {
	db := setupTestDB(t)
	service := NewActivityService(db)
	actor := seedActor(t, db)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := models.Activity{ActorID: actor.ID, ActionType: models.ActionView, Success: true}
			assert.NoError(t, service.Append(&rec))
		}()
	}
	wg.Wait()

	_, total, err := service.Query(ActivityFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 10, total)
}

func TestSnapshot(t *testing.T) {
	assert.Equal(t, "", Snapshot(nil))
	assert.Equal(t, `{"name":"x"}`, Snapshot(map[string]string{"name": "x"}))
	assert.Equal(t, "", Snapshot(make(chan int)), "unmarshalable values degrade to empty")
}
