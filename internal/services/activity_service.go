package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/naebak/admin-service/internal/metrics"
	"github.com/naebak/admin-service/internal/models"
)

const (
	defaultActivityPageSize = 50
	maxActivityPageSize     = 200
)

// ActivityService is the append-only recorder for the administrative audit
// trail. It exposes Append and read-only queries; no update or delete path
// exists, by contract.
type ActivityService struct {
	db *gorm.DB
}

// NewActivityService returns an ActivityService using the provided DB.
func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// Append persists one activity record. A storage failure is returned to the
// caller: losing an audit record is a security-relevant failure and must
// never be swallowed.
func (s *ActivityService) Append(rec *models.Activity) error {
	return s.AppendTx(s.db, rec)
}

// AppendTx persists one activity record inside an existing transaction, so
// a state change and its audit entry commit or roll back together.
func (s *ActivityService) AppendTx(tx *gorm.DB, rec *models.Activity) error {
	if rec.ActorID == 0 {
		return fmt.Errorf("%w: activity record requires an actor", ErrValidation)
	}
	if rec.ActionType == "" {
		return fmt.Errorf("%w: activity record requires an action type", ErrValidation)
	}

	if err := tx.Create(rec).Error; err != nil {
		return fmt.Errorf("append activity record: %w", err)
	}
	metrics.IncActivityRecord()
	return nil
}

// Snapshot marshals a value for the old/new value columns. Marshal failures
// degrade to an empty snapshot rather than blocking the audited action.
func Snapshot(v interface{}) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// ActivityFilter narrows an activity query. Nil/zero fields are ignored.
type ActivityFilter struct {
	ActorID    *uint
	ActionType string
	Success    *bool
	From       *time.Time
	To         *time.Time
	Page       int
	PerPage    int
}

// Query returns matching records newest first (timestamp descending, insert
// order breaking ties) along with the total match count. Read-only.
func (s *ActivityService) Query(f ActivityFilter) ([]models.Activity, int64, error) {
	q := s.db.Model(&models.Activity{})

	if f.ActorID != nil {
		q = q.Where("actor_id = ?", *f.ActorID)
	}
	if f.ActionType != "" {
		q = q.Where("action_type = ?", f.ActionType)
	}
	if f.Success != nil {
		q = q.Where("success = ?", *f.Success)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	perPage := f.PerPage
	if perPage <= 0 {
		perPage = defaultActivityPageSize
	}
	if perPage > maxActivityPageSize {
		perPage = maxActivityPageSize
	}
	page := f.Page
	if page < 1 {
		page = 1
	}

	var records []models.Activity
	err := q.Order("created_at DESC, id DESC").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// FindByUUID returns a single record by its public identifier.
func (s *ActivityService) FindByUUID(id string) (*models.Activity, error) {
	var rec models.Activity
	err := s.db.Where("uuid = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
