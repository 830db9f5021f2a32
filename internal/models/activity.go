package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Action type tags recorded in the activity log.
const (
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionView     = "view"
	ActionLogin    = "login"
	ActionLogout   = "logout"
	ActionApprove  = "approve"
	ActionReject   = "reject"
	ActionSuspend  = "suspend"
	ActionActivate = "activate"
	ActionLock     = "lock"
	ActionUnlock   = "unlock"
	ActionExport   = "export"
	ActionImport   = "import"
	ActionBackup   = "backup"
	ActionRestore  = "restore"
)

// Activity is one immutable entry of the administrative audit trail: who did
// what, to which resource, when, with what outcome. Records are append-only;
// nothing in this service updates or deletes a row once written.
type Activity struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	UUID string `json:"uuid" gorm:"uniqueIndex;not null"`

	ActorID uint     `json:"actor_id" gorm:"not null;index:idx_activities_actor_time,priority:1"`
	Actor   *Account `json:"actor,omitempty"`

	ActionType  string `json:"action_type" gorm:"index;not null"`
	Description string `json:"description" gorm:"size:500"`

	// Tagged reference to the affected resource. The set of resource types
	// is open: other platform services record their own type names.
	ResourceType string `json:"resource_type,omitempty" gorm:"index:idx_activities_resource,priority:1"`
	ResourceID   string `json:"resource_id,omitempty" gorm:"index:idx_activities_resource,priority:2"`

	// JSON snapshots of the mutated values, when the action changed state.
	OldValues string `json:"old_values,omitempty" gorm:"type:text"`
	NewValues string `json:"new_values,omitempty" gorm:"type:text"`

	IPAddress string `json:"ip_address" gorm:"index"`
	UserAgent string `json:"user_agent" gorm:"type:text"`

	Success      bool   `json:"success" gorm:"index"`
	ErrorMessage string `json:"error_message,omitempty" gorm:"type:text"`
	DurationMS   *int64 `json:"duration_ms,omitempty"`

	// Set once at creation, immutable thereafter.
	CreatedAt time.Time `json:"created_at" gorm:"index;index:idx_activities_actor_time,priority:2"`
}

// BeforeCreate generates a UUID for new activity records.
func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == "" {
		a.UUID = uuid.New().String()
	}
	return nil
}
