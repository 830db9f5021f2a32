package models

import "time"

// Well-known permission codes checked by this service's own handlers. The
// catalog is open ended: collaborating services register their own codes
// (e.g. "view_complaints") and check them through the same resolver.
const (
	PermViewAccounts        = "view_accounts"
	PermManageAccounts      = "manage_accounts"
	PermManageRoles         = "manage_roles"
	PermManageReferenceData = "manage_reference_data"
	PermManageSettings      = "manage_settings"
	PermViewActivityLog     = "view_activity_log"
	PermViewStatistics      = "view_statistics"
	PermManageSystem        = "manage_system"
)

// Permission is an atomic capability identifier. Roles bundle permissions;
// accounts may also hold direct grants.
type Permission struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Code        string    `json:"code" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
