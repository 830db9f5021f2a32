package models

import "time"

// Role is a named, reusable bundle of permission grants assignable to
// administrative accounts. System roles ship with the platform and cannot be
// deleted, only disabled or re-granted.
type Role struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	NameEN      string `json:"name_en" gorm:"uniqueIndex;not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"` // e.g. "super_admin"
	Description string `json:"description" gorm:"type:text"`

	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:role_permissions;"`

	Enabled      bool `json:"enabled" gorm:"index"`
	IsSystemRole bool `json:"is_system_role" gorm:"default:false"`
}

// Grants reports whether the role itself carries the permission code. Callers
// are expected to check Enabled separately; a disabled role still grants
// nothing through the resolver.
func (r *Role) Grants(code string) bool {
	for _, p := range r.Permissions {
		if p.Code == code {
			return true
		}
	}
	return false
}
