package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Account represents an administrative user of the Naebak platform.
// Accounts are never hard-deleted; deactivation flips Enabled so the audit
// trail keeps resolving actors.
type Account struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UUID      string    `json:"uuid" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Identification
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Name     string `json:"name"`

	// Profile
	PhoneNumber string  `json:"phone_number"`
	EmployeeID  *string `json:"employee_id,omitempty" gorm:"uniqueIndex"`
	Department  string  `json:"department" gorm:"index"`
	Position    string  `json:"position"`
	Bio         string  `json:"bio" gorm:"type:text"`

	// Regional responsibility
	GovernorateID *uint        `json:"governorate_id,omitempty"`
	Governorate   *Governorate `json:"governorate,omitempty"`

	// Authentication
	PasswordHash string `json:"-" gorm:"not null"`
	Enabled      bool   `json:"enabled" gorm:"index"`

	// Authorization
	Roles       []Role       `json:"roles,omitempty" gorm:"many2many:account_roles;"`
	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:account_permissions;"` // direct grants

	// Lockout state. FailedLoginAttempts resets to zero on a successful
	// authentication or an explicit unlock; it is mutated only through
	// atomic per-account updates in the account service.
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LockedUntil         *time.Time `json:"-"`

	// Two-factor
	TwoFactorEnabled bool   `json:"two_factor_enabled" gorm:"default:false"`
	TwoFactorSecret  string `json:"-"`

	// Metadata
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	LastActivity *time.Time `json:"last_activity,omitempty" gorm:"index"`
	CreatedByID  *uint      `json:"created_by,omitempty"`
	CreatedBy    *Account   `json:"-" gorm:"foreignKey:CreatedByID"`
}

// BeforeCreate generates a UUID for new accounts.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == "" {
		a.UUID = uuid.New().String()
	}
	return nil
}

// SetPassword hashes and sets the account's password.
func (a *Account) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a password against the stored hash.
func (a *Account) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
	return err == nil
}

// HasPermission resolves whether the account holds the permission code,
// either as a direct grant or through any enabled assigned role. Disabled
// roles contribute nothing. The check runs over the preloaded Roles and
// Permissions associations only; it never touches storage, and an unknown
// code simply resolves to false.
func (a *Account) HasPermission(code string) bool {
	for _, p := range a.Permissions {
		if p.Code == code {
			return true
		}
	}
	for i := range a.Roles {
		if !a.Roles[i].Enabled {
			continue
		}
		if a.Roles[i].Grants(code) {
			return true
		}
	}
	return false
}

// HasRole reports whether the account is assigned the role slug, regardless
// of whether the role is enabled.
func (a *Account) HasRole(slug string) bool {
	for _, r := range a.Roles {
		if r.Slug == slug {
			return true
		}
	}
	return false
}
