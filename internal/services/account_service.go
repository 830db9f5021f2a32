package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/naebak/admin-service/internal/models"
)

// AccountService owns lookup, creation and state mutation of administrative
// accounts. Lockout-field mutations use single-statement SQL updates scoped
// to the account row so concurrent requests cannot lose each other's writes.
type AccountService struct {
	db     *gorm.DB
	policy LockoutPolicy
}

// NewAccountService returns an AccountService using the provided DB and
// lockout policy.
func NewAccountService(db *gorm.DB, policy LockoutPolicy) *AccountService {
	return &AccountService{db: db, policy: policy}
}

// Policy returns the lockout policy the service applies.
func (s *AccountService) Policy() LockoutPolicy {
	return s.policy
}

// CreateAccountInput carries the fields an administrator supplies when
// provisioning a new account.
type CreateAccountInput struct {
	Username    string
	Email       string
	Name        string
	Password    string
	PhoneNumber string
	EmployeeID  string
	Department  string
	Position    string
	Governorate *uint
	RoleIDs     []uint
	CreatedBy   *uint
}

// Create provisions an account inside a transaction. A username, email or
// employee-id collision is rejected as ErrDuplicate with no partial write.
func (s *AccountService) Create(in CreateAccountInput) (*models.Account, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}

	acct := models.Account{
		Username:      strings.ToLower(in.Username),
		Email:         strings.ToLower(in.Email),
		Name:          in.Name,
		PhoneNumber:   in.PhoneNumber,
		Department:    in.Department,
		Position:      in.Position,
		GovernorateID: in.Governorate,
		Enabled:       true,
		CreatedByID:   in.CreatedBy,
	}
	if in.EmployeeID != "" {
		acct.EmployeeID = &in.EmployeeID
	}
	if err := acct.SetPassword(in.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		dup := tx.Model(&models.Account{}).
			Where("username = ? OR email = ?", acct.Username, acct.Email)
		if acct.EmployeeID != nil {
			dup = dup.Or("employee_id = ?", *acct.EmployeeID)
		}
		if err := dup.Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}

		if err := tx.Create(&acct).Error; err != nil {
			return err
		}

		if len(in.RoleIDs) > 0 {
			var roles []models.Role
			if err := tx.Where("id IN ?", in.RoleIDs).Find(&roles).Error; err != nil {
				return err
			}
			if len(roles) != len(in.RoleIDs) {
				return fmt.Errorf("%w: role", ErrNotFound)
			}
			if err := tx.Model(&acct).Association("Roles").Replace(roles); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.FindByID(acct.ID)
}

// FindByID loads an account with its roles, role grants and direct grants so
// permission resolution can run in memory.
func (s *AccountService) FindByID(id uint) (*models.Account, error) {
	var acct models.Account
	err := s.db.Preload("Roles.Permissions").Preload("Permissions").Preload("Governorate").
		First(&acct, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

// FindByUsername loads an account by login name, associations included.
func (s *AccountService) FindByUsername(username string) (*models.Account, error) {
	var acct models.Account
	err := s.db.Preload("Roles.Permissions").Preload("Permissions").
		Where("username = ?", strings.ToLower(username)).First(&acct).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

// List returns all accounts, newest first.
func (s *AccountService) List() ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Preload("Roles").Order("created_at DESC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// Deactivate disables the account. Accounts are never hard-deleted so the
// activity log keeps resolving its actors.
func (s *AccountService) Deactivate(id uint) error {
	res := s.db.Model(&models.Account{}).Where("id = ?", id).Update("enabled", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Activate re-enables a previously deactivated account.
func (s *AccountService) Activate(id uint) error {
	res := s.db.Model(&models.Account{}).Where("id = ?", id).Update("enabled", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AssignRole adds the role to the account's assigned set. Assigning an
// already-held role is a no-op.
func (s *AccountService) AssignRole(accountID, roleID uint) error {
	acct, role, err := s.accountAndRole(accountID, roleID)
	if err != nil {
		return err
	}
	return s.db.Model(acct).Association("Roles").Append(role)
}

// RevokeRole removes the role from the account's assigned set.
func (s *AccountService) RevokeRole(accountID, roleID uint) error {
	acct, role, err := s.accountAndRole(accountID, roleID)
	if err != nil {
		return err
	}
	return s.db.Model(acct).Association("Roles").Delete(role)
}

// GrantPermission adds a direct permission grant to the account.
func (s *AccountService) GrantPermission(accountID uint, code string) error {
	acct, err := s.FindByID(accountID)
	if err != nil {
		return err
	}
	var perm models.Permission
	if err := s.db.Where("code = ?", code).First(&perm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.db.Model(acct).Association("Permissions").Append(&perm)
}

// RevokePermission removes a direct permission grant from the account.
func (s *AccountService) RevokePermission(accountID uint, code string) error {
	acct, err := s.FindByID(accountID)
	if err != nil {
		return err
	}
	var perm models.Permission
	if err := s.db.Where("code = ?", code).First(&perm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.db.Model(acct).Association("Permissions").Delete(&perm)
}

// IsAuthorized resolves whether the account holds the permission. Unknown
// accounts are simply not authorized; lookups never escalate to errors here
// because an unresolvable target can never hold a grant.
func (s *AccountService) IsAuthorized(accountID uint, code string) bool {
	acct, err := s.FindByID(accountID)
	if err != nil {
		return false
	}
	return acct.HasPermission(code)
}

// RecordFailedAttempt applies the lockout policy to the stored account state
// using atomic updates: the counter increment is a single SQL expression and
// the lock expiry is guarded by locked_until IS NULL, so two concurrent
// failures both count and the lock is taken exactly once.
func (s *AccountService) RecordFailedAttempt(accountID uint, now time.Time) (LockDecision, error) {
	var decision LockDecision

	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Account{}).Where("id = ?", accountID).
			UpdateColumn("failed_login_attempts", gorm.Expr("failed_login_attempts + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		var acct models.Account
		if err := tx.First(&acct, accountID).Error; err != nil {
			return err
		}

		if acct.FailedLoginAttempts >= s.policy.Threshold && acct.LockedUntil == nil {
			until := now.Add(s.policy.Duration)
			res := tx.Model(&models.Account{}).
				Where("id = ? AND locked_until IS NULL", accountID).
				UpdateColumn("locked_until", until)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				acct.LockedUntil = &until
			} else if err := tx.First(&acct, accountID).Error; err != nil {
				return err
			}
		}

		decision = LockDecision{
			Locked:      s.policy.IsLocked(&acct, now),
			Attempts:    acct.FailedLoginAttempts,
			LockedUntil: acct.LockedUntil,
		}
		return nil
	})

	return decision, err
}

// RecordSuccess resets the lockout fields and stamps the login time.
func (s *AccountService) RecordSuccess(accountID uint, now time.Time) error {
	res := s.db.Model(&models.Account{}).Where("id = ?", accountID).
		UpdateColumns(map[string]interface{}{
			"failed_login_attempts": 0,
			"locked_until":          nil,
			"last_login_at":         now,
			"last_activity":         now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Unlock clears the lockout fields unconditionally, independent of timing.
// The handler records the manual unlock in the activity log so it stays
// distinguishable from a lock that simply expired.
func (s *AccountService) Unlock(accountID uint) error {
	res := s.db.Model(&models.Account{}).Where("id = ?", accountID).
		UpdateColumns(map[string]interface{}{
			"failed_login_attempts": 0,
			"locked_until":          nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchActivity stamps the account's last-activity time. Called from the
// auth middleware; failures are non-fatal for the request.
func (s *AccountService) TouchActivity(accountID uint, now time.Time) error {
	return s.db.Model(&models.Account{}).Where("id = ?", accountID).
		UpdateColumn("last_activity", now).Error
}

func (s *AccountService) accountAndRole(accountID, roleID uint) (*models.Account, *models.Role, error) {
	var acct models.Account
	if err := s.db.First(&acct, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	var role models.Role
	if err := s.db.First(&role, roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	return &acct, &role, nil
}
