package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pquerna/otp/totp"

	"github.com/naebak/admin-service/internal/config"
	"github.com/naebak/admin-service/internal/logger"
	"github.com/naebak/admin-service/internal/metrics"
	"github.com/naebak/admin-service/internal/models"
)

// AuthService authenticates administrative accounts and issues session
// tokens. The lockout decisions themselves live in LockoutPolicy and the
// atomic state transitions in AccountService; this service sequences them.
type AuthService struct {
	accounts *AccountService
	notify   *NotificationService
	secret   []byte
	ttl      time.Duration
}

// NewAuthService wires the auth flow from explicit configuration.
func NewAuthService(accounts *AccountService, notify *NotificationService, cfg config.Config) *AuthService {
	return &AuthService{
		accounts: accounts,
		notify:   notify,
		secret:   []byte(cfg.JWTSecret),
		ttl:      cfg.SessionTTL,
	}
}

// Claims carried in the session token.
type Claims struct {
	AccountID uint   `json:"account_id"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// LoginResult reports a successful authentication.
type LoginResult struct {
	Token   string
	Account *models.Account
}

// Login verifies credentials, applies the lockout policy and issues a token.
// Disabled and locked accounts are rejected before the password is checked,
// so the failure counter only tracks genuine credential failures. A wrong
// TOTP code counts as a failed attempt like a wrong password.
func (s *AuthService) Login(username, password, otpCode string) (*LoginResult, error) {
	metrics.IncLoginAttempt()
	now := time.Now()

	acct, err := s.accounts.FindByUsername(username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.IncLoginFailure()
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !acct.Enabled {
		metrics.IncLoginFailure()
		return nil, ErrAccountDisabled
	}

	policy := s.accounts.Policy()
	if policy.IsLocked(acct, now) {
		metrics.IncLoginFailure()
		return nil, ErrAccountLocked
	}

	ok := acct.CheckPassword(password)
	if ok && acct.TwoFactorEnabled {
		ok = totp.Validate(otpCode, acct.TwoFactorSecret)
	}
	if !ok {
		metrics.IncLoginFailure()
		decision, derr := s.accounts.RecordFailedAttempt(acct.ID, now)
		if derr != nil {
			return nil, derr
		}
		if decision.Locked {
			metrics.IncLockout()
			logger.WithFields(map[string]interface{}{
				"username": acct.Username,
				"attempts": decision.Attempts,
			}).Warn("account locked after repeated failed logins")
			s.notify.SecurityEvent(fmt.Sprintf(
				"account %q locked until %s after %d failed login attempts",
				acct.Username, decision.LockedUntil.Format(time.RFC3339), decision.Attempts))
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	if err := s.accounts.RecordSuccess(acct.ID, now); err != nil {
		return nil, err
	}

	token, err := s.issueToken(acct, now)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, Account: acct}, nil
}

func (s *AuthService) issueToken(acct *models.Account, now time.Time) (string, error) {
	claims := Claims{
		AccountID: acct.ID,
		Username:  acct.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acct.UUID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Account loads the account behind validated claims, associations included.
func (s *AuthService) Account(claims *Claims) (*models.Account, error) {
	return s.accounts.FindByID(claims.AccountID)
}

// AccountByUsername resolves a login name, for audit attribution of failed
// attempts.
func (s *AuthService) AccountByUsername(username string) (*models.Account, error) {
	return s.accounts.FindByUsername(username)
}

// ChangePassword verifies the old password before setting the new one.
func (s *AuthService) ChangePassword(accountID uint, oldPassword, newPassword string) error {
	acct, err := s.accounts.FindByID(accountID)
	if err != nil {
		return err
	}
	if !acct.CheckPassword(oldPassword) {
		return ErrInvalidCredentials
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	if err := acct.SetPassword(newPassword); err != nil {
		return err
	}
	return s.accounts.db.Model(&models.Account{}).Where("id = ?", accountID).
		Update("password_hash", acct.PasswordHash).Error
}

// EnableTwoFactor generates a TOTP secret for the account and returns the
// provisioning URI. The flag flips only here, never through the generic
// account update path.
func (s *AuthService) EnableTwoFactor(accountID uint) (secret, url string, err error) {
	acct, err := s.accounts.FindByID(accountID)
	if err != nil {
		return "", "", err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "naebak-admin",
		AccountName: acct.Username,
	})
	if err != nil {
		return "", "", fmt.Errorf("generate totp secret: %w", err)
	}

	err = s.accounts.db.Model(&models.Account{}).Where("id = ?", accountID).
		UpdateColumns(map[string]interface{}{
			"two_factor_enabled": true,
			"two_factor_secret":  key.Secret(),
		}).Error
	if err != nil {
		return "", "", err
	}

	return key.Secret(), key.URL(), nil
}

// DisableTwoFactor clears the TOTP secret and flag.
func (s *AuthService) DisableTwoFactor(accountID uint) error {
	return s.accounts.db.Model(&models.Account{}).Where("id = ?", accountID).
		UpdateColumns(map[string]interface{}{
			"two_factor_enabled": false,
			"two_factor_secret":  "",
		}).Error
}
