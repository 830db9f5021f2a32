package services

import (
	"fmt"
	"time"

	"github.com/naebak/admin-service/internal/models"
)

// LockoutPolicy decides when repeated authentication failures lock an
// account and for how long. It is pure decision logic over in-memory account
// state and an explicit clock; persistence and audit recording belong to the
// callers. The account service applies the same transitions with atomic SQL
// updates so concurrent attempts are never lost.
type LockoutPolicy struct {
	Threshold int
	Duration  time.Duration
}

// DefaultLockoutPolicy matches the platform defaults: five failures lock the
// account for thirty minutes.
var DefaultLockoutPolicy = LockoutPolicy{Threshold: 5, Duration: 30 * time.Minute}

// NewLockoutPolicy validates the knobs before any component uses them.
func NewLockoutPolicy(threshold int, duration time.Duration) (LockoutPolicy, error) {
	if threshold < 1 {
		return LockoutPolicy{}, fmt.Errorf("%w: lockout threshold must be at least 1, got %d", ErrValidation, threshold)
	}
	if duration <= 0 {
		return LockoutPolicy{}, fmt.Errorf("%w: lockout duration must be positive, got %s", ErrValidation, duration)
	}
	return LockoutPolicy{Threshold: threshold, Duration: duration}, nil
}

// LockDecision reports the outcome of recording a failed attempt.
type LockDecision struct {
	Locked      bool       `json:"locked"`
	Attempts    int        `json:"attempts"`
	LockedUntil *time.Time `json:"locked_until,omitempty"`
}

// RecordFailedAttempt increments the account's failure counter and, on
// crossing the threshold, sets the lock expiry. Further failures while a
// lock expiry is already set keep counting but never extend the expiry: a
// new expiry is written only on the transition into the locked state.
func (p LockoutPolicy) RecordFailedAttempt(acct *models.Account, now time.Time) LockDecision {
	acct.FailedLoginAttempts++

	if acct.FailedLoginAttempts >= p.Threshold && acct.LockedUntil == nil {
		until := now.Add(p.Duration)
		acct.LockedUntil = &until
	}

	return LockDecision{
		Locked:      p.IsLocked(acct, now),
		Attempts:    acct.FailedLoginAttempts,
		LockedUntil: acct.LockedUntil,
	}
}

// RecordSuccess resets the failure counter and clears any lock,
// unconditionally.
func (p LockoutPolicy) RecordSuccess(acct *models.Account) {
	acct.FailedLoginAttempts = 0
	acct.LockedUntil = nil
}

// IsLocked reports whether the account is locked at the given instant. The
// read has no side effects: an expired lock reports unlocked but the stale
// fields are cleared only by RecordSuccess or Unlock.
func (p LockoutPolicy) IsLocked(acct *models.Account, now time.Time) bool {
	return acct.LockedUntil != nil && now.Before(*acct.LockedUntil)
}

// Unlock clears the failure counter and lock expiry regardless of timing.
// Used for administrator-initiated recovery; the caller records the audit
// entry so manual unlocks stay distinguishable from natural expiry.
func (p LockoutPolicy) Unlock(acct *models.Account) {
	acct.FailedLoginAttempts = 0
	acct.LockedUntil = nil
}
