package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naebak/admin-service/internal/models"
)

func TestNewLockoutPolicy_Validation(t *testing.T) {
	_, err := NewLockoutPolicy(0, time.Minute)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewLockoutPolicy(5, 0)
	assert.ErrorIs(t, err, ErrValidation)

	p, err := NewLockoutPolicy(3, 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Threshold)
	assert.Equal(t, 10*time.Minute, p.Duration)
}

func TestLockoutPolicy_ThresholdBoundary(t *testing.T) {
	policy := DefaultLockoutPolicy
	now := time.Now()
	acct := &models.Account{}

	// Attempts 1-4 count but do not lock.
	for i := 1; i < policy.Threshold; i++ {
		decision := policy.RecordFailedAttempt(acct, now)
		assert.False(t, decision.Locked, "attempt %d should not lock", i)
		assert.Equal(t, i, decision.Attempts)
		assert.Nil(t, decision.LockedUntil)
	}

	// The fifth attempt locks for the configured duration.
	decision := policy.RecordFailedAttempt(acct, now)
	assert.True(t, decision.Locked)
	assert.Equal(t, policy.Threshold, decision.Attempts)
	require.NotNil(t, decision.LockedUntil)
	assert.Equal(t, now.Add(policy.Duration), *decision.LockedUntil)
}

func TestLockoutPolicy_FailuresWhileLockedDoNotExtendExpiry(t *testing.T) {
	policy := DefaultLockoutPolicy
	now := time.Now()
	acct := &models.Account{}

	for i := 0; i < policy.Threshold; i++ {
		policy.RecordFailedAttempt(acct, now)
	}
	originalExpiry := *acct.LockedUntil

	// More failures during the lock keep counting but the expiry is fixed.
	decision := policy.RecordFailedAttempt(acct, now.Add(time.Minute))
	assert.True(t, decision.Locked)
	assert.Equal(t, policy.Threshold+1, decision.Attempts)
	assert.Equal(t, originalExpiry, *decision.LockedUntil)
}

func TestLockoutPolicy_ExpiryIsSideEffectFree(t *testing.T) {
	policy := DefaultLockoutPolicy
	now := time.Now()
	acct := &models.Account{}

	for i := 0; i < policy.Threshold; i++ {
		policy.RecordFailedAttempt(acct, now)
	}

	assert.True(t, policy.IsLocked(acct, now))
	assert.True(t, policy.IsLocked(acct, now.Add(policy.Duration-time.Second)))

	// Past the expiry the account reads as unlocked, but the stale fields
	// are only cleared by a success or an explicit unlock.
	assert.False(t, policy.IsLocked(acct, now.Add(policy.Duration)))
	assert.NotNil(t, acct.LockedUntil)
	assert.Equal(t, policy.Threshold, acct.FailedLoginAttempts)
}

func TestLockoutPolicy_SuccessResetsState(t *testing.T) {
	policy := DefaultLockoutPolicy
	now := time.Now()
	acct := &models.Account{}

	for i := 0; i < policy.Threshold; i++ {
		policy.RecordFailedAttempt(acct, now)
	}

	policy.RecordSuccess(acct)
	assert.Zero(t, acct.FailedLoginAttempts)
	assert.Nil(t, acct.LockedUntil)
	assert.False(t, policy.IsLocked(acct, now))
}

func TestLockoutPolicy_UnlockClearsRegardlessOfTiming(t *testing.T) {
	policy := DefaultLockoutPolicy
	now := time.Now()
	acct := &models.Account{}

	for i := 0; i < policy.Threshold; i++ {
		policy.RecordFailedAttempt(acct, now)
	}
	require.True(t, policy.IsLocked(acct, now))

	policy.Unlock(acct)
	assert.False(t, policy.IsLocked(acct, now))
	assert.Zero(t, acct.FailedLoginAttempts)
	assert.Nil(t, acct.LockedUntil)
}
