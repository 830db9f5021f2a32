package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	loginAttemptsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "naebak_admin_login_attempts_total",
		Help: "Total number of administrative login attempts",
	})
	loginFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "naebak_admin_login_failures_total",
		Help: "Total number of failed administrative login attempts",
	})
	lockoutsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "naebak_admin_account_lockouts_total",
		Help: "Total number of accounts locked by the lockout policy",
	})
	activityRecordsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "naebak_admin_activity_records_total",
		Help: "Total number of activity records appended to the audit log",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(loginAttemptsTotal, loginFailuresTotal, lockoutsTotal, activityRecordsTotal)
}

// IncLoginAttempt increments the login attempts counter.
func IncLoginAttempt() { loginAttemptsTotal.Inc() }

// IncLoginFailure increments the failed login counter.
func IncLoginFailure() { loginFailuresTotal.Inc() }

// IncLockout increments the account lockouts counter.
func IncLockout() { lockoutsTotal.Inc() }

// IncActivityRecord increments the audit append counter.
func IncActivityRecord() { activityRecordsTotal.Inc() }
