package services

import (
	"github.com/containrrr/shoutrrr"

	"github.com/naebak/admin-service/internal/logger"
)

// NotificationService pushes security events to an operator channel through
// a shoutrrr URL (Telegram, Slack, generic webhook...). With no URL
// configured it is a no-op, so callers never need to branch.
type NotificationService struct {
	url string
}

// NewNotificationService returns a NotificationService for the given
// shoutrrr URL. An empty URL disables delivery.
func NewNotificationService(url string) *NotificationService {
	return &NotificationService{url: url}
}

// Enabled reports whether a delivery URL is configured.
func (s *NotificationService) Enabled() bool {
	return s != nil && s.url != ""
}

// SecurityEvent delivers a security notification. Delivery failures are
// logged, not propagated: notifications are best-effort and must never fail
// the administrative action that triggered them.
func (s *NotificationService) SecurityEvent(message string) {
	if !s.Enabled() {
		return
	}
	if err := shoutrrr.Send(s.url, "[naebak-admin] "+message); err != nil {
		logger.Log().WithError(err).Warn("failed to deliver security notification")
	}
}
