package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/flightdeck/rpas-checklist/internal/domain/entities"
)

// Notification messages shown by the page.
var notificationMessages = map[entities.NotificationKind]string{
	entities.NotificationSaved:     "Checklist progress saved!",
	entities.NotificationInstalled: "App installed to home screen!",
}

// NotificationMessage returns the text for a notification kind.
func NotificationMessage(kind entities.NotificationKind) string {
	return notificationMessages[kind]
}

// NotificationService tracks transient notifications. Each kind has its own
// fixed lifetime; visibility is computed against the clock, so no timers run.
type NotificationService struct {
	mu        sync.Mutex
	durations map[entities.NotificationKind]time.Duration
	expires   map[entities.NotificationKind]time.Time
	now       func() time.Time
}

// NewNotificationService creates a notifier with the given lifetimes
func NewNotificationService(saved, installed time.Duration) *NotificationService {
	return &NotificationService{
		durations: map[entities.NotificationKind]time.Duration{
			entities.NotificationSaved:     saved,
			entities.NotificationInstalled: installed,
		},
		expires: make(map[entities.NotificationKind]time.Time),
		now:     time.Now,
	}
}

// WithClock replaces the time source.
func (s *NotificationService) WithClock(now func() time.Time) *NotificationService {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// Show makes the notification visible for its lifetime, restarting it if shown.
func (s *NotificationService) Show(kind entities.NotificationKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.durations[kind]
	if !ok {
		return
	}
	s.expires[kind] = s.now().Add(d)
}

// Dismiss hides the notification before it expires.
func (s *NotificationService) Dismiss(kind entities.NotificationKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.durations[kind]; !ok {
		return fmt.Errorf("%w: %q", entities.ErrUnknownNotification, string(kind))
	}
	delete(s.expires, kind)
	return nil
}

// Visible reports whether the notification is showing at now.
func (s *NotificationService) Visible(kind entities.NotificationKind, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.expires[kind]
	return ok && now.Before(exp)
}
