package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/flightdeck/rpas-checklist/internal/domain/entities"
)

func TestNotificationsExpireIndependently(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	n := NewNotificationService(2*time.Second, 3*time.Second).WithClock(func() time.Time { return now })

	n.Show(entities.NotificationSaved)
	n.Show(entities.NotificationInstalled)

	at := start.Add(2500 * time.Millisecond)
	assert.False(t, n.Visible(entities.NotificationSaved, at))
	assert.True(t, n.Visible(entities.NotificationInstalled, at))

	now = start.Add(time.Second)
	n.Show(entities.NotificationSaved)
	assert.True(t, n.Visible(entities.NotificationSaved, at), "showing again restarts the lifetime")
}

func TestNotificationDismiss(t *testing.T) {
	now := time.Now()
	n := NewNotificationService(time.Minute, time.Minute).WithClock(func() time.Time { return now })

	n.Show(entities.NotificationSaved)
	assert.NoError(t, n.Dismiss(entities.NotificationSaved))
	assert.False(t, n.Visible(entities.NotificationSaved, now))

	assert.ErrorIs(t, n.Dismiss("fireworks"), entities.ErrUnknownNotification)

	n.Show("fireworks")
	assert.False(t, n.Visible("fireworks", now))
}

func TestNotificationMessages(t *testing.T) {
	assert.Equal(t, "Checklist progress saved!", NotificationMessage(entities.NotificationSaved))
	assert.Equal(t, "App installed to home screen!", NotificationMessage(entities.NotificationInstalled))
}
