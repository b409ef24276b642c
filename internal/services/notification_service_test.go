package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nginxadmin/backend/internal/models"
)

func TestNotificationService_CreateAndList(t *testing.T) {
	svc := NewNotificationService(openTestDB(t))

	_, err := svc.Create(models.NotificationInfo, "hello", "world")
	require.NoError(t, err)
	_, err = svc.Create(models.NotificationError, "broken", "details")
	require.NoError(t, err)

	notifications, err := svc.List(false)
	require.NoError(t, err)
	assert.Len(t, notifications, 2)
}

func TestNotificationService_MarkAsRead(t *testing.T) {
	svc := NewNotificationService(openTestDB(t))

	created, err := svc.Create(models.NotificationWarning, "warn", "msg")
	require.NoError(t, err)

	require.NoError(t, svc.MarkAsRead(created.ID))

	unread, err := svc.List(true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestNotificationService_MarkAllAsRead(t *testing.T) {
	svc := NewNotificationService(openTestDB(t))

	for i := 0; i < 3; i++ {
		_, err := svc.Create(models.NotificationInfo, "title", "msg")
		require.NoError(t, err)
	}

	require.NoError(t, svc.MarkAllAsRead())

	unread, err := svc.List(true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	all, err := svc.List(false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestNotificationService_ProviderCRUD(t *testing.T) {
	svc := NewNotificationService(openTestDB(t))

	provider := &models.NotificationProvider{
		Name:        "ops-chat",
		URL:         "discord://token@id",
		Enabled:     true,
		NotifyCerts: true,
		NotifyNginx: false,
	}
	require.NoError(t, svc.CreateProvider(provider))

	providers, err := svc.ListProviders()
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, "ops-chat", providers[0].Name)

	provider.Enabled = false
	require.NoError(t, svc.UpdateProvider(provider))

	require.NoError(t, svc.DeleteProvider(provider.ID))
	providers, err = svc.ListProviders()
	require.NoError(t, err)
	assert.Empty(t, providers)
}

func TestNotificationService_NotifyRecordsFeedEntry(t *testing.T) {
	svc := NewNotificationService(openTestDB(t))

	// No providers registered, so the external fan-out is a no-op.
	svc.Notify(EventNginx, models.NotificationError, "nginx reload failed", "boom")

	notifications, err := svc.List(false)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "nginx reload failed", notifications[0].Title)
}
