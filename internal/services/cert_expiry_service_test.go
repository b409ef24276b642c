package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nginxadmin/backend/internal/models"
)

func TestCertExpirySweep_WarnsOnExpiringCertificate(t *testing.T) {
	db := openTestDB(t)
	notifications := NewNotificationService(db)
	svc := NewCertExpiryService(db, notifications)

	expiring := models.Certificate{Name: "soon", ExpiresAt: time.Now().Add(10 * 24 * time.Hour)}
	require.NoError(t, db.Create(&expiring).Error)

	svc.Sweep()

	feed, err := notifications.List(false)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, models.NotificationWarning, feed[0].Type)
	assert.Contains(t, feed[0].Message, `"soon"`)
}

func TestCertExpirySweep_ErrorsOnExpiredCertificate(t *testing.T) {
	db := openTestDB(t)
	notifications := NewNotificationService(db)
	svc := NewCertExpiryService(db, notifications)

	expired := models.Certificate{Name: "dead", ExpiresAt: time.Now().Add(-24 * time.Hour)}
	require.NoError(t, db.Create(&expired).Error)

	svc.Sweep()

	feed, err := notifications.List(false)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, models.NotificationError, feed[0].Type)
	assert.Equal(t, "Certificate expired", feed[0].Title)
}

func TestCertExpirySweep_IgnoresHealthyCertificates(t *testing.T) {
	db := openTestDB(t)
	notifications := NewNotificationService(db)
	svc := NewCertExpiryService(db, notifications)

	healthy := models.Certificate{Name: "fine", ExpiresAt: time.Now().Add(90 * 24 * time.Hour)}
	require.NoError(t, db.Create(&healthy).Error)
	unset := models.Certificate{Name: "no-expiry"}
	require.NoError(t, db.Create(&unset).Error)

	svc.Sweep()

	feed, err := notifications.List(false)
	require.NoError(t, err)
	assert.Empty(t, feed)
}
