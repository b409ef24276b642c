package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/nginxadmin/backend/internal/logger"
	"github.com/nginxadmin/backend/internal/models"
)

// expiryWarningWindow is how far ahead the sweep warns about expiring
// certificates.
const expiryWarningWindow = 30 * 24 * time.Hour

// CertExpiryService runs a daily sweep over stored certificates and raises
// notifications for those expiring soon or already expired.
type CertExpiryService struct {
	db            *gorm.DB
	notifications *NotificationService
	cron          *cron.Cron
}

// NewCertExpiryService creates the sweep service.
func NewCertExpiryService(db *gorm.DB, notifications *NotificationService) *CertExpiryService {
	return &CertExpiryService{
		db:            db,
		notifications: notifications,
		cron:          cron.New(),
	}
}

// Start schedules the daily sweep and runs one immediately so a freshly
// started panel surfaces expiring certificates without waiting a day.
func (s *CertExpiryService) Start() error {
	if _, err := s.cron.AddFunc("@daily", s.Sweep); err != nil {
		return fmt.Errorf("schedule certificate expiry sweep: %w", err)
	}
	s.cron.Start()
	go s.Sweep()
	return nil
}

// Stop halts the scheduler.
func (s *CertExpiryService) Stop() {
	s.cron.Stop()
}

// Sweep checks every certificate's expiry and notifies on problems.
func (s *CertExpiryService) Sweep() {
	var certs []models.Certificate
	if err := s.db.Find(&certs).Error; err != nil {
		logger.Log().WithFields(logrus.Fields{"error": err}).Error("Certificate expiry sweep failed")
		return
	}

	now := time.Now()
	for _, cert := range certs {
		if cert.ExpiresAt.IsZero() {
			continue
		}

		switch {
		case cert.ExpiresAt.Before(now):
			s.notifications.Notify(EventCertExpiry, models.NotificationError,
				"Certificate expired",
				fmt.Sprintf("Certificate %q expired on %s", cert.Name, cert.ExpiresAt.Format("2006-01-02")))
		case cert.ExpiresAt.Before(now.Add(expiryWarningWindow)):
			days := int(cert.ExpiresAt.Sub(now).Hours() / 24)
			s.notifications.Notify(EventCertExpiry, models.NotificationWarning,
				"Certificate expiring soon",
				fmt.Sprintf("Certificate %q expires in %d days", cert.Name, days))
		}
	}

	logger.Log().WithFields(logrus.Fields{"certificates": len(certs)}).Debug("Completed certificate expiry sweep")
}
