package services

import (
	"fmt"

	"github.com/containrrr/shoutrrr"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/nginxadmin/backend/internal/logger"
	"github.com/nginxadmin/backend/internal/models"
)

// Notification event categories used to filter external providers.
const (
	EventCertExpiry = "cert_expiry"
	EventNginx      = "nginx"
)

// NotificationService maintains the in-app notification feed and pushes
// events to external providers via shoutrrr.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates the service.
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Create appends an entry to the in-app feed.
func (s *NotificationService) Create(nType models.NotificationType, title, message string) (*models.Notification, error) {
	notification := &models.Notification{
		Type:    nType,
		Title:   title,
		Message: message,
	}
	if err := s.db.Create(notification).Error; err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return notification, nil
}

// List returns feed entries, newest first.
func (s *NotificationService) List(unreadOnly bool) ([]models.Notification, error) {
	query := s.db.Order("created_at DESC")
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// MarkAsRead flags one entry as read.
func (s *NotificationService) MarkAsRead(id uint) error {
	return s.db.Model(&models.Notification{}).Where("id = ?", id).Update("read", true).Error
}

// MarkAllAsRead flags every unread entry as read.
func (s *NotificationService) MarkAllAsRead() error {
	return s.db.Model(&models.Notification{}).Where("read = ?", false).Update("read", true).Error
}

// SendExternal pushes an event to every enabled provider subscribed to the
// event type. Delivery errors are logged and swallowed; a dead webhook must
// not fail the operation that triggered the notification.
func (s *NotificationService) SendExternal(eventType, title, message string) {
	var providers []models.NotificationProvider
	if err := s.db.Where("enabled = ?", true).Find(&providers).Error; err != nil {
		logger.Log().WithFields(logrus.Fields{"error": err}).Error("Failed to fetch notification providers")
		return
	}

	for _, provider := range providers {
		if eventType == EventCertExpiry && !provider.NotifyCerts {
			continue
		}
		if eventType == EventNginx && !provider.NotifyNginx {
			continue
		}

		if err := shoutrrr.Send(provider.URL, title+"\n"+message); err != nil {
			logger.Log().WithFields(logrus.Fields{
				"provider": provider.Name,
				"error":    err,
			}).Error("Failed to send external notification")
		}
	}
}

// Notify records the event in the feed and fans it out externally.
func (s *NotificationService) Notify(eventType string, nType models.NotificationType, title, message string) {
	if _, err := s.Create(nType, title, message); err != nil {
		logger.Log().WithFields(logrus.Fields{"error": err}).Error("Failed to record notification")
	}
	s.SendExternal(eventType, title, message)
}

// CreateProvider registers an external push target.
func (s *NotificationService) CreateProvider(provider *models.NotificationProvider) error {
	return s.db.Create(provider).Error
}

// ListProviders returns all registered providers.
func (s *NotificationService) ListProviders() ([]models.NotificationProvider, error) {
	var providers []models.NotificationProvider
	if err := s.db.Find(&providers).Error; err != nil {
		return nil, fmt.Errorf("list notification providers: %w", err)
	}
	return providers, nil
}

// UpdateProvider saves changes to a provider.
func (s *NotificationService) UpdateProvider(provider *models.NotificationProvider) error {
	return s.db.Save(provider).Error
}

// DeleteProvider removes a provider.
func (s *NotificationService) DeleteProvider(id uint) error {
	return s.db.Delete(&models.NotificationProvider{}, id).Error
}
