package models

import "time"

// NotificationType categorizes feed entries.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// Notification is an entry in the in-app notification feed.
type Notification struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read" gorm:"default:false"`
	CreatedAt time.Time        `json:"created_at"`
}

// NotificationProvider is an external push target (shoutrrr URL).
type NotificationProvider struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name"`
	URL         string    `json:"url"` // shoutrrr service URL
	Enabled     bool      `json:"enabled" gorm:"default:true"`
	NotifyCerts bool      `json:"notify_certs" gorm:"default:true"`
	NotifyNginx bool      `json:"notify_nginx" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
