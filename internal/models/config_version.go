package models

import "time"

// ConfigVersion is an immutable snapshot of generated configuration text.
// A nil ServerID marks a full/global config snapshot; that null group carries
// its own single active version, same as every per-server group.
type ConfigVersion struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ServerID  *uint     `json:"server_id" gorm:"index"`
	Name      string    `json:"name" gorm:"default:'Untitled Configuration'"`
	Config    string    `json:"config"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`

	HttpServer *HttpServer `json:"http_server,omitempty" gorm:"foreignKey:ServerID"`
}
