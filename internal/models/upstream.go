package models

// UpstreamStatus toggles whether an upstream is rendered into the config.
type UpstreamStatus string

const (
	UpstreamStatusActive   UpstreamStatus = "active"
	UpstreamStatusInactive UpstreamStatus = "inactive"
)

// Upstream is a named pool of one backend server address, referenced by
// locations via proxy_pass. Only active upstreams are rendered.
type Upstream struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"uniqueIndex"`
	Server    string         `json:"server"` // host:port
	KeepAlive int            `json:"keep_alive"`
	Status    UpstreamStatus `json:"status" gorm:"default:'active'"`

	Locations []Location `json:"locations,omitempty" gorm:"foreignKey:UpstreamID"`
}
