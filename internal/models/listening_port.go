package models

// ListeningPort is a (port, protocol, ssl, http2) tuple HTTP servers bind to.
type ListeningPort struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name"`
	Port     int    `json:"port"`
	Protocol string `json:"protocol" gorm:"default:'http'"`
	SSL      bool   `json:"ssl" gorm:"default:false"`
	HTTP2    bool   `json:"http2" gorm:"default:false"`

	HttpServers []HttpServer `json:"http_servers,omitempty" gorm:"foreignKey:ListeningPortID"`
}
