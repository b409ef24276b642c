package models

// HttpServerStatus toggles whether a server is rendered into the config.
type HttpServerStatus string

const (
	HttpServerStatusActive   HttpServerStatus = "active"
	HttpServerStatusInactive HttpServerStatus = "inactive"
)

// HttpServer is one nginx server block: a virtual host bound to a listening
// port, routing its locations to upstreams. CertificateID is required when the
// listening port has SSL enabled; that invariant is enforced at write time.
type HttpServer struct {
	ID               uint             `json:"id" gorm:"primaryKey"`
	ListeningPortID  uint             `json:"listening_port_id"`
	Name             string           `json:"name"`
	AdditionalConfig string           `json:"additional_config"`
	Status           HttpServerStatus `json:"status" gorm:"default:'active'"`
	AccessLogPath    string           `json:"access_log_path" gorm:"default:'/dev/null'"`
	ErrorLogPath     string           `json:"error_log_path" gorm:"default:'/dev/null'"`
	LogLevel         string           `json:"log_level" gorm:"default:'warn'"`
	CertificateID    *uint            `json:"certificate_id"`

	ListeningPort  *ListeningPort        `json:"listening_port,omitempty" gorm:"foreignKey:ListeningPortID"`
	Certificate    *Certificate          `json:"certificate,omitempty" gorm:"foreignKey:CertificateID"`
	Locations      []Location            `json:"locations,omitempty" gorm:"foreignKey:ServerID"`
	DomainMappings []ServerDomainMapping `json:"domain_mappings,omitempty" gorm:"foreignKey:ServerID"`
	ConfigVersions []ConfigVersion       `json:"config_versions,omitempty" gorm:"foreignKey:ServerID"`
}

// ServerDomainMapping associates an HTTP server with a domain it answers for.
type ServerDomainMapping struct {
	ServerID uint `json:"server_id" gorm:"primaryKey;autoIncrement:false"`
	DomainID uint `json:"domain_id" gorm:"primaryKey;autoIncrement:false"`

	HttpServer *HttpServer `json:"http_server,omitempty" gorm:"foreignKey:ServerID"`
	Domain     *Domain     `json:"domain,omitempty" gorm:"foreignKey:DomainID"`
}
