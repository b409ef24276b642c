package models

// Location is one nginx location block within a server, proxying a path
// pattern to an upstream.
type Location struct {
	ID                uint   `json:"id" gorm:"primaryKey"`
	ServerID          uint   `json:"server_id"`
	UpstreamID        uint   `json:"upstream_id"`
	Path              string `json:"path"`
	AdditionalConfig  string `json:"additional_config"`
	ClientMaxBodySize string `json:"client_max_body_size"`

	HttpServer *HttpServer `json:"http_server,omitempty" gorm:"foreignKey:ServerID"`
	Upstream   *Upstream   `json:"upstream,omitempty" gorm:"foreignKey:UpstreamID"`
}
