package models

import "time"

// Default settings used when no row exists yet.
const (
	DefaultConfigPath          = "/etc/nginx/nginx.conf"
	DefaultTestCommand         = "#!/bin/bash\nnginx -t"
	DefaultReloadCommand       = "#!/bin/bash\nnginx -s reload"
	DefaultSSLCertificatesPath = "/etc/nginx/ssl/certs"
	DefaultSSLPrivateKeysPath  = "/etc/nginx/ssl/private"
)

// NginxSettings is the single row of operator-configured paths and commands.
// The settings service enforces the singleton invariant via upsert.
type NginxSettings struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	ConfigPath          string    `json:"config_path"`
	TestCommand         string    `json:"test_command"`
	ReloadCommand       string    `json:"reload_command"`
	SSLCertificatesPath string    `json:"ssl_certificates_path"`
	SSLPrivateKeysPath  string    `json:"ssl_private_keys_path"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// DefaultNginxSettings returns the settings row created on first read.
func DefaultNginxSettings() NginxSettings {
	return NginxSettings{
		ConfigPath:          DefaultConfigPath,
		TestCommand:         DefaultTestCommand,
		ReloadCommand:       DefaultReloadCommand,
		SSLCertificatesPath: DefaultSSLCertificatesPath,
		SSLPrivateKeysPath:  DefaultSSLPrivateKeysPath,
	}
}
