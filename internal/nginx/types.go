package nginx

import (
	"github.com/nginxadmin/backend/internal/models"
)

// SettingsSource supplies the operator-configured paths and commands. It is
// implemented by the settings service; the generator and SSL file manager only
// depend on this narrow read interface.
type SettingsSource interface {
	GetSettings() (models.NginxSettings, error)
}

// TemplateData is the render-ready document assembled from entity state.
// Upstream blocks render before server blocks.
type TemplateData struct {
	Upstreams []models.Upstream
	Servers   []ServerData
}

// ServerData is one server block with all relations resolved into owned
// values. SSLConfig is the pre-rendered ssl directive block, empty when the
// listening port is not SSL-enabled.
type ServerData struct {
	models.HttpServer
	ServerNames string
	AccessRules []models.AccessRule
	Locations   []LocationData
	SSLConfig   string
}

// LocationData is one location block with its scoped access rules.
type LocationData struct {
	models.Location
	AccessRules []models.AccessRule
}

// ValidationResult is the outcome of structural config validation. Validation
// failure is an expected outcome and is returned as data, never as an error.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// CommandResult reports one test/reload script invocation. Success follows the
// empty-stderr heuristic; ExitCode carries the real process exit status so
// callers can apply a stricter policy.
type CommandResult struct {
	Success  bool   `json:"success"`
	Output   string `json:"output"`
	Error    string `json:"error,omitempty"`
	Logs     string `json:"logs"`
	Command  string `json:"command"`
	ExitCode int    `json:"exit_code"`
}

// SSLFileResult reports one certificate material write or delete.
type SSLFileResult struct {
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	CertPath string `json:"cert_path,omitempty"`
	KeyPath  string `json:"key_path,omitempty"`
}
