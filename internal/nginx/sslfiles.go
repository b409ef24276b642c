package nginx

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nginxadmin/backend/internal/util"
)

// SSLFileManager writes and deletes certificate material under the
// operator-configured directories. Both operations return a structured result
// instead of an error: filesystem trouble must not crash the request.
type SSLFileManager struct {
	settings SettingsSource
}

// NewSSLFileManager creates a manager reading paths from the settings source.
func NewSSLFileManager(settings SettingsSource) *SSLFileManager {
	return &SSLFileManager{settings: settings}
}

// SaveCertificate writes {certDir}/{name}.crt and {keyDir}/{name}.key,
// creating the directories as needed. The key file is owner read/write only.
func (m *SSLFileManager) SaveCertificate(name, certPEM, keyPEM string) SSLFileResult {
	settings, err := m.settings.GetSettings()
	if err != nil {
		return SSLFileResult{Error: err.Error()}
	}

	if err := os.MkdirAll(settings.SSLCertificatesPath, 0o755); err != nil {
		return SSLFileResult{Error: fmt.Sprintf("create certificates directory: %v", err)}
	}
	if err := os.MkdirAll(settings.SSLPrivateKeysPath, 0o755); err != nil {
		return SSLFileResult{Error: fmt.Sprintf("create private keys directory: %v", err)}
	}

	sanitized := util.SanitizeFilename(name)
	certPath := filepath.Join(settings.SSLCertificatesPath, sanitized+".crt")
	keyPath := filepath.Join(settings.SSLPrivateKeysPath, sanitized+".key")

	if err := os.WriteFile(certPath, []byte(certPEM), 0o644); err != nil {
		return SSLFileResult{Error: fmt.Sprintf("write certificate: %v", err)}
	}
	if err := os.WriteFile(keyPath, []byte(keyPEM), 0o600); err != nil {
		return SSLFileResult{Error: fmt.Sprintf("write private key: %v", err)}
	}
	if err := os.Chmod(keyPath, 0o600); err != nil {
		return SSLFileResult{Error: fmt.Sprintf("restrict private key permissions: %v", err)}
	}

	return SSLFileResult{Success: true, CertPath: certPath, KeyPath: keyPath}
}

// DeleteCertificate removes both files if present; absence is not an error.
func (m *SSLFileManager) DeleteCertificate(name string) SSLFileResult {
	settings, err := m.settings.GetSettings()
	if err != nil {
		return SSLFileResult{Error: err.Error()}
	}

	sanitized := util.SanitizeFilename(name)
	certPath := filepath.Join(settings.SSLCertificatesPath, sanitized+".crt")
	keyPath := filepath.Join(settings.SSLPrivateKeysPath, sanitized+".key")

	for _, path := range []string{certPath, keyPath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return SSLFileResult{Error: fmt.Sprintf("remove %s: %v", path, err)}
		}
	}

	return SSLFileResult{Success: true, CertPath: certPath, KeyPath: keyPath}
}
