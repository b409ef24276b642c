package nginx

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nginxadmin/backend/internal/models"
)

// openTestDB creates a SQLite in-memory DB unique per test and applies a busy
// timeout and WAL journal mode to reduce SQLite locking during parallel tests.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsnName := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_journal_mode=WAL&_busy_timeout=5000", dsnName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Upstream{},
		&models.Domain{},
		&models.Certificate{},
		&models.CertificateDomainMapping{},
		&models.ListeningPort{},
		&models.HttpServer{},
		&models.ServerDomainMapping{},
		&models.Location{},
		&models.AccessRule{},
		&models.ConfigVersion{},
		&models.NginxSettings{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

// stubSettings is a fixed-value SettingsSource for tests.
type stubSettings struct {
	settings models.NginxSettings
	err      error
}

func (s stubSettings) GetSettings() (models.NginxSettings, error) {
	return s.settings, s.err
}

func testSettings() models.NginxSettings {
	return models.NginxSettings{
		ConfigPath:          "/etc/nginx/nginx.conf",
		TestCommand:         models.DefaultTestCommand,
		ReloadCommand:       models.DefaultReloadCommand,
		SSLCertificatesPath: "/etc/nginx/ssl/certs",
		SSLPrivateKeysPath:  "/etc/nginx/ssl/private",
	}
}
