package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nginxadmin/backend/internal/models"
	"github.com/nginxadmin/backend/internal/nginx"
)

func newTestSettingsService(t *testing.T) *SettingsService {
	t.Helper()
	return NewSettingsService(openTestDB(t), nginx.NewScriptRunner(0))
}

func TestSettingsService_GetCreatesDefaults(t *testing.T) {
	db := openTestDB(t)
	svc := NewSettingsService(db, nginx.NewScriptRunner(0))

	settings, err := svc.GetSettings()
	require.NoError(t, err)

	assert.Equal(t, models.DefaultConfigPath, settings.ConfigPath)
	assert.Equal(t, models.DefaultTestCommand, settings.TestCommand)
	assert.Equal(t, models.DefaultReloadCommand, settings.ReloadCommand)
	assert.Equal(t, models.DefaultSSLCertificatesPath, settings.SSLCertificatesPath)
	assert.Equal(t, models.DefaultSSLPrivateKeysPath, settings.SSLPrivateKeysPath)

	var count int64
	require.NoError(t, db.Model(&models.NginxSettings{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Second read returns the same row instead of creating another.
	again, err := svc.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, settings.ID, again.ID)
}

func TestSettingsService_SaveUpsertsSingleton(t *testing.T) {
	db := openTestDB(t)
	svc := NewSettingsService(db, nginx.NewScriptRunner(0))

	first, err := svc.SaveSettings(models.NginxSettings{ConfigPath: "/tmp/nginx.conf"})
	require.NoError(t, err)

	// A save with a bogus id still updates the existing row.
	second, err := svc.SaveSettings(models.NginxSettings{ID: 99, ConfigPath: "/tmp/other.conf"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.NginxSettings{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	settings, err := svc.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.conf", settings.ConfigPath)
}

func TestSettingsService_TestConfigRunsCommand(t *testing.T) {
	db := openTestDB(t)
	svc := NewSettingsService(db, nginx.NewScriptRunner(0))

	_, err := svc.SaveSettings(models.NginxSettings{TestCommand: "#!/bin/bash\necho 'test is successful' >&2"})
	require.NoError(t, err)

	result, err := svc.TestConfig(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestSettingsService_ReloadReportsFailure(t *testing.T) {
	db := openTestDB(t)
	svc := NewSettingsService(db, nginx.NewScriptRunner(0))

	_, err := svc.SaveSettings(models.NginxSettings{ReloadCommand: "#!/bin/bash\necho 'reload failed' >&2\nexit 1"})
	require.NoError(t, err)

	result, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 1, result.ExitCode)
}

func TestSettingsService_WriteConfigFile(t *testing.T) {
	db := openTestDB(t)
	svc := NewSettingsService(db, nginx.NewScriptRunner(0))

	configPath := filepath.Join(t.TempDir(), "conf", "nginx.conf")
	_, err := svc.SaveSettings(models.NginxSettings{ConfigPath: configPath})
	require.NoError(t, err)

	path, err := svc.WriteConfigFile("server {\n    listen 80;\n}\n")
	require.NoError(t, err)
	assert.Equal(t, configPath, path)

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "server {\n    listen 80;\n}\n", string(content))
}
