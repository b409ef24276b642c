package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/nginxadmin/backend/internal/logger"
	"github.com/nginxadmin/backend/internal/models"
	"github.com/nginxadmin/backend/internal/nginx"
)

// SettingsService owns the singleton settings row and the operations built on
// it: running the operator's test/reload scripts and writing the rendered
// config to the configured path.
type SettingsService struct {
	db     *gorm.DB
	runner *nginx.ScriptRunner
}

// NewSettingsService creates the service. The runner executes the operator's
// test and reload commands.
func NewSettingsService(db *gorm.DB, runner *nginx.ScriptRunner) *SettingsService {
	return &SettingsService{db: db, runner: runner}
}

// GetSettings returns the settings row, creating the defaults on first read.
func (s *SettingsService) GetSettings() (models.NginxSettings, error) {
	var settings models.NginxSettings
	err := s.db.First(&settings).Error
	if err == nil {
		return settings, nil
	}
	if err != gorm.ErrRecordNotFound {
		return settings, fmt.Errorf("load settings: %w", err)
	}

	settings = models.DefaultNginxSettings()
	if err := s.db.Create(&settings).Error; err != nil {
		return settings, fmt.Errorf("create default settings: %w", err)
	}

	logger.Log().Info("Created default nginx settings")
	return settings, nil
}

// SaveSettings upserts the singleton row: the first save creates it, later
// saves update it in place regardless of the id the caller sent.
func (s *SettingsService) SaveSettings(incoming models.NginxSettings) (models.NginxSettings, error) {
	var existing models.NginxSettings
	err := s.db.First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		incoming.ID = 0
		if createErr := s.db.Create(&incoming).Error; createErr != nil {
			return incoming, fmt.Errorf("create settings: %w", createErr)
		}
		return incoming, nil
	}
	if err != nil {
		return incoming, fmt.Errorf("load settings: %w", err)
	}

	incoming.ID = existing.ID
	incoming.CreatedAt = existing.CreatedAt
	if err := s.db.Save(&incoming).Error; err != nil {
		return incoming, fmt.Errorf("update settings: %w", err)
	}
	return incoming, nil
}

// TestConfig runs the configured test command.
func (s *SettingsService) TestConfig(ctx context.Context) (nginx.CommandResult, error) {
	settings, err := s.GetSettings()
	if err != nil {
		return nginx.CommandResult{}, err
	}

	result := s.runner.Run(ctx, settings.TestCommand)
	logger.Log().WithFields(logrus.Fields{
		"success":  result.Success,
		"exitCode": result.ExitCode,
	}).Info("Ran nginx test command")
	return result, nil
}

// Reload runs the configured reload command.
func (s *SettingsService) Reload(ctx context.Context) (nginx.CommandResult, error) {
	settings, err := s.GetSettings()
	if err != nil {
		return nginx.CommandResult{}, err
	}

	result := s.runner.Run(ctx, settings.ReloadCommand)
	logger.Log().WithFields(logrus.Fields{
		"success":  result.Success,
		"exitCode": result.ExitCode,
	}).Info("Ran nginx reload command")
	return result, nil
}

// WriteConfigFile writes rendered configuration text to the configured
// config path, creating parent directories as needed.
func (s *SettingsService) WriteConfigFile(config string) (string, error) {
	settings, err := s.GetSettings()
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(settings.ConfigPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory %s: %w", dir, err)
	}
	if err := os.WriteFile(settings.ConfigPath, []byte(config), 0o644); err != nil {
		return "", fmt.Errorf("write config file %s: %w", settings.ConfigPath, err)
	}

	logger.Log().WithFields(logrus.Fields{"path": settings.ConfigPath}).Info("Wrote nginx configuration file")
	return settings.ConfigPath, nil
}
