package nginx

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nginxadmin/backend/internal/models"
)

// ErrVersionNotFound is returned when a version id does not exist.
var ErrVersionNotFound = errors.New("config version not found")

// versionHistoryLimit caps how many snapshots a listing returns.
const versionHistoryLimit = 10

// VersionStore persists named snapshots of generated configuration text and
// tracks a single active version per server scope. A nil server id addresses
// the full/global config group.
type VersionStore struct {
	db *gorm.DB
}

// NewVersionStore creates a version store on the given database.
func NewVersionStore(db *gorm.DB) *VersionStore {
	return &VersionStore{db: db}
}

// Save deactivates the previously active version in the scope and inserts a
// new active snapshot. The deactivate+insert pair runs in one transaction so
// the at-most-one-active invariant holds even across concurrent saves.
func (s *VersionStore) Save(config string, serverID *uint, name string) (*models.ConfigVersion, error) {
	if name == "" {
		name = "Configuration " + time.Now().Format("2006-01-02 15:04:05")
	}

	version := &models.ConfigVersion{
		ServerID:  serverID,
		Name:      name,
		Config:    config,
		CreatedAt: time.Now(),
		IsActive:  true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		deactivate := tx.Model(&models.ConfigVersion{}).Where("is_active = ?", true)
		if serverID != nil {
			deactivate = deactivate.Where("server_id = ?", *serverID)
		} else {
			deactivate = deactivate.Where("server_id IS NULL")
		}
		if err := deactivate.Update("is_active", false).Error; err != nil {
			return fmt.Errorf("deactivate previous versions: %w", err)
		}

		if err := tx.Create(version).Error; err != nil {
			return fmt.Errorf("insert config version: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return version, nil
}

// List returns the most recent snapshots, newest first. A nil server id lists
// across all scopes, matching the panel's combined history view.
func (s *VersionStore) List(serverID *uint) ([]models.ConfigVersion, error) {
	query := s.db.Order("created_at DESC").Limit(versionHistoryLimit)
	if serverID != nil {
		query = query.Where("server_id = ?", *serverID)
	}

	var versions []models.ConfigVersion
	if err := query.Find(&versions).Error; err != nil {
		return nil, fmt.Errorf("list config versions: %w", err)
	}
	return versions, nil
}

// GetActive returns the active version of the scope, or ErrVersionNotFound
// when the scope has no active snapshot.
func (s *VersionStore) GetActive(serverID *uint) (*models.ConfigVersion, error) {
	query := s.db.Where("is_active = ?", true).Order("created_at DESC")
	if serverID != nil {
		query = query.Where("server_id = ?", *serverID)
	} else {
		query = query.Where("server_id IS NULL")
	}

	var version models.ConfigVersion
	err := query.First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVersionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch active version: %w", err)
	}
	return &version, nil
}

// Rename updates a snapshot's display name.
func (s *VersionStore) Rename(id uint, name string) (*models.ConfigVersion, error) {
	var version models.ConfigVersion
	err := s.db.First(&version, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVersionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch config version %d: %w", id, err)
	}

	version.Name = name
	if err := s.db.Save(&version).Error; err != nil {
		return nil, fmt.Errorf("rename config version %d: %w", id, err)
	}
	return &version, nil
}
