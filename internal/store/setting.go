package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shortsmith/shortsmith/internal/store/model"
)

// Setting persists operator-tunable defaults (generation style, upload tags).
type Setting interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	InitialMigration() error
}

type SettingStore struct {
	db *gorm.DB
}

// Make sure we conform to Setting interface
var _ Setting = (*SettingStore)(nil)

func NewSettingStore(db *gorm.DB) Setting {
	return &SettingStore{db: db}
}

func (s *SettingStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Setting{})
}

func (s *SettingStore) Get(_ context.Context, key string) (string, error) {
	var setting model.Setting
	result := s.db.First(&setting, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", ErrRecordNotFound
		}
		return "", fmt.Errorf("querying setting: %w", result.Error)
	}
	return setting.Value, nil
}

func (s *SettingStore) Set(_ context.Context, key, value string) error {
	setting := model.Setting{Key: key, Value: value}
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&setting)
	if result.Error != nil {
		return fmt.Errorf("saving setting: %w", result.Error)
	}
	return nil
}
