package repository

import (
	"context"

	"github.com/Eursukkul/expo-draw-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository interface {
	FindByKey(ctx context.Context, tx *gorm.DB, key string) (*models.Setting, error)
	// Upsert replaces the row for setting.Key wholesale.
	Upsert(ctx context.Context, tx *gorm.DB, setting *models.Setting) error
	// CreateIfMissing inserts setting unless a row for its key already exists.
	CreateIfMissing(ctx context.Context, tx *gorm.DB, setting *models.Setting) error
	GetDB() *gorm.DB
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *settingsRepository) FindByKey(ctx context.Context, tx *gorm.DB, key string) (*models.Setting, error) {
	var setting models.Setting
	if err := tx.WithContext(ctx).Where(&models.Setting{Key: key}).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, tx *gorm.DB, setting *models.Setting) error {
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(setting).Error
}

func (r *settingsRepository) CreateIfMissing(ctx context.Context, tx *gorm.DB, setting *models.Setting) error {
	return tx.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(setting).Error
}
