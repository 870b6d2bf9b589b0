package repository

import (
	"context"

	"github.com/Eursukkul/expo-draw-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExhibitionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, exhibition *models.Exhibition) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Exhibition, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Exhibition, error)
	LockAll(ctx context.Context, tx *gorm.DB) error
	FindActive(ctx context.Context, tx *gorm.DB) (*models.Exhibition, error)
	FindOldest(ctx context.Context, tx *gorm.DB) (*models.Exhibition, error)
	FindAll(ctx context.Context) ([]models.Exhibition, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	DeactivateAll(ctx context.Context, tx *gorm.DB) error
	SetActive(ctx context.Context, tx *gorm.DB, id uint) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	GetDB() *gorm.DB
}

type exhibitionRepository struct {
	db *gorm.DB
}

func NewExhibitionRepository(db *gorm.DB) ExhibitionRepository {
	return &exhibitionRepository{db: db}
}

func (r *exhibitionRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *exhibitionRepository) Create(ctx context.Context, tx *gorm.DB, exhibition *models.Exhibition) error {
	return tx.WithContext(ctx).Create(exhibition).Error
}

func (r *exhibitionRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Exhibition, error) {
	var exhibition models.Exhibition
	if err := tx.WithContext(ctx).First(&exhibition, id).Error; err != nil {
		return nil, err
	}
	return &exhibition, nil
}

// FindByIDForUpdate acquires a row-level lock on the exhibition within the given
// transaction. SQLite has no row locks; its writers are serialized instead.
func (r *exhibitionRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Exhibition, error) {
	var exhibition models.Exhibition
	q := tx.WithContext(ctx)
	if q.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	if err := q.First(&exhibition, id).Error; err != nil {
		return nil, err
	}
	return &exhibition, nil
}

// LockAll locks every exhibition row in id order, so concurrent activations
// queue up behind each other instead of racing on the single-active index.
func (r *exhibitionRepository) LockAll(ctx context.Context, tx *gorm.DB) error {
	if tx.Dialector.Name() == "sqlite" {
		return nil
	}
	var ids []uint
	return tx.WithContext(ctx).
		Model(&models.Exhibition{}).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Order("id ASC").
		Pluck("id", &ids).Error
}

func (r *exhibitionRepository) FindActive(ctx context.Context, tx *gorm.DB) (*models.Exhibition, error) {
	var exhibition models.Exhibition
	if err := tx.WithContext(ctx).Where("is_active = ?", true).First(&exhibition).Error; err != nil {
		return nil, err
	}
	return &exhibition, nil
}

// FindOldest returns the earliest-created exhibition by id.
func (r *exhibitionRepository) FindOldest(ctx context.Context, tx *gorm.DB) (*models.Exhibition, error) {
	var exhibition models.Exhibition
	if err := tx.WithContext(ctx).Order("id ASC").First(&exhibition).Error; err != nil {
		return nil, err
	}
	return &exhibition, nil
}

// FindAll returns every exhibition, newest first.
func (r *exhibitionRepository) FindAll(ctx context.Context) ([]models.Exhibition, error) {
	var exhibitions []models.Exhibition
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&exhibitions).Error; err != nil {
		return nil, err
	}
	return exhibitions, nil
}

func (r *exhibitionRepository) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).Model(&models.Exhibition{}).Count(&count).Error
	return count, err
}

func (r *exhibitionRepository) DeactivateAll(ctx context.Context, tx *gorm.DB) error {
	return tx.WithContext(ctx).
		Model(&models.Exhibition{}).
		Where("is_active = ?", true).
		Update("is_active", false).Error
}

func (r *exhibitionRepository) SetActive(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).
		Model(&models.Exhibition{}).
		Where("id = ?", id).
		Update("is_active", true).Error
}

func (r *exhibitionRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).Delete(&models.Exhibition{}, id).Error
}
