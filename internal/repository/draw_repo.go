package repository

import (
	"context"

	"github.com/Eursukkul/expo-draw-service/internal/models"
	"gorm.io/gorm"
)

type DrawRepository interface {
	Create(ctx context.Context, tx *gorm.DB, record *models.DrawRecord) error
	ExistsByExhibitionAndPhone(ctx context.Context, tx *gorm.DB, exhibitionID uint, phone string) (bool, error)
	CountWinsByResult(ctx context.Context, tx *gorm.DB, exhibitionID uint, result string) (int64, error)
	CountWins(ctx context.Context, tx *gorm.DB, exhibitionID uint) (int64, error)
	FindPreview(ctx context.Context, exhibitionID uint, limit int) ([]models.DrawPreview, error)
	DeleteByExhibition(ctx context.Context, tx *gorm.DB, exhibitionID uint) error
	GetDB() *gorm.DB
}

type drawRepository struct {
	db *gorm.DB
}

func NewDrawRepository(db *gorm.DB) DrawRepository {
	return &drawRepository{db: db}
}

func (r *drawRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *drawRepository) Create(ctx context.Context, tx *gorm.DB, record *models.DrawRecord) error {
	return tx.WithContext(ctx).Create(record).Error
}

func (r *drawRepository) ExistsByExhibitionAndPhone(ctx context.Context, tx *gorm.DB, exhibitionID uint, phone string) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.DrawRecord{}).
		Where("exhibition_id = ? AND phone = ?", exhibitionID, phone).
		Count(&count).Error
	return count > 0, err
}

func (r *drawRepository) CountWinsByResult(ctx context.Context, tx *gorm.DB, exhibitionID uint, result string) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.DrawRecord{}).
		Where("exhibition_id = ? AND result = ? AND is_win = ?", exhibitionID, result, true).
		Count(&count).Error
	return count, err
}

func (r *drawRepository) CountWins(ctx context.Context, tx *gorm.DB, exhibitionID uint) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.DrawRecord{}).
		Where("exhibition_id = ? AND is_win = ?", exhibitionID, true).
		Count(&count).Error
	return count, err
}

// FindPreview returns the most recent draws of an exhibition. The name is the
// signer of the phone's earliest check-in there, or empty. A non-positive
// limit returns every row.
func (r *drawRepository) FindPreview(ctx context.Context, exhibitionID uint, limit int) ([]models.DrawPreview, error) {
	var rows []models.DrawPreview
	q := r.db.WithContext(ctx).
		Table("draw_records AS d").
		Select(`d.phone,
			COALESCE((
				SELECT c.signer_name FROM checkins c
				WHERE c.exhibition_id = d.exhibition_id AND c.phone = d.phone
				ORDER BY c.checkin_time ASC, c.id ASC
				LIMIT 1
			), '') AS name,
			d.result, d.draw_time`).
		Where("d.exhibition_id = ?", exhibitionID).
		Order("d.draw_time DESC, d.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *drawRepository) DeleteByExhibition(ctx context.Context, tx *gorm.DB, exhibitionID uint) error {
	return tx.WithContext(ctx).
		Where("exhibition_id = ?", exhibitionID).
		Delete(&models.DrawRecord{}).Error
}
