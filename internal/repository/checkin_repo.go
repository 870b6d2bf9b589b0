package repository

import (
	"context"

	"github.com/Eursukkul/expo-draw-service/internal/models"
	"gorm.io/gorm"
)

type CheckinRepository interface {
	Create(ctx context.Context, tx *gorm.DB, checkin *models.CheckinRecord) error
	CountByExhibition(ctx context.Context, tx *gorm.DB, exhibitionID uint) (int64, error)
	FindHistoryByPhone(ctx context.Context, phone string) ([]models.CheckinHistory, error)
	FindWithDrawResult(ctx context.Context, exhibitionID uint, limit int) ([]models.CheckinWithDraw, error)
	DeleteByExhibition(ctx context.Context, tx *gorm.DB, exhibitionID uint) error
	GetDB() *gorm.DB
}

type checkinRepository struct {
	db *gorm.DB
}

func NewCheckinRepository(db *gorm.DB) CheckinRepository {
	return &checkinRepository{db: db}
}

func (r *checkinRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *checkinRepository) Create(ctx context.Context, tx *gorm.DB, checkin *models.CheckinRecord) error {
	return tx.WithContext(ctx).Create(checkin).Error
}

func (r *checkinRepository) CountByExhibition(ctx context.Context, tx *gorm.DB, exhibitionID uint) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.CheckinRecord{}).
		Where("exhibition_id = ?", exhibitionID).
		Count(&count).Error
	return count, err
}

// FindHistoryByPhone returns the phone's check-ins across all exhibitions, newest first.
func (r *checkinRepository) FindHistoryByPhone(ctx context.Context, phone string) ([]models.CheckinHistory, error) {
	var rows []models.CheckinHistory
	err := r.db.WithContext(ctx).
		Table("checkins AS c").
		Select("c.*, e.name AS exhibition_name").
		Joins("JOIN exhibitions e ON c.exhibition_id = e.id").
		Where("c.phone = ?", phone).
		Order("c.checkin_time DESC, c.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindWithDrawResult returns the exhibition's check-ins, newest first, each with
// the result of the phone's first draw. A non-positive limit returns every row.
func (r *checkinRepository) FindWithDrawResult(ctx context.Context, exhibitionID uint, limit int) ([]models.CheckinWithDraw, error) {
	var rows []models.CheckinWithDraw
	q := r.db.WithContext(ctx).
		Table("checkins AS c").
		Select(`c.*, e.name AS exhibition_name,
			COALESCE((
				SELECT d.result FROM draw_records d
				WHERE d.exhibition_id = c.exhibition_id AND d.phone = c.phone
				ORDER BY d.draw_time ASC, d.id ASC
				LIMIT 1
			), '') AS draw_result`).
		Joins("JOIN exhibitions e ON c.exhibition_id = e.id").
		Where("c.exhibition_id = ?", exhibitionID).
		Order("c.checkin_time DESC, c.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *checkinRepository) DeleteByExhibition(ctx context.Context, tx *gorm.DB, exhibitionID uint) error {
	return tx.WithContext(ctx).
		Where("exhibition_id = ?", exhibitionID).
		Delete(&models.CheckinRecord{}).Error
}
