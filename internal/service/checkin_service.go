package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Eursukkul/expo-draw-service/internal/apperr"
	"github.com/Eursukkul/expo-draw-service/internal/models"
	"github.com/Eursukkul/expo-draw-service/internal/repository"
	"github.com/google/logger"
	"gorm.io/gorm"
)

type CheckinInput struct {
	CompanyName string
	SignerName  string
	Phone       string
	Location    string
}

type CheckinService interface {
	Checkin(ctx context.Context, input CheckinInput) (*models.CheckinRecord, error)
	History(ctx context.Context, phone string) ([]models.CheckinHistory, error)
	ListForActive(ctx context.Context, limit int) ([]models.CheckinWithDraw, error)
}

type checkinService struct {
	checkinRepo    repository.CheckinRepository
	exhibitionRepo repository.ExhibitionRepository
	publisher      EventPublisher
}

func NewCheckinService(
	checkinRepo repository.CheckinRepository,
	exhibitionRepo repository.ExhibitionRepository,
	publisher EventPublisher,
) CheckinService {
	return &checkinService{
		checkinRepo:    checkinRepo,
		exhibitionRepo: exhibitionRepo,
		publisher:      publisher,
	}
}

// Checkin records an attendee under the exhibition that is active when its row
// lock is taken.
func (s *checkinService) Checkin(ctx context.Context, input CheckinInput) (*models.CheckinRecord, error) {
	record := &models.CheckinRecord{
		CompanyName: strings.TrimSpace(input.CompanyName),
		SignerName:  strings.TrimSpace(input.SignerName),
		Phone:       strings.TrimSpace(input.Phone),
		Location:    strings.TrimSpace(input.Location),
	}
	if record.CompanyName == "" || record.SignerName == "" || record.Phone == "" || record.Location == "" {
		return nil, ErrMissingField
	}
	if !models.ValidPhone(record.Phone) {
		return nil, ErrInvalidPhone
	}

	err := s.checkinRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		active, err := lockActive(ctx, s.exhibitionRepo, tx)
		if err != nil {
			return err
		}

		record.ExhibitionID = active.ID
		record.CheckinTime = time.Now().UTC()
		return s.checkinRepo.Create(ctx, tx, record)
	})
	if err != nil {
		return nil, asInternal("create checkin", err)
	}

	logger.Infof("[CheckinService] checkin %d for exhibition %d", record.ID, record.ExhibitionID)
	publish(s.publisher, EventCheckinCreated, record)
	return record, nil
}

// lockActiveAttempts bounds how often lockActive re-reads the active row after
// losing a race with an activation.
const lockActiveAttempts = 3

// lockActive returns the active exhibition locked for the rest of tx. The row
// is re-checked after locking, since an activation may commit between the read
// and the lock and leave the row inactive.
func lockActive(ctx context.Context, repo repository.ExhibitionRepository, tx *gorm.DB) (*models.Exhibition, error) {
	for range lockActiveAttempts {
		active, err := repo.FindActive(ctx, tx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveExhibition
		}
		if err != nil {
			return nil, err
		}

		locked, err := repo.FindByIDForUpdate(ctx, tx, active.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if locked.IsActive {
			return locked, nil
		}
		logger.Warningf("[CheckinService] exhibition %d deactivated before lock, retrying", active.ID)
	}
	return nil, ErrNoActiveExhibition
}

func (s *checkinService) History(ctx context.Context, phone string) ([]models.CheckinHistory, error) {
	phone = strings.TrimSpace(phone)
	if !models.ValidPhone(phone) {
		return nil, ErrInvalidPhone
	}

	rows, err := s.checkinRepo.FindHistoryByPhone(ctx, phone)
	if err != nil {
		return nil, apperr.Internal("load checkin history", err)
	}
	if rows == nil {
		rows = []models.CheckinHistory{}
	}
	return rows, nil
}

// ListForActive returns the active exhibition's check-ins with their draw
// results. A non-positive limit returns every row.
func (s *checkinService) ListForActive(ctx context.Context, limit int) ([]models.CheckinWithDraw, error) {
	active, err := s.exhibitionRepo.FindActive(ctx, s.exhibitionRepo.GetDB())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveExhibition
	}
	if err != nil {
		return nil, apperr.Internal("load active exhibition", err)
	}

	rows, err := s.checkinRepo.FindWithDrawResult(ctx, active.ID, limit)
	if err != nil {
		return nil, apperr.Internal("list checkins", err)
	}
	if rows == nil {
		rows = []models.CheckinWithDraw{}
	}
	return rows, nil
}
