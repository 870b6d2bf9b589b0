package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Eursukkul/expo-draw-service/internal/apperr"
	"github.com/Eursukkul/expo-draw-service/internal/lottery"
	"github.com/Eursukkul/expo-draw-service/internal/models"
	"github.com/Eursukkul/expo-draw-service/internal/repository"
	"github.com/Eursukkul/expo-draw-service/pkg/database"
	"github.com/google/logger"
	"gorm.io/gorm"
)

// SettingsReader is the slice of SettingsService a draw needs.
type SettingsReader interface {
	Get(ctx context.Context) (models.DrawSettings, error)
}

type DrawService interface {
	HasDrawn(ctx context.Context, exhibitionID uint, phone string) (bool, error)
	Draw(ctx context.Context, exhibitionID uint, phone string, settings models.DrawSettings) (*models.DrawOutcome, error)
	DrawForActive(ctx context.Context, phone string) (*models.DrawOutcome, error)
	Preview(ctx context.Context, exhibitionID uint, limit int) ([]models.DrawPreview, error)
	PreviewForActive(ctx context.Context, limit int) ([]models.DrawPreview, error)
}

type drawService struct {
	drawRepo       repository.DrawRepository
	exhibitionRepo repository.ExhibitionRepository
	settings       SettingsReader
	engine         *lottery.Engine
	publisher      EventPublisher
}

func NewDrawService(
	drawRepo repository.DrawRepository,
	exhibitionRepo repository.ExhibitionRepository,
	settings SettingsReader,
	engine *lottery.Engine,
	publisher EventPublisher,
) DrawService {
	return &drawService{
		drawRepo:       drawRepo,
		exhibitionRepo: exhibitionRepo,
		settings:       settings,
		engine:         engine,
		publisher:      publisher,
	}
}

func (s *drawService) HasDrawn(ctx context.Context, exhibitionID uint, phone string) (bool, error) {
	drawn, err := s.drawRepo.ExistsByExhibitionAndPhone(ctx, s.drawRepo.GetDB(), exhibitionID, phone)
	if err != nil {
		return false, apperr.Internal("check draw record", err)
	}
	return drawn, nil
}

// Draw runs one draw for phone and records it.
//
// The exhibition row is locked for the whole transaction, so the already-drawn
// check, the prize stock count and the insert form one unit per exhibition.
// The unique index on (exhibition_id, phone) is the last line: a violation
// still surfaces as ErrAlreadyDrawn.
func (s *drawService) Draw(ctx context.Context, exhibitionID uint, phone string, settings models.DrawSettings) (*models.DrawOutcome, error) {
	if !models.ValidPhone(phone) {
		return nil, ErrInvalidPhone
	}

	var record *models.DrawRecord

	err := s.drawRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.exhibitionRepo.FindByIDForUpdate(ctx, tx, exhibitionID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrExhibitionNotFound
			}
			return err
		}

		drawn, err := s.drawRepo.ExistsByExhibitionAndPhone(ctx, tx, exhibitionID, phone)
		if err != nil {
			return err
		}
		if drawn {
			return ErrAlreadyDrawn
		}

		decision, err := s.engine.Decide(settings, func(prizeName string) (int64, error) {
			return s.drawRepo.CountWinsByResult(ctx, tx, exhibitionID, prizeName)
		})
		if err != nil {
			return err
		}

		record = &models.DrawRecord{
			ExhibitionID: exhibitionID,
			Phone:        phone,
			DrawTime:     time.Now().UTC(),
			Result:       decision.Result,
			IsWin:        decision.IsWin,
		}
		if err := s.drawRepo.Create(ctx, tx, record); err != nil {
			if database.IsUniqueViolation(err) {
				return ErrAlreadyDrawn
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, asInternal("record draw", err)
	}

	logger.Infof("[DrawService] exhibition %d phone %s drew %q (win=%t)",
		exhibitionID, maskPhone(phone), record.Result, record.IsWin)
	publish(s.publisher, EventDrawRecorded, record)

	return &models.DrawOutcome{
		IsWin:    record.IsWin,
		Result:   record.Result,
		DrawTime: record.DrawTime,
	}, nil
}

// DrawForActive draws for phone in the active exhibition with the stored
// settings.
func (s *drawService) DrawForActive(ctx context.Context, phone string) (*models.DrawOutcome, error) {
	phone = strings.TrimSpace(phone)
	if !models.ValidPhone(phone) {
		return nil, ErrInvalidPhone
	}

	active, err := s.exhibitionRepo.FindActive(ctx, s.exhibitionRepo.GetDB())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveExhibition
	}
	if err != nil {
		return nil, apperr.Internal("load active exhibition", err)
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	return s.Draw(ctx, active.ID, phone, settings)
}

func (s *drawService) Preview(ctx context.Context, exhibitionID uint, limit int) ([]models.DrawPreview, error) {
	rows, err := s.drawRepo.FindPreview(ctx, exhibitionID, limit)
	if err != nil {
		return nil, apperr.Internal("load draw preview", err)
	}
	if rows == nil {
		rows = []models.DrawPreview{}
	}
	return rows, nil
}

func (s *drawService) PreviewForActive(ctx context.Context, limit int) ([]models.DrawPreview, error) {
	active, err := s.exhibitionRepo.FindActive(ctx, s.exhibitionRepo.GetDB())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveExhibition
	}
	if err != nil {
		return nil, apperr.Internal("load active exhibition", err)
	}
	return s.Preview(ctx, active.ID, limit)
}

// maskPhone keeps the first three and last four digits for logs.
func maskPhone(phone string) string {
	if len(phone) != 11 {
		return phone
	}
	return phone[:3] + "****" + phone[7:]
}
