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

type ExhibitionService interface {
	SeedDefault(ctx context.Context, name string) error
	EnsureActive(ctx context.Context) error
	GetActive(ctx context.Context) (*models.Exhibition, error)
	List(ctx context.Context) ([]models.Exhibition, error)
	Create(ctx context.Context, name string) (*models.Exhibition, error)
	Activate(ctx context.Context, id uint) (*models.Exhibition, error)
	Delete(ctx context.Context, id uint, force bool) error
}

type exhibitionService struct {
	exhibitionRepo repository.ExhibitionRepository
	checkinRepo    repository.CheckinRepository
	drawRepo       repository.DrawRepository
	publisher      EventPublisher
}

func NewExhibitionService(
	exhibitionRepo repository.ExhibitionRepository,
	checkinRepo repository.CheckinRepository,
	drawRepo repository.DrawRepository,
	publisher EventPublisher,
) ExhibitionService {
	return &exhibitionService{
		exhibitionRepo: exhibitionRepo,
		checkinRepo:    checkinRepo,
		drawRepo:       drawRepo,
		publisher:      publisher,
	}
}

// SeedDefault creates an already-active exhibition named name when the
// registry is empty. An empty name disables seeding.
func (s *exhibitionService) SeedDefault(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	err := s.exhibitionRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := s.exhibitionRepo.Count(ctx, tx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		logger.Infof("[ExhibitionService] seeding default exhibition %q", name)
		return s.exhibitionRepo.Create(ctx, tx, &models.Exhibition{
			Name:      name,
			IsActive:  true,
			CreatedAt: time.Now().UTC(),
		})
	})
	if err != nil {
		return apperr.Internal("seed default exhibition", err)
	}
	return nil
}

// EnsureActive promotes the oldest exhibition when none is active. It is a
// no-op when an exhibition is already active or none exist.
func (s *exhibitionService) EnsureActive(ctx context.Context) error {
	err := s.exhibitionRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.exhibitionRepo.FindActive(ctx, tx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		oldest, err := s.exhibitionRepo.FindOldest(ctx, tx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		logger.Infof("[ExhibitionService] no active exhibition, promoting %d (%s)", oldest.ID, oldest.Name)
		return s.exhibitionRepo.SetActive(ctx, tx, oldest.ID)
	})
	if err != nil {
		return apperr.Internal("ensure active exhibition", err)
	}
	return nil
}

func (s *exhibitionService) GetActive(ctx context.Context) (*models.Exhibition, error) {
	exhibition, err := s.exhibitionRepo.FindActive(ctx, s.exhibitionRepo.GetDB())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveExhibition
	}
	if err != nil {
		return nil, apperr.Internal("load active exhibition", err)
	}
	return exhibition, nil
}

func (s *exhibitionService) List(ctx context.Context) ([]models.Exhibition, error) {
	exhibitions, err := s.exhibitionRepo.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal("list exhibitions", err)
	}
	return exhibitions, nil
}

func (s *exhibitionService) Create(ctx context.Context, name string) (*models.Exhibition, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrExhibitionNameEmpty
	}

	exhibition := &models.Exhibition{Name: name, CreatedAt: time.Now().UTC()}
	if err := s.exhibitionRepo.Create(ctx, s.exhibitionRepo.GetDB(), exhibition); err != nil {
		return nil, apperr.Internal("create exhibition", err)
	}

	publish(s.publisher, EventExhibitionCreated, exhibition)
	return exhibition, nil
}

// Activate makes id the only active exhibition. Clearing and setting happen in
// one transaction, so readers never observe zero or two active rows.
func (s *exhibitionService) Activate(ctx context.Context, id uint) (*models.Exhibition, error) {
	var result *models.Exhibition

	err := s.exhibitionRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.exhibitionRepo.LockAll(ctx, tx); err != nil {
			return err
		}
		exhibition, err := s.exhibitionRepo.FindByID(ctx, tx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExhibitionNotFound
		}
		if err != nil {
			return err
		}

		if err := s.exhibitionRepo.DeactivateAll(ctx, tx); err != nil {
			return err
		}
		if err := s.exhibitionRepo.SetActive(ctx, tx, id); err != nil {
			return err
		}

		exhibition.IsActive = true
		result = exhibition
		return nil
	})
	if err != nil {
		return nil, asInternal("activate exhibition", err)
	}

	logger.Infof("[ExhibitionService] exhibition %d (%s) activated", result.ID, result.Name)
	publish(s.publisher, EventExhibitionActivated, result)
	return result, nil
}

// Delete removes an inactive exhibition with its draw records and check-ins.
// An exhibition with check-ins is only deleted when force is set.
func (s *exhibitionService) Delete(ctx context.Context, id uint, force bool) error {
	var deleted *models.Exhibition

	err := s.exhibitionRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exhibition, err := s.exhibitionRepo.FindByIDForUpdate(ctx, tx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExhibitionNotFound
		}
		if err != nil {
			return err
		}
		if exhibition.IsActive {
			return ErrExhibitionActive
		}

		checkins, err := s.checkinRepo.CountByExhibition(ctx, tx, id)
		if err != nil {
			return err
		}
		if checkins > 0 && !force {
			return ErrExhibitionHasData
		}

		if err := s.drawRepo.DeleteByExhibition(ctx, tx, id); err != nil {
			return err
		}
		if err := s.checkinRepo.DeleteByExhibition(ctx, tx, id); err != nil {
			return err
		}
		if err := s.exhibitionRepo.Delete(ctx, tx, id); err != nil {
			return err
		}
		deleted = exhibition
		return nil
	})
	if err != nil {
		return asInternal("delete exhibition", err)
	}

	logger.Infof("[ExhibitionService] exhibition %d (%s) deleted, force=%t", deleted.ID, deleted.Name, force)
	publish(s.publisher, EventExhibitionDeleted, deleted)
	return nil
}

// asInternal passes domain errors through and wraps everything else.
func asInternal(message string, err error) error {
	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		return err
	}
	return apperr.Internal(message, err)
}
