package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/Eursukkul/expo-draw-service/internal/apperr"
	"github.com/Eursukkul/expo-draw-service/internal/models"
	"github.com/Eursukkul/expo-draw-service/internal/repository"
	"github.com/google/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PrizeUpdate is one prize as submitted by an admin. Weight and Qty hold
// whatever the JSON decoder produced and are coerced on write.
type PrizeUpdate struct {
	Name   string
	Weight any
	Qty    any
}

type SettingsUpdate struct {
	WinRate any
	Prizes  []PrizeUpdate
}

type SettingsService interface {
	Get(ctx context.Context) (models.DrawSettings, error)
	Update(ctx context.Context, update SettingsUpdate) (models.DrawSettings, error)
	SeedDefault(ctx context.Context, winRate float64) error
}

type settingsService struct {
	repo      repository.SettingsRepository
	publisher EventPublisher
}

func NewSettingsService(repo repository.SettingsRepository, publisher EventPublisher) SettingsService {
	return &settingsService{repo: repo, publisher: publisher}
}

// Get returns the stored draw settings, or a zero win rate with no prizes when
// nothing has been stored yet.
func (s *settingsService) Get(ctx context.Context) (models.DrawSettings, error) {
	setting, err := s.repo.FindByKey(ctx, s.repo.GetDB(), models.SettingKeyDraw)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DrawSettings{WinRate: 0, Prizes: []models.Prize{}}, nil
	}
	if err != nil {
		return models.DrawSettings{}, apperr.Internal("load draw settings", err)
	}

	settings := setting.Value.Data()
	if settings.Prizes == nil {
		settings.Prizes = []models.Prize{}
	}
	return settings, nil
}

// Update normalizes the submitted settings and replaces the stored record.
func (s *settingsService) Update(ctx context.Context, update SettingsUpdate) (models.DrawSettings, error) {
	settings := NormalizeSettings(update)

	setting := &models.Setting{Key: models.SettingKeyDraw, Value: datatypes.NewJSONType(settings)}
	if err := s.repo.Upsert(ctx, s.repo.GetDB(), setting); err != nil {
		return models.DrawSettings{}, apperr.Internal("store draw settings", err)
	}

	logger.Infof("[SettingsService] draw settings updated: winRate=%.4f prizes=%d", settings.WinRate, len(settings.Prizes))
	publish(s.publisher, EventSettingsUpdated, settings)
	return settings, nil
}

func (s *settingsService) SeedDefault(ctx context.Context, winRate float64) error {
	setting := &models.Setting{
		Key:   models.SettingKeyDraw,
		Value: datatypes.NewJSONType(models.DrawSettings{WinRate: clampUnit(winRate), Prizes: []models.Prize{}}),
	}
	if err := s.repo.CreateIfMissing(ctx, s.repo.GetDB(), setting); err != nil {
		return apperr.Internal("seed draw settings", err)
	}
	return nil
}

// NormalizeSettings clamps the win rate into [0, 1], coerces weights to
// non-negative numbers and quantities to non-negative integers or unlimited.
func NormalizeSettings(update SettingsUpdate) models.DrawSettings {
	prizes := make([]models.Prize, 0, len(update.Prizes))
	for _, p := range update.Prizes {
		prizes = append(prizes, models.Prize{
			Name:   p.Name,
			Weight: coerceWeight(p.Weight),
			Qty:    coerceQty(p.Qty),
		})
	}

	rate, ok := toNumber(update.WinRate)
	if !ok {
		rate = 0
	}
	return models.DrawSettings{WinRate: clampUnit(rate), Prizes: prizes}
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

func coerceWeight(v any) float64 {
	w, ok := toNumber(v)
	if !ok || math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}

// coerceQty accepts only finite JSON numbers; strings and negatives mean unlimited.
func coerceQty(v any) *int {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	q := int(math.Min(math.Floor(f), math.MaxInt32))
	return &q
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
