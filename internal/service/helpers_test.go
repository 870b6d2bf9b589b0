package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Eursukkul/expo-draw-service/internal/lottery"
	"github.com/Eursukkul/expo-draw-service/internal/models"
	"github.com/Eursukkul/expo-draw-service/internal/repository"
	"github.com/Eursukkul/expo-draw-service/pkg/database"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	keys   []string
	failed bool
}

func (p *recordingPublisher) Publish(routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	if p.failed {
		return errors.New("broker down")
	}
	return nil
}

func (p *recordingPublisher) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

type fixture struct {
	db          *gorm.DB
	publisher   *recordingPublisher
	exhibitions ExhibitionService
	checkins    CheckinService
	draws       DrawService
	settings    SettingsService
	reports     ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	exhibitionRepo := repository.NewExhibitionRepository(db)
	checkinRepo := repository.NewCheckinRepository(db)
	drawRepo := repository.NewDrawRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	pub := &recordingPublisher{}
	settings := NewSettingsService(settingsRepo, pub)
	engine := lottery.NewEngine(lottery.NewSeededSource(1, 2))

	return &fixture{
		db:          db,
		publisher:   pub,
		exhibitions: NewExhibitionService(exhibitionRepo, checkinRepo, drawRepo, pub),
		checkins:    NewCheckinService(checkinRepo, exhibitionRepo, pub),
		draws:       NewDrawService(drawRepo, exhibitionRepo, settings, engine, pub),
		settings:    settings,
		reports:     NewReportService(exhibitionRepo, checkinRepo, drawRepo),
	}
}

// activeExhibition creates an exhibition and activates it.
func (f *fixture) activeExhibition(t *testing.T, name string) *models.Exhibition {
	t.Helper()
	ctx := context.Background()
	e, err := f.exhibitions.Create(ctx, name)
	require.NoError(t, err)
	e, err = f.exhibitions.Activate(ctx, e.ID)
	require.NoError(t, err)
	return e
}

func (f *fixture) checkin(t *testing.T, signer, phone string) *models.CheckinRecord {
	t.Helper()
	rec, err := f.checkins.Checkin(context.Background(), CheckinInput{
		CompanyName: "Acme",
		SignerName:  signer,
		Phone:       phone,
		Location:    "Hall 1",
	})
	require.NoError(t, err)
	return rec
}

func (f *fixture) countDraws(t *testing.T, exhibitionID uint, phone string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.DrawRecord{}).
		Where("exhibition_id = ? AND phone = ?", exhibitionID, phone).
		Count(&n).Error)
	return n
}

func intPtr(v int) *int { return &v }
