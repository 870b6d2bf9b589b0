package handler

import (
	"context"
	"time"

	"github.com/Eursukkul/expo-draw-service/internal/models"
	"github.com/Eursukkul/expo-draw-service/internal/service"
)

// --- Mock ExhibitionService ---

type mockExhibitionService struct {
	getActiveFn func(ctx context.Context) (*models.Exhibition, error)
	listFn      func(ctx context.Context) ([]models.Exhibition, error)
	createFn    func(ctx context.Context, name string) (*models.Exhibition, error)
	activateFn  func(ctx context.Context, id uint) (*models.Exhibition, error)
	deleteFn    func(ctx context.Context, id uint, force bool) error
}

func (m *mockExhibitionService) SeedDefault(ctx context.Context, name string) error { return nil }
func (m *mockExhibitionService) EnsureActive(ctx context.Context) error             { return nil }
func (m *mockExhibitionService) GetActive(ctx context.Context) (*models.Exhibition, error) {
	return m.getActiveFn(ctx)
}
func (m *mockExhibitionService) List(ctx context.Context) ([]models.Exhibition, error) {
	return m.listFn(ctx)
}
func (m *mockExhibitionService) Create(ctx context.Context, name string) (*models.Exhibition, error) {
	return m.createFn(ctx, name)
}
func (m *mockExhibitionService) Activate(ctx context.Context, id uint) (*models.Exhibition, error) {
	return m.activateFn(ctx, id)
}
func (m *mockExhibitionService) Delete(ctx context.Context, id uint, force bool) error {
	return m.deleteFn(ctx, id, force)
}

// --- Mock CheckinService ---

type mockCheckinService struct {
	checkinFn func(ctx context.Context, input service.CheckinInput) (*models.CheckinRecord, error)
	historyFn func(ctx context.Context, phone string) ([]models.CheckinHistory, error)
	listFn    func(ctx context.Context, limit int) ([]models.CheckinWithDraw, error)
}

func (m *mockCheckinService) Checkin(ctx context.Context, input service.CheckinInput) (*models.CheckinRecord, error) {
	return m.checkinFn(ctx, input)
}
func (m *mockCheckinService) History(ctx context.Context, phone string) ([]models.CheckinHistory, error) {
	return m.historyFn(ctx, phone)
}
func (m *mockCheckinService) ListForActive(ctx context.Context, limit int) ([]models.CheckinWithDraw, error) {
	return m.listFn(ctx, limit)
}

// --- Mock DrawService ---

type mockDrawService struct {
	drawForActiveFn func(ctx context.Context, phone string) (*models.DrawOutcome, error)
	previewFn       func(ctx context.Context, limit int) ([]models.DrawPreview, error)
}

func (m *mockDrawService) HasDrawn(ctx context.Context, exhibitionID uint, phone string) (bool, error) {
	return false, nil
}
func (m *mockDrawService) Draw(ctx context.Context, exhibitionID uint, phone string, settings models.DrawSettings) (*models.DrawOutcome, error) {
	return nil, nil
}
func (m *mockDrawService) DrawForActive(ctx context.Context, phone string) (*models.DrawOutcome, error) {
	return m.drawForActiveFn(ctx, phone)
}
func (m *mockDrawService) Preview(ctx context.Context, exhibitionID uint, limit int) ([]models.DrawPreview, error) {
	return nil, nil
}
func (m *mockDrawService) PreviewForActive(ctx context.Context, limit int) ([]models.DrawPreview, error) {
	return m.previewFn(ctx, limit)
}

// --- Mock SettingsService ---

type mockSettingsService struct {
	getFn    func(ctx context.Context) (models.DrawSettings, error)
	updateFn func(ctx context.Context, update service.SettingsUpdate) (models.DrawSettings, error)
}

func (m *mockSettingsService) Get(ctx context.Context) (models.DrawSettings, error) {
	return m.getFn(ctx)
}
func (m *mockSettingsService) Update(ctx context.Context, update service.SettingsUpdate) (models.DrawSettings, error) {
	return m.updateFn(ctx, update)
}
func (m *mockSettingsService) SeedDefault(ctx context.Context, winRate float64) error { return nil }

// --- Mock ReportService ---

type mockReportService struct {
	summaryFn        func(ctx context.Context) (*service.Summary, error)
	exportCheckinsFn func(ctx context.Context) (*service.Report, error)
	exportDrawsFn    func(ctx context.Context) (*service.Report, error)
}

func (m *mockReportService) Summary(ctx context.Context) (*service.Summary, error) {
	return m.summaryFn(ctx)
}
func (m *mockReportService) ExportCheckins(ctx context.Context) (*service.Report, error) {
	return m.exportCheckinsFn(ctx)
}
func (m *mockReportService) ExportDraws(ctx context.Context) (*service.Report, error) {
	return m.exportDrawsFn(ctx)
}

// --- Mock Authenticator ---

type mockAuthenticator struct {
	checkFn func(username, password string) error
	issueFn func(username string) (string, time.Time, error)
}

func (m *mockAuthenticator) CheckCredentials(username, password string) error {
	return m.checkFn(username, password)
}
func (m *mockAuthenticator) IssueToken(username string) (string, time.Time, error) {
	return m.issueFn(username)
}
