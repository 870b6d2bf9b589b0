package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Eursukkul/expo-draw-service/internal/apperr"
	"github.com/Eursukkul/expo-draw-service/internal/export"
	"github.com/Eursukkul/expo-draw-service/internal/models"
	"github.com/Eursukkul/expo-draw-service/internal/repository"
	"gorm.io/gorm"
)

type Summary struct {
	ActiveExhibition *models.Exhibition `json:"activeExhibition"`
	Checkins         int64              `json:"checkins"`
	Winners          int64              `json:"winners"`
}

// Report is a rendered spreadsheet ready to be served as an attachment.
type Report struct {
	FileName string
	Data     []byte
}

type ReportService interface {
	Summary(ctx context.Context) (*Summary, error)
	ExportCheckins(ctx context.Context) (*Report, error)
	ExportDraws(ctx context.Context) (*Report, error)
}

type reportService struct {
	exhibitionRepo repository.ExhibitionRepository
	checkinRepo    repository.CheckinRepository
	drawRepo       repository.DrawRepository
}

func NewReportService(
	exhibitionRepo repository.ExhibitionRepository,
	checkinRepo repository.CheckinRepository,
	drawRepo repository.DrawRepository,
) ReportService {
	return &reportService{
		exhibitionRepo: exhibitionRepo,
		checkinRepo:    checkinRepo,
		drawRepo:       drawRepo,
	}
}

func (s *reportService) Summary(ctx context.Context) (*Summary, error) {
	active, err := s.active(ctx)
	if err != nil {
		return nil, err
	}

	db := s.exhibitionRepo.GetDB()
	checkins, err := s.checkinRepo.CountByExhibition(ctx, db, active.ID)
	if err != nil {
		return nil, apperr.Internal("count checkins", err)
	}
	winners, err := s.drawRepo.CountWins(ctx, db, active.ID)
	if err != nil {
		return nil, apperr.Internal("count winners", err)
	}

	return &Summary{ActiveExhibition: active, Checkins: checkins, Winners: winners}, nil
}

// ExportCheckins renders every check-in of the active exhibition. Rows are
// read first and rendered outside any transaction.
func (s *reportService) ExportCheckins(ctx context.Context) (*Report, error) {
	active, err := s.active(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.checkinRepo.FindWithDrawResult(ctx, active.ID, 0)
	if err != nil {
		return nil, apperr.Internal("load checkins", err)
	}
	data, err := export.CheckinsWorkbook(rows)
	if err != nil {
		return nil, apperr.Internal("render checkins workbook", err)
	}
	return &Report{FileName: fmt.Sprintf("checkins_%d.xlsx", active.ID), Data: data}, nil
}

func (s *reportService) ExportDraws(ctx context.Context) (*Report, error) {
	active, err := s.active(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.drawRepo.FindPreview(ctx, active.ID, 0)
	if err != nil {
		return nil, apperr.Internal("load draws", err)
	}
	data, err := export.DrawsWorkbook(rows)
	if err != nil {
		return nil, apperr.Internal("render draws workbook", err)
	}
	return &Report{FileName: fmt.Sprintf("draws_%d.xlsx", active.ID), Data: data}, nil
}

func (s *reportService) active(ctx context.Context) (*models.Exhibition, error) {
	active, err := s.exhibitionRepo.FindActive(ctx, s.exhibitionRepo.GetDB())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveExhibition
	}
	if err != nil {
		return nil, apperr.Internal("load active exhibition", err)
	}
	return active, nil
}
