package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/civicmap/civic-reports/internal/core/domain"
	"github.com/civicmap/civic-reports/internal/core/ports"
)

// ReportService manages geolocated civic reports and their moderation state.
type ReportService struct {
	repo ports.ReportRepository
	log  zerolog.Logger
}

func NewReportService(repo ports.ReportRepository, log zerolog.Logger) *ReportService {
	return &ReportService{repo: repo, log: log}
}

func (s *ReportService) Create(ctx context.Context, input ports.CreateReportInput) (*domain.Report, error) {
	if !input.ReportType.IsValid() {
		return nil, domain.ErrInvalidReportType
	}
	report := &domain.Report{
		ID:           uuid.New(),
		Title:        input.Title,
		Description:  input.Description,
		ReportType:   input.ReportType,
		Status:       domain.StatusActive,
		Location:     input.Location,
		CreationTime: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("report_id", report.ID.String()).
		Str("report_type", string(report.ReportType)).
		Msg("report created")
	return report, nil
}

func (s *ReportService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ReportService) ListInBounds(ctx context.Context, box domain.BoundingBox) ([]domain.Report, error) {
	return s.repo.FindInBounds(ctx, box)
}

func (s *ReportService) Edit(ctx context.Context, id uuid.UUID, edit ports.ReportEdit) error {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if edit.Title != nil {
		report.Title = *edit.Title
	}
	if edit.Description != nil {
		report.Description = *edit.Description
	}
	if edit.ReportType != nil {
		if !edit.ReportType.IsValid() {
			return domain.ErrInvalidReportType
		}
		report.ReportType = *edit.ReportType
	}
	if edit.Location != nil {
		report.Location = *edit.Location
	}
	now := time.Now().UTC()
	report.LastUpdatedTime = &now

	return s.repo.Update(ctx, report)
}

func (s *ReportService) ChangeStatus(ctx context.Context, id uuid.UUID, status domain.ReportStatus) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.log.Info().Str("report_id", id.String()).Str("status", string(status)).Msg("report status changed")
	return nil
}

func (s *ReportService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
