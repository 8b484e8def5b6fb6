package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/civicmap/civic-reports/internal/core/domain"
)

// CreateReportInput is the payload for submitting a new report.
type CreateReportInput struct {
	Title       string
	Description string
	ReportType  domain.ReportType
	Location    domain.Coordinates
}

// ReportEdit carries the mutable report fields; nil means "leave unchanged".
type ReportEdit struct {
	Title       *string
	Description *string
	ReportType  *domain.ReportType
	Location    *domain.Coordinates
}

type ReportService interface {
	Create(ctx context.Context, input CreateReportInput) (*domain.Report, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	ListInBounds(ctx context.Context, box domain.BoundingBox) ([]domain.Report, error)
	Edit(ctx context.Context, id uuid.UUID, edit ReportEdit) error
	ChangeStatus(ctx context.Context, id uuid.UUID, status domain.ReportStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}
