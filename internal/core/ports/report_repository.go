package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/civicmap/civic-reports/internal/core/domain"
)

// ReportRepository defines the persistence interface for civic reports.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	FindInBounds(ctx context.Context, box domain.BoundingBox) ([]domain.Report, error)
	Update(ctx context.Context, report *domain.Report) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReportStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}
