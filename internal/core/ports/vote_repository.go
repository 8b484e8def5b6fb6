package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/civicmap/civic-reports/internal/core/domain"
)

// VoteRepository defines the persistence interface for report votes.
type VoteRepository interface {
	Create(ctx context.Context, vote *domain.Vote) error
	FindByUserAndReport(ctx context.Context, userID, reportID uuid.UUID) (*domain.Vote, error)
	UpdateValue(ctx context.Context, userID, reportID uuid.UUID, value domain.VoteValue) error
	Delete(ctx context.Context, userID, reportID uuid.UUID) error
}
