package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/civicmap/civic-reports/internal/core/domain"
)

type VoteService interface {
	// Upsert applies a user's vote on a report: nil value removes an existing
	// vote, a repeated value is a no-op, anything else creates or updates.
	Upsert(ctx context.Context, userID, reportID uuid.UUID, value *domain.VoteValue) error
	Get(ctx context.Context, userID, reportID uuid.UUID) (*domain.Vote, error)
}
