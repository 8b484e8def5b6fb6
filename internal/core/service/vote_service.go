package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/civicmap/civic-reports/internal/core/domain"
	"github.com/civicmap/civic-reports/internal/core/ports"
)

// VoteService applies a user's votes on reports with upsert semantics.
type VoteService struct {
	votes   ports.VoteRepository
	reports ports.ReportRepository
	log     zerolog.Logger
}

func NewVoteService(votes ports.VoteRepository, reports ports.ReportRepository, log zerolog.Logger) *VoteService {
	return &VoteService{votes: votes, reports: reports, log: log}
}

// Upsert applies vote semantics: nil removes, repeated value no-ops, a new
// value creates or replaces the existing vote.
func (s *VoteService) Upsert(ctx context.Context, userID, reportID uuid.UUID, value *domain.VoteValue) error {
	if _, err := s.reports.FindByID(ctx, reportID); err != nil {
		return err
	}

	existing, err := s.votes.FindByUserAndReport(ctx, userID, reportID)
	if err != nil && !errors.Is(err, domain.ErrVoteNotFound) {
		return err
	}

	if existing == nil {
		if value == nil {
			return nil
		}
		vote := &domain.Vote{
			ID:        uuid.New(),
			UserID:    userID,
			ReportID:  reportID,
			VoteValue: *value,
		}
		return s.votes.Create(ctx, vote)
	}

	if value == nil {
		return s.votes.Delete(ctx, userID, reportID)
	}
	if existing.VoteValue == *value {
		return nil
	}
	return s.votes.UpdateValue(ctx, userID, reportID, *value)
}

func (s *VoteService) Get(ctx context.Context, userID, reportID uuid.UUID) (*domain.Vote, error) {
	return s.votes.FindByUserAndReport(ctx, userID, reportID)
}
