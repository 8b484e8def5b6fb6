package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civicmap/civic-reports/internal/core/domain"
)

const votesCollection = "votes"

type VoteRepository struct {
	coll *mongo.Collection
}

func NewVoteRepository(db *mongo.Database) *VoteRepository {
	return &VoteRepository{coll: db.Collection(votesCollection)}
}

type mongoVote struct {
	ID        string `bson:"_id"`
	UserID    string `bson:"user_id"`
	ReportID  string `bson:"report_id"`
	VoteValue string `bson:"vote_value"`
}

func (r *VoteRepository) Create(ctx context.Context, vote *domain.Vote) error {
	doc := mongoVote{
		ID:        vote.ID.String(),
		UserID:    vote.UserID.String(),
		ReportID:  vote.ReportID.String(),
		VoteValue: string(vote.VoteValue),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

func (r *VoteRepository) FindByUserAndReport(ctx context.Context, userID, reportID uuid.UUID) (*domain.Vote, error) {
	var mv mongoVote
	filter := bson.M{"user_id": userID.String(), "report_id": reportID.String()}
	if err := r.coll.FindOne(ctx, filter).Decode(&mv); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrVoteNotFound
		}
		return nil, fmt.Errorf("find vote: %w", err)
	}

	id, err := uuid.Parse(mv.ID)
	if err != nil {
		return nil, fmt.Errorf("parse vote id %q: %w", mv.ID, err)
	}
	return &domain.Vote{
		ID:        id,
		UserID:    userID,
		ReportID:  reportID,
		VoteValue: domain.VoteValue(mv.VoteValue),
	}, nil
}

func (r *VoteRepository) UpdateValue(ctx context.Context, userID, reportID uuid.UUID, value domain.VoteValue) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"user_id": userID.String(), "report_id": reportID.String()},
		bson.M{"$set": bson.M{"vote_value": string(value)}},
	)
	if err != nil {
		return fmt.Errorf("update vote: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVoteNotFound
	}
	return nil
}

func (r *VoteRepository) Delete(ctx context.Context, userID, reportID uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"user_id": userID.String(), "report_id": reportID.String()})
	if err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrVoteNotFound
	}
	return nil
}
