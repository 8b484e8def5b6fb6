package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civicmap/civic-reports/internal/core/domain"
)

const resetsCollection = "reset_requests"

type ResetRequestRepository struct {
	coll *mongo.Collection
}

func NewResetRequestRepository(db *mongo.Database) *ResetRequestRepository {
	return &ResetRequestRepository{coll: db.Collection(resetsCollection)}
}

type mongoResetRequest struct {
	Token     string    `bson:"_id"`
	Email     string    `bson:"email"`
	UserID    string    `bson:"user_id"`
	CreatedOn time.Time `bson:"created_on"`
	ExpireOn  time.Time `bson:"expire_on"`
}

func (r *ResetRequestRepository) Create(ctx context.Context, req *domain.PasswordResetRequest) error {
	doc := mongoResetRequest{
		Token:     req.Token,
		Email:     req.Email,
		UserID:    req.UserID.String(),
		CreatedOn: req.CreatedOn.UTC(),
		ExpireOn:  req.ExpireOn.UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert reset request: %w", err)
	}
	return nil
}

func (r *ResetRequestRepository) FindByToken(ctx context.Context, token string) (*domain.PasswordResetRequest, error) {
	var mr mongoResetRequest
	if err := r.coll.FindOne(ctx, bson.M{"_id": token}).Decode(&mr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("find reset request: %w", err)
	}
	userID, err := uuid.Parse(mr.UserID)
	if err != nil {
		return nil, fmt.Errorf("parse reset user id %q: %w", mr.UserID, err)
	}
	return &domain.PasswordResetRequest{
		Email:     mr.Email,
		UserID:    userID,
		Token:     mr.Token,
		CreatedOn: mr.CreatedOn.UTC(),
		ExpireOn:  mr.ExpireOn.UTC(),
	}, nil
}

func (r *ResetRequestRepository) DeleteByEmail(ctx context.Context, email string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"email": email}); err != nil {
		return fmt.Errorf("delete reset requests: %w", err)
	}
	return nil
}
