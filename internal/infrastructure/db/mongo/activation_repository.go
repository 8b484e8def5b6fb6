package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civicmap/civic-reports/internal/core/domain"
)

const activationsCollection = "pending_activations"

type ActivationRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewActivationRepository(db *mongo.Database) *ActivationRepository {
	return &ActivationRepository{db: db, coll: db.Collection(activationsCollection)}
}

type mongoActivation struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	Name         string    `bson:"name"`
	PasswordHash string    `bson:"password_hash"`
	Token        string    `bson:"token"`
	CreatedOn    time.Time `bson:"created_on"`
	ExpireOn     time.Time `bson:"expire_on"`
}

func toMongoActivation(p *domain.PendingActivation) mongoActivation {
	return mongoActivation{
		ID:           p.ID.String(),
		Email:        p.Email,
		Name:         p.Name,
		PasswordHash: p.PasswordHash,
		Token:        p.Token,
		CreatedOn:    p.CreatedOn.UTC(),
		ExpireOn:     p.ExpireOn.UTC(),
	}
}

func (ma mongoActivation) toDomain() (*domain.PendingActivation, error) {
	id, err := uuid.Parse(ma.ID)
	if err != nil {
		return nil, fmt.Errorf("parse activation id %q: %w", ma.ID, err)
	}
	return &domain.PendingActivation{
		ID:           id,
		Email:        ma.Email,
		Name:         ma.Name,
		PasswordHash: ma.PasswordHash,
		Token:        ma.Token,
		CreatedOn:    ma.CreatedOn.UTC(),
		ExpireOn:     ma.ExpireOn.UTC(),
	}, nil
}

// Replace drops any pending activation for the same email and inserts the new
// one, so the latest signup always owns the address.
func (r *ActivationRepository) Replace(ctx context.Context, pending *domain.PendingActivation) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"email": pending.Email}); err != nil {
		return fmt.Errorf("replace pending activation: %w", err)
	}
	if _, err := r.coll.InsertOne(ctx, toMongoActivation(pending)); err != nil {
		return fmt.Errorf("insert pending activation: %w", err)
	}
	return nil
}

func (r *ActivationRepository) FindByToken(ctx context.Context, token string) (*domain.PendingActivation, error) {
	var ma mongoActivation
	if err := r.coll.FindOne(ctx, bson.M{"token": token}).Decode(&ma); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrActivationNotFound
		}
		return nil, fmt.Errorf("find pending activation: %w", err)
	}
	return ma.toDomain()
}

// Promote inserts the confirmed user and deletes the pending record inside a
// single transaction, so a crash between the two steps cannot leave orphaned
// state. The users email index turns a concurrent activation into
// domain.ErrUserExists.
func (r *ActivationRepository) Promote(ctx context.Context, pending *domain.PendingActivation, user *domain.User) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	users := r.db.Collection(usersCollection)
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		if _, err := users.InsertOne(sc, toMongoUser(user)); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.ErrUserExists
			}
			return nil, fmt.Errorf("insert user: %w", err)
		}
		if _, err := r.coll.DeleteMany(sc, bson.M{"email": pending.Email}); err != nil {
			return nil, fmt.Errorf("delete pending activation: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("promote activation: %w", err)
	}
	return nil
}
