package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/civicmap/civic-reports/internal/core/domain"
)

// UserRepository defines the persistence interface for confirmed accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, limit, skip int64) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, newHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ActivationRepository stores unconfirmed signups.
type ActivationRepository interface {
	// Replace removes any pending activation for the same email before
	// inserting, so a later signup supersedes an earlier one.
	Replace(ctx context.Context, pending *domain.PendingActivation) error
	FindByToken(ctx context.Context, token string) (*domain.PendingActivation, error)
	// Promote materialises the confirmed user and deletes the pending record
	// in a single transactional unit. Returns domain.ErrUserExists when an
	// account with the same email was created concurrently.
	Promote(ctx context.Context, pending *domain.PendingActivation, user *domain.User) error
}

// ResetRequestRepository stores outstanding password-recovery requests. The
// stored row doubles as the token's consumption marker: a reset requires the
// row to still exist, and a successful reset deletes every row for the
// address, so a token cannot be replayed within its TTL.
type ResetRequestRepository interface {
	Create(ctx context.Context, req *domain.PasswordResetRequest) error
	FindByToken(ctx context.Context, token string) (*domain.PasswordResetRequest, error)
	DeleteByEmail(ctx context.Context, email string) error
}
