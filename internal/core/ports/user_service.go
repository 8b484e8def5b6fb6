package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/civicmap/civic-reports/internal/core/domain"
)

// UserUpdate carries the mutable profile fields; nil means "leave unchanged".
type UserUpdate struct {
	Email *string
	Name  *string
}

// AdminUserUpdate additionally lets admins toggle activation and privilege.
type AdminUserUpdate struct {
	UserUpdate
	IsActive    *bool
	AccountType *domain.AccountType
}

// UserService covers profile self-management and the admin user surface.
type UserService interface {
	List(ctx context.Context, limit, skip int64) ([]domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// CreateByAdmin provisions an already-active account, bypassing activation.
	CreateByAdmin(ctx context.Context, email, password, name string, accountType domain.AccountType, isActive bool) (*domain.User, error)
	UpdateByAdmin(ctx context.Context, actor *domain.User, id uuid.UUID, update AdminUserUpdate) (*domain.User, error)
	DeleteByAdmin(ctx context.Context, actor *domain.User, id uuid.UUID) error

	UpdateProfile(ctx context.Context, user *domain.User, update UserUpdate) error
	UpdatePassword(ctx context.Context, user *domain.User, currentPassword, newPassword string) error
	DeleteSelf(ctx context.Context, user *domain.User) error
	// MakeAdmin promotes the caller while the database holds exactly one user.
	MakeAdmin(ctx context.Context, user *domain.User) error
}
