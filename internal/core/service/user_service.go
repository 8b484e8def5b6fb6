package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/civicmap/civic-reports/internal/core/domain"
	"github.com/civicmap/civic-reports/internal/core/ports"
)

// UserService covers profile self-management and the admin user surface.
type UserService struct {
	users  ports.UserRepository
	hasher PasswordHasher
	log    zerolog.Logger
}

func NewUserService(users ports.UserRepository, hasher PasswordHasher, log zerolog.Logger) *UserService {
	return &UserService{users: users, hasher: hasher, log: log}
}

func (s *UserService) List(ctx context.Context, limit, skip int64) ([]domain.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}
	return s.users.List(ctx, limit, skip)
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// CreateByAdmin provisions an account directly, bypassing the activation flow.
func (s *UserService) CreateByAdmin(ctx context.Context, email, password, name string, accountType domain.AccountType, isActive bool) (*domain.User, error) {
	if !accountType.IsValid() {
		accountType = domain.AccountUser
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		IsActive:     isActive,
		AccountType:  accountType,
		Name:         name,
		CreatedOn:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID.String()).Str("account_type", string(accountType)).Msg("user created by admin")
	return user, nil
}

func (s *UserService) UpdateByAdmin(ctx context.Context, actor *domain.User, id uuid.UUID, update ports.AdminUserUpdate) (*domain.User, error) {
	if actor.ID == id {
		return nil, domain.ErrSelfUpdate
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Email != nil && *update.Email != user.Email {
		if err := s.checkEmailFree(ctx, *update.Email, id); err != nil {
			return nil, err
		}
		user.Email = *update.Email
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.IsActive != nil {
		user.IsActive = *update.IsActive
	}
	if update.AccountType != nil {
		if !update.AccountType.IsValid() {
			return nil, domain.ErrForbidden
		}
		user.AccountType = *update.AccountType
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteByAdmin(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	if actor.ID == id {
		return domain.ErrSelfDeletion
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, user *domain.User, update ports.UserUpdate) error {
	if update.Email != nil && *update.Email != user.Email {
		if err := s.checkEmailFree(ctx, *update.Email, user.ID); err != nil {
			return err
		}
		user.Email = *update.Email
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	return s.users.Update(ctx, user)
}

// UpdatePassword changes the caller's password after re-verifying the current
// one. Reusing the current password is rejected.
func (s *UserService) UpdatePassword(ctx context.Context, user *domain.User, currentPassword, newPassword string) error {
	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}
	if currentPassword == newPassword {
		return domain.ErrSamePassword
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hash)
}

func (s *UserService) DeleteSelf(ctx context.Context, user *domain.User) error {
	if user.AccountType == domain.AccountAdmin {
		return domain.ErrSelfDeletion
	}
	return s.users.Delete(ctx, user.ID)
}

// MakeAdmin is the bootstrap path for a fresh deployment: the single existing
// user may promote themselves to admin.
func (s *UserService) MakeAdmin(ctx context.Context, user *domain.User) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if count != 1 {
		return domain.ErrNotBootstrap
	}
	user.AccountType = domain.AccountAdmin
	return s.users.Update(ctx, user)
}

func (s *UserService) checkEmailFree(ctx context.Context, email string, selfID uuid.UUID) error {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return domain.ErrUserExists
	}
	return nil
}
