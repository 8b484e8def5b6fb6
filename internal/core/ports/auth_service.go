package ports

import (
	"context"

	"github.com/civicmap/civic-reports/internal/core/domain"
)

// AuthService issues access tokens for valid credentials.
type AuthService interface {
	// Authenticate verifies a login without checking the active flag.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	// Login authenticates, rejects inactive accounts, and mints a bearer token.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// AccountService orchestrates the signup and password-recovery lifecycles.
type AccountService interface {
	Signup(ctx context.Context, email, password, name string) error
	Activate(ctx context.Context, token string) error
	RequestPasswordRecovery(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}
