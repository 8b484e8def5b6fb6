package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicmap/civic-reports/internal/core/domain"
	"github.com/civicmap/civic-reports/internal/core/ports"
)

// AuthService verifies credentials and mints access tokens.
type AuthService struct {
	users    ports.UserRepository
	hasher   PasswordHasher
	codec    *TokenCodec
	tokenTTL time.Duration
	// dummyHash keeps the bcrypt cost of a failed lookup in the same ballpark
	// as a real comparison, so an unknown email and a wrong password are not
	// trivially distinguishable by response time.
	dummyHash string
	log       zerolog.Logger
}

func NewAuthService(users ports.UserRepository, hasher PasswordHasher, codec *TokenCodec, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 30 * time.Minute
	}
	dummy, err := hasher.Hash("timing-equalizer")
	if err != nil {
		dummy = ""
	}
	return &AuthService{
		users:     users,
		hasher:    hasher,
		codec:     codec,
		tokenTTL:  tokenTTL,
		dummyHash: dummy,
		log:       log,
	}
}

// Authenticate verifies an email/password pair. Unknown email and wrong
// password collapse into the same ErrInvalidCredentials; the active flag is
// deliberately not checked here.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates, rejects inactive accounts with a distinct error, and
// returns a signed bearer token for the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, domain.ErrInactiveUser
	}

	token, err := s.codec.Issue(user.ID, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return token, user, nil
}
