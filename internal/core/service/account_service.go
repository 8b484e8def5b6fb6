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

// MailThrottle abstracts the per-address rate limit on lifecycle mails (Redis).
type MailThrottle interface {
	// Allow reports whether a mail of the given kind may be sent to the
	// address now, and records the attempt when it may.
	Allow(ctx context.Context, kind, email string) (bool, error)
}

// AccountService orchestrates signup, activation, and password recovery.
type AccountService struct {
	users       ports.UserRepository
	activations ports.ActivationRepository
	resets      ports.ResetRequestRepository
	hasher      PasswordHasher
	mailTokens  *MailTokenIssuer
	mailer      ports.Mailer
	throttle    MailThrottle
	baseURL     string
	log         zerolog.Logger
}

func NewAccountService(
	users ports.UserRepository,
	activations ports.ActivationRepository,
	resets ports.ResetRequestRepository,
	hasher PasswordHasher,
	mailTokens *MailTokenIssuer,
	mailer ports.Mailer,
	throttle MailThrottle,
	baseURL string,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		users:       users,
		activations: activations,
		resets:      resets,
		hasher:      hasher,
		mailTokens:  mailTokens,
		mailer:      mailer,
		throttle:    throttle,
		baseURL:     baseURL,
		log:         log,
	}
}

// Signup records a pending activation and mails the activation link. When an
// account with the email already exists nothing is created and no error is
// returned: the caller's generic acknowledgment must not disclose whether the
// address is registered. A repeated signup for the same email replaces the
// earlier pending record.
func (s *AccountService) Signup(ctx context.Context, email, password, name string) error {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		s.log.Debug().Str("email", email).Msg("signup for existing account suppressed")
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	token, err := s.mailTokens.Issue(email)
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	pending := &domain.PendingActivation{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Token:        token,
		CreatedOn:    now,
		ExpireOn:     now.Add(s.mailTokens.TTL()),
	}
	if err := s.activations.Replace(ctx, pending); err != nil {
		return err
	}

	body := renderMail(activationTemplate, mailData{
		Name:  name,
		Link:  activationLink(s.baseURL, token),
		Hours: int(s.mailTokens.TTL().Hours()),
	})
	s.dispatchMail(ctx, "activation", email, activationSubject, body)
	return nil
}

// Activate promotes a pending activation into an active account. Expiry is
// checked lazily here; expired rows simply linger until replaced or
// garbage-collected externally.
func (s *AccountService) Activate(ctx context.Context, token string) error {
	pending, err := s.activations.FindByToken(ctx, token)
	if err != nil {
		return err
	}
	if pending.Expired(time.Now().UTC()) {
		return domain.ErrTokenExpired
	}

	// Race guard: a concurrent activation or admin-created account wins.
	if _, err := s.users.FindByEmail(ctx, pending.Email); err == nil {
		return domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		IsActive:     true,
		AccountType:  domain.AccountUser,
		Name:         pending.Name,
		CreatedOn:    pending.CreatedOn,
	}
	if err := s.activations.Promote(ctx, pending, user); err != nil {
		return err
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("account activated")
	return nil
}

// RequestPasswordRecovery mails a reset link when the email belongs to a
// known account. Unknown addresses perform no side effect; the caller answers
// with the same generic acknowledgment either way.
func (s *AccountService) RequestPasswordRecovery(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Str("email", email).Msg("recovery for unknown address suppressed")
			return nil
		}
		return err
	}

	token, err := s.mailTokens.Issue(email)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	req := &domain.PasswordResetRequest{
		Email:     email,
		UserID:    user.ID,
		Token:     token,
		CreatedOn: now,
		ExpireOn:  now.Add(s.mailTokens.TTL()),
	}
	if err := s.resets.Create(ctx, req); err != nil {
		return err
	}

	body := renderMail(recoveryTemplate, mailData{
		Name:  user.Name,
		Link:  recoveryLink(s.baseURL, token),
		Hours: int(s.mailTokens.TTL().Hours()),
	})
	s.dispatchMail(ctx, "recovery", email, recoverySubject, body)
	return nil
}

// ResetPassword verifies the reset token signature, requires the matching
// stored request to still exist, stores the new hash, and consumes all
// outstanding reset requests for the address. Consuming the rows makes the
// token single use: a replay within its TTL fails the stored-request check.
// Prior access tokens stay valid until their natural expiry.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	email, ok := s.mailTokens.Verify(token)
	if !ok {
		return domain.ErrTokenInvalid
	}
	if _, err := s.resets.FindByToken(ctx, token); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return domain.ErrInactiveUser
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	if err := s.resets.DeleteByEmail(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to consume reset requests")
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("password reset")
	return nil
}

// dispatchMail applies the throttle and hands the mail to the dispatcher.
// Delivery problems never roll back the lifecycle action that triggered them.
func (s *AccountService) dispatchMail(ctx context.Context, kind, to, subject, body string) {
	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, kind, to)
		if err != nil {
			s.log.Warn().Err(err).Str("email", to).Msg("mail throttle check failed, sending anyway")
		} else if !allowed {
			s.log.Debug().Str("email", to).Str("kind", kind).Msg("mail suppressed by throttle")
			return
		}
	}
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		s.log.Error().Err(err).Str("email", to).Str("kind", kind).Msg("failed to dispatch mail")
	}
}
