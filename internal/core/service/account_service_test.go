package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicmap/civic-reports/internal/core/domain"
)

type stubActivationRepo struct {
	pending map[string]*domain.PendingActivation // keyed by token
	users   *stubUserRepo
}

func newStubActivationRepo(users *stubUserRepo) *stubActivationRepo {
	return &stubActivationRepo{pending: make(map[string]*domain.PendingActivation), users: users}
}

func (r *stubActivationRepo) Replace(_ context.Context, pending *domain.PendingActivation) error {
	for token, p := range r.pending {
		if p.Email == pending.Email {
			delete(r.pending, token)
		}
	}
	clone := *pending
	r.pending[pending.Token] = &clone
	return nil
}

func (r *stubActivationRepo) FindByToken(_ context.Context, token string) (*domain.PendingActivation, error) {
	if p, ok := r.pending[token]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, domain.ErrActivationNotFound
}

func (r *stubActivationRepo) Promote(ctx context.Context, pending *domain.PendingActivation, user *domain.User) error {
	if err := r.users.Create(ctx, user); err != nil {
		return err
	}
	for token, p := range r.pending {
		if p.Email == pending.Email {
			delete(r.pending, token)
		}
	}
	return nil
}

type stubResetRepo struct {
	requests map[string]*domain.PasswordResetRequest // keyed by token
}

func newStubResetRepo() *stubResetRepo {
	return &stubResetRepo{requests: make(map[string]*domain.PasswordResetRequest)}
}

func (r *stubResetRepo) Create(_ context.Context, req *domain.PasswordResetRequest) error {
	clone := *req
	r.requests[req.Token] = &clone
	return nil
}

func (r *stubResetRepo) FindByToken(_ context.Context, token string) (*domain.PasswordResetRequest, error) {
	if req, ok := r.requests[token]; ok {
		clone := *req
		return &clone, nil
	}
	return nil, domain.ErrTokenInvalid
}

func (r *stubResetRepo) DeleteByEmail(_ context.Context, email string) error {
	for token, req := range r.requests {
		if req.Email == email {
			delete(r.requests, token)
		}
	}
	return nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

// captureMailer records mails instead of delivering them.
type captureMailer struct {
	sent []sentMail
}

func (m *captureMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

// allowAllThrottle never suppresses a mail.
type allowAllThrottle struct{}

func (allowAllThrottle) Allow(context.Context, string, string) (bool, error) { return true, nil }

// denyThrottle suppresses every mail.
type denyThrottle struct{}

func (denyThrottle) Allow(context.Context, string, string) (bool, error) { return false, nil }

type accountFixture struct {
	users       *stubUserRepo
	activations *stubActivationRepo
	resets      *stubResetRepo
	mailer      *captureMailer
	svc         *AccountService
}

func newAccountFixture(t *testing.T, throttle MailThrottle) *accountFixture {
	t.Helper()
	users := newStubUserRepo()
	activations := newStubActivationRepo(users)
	resets := newStubResetRepo()
	mailer := &captureMailer{}
	svc := NewAccountService(
		users, activations, resets,
		NewPasswordHasher(),
		NewMailTokenIssuer("mail-secret", 24*time.Hour),
		mailer, throttle,
		"http://localhost:8080",
		zerolog.Nop(),
	)
	return &accountFixture{users: users, activations: activations, resets: resets, mailer: mailer, svc: svc}
}

func TestAccountService_Signup_CreatesPendingAndMails(t *testing.T) {
	f := newAccountFixture(t, allowAllThrottle{})

	if err := f.svc.Signup(context.Background(), "alice@example.com", "s3cret-pass", "Alice"); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	if len(f.activations.pending) != 1 {
		t.Fatalf("expected 1 pending activation, got %d", len(f.activations.pending))
	}
	for _, p := range f.activations.pending {
		if p.Email != "alice@example.com" || p.Name != "Alice" {
			t.Fatalf("unexpected pending record: %+v", p)
		}
		if p.PasswordHash == "s3cret-pass" {
			t.Fatalf("expected password to be hashed in pending record")
		}
		if !p.ExpireOn.After(p.CreatedOn) {
			t.Fatalf("expected expiry after creation")
		}
	}

	if len(f.mailer.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(f.mailer.sent))
	}
	if f.mailer.sent[0].to != "alice@example.com" {
		t.Fatalf("mail went to %q", f.mailer.sent[0].to)
	}
}

func TestAccountService_Signup_ExistingEmailSuppressed(t *testing.T) {
	f := newAccountFixture(t, allowAllThrottle{})
	seedUser(t, f.users, "taken@example.com", "whatever1", true, domain.AccountUser)

	// No error and no pending record: the caller's acknowledgment must not
	// disclose that the address is registered.
	if err := f.svc.Signup(context.Background(), "taken@example.com", "new-pass-1", "Imposter"); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if len(f.activations.pending) != 0 {
		t.Fatalf("expected no pending activation, got %d", len(f.activations.pending))
	}
	if len(f.mailer.sent) != 0 {
		t.Fatalf("expected no mail, got %d", len(f.mailer.sent))
	}
}

func TestAccountService_Signup_RepeatReplacesPending(t *testing.T) {
	f := newAccountFixture(t, allowAllThrottle{})

	if err := f.svc.Signup(context.Background(), "bob@example.com", "first-pass", "Bob"); err != nil {
		t.Fatalf("first Signup: %v", err)
	}
	if err := f.svc.Signup(context.Background(), "bob@example.com", "second-pass", "Bobby"); err != nil {
		t.Fatalf("second Signup: %v", err)
	}

	if len(f.activations.pending) != 1 {
		t.Fatalf("expected the later signup to replace the earlier one, got %d records", len(f.activations.pending))
	}
	for _, p := range f.activations.pending {
		if p.Name != "Bobby" {
			t.Fatalf("expected latest signup data, got %+v", p)
		}
	}
}

func TestAccountService_SignupThenActivateThenLogin(t *testing.T) {
	f := newAccountFixture(t, allowAllThrottle{})

	if err := f.svc.Signup(context.Background(), "carol@example.com", "s3cret-pass", "Carol"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	var token string
	for tok := range f.activations.pending {
		token = tok
	}

	if err := f.svc.Activate(context.Background(), token); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if len(f.activations.pending) != 0 {
		t.Fatalf("expected pending record consumed")
	}

	user, err := f.users.FindByEmail(context.Background(), "carol@example.com")
	if err != nil {
		t.Fatalf("activated user not found: %v", err)
	}
	if !user.IsActive || user.AccountType != domain.AccountUser {
		t.Fatalf("unexpected activated user: %+v", user)
	}

	auth := NewAuthService(f.users, NewPasswordHasher(), NewTokenCodec("test-secret"), time.Hour, zerolog.Nop())
	if _, _, err := auth.Login(context.Background(), "carol@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("login after activation failed: %v", err)
	}
}

func TestAccountService_Activate_UnknownToken(t *testing.T) {
	f := newAccountFixture(t, allowAllThrottle{})

	if err := f.svc.Activate(context.Background(), "no-such-token"); !errors.Is(err, domain.ErrActivationNotFound) {
		t.Fatalf("expected ErrActivationNotFound, got %v", err)
	}
}

func TestAccountService_Activate_Expired(t *testing.T) {
	f := newAccountFixture(t, allowAllThrottle{})

	now := time.Now().UTC()
	pending := &domain.PendingActivation{
		Email:        "late@example.com",
		Name:         "Late",
		PasswordHash: "hash",
		Token:        "expired-token",
		CreatedOn:    now.Add(-48 * time.Hour),
		ExpireOn:     now.Add(-24 * time.Hour),
	}
	if err := f.activations.Replace(context.Background(), pending); err != nil {
		t.Fatalf("seed pending: %v", err)
	}

	if err := f.svc.Activate(context.Background(), "expired-token"); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestAccountService_Activate_RaceWithExistingAccount(t *testing.T) {
	f := newAccountFixture(t, allowAllThrottle{})

	if err := f.svc.Signup(context.Background(), "dup@example.com", "s3cret-pass", "Dup"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	var token string
	for tok := range f.activations.pending {
		token = tok
	}

	// An account with the same email appears before activation completes.
	seedUser(t, f.users, "dup@example.com", "whatever1", true, domain.AccountUser)

	if err := f.svc.Activate(context.Background(), token); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAccountService_RecoverPassword_KnownEmail(t *testing.T) {
	f := newAccountFixture(t, allowAllThrottle{})
	seedUser(t, f.users, "erin@example.com", "old-pass-1", true, domain.AccountUser)

	if err := f.svc.RequestPasswordRecovery(context.Background(), "erin@example.com"); err != nil {
		t.Fatalf("RequestPasswordRecovery: %v", err)
	}
	if len(f.resets.requests) != 1 {
		t.Fatalf("expected 1 reset request, got %d", len(f.resets.requests))
	}
	if len(f.mailer.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(f.mailer.sent))
	}
}

func TestAccountService_RecoverPassword_UnknownEmailSuppressed(t *testing.T) {
	f := newAccountFixture(t, allowAllThrottle{})

	if err := f.svc.RequestPasswordRecovery(context.Background(), "ghost@example.com"); err != nil {
		t.Fatalf("expected no error for unknown address, got %v", err)
	}
	if len(f.resets.requests) != 0 || len(f.mailer.sent) != 0 {
		t.Fatalf("expected no side effects for unknown address")
	}
}

func TestAccountService_ResetPassword_Success(t *testing.T) {
	f := newAccountFixture(t, allowAllThrottle{})
	seedUser(t, f.users, "frank@example.com", "old-pass-1", true, domain.AccountUser)

	if err := f.svc.RequestPasswordRecovery(context.Background(), "frank@example.com"); err != nil {
		t.Fatalf("RequestPasswordRecovery: %v", err)
	}
	var token string
	for tok := range f.resets.requests {
		token = tok
	}

	if err := f.svc.ResetPassword(context.Background(), token, "new-pass-22"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if len(f.resets.requests) != 0 {
		t.Fatalf("expected outstanding reset requests consumed")
	}

	user, err := f.users.FindByEmail(context.Background(), "frank@example.com")
	if err != nil {
		t.Fatalf("user lookup: %v", err)
	}
	hasher := NewPasswordHasher()
	if !hasher.Verify("new-pass-22", user.PasswordHash) {
		t.Fatalf("new password does not verify")
	}
	if hasher.Verify("old-pass-1", user.PasswordHash) {
		t.Fatalf("old password still verifies")
	}
}

func TestAccountService_ResetPassword_BadToken(t *testing.T) {
	f := newAccountFixture(t, allowAllThrottle{})

	if err := f.svc.ResetPassword(context.Background(), "garbage", "new-pass-22"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAccountService_ResetPassword_InactiveUser(t *testing.T) {
	f := newAccountFixture(t, allowAllThrottle{})
	user := seedUser(t, f.users, "gina@example.com", "old-pass-1", false, domain.AccountUser)

	token, err := NewMailTokenIssuer("mail-secret", 24*time.Hour).Issue("gina@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	now := time.Now().UTC()
	if err := f.resets.Create(context.Background(), &domain.PasswordResetRequest{
		Email:     "gina@example.com",
		UserID:    user.ID,
		Token:     token,
		CreatedOn: now,
		ExpireOn:  now.Add(24 * time.Hour),
	}); err != nil {
		t.Fatalf("seed reset request: %v", err)
	}

	if err := f.svc.ResetPassword(context.Background(), token, "new-pass-22"); !errors.Is(err, domain.ErrInactiveUser) {
		t.Fatalf("expected ErrInactiveUser, got %v", err)
	}
}

func TestAccountService_ResetPassword_ReplayRejected(t *testing.T) {
	f := newAccountFixture(t, allowAllThrottle{})
	seedUser(t, f.users, "hank@example.com", "old-pass-1", true, domain.AccountUser)

	if err := f.svc.RequestPasswordRecovery(context.Background(), "hank@example.com"); err != nil {
		t.Fatalf("RequestPasswordRecovery: %v", err)
	}
	var token string
	for tok := range f.resets.requests {
		token = tok
	}

	if err := f.svc.ResetPassword(context.Background(), token, "new-pass-22"); err != nil {
		t.Fatalf("first reset: %v", err)
	}

	// The token's signature is still valid, but the stored request was
	// consumed by the first reset.
	if err := f.svc.ResetPassword(context.Background(), token, "newer-pass-33"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid on replay, got %v", err)
	}

	user, _ := f.users.FindByEmail(context.Background(), "hank@example.com")
	if !NewPasswordHasher().Verify("new-pass-22", user.PasswordHash) {
		t.Fatalf("replay must not change the password again")
	}
}

func TestAccountService_MailThrottleSuppresses(t *testing.T) {
	f := newAccountFixture(t, denyThrottle{})

	if err := f.svc.Signup(context.Background(), "helen@example.com", "s3cret-pass", "Helen"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	// Pending record is created, only the mail is suppressed.
	if len(f.activations.pending) != 1 {
		t.Fatalf("expected pending activation despite throttle")
	}
	if len(f.mailer.sent) != 0 {
		t.Fatalf("expected no mail, got %d", len(f.mailer.sent))
	}
}
