package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/civicmap/civic-reports/internal/core/domain"
	"github.com/civicmap/civic-reports/internal/core/ports"
)

func newTestUserService(repo *stubUserRepo) *UserService {
	return NewUserService(repo, NewPasswordHasher(), zerolog.Nop())
}

func strPtr(s string) *string { return &s }

func TestUserService_CreateByAdmin_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)

	user, err := svc.CreateByAdmin(context.Background(), "mod@example.com", "s3cret-pass", "Mod", domain.AccountModerator, true)
	if err != nil {
		t.Fatalf("CreateByAdmin returned error: %v", err)
	}
	if user.AccountType != domain.AccountModerator || !user.IsActive {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.PasswordHash == "s3cret-pass" {
		t.Fatalf("expected password to be hashed")
	}
}

func TestUserService_CreateByAdmin_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "taken@example.com", "whatever1", true, domain.AccountUser)
	svc := newTestUserService(repo)

	if _, err := svc.CreateByAdmin(context.Background(), "taken@example.com", "pass-12345", "Dup", domain.AccountUser, true); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_UpdateByAdmin_SelfRejected(t *testing.T) {
	repo := newStubUserRepo()
	admin := seedUser(t, repo, "admin@example.com", "pass-12345", true, domain.AccountAdmin)
	svc := newTestUserService(repo)

	if _, err := svc.UpdateByAdmin(context.Background(), admin, admin.ID, ports.AdminUserUpdate{}); !errors.Is(err, domain.ErrSelfUpdate) {
		t.Fatalf("expected ErrSelfUpdate, got %v", err)
	}
}

func TestUserService_UpdateByAdmin_EmailConflict(t *testing.T) {
	repo := newStubUserRepo()
	admin := seedUser(t, repo, "admin@example.com", "pass-12345", true, domain.AccountAdmin)
	seedUser(t, repo, "taken@example.com", "pass-12345", true, domain.AccountUser)
	target := seedUser(t, repo, "target@example.com", "pass-12345", true, domain.AccountUser)
	svc := newTestUserService(repo)

	update := ports.AdminUserUpdate{UserUpdate: ports.UserUpdate{Email: strPtr("taken@example.com")}}
	if _, err := svc.UpdateByAdmin(context.Background(), admin, target.ID, update); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_UpdateByAdmin_PromotesAccountType(t *testing.T) {
	repo := newStubUserRepo()
	admin := seedUser(t, repo, "admin@example.com", "pass-12345", true, domain.AccountAdmin)
	target := seedUser(t, repo, "target@example.com", "pass-12345", true, domain.AccountUser)
	svc := newTestUserService(repo)

	moderator := domain.AccountModerator
	updated, err := svc.UpdateByAdmin(context.Background(), admin, target.ID, ports.AdminUserUpdate{AccountType: &moderator})
	if err != nil {
		t.Fatalf("UpdateByAdmin returned error: %v", err)
	}
	if updated.AccountType != domain.AccountModerator {
		t.Fatalf("expected moderator, got %s", updated.AccountType)
	}

	stored, _ := repo.FindByID(context.Background(), target.ID)
	if stored.AccountType != domain.AccountModerator {
		t.Fatalf("promotion not persisted")
	}
}

func TestUserService_DeleteByAdmin_SelfRejected(t *testing.T) {
	repo := newStubUserRepo()
	admin := seedUser(t, repo, "admin@example.com", "pass-12345", true, domain.AccountAdmin)
	svc := newTestUserService(repo)

	if err := svc.DeleteByAdmin(context.Background(), admin, admin.ID); !errors.Is(err, domain.ErrSelfDeletion) {
		t.Fatalf("expected ErrSelfDeletion, got %v", err)
	}
}

func TestUserService_DeleteByAdmin_Success(t *testing.T) {
	repo := newStubUserRepo()
	admin := seedUser(t, repo, "admin@example.com", "pass-12345", true, domain.AccountAdmin)
	target := seedUser(t, repo, "target@example.com", "pass-12345", true, domain.AccountUser)
	svc := newTestUserService(repo)

	if err := svc.DeleteByAdmin(context.Background(), admin, target.ID); err != nil {
		t.Fatalf("DeleteByAdmin returned error: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), target.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user gone, got %v", err)
	}
}

func TestUserService_UpdatePassword(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo, "alice@example.com", "current-pass", true, domain.AccountUser)
	svc := newTestUserService(repo)

	if err := svc.UpdatePassword(context.Background(), user, "wrong-pass", "new-pass-22"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.UpdatePassword(context.Background(), user, "current-pass", "current-pass"); !errors.Is(err, domain.ErrSamePassword) {
		t.Fatalf("expected ErrSamePassword, got %v", err)
	}
	if err := svc.UpdatePassword(context.Background(), user, "current-pass", "new-pass-22"); err != nil {
		t.Fatalf("UpdatePassword returned error: %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), user.ID)
	if !NewPasswordHasher().Verify("new-pass-22", stored.PasswordHash) {
		t.Fatalf("new password does not verify")
	}
}

func TestUserService_DeleteSelf_AdminRejected(t *testing.T) {
	repo := newStubUserRepo()
	admin := seedUser(t, repo, "admin@example.com", "pass-12345", true, domain.AccountAdmin)
	svc := newTestUserService(repo)

	if err := svc.DeleteSelf(context.Background(), admin); !errors.Is(err, domain.ErrSelfDeletion) {
		t.Fatalf("expected ErrSelfDeletion, got %v", err)
	}
}

func TestUserService_MakeAdmin_Bootstrap(t *testing.T) {
	repo := newStubUserRepo()
	only := seedUser(t, repo, "first@example.com", "pass-12345", true, domain.AccountUser)
	svc := newTestUserService(repo)

	if err := svc.MakeAdmin(context.Background(), only); err != nil {
		t.Fatalf("MakeAdmin returned error: %v", err)
	}
	stored, _ := repo.FindByID(context.Background(), only.ID)
	if stored.AccountType != domain.AccountAdmin {
		t.Fatalf("expected admin, got %s", stored.AccountType)
	}
}

func TestUserService_MakeAdmin_RejectedWithMultipleUsers(t *testing.T) {
	repo := newStubUserRepo()
	first := seedUser(t, repo, "first@example.com", "pass-12345", true, domain.AccountUser)
	seedUser(t, repo, "second@example.com", "pass-12345", true, domain.AccountUser)
	svc := newTestUserService(repo)

	if err := svc.MakeAdmin(context.Background(), first); !errors.Is(err, domain.ErrNotBootstrap) {
		t.Fatalf("expected ErrNotBootstrap, got %v", err)
	}
}

func TestUserService_List_ClampsLimit(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "a@example.com", "pass-12345", true, domain.AccountUser)
	svc := newTestUserService(repo)

	if _, err := svc.List(context.Background(), -5, -1); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if _, err := svc.List(context.Background(), 10_000, 0); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
}
