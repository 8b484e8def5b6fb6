package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccountType is the privilege rank of a user account.
type AccountType string

const (
	AccountUser      AccountType = "user"
	AccountModerator AccountType = "moderator"
	AccountAdmin     AccountType = "admin"
)

// IsValid reports whether the account type is one of the known ranks.
func (a AccountType) IsValid() bool {
	switch a {
	case AccountUser, AccountModerator, AccountAdmin:
		return true
	default:
		return false
	}
}

// Satisfies reports whether an account of this type may access an endpoint
// requiring the given minimum type. Admins pass every check, moderators pass
// user and moderator checks, plain users pass only user checks.
func (a AccountType) Satisfies(required AccountType) bool {
	if a == AccountAdmin {
		return true
	}
	if required == AccountAdmin {
		return false
	}
	if a == AccountModerator {
		return true
	}
	if required == AccountModerator {
		return false
	}
	return true
}

// User models a confirmed account.
type User struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	IsActive     bool        `json:"is_active"`
	AccountType  AccountType `json:"account_type"`
	Name         string      `json:"name"`
	CreatedOn    time.Time   `json:"created_on"`
}
