package domain

import (
	"time"

	"github.com/google/uuid"
)

// PendingActivation is an unconfirmed signup waiting for the user to follow
// the activation link. It is promoted to a User on activation or left to
// expire; expiry is only ever checked lazily at activation time.
type PendingActivation struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Token        string
	CreatedOn    time.Time
	ExpireOn     time.Time
}

// Expired reports whether the activation window has closed at the given instant.
func (p PendingActivation) Expired(now time.Time) bool {
	return !now.Before(p.ExpireOn)
}

// PasswordResetRequest records an outstanding password-recovery mail. The
// reset token itself is stateless; the row exists so outstanding requests can
// be consumed (deleted) once a reset succeeds.
type PasswordResetRequest struct {
	Email     string
	UserID    uuid.UUID
	Token     string
	CreatedOn time.Time
	ExpireOn  time.Time
}
