package domain

import "errors"

var (
	// ErrUnauthenticated covers missing, malformed, tampered, or expired
	// access tokens.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when a valid identity lacks the privilege an
	// endpoint requires.
	ErrForbidden = errors.New("insufficient privileges")
	// ErrInvalidCredentials deliberately does not distinguish an unknown
	// email from a wrong password.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInactiveUser       = errors.New("inactive user")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user with this email already exists")

	// ErrTokenInvalid covers malformed or tampered mail tokens; ErrTokenExpired
	// is reserved for stored activation records whose expiry has passed.
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	ErrActivationNotFound = errors.New("activation request not found")

	ErrReportNotFound    = errors.New("report not found")
	ErrInvalidReportType = errors.New("invalid report type")
	ErrVoteNotFound      = errors.New("vote not found")

	// ErrSelfDeletion blocks admins from removing their own account.
	ErrSelfDeletion = errors.New("admins are not allowed to delete themselves")
	// ErrSelfUpdate blocks admins from editing their own account through the
	// admin route; they must use the regular profile endpoints.
	ErrSelfUpdate = errors.New("admins must modify themselves as normal users")
	// ErrNotBootstrap guards the make-admin endpoint, usable only while the
	// database contains exactly one user.
	ErrNotBootstrap = errors.New("endpoint is only usable with exactly one user in the database")
	// ErrSamePassword rejects password changes that reuse the current password.
	ErrSamePassword = errors.New("new password cannot be the same as the current one")
)
