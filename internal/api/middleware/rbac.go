package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/civicmap/civic-reports/internal/core/domain"
)

// RequireLevel enforces a minimum account type on a route. It must run after
// Auth; a route without an explicit level requirement defaults to
// domain.AccountUser.
func RequireLevel(required domain.AccountType) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return domain.ErrUnauthenticated
			}
			if !user.AccountType.Satisfies(required) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
