package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/civicmap/civic-reports/internal/core/domain"
	"github.com/civicmap/civic-reports/internal/core/ports"
	"github.com/civicmap/civic-reports/internal/core/service"
)

// UserKey is the echo context key the resolved identity is stored under.
const UserKey = "current_user"

// Auth resolves the caller's identity from the bearer token and stores it in
// the request context. The check sequence is fixed: token present, token
// valid, identity exists, identity active. Privilege is enforced separately
// by RequireLevel.
func Auth(codec *service.TokenCodec, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return domain.ErrUnauthenticated
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return domain.ErrUnauthenticated
			}

			subject, err := codec.Decode(parts[1])
			if err != nil {
				return domain.ErrUnauthenticated
			}

			user, err := users.FindByID(c.Request().Context(), subject)
			if err != nil {
				return err
			}
			if !user.IsActive {
				return domain.ErrInactiveUser
			}

			c.Set(UserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the identity stored by Auth, or nil when the middleware
// did not run on this route.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(UserKey).(*domain.User)
	return user
}
