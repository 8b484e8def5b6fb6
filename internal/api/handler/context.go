package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicmap/civic-reports/internal/api/middleware"
	"github.com/civicmap/civic-reports/internal/core/domain"
)

// currentUser extracts the identity the Auth middleware attached to the
// request. Absence means the route was wired without the middleware, which is
// a server-side misconfiguration rather than a client error.
func currentUser(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}
