package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/civicmap/civic-reports/internal/core/domain"
)

func contextWithUser(accountType domain.AccountType) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(UserKey, &domain.User{ID: uuid.New(), IsActive: true, AccountType: accountType})
	return c
}

func TestRequireLevel_PrivilegeMatrix(t *testing.T) {
	cases := []struct {
		caller   domain.AccountType
		required domain.AccountType
		allowed  bool
	}{
		{domain.AccountUser, domain.AccountUser, true},
		{domain.AccountUser, domain.AccountModerator, false},
		{domain.AccountUser, domain.AccountAdmin, false},
		{domain.AccountModerator, domain.AccountUser, true},
		{domain.AccountModerator, domain.AccountModerator, true},
		{domain.AccountModerator, domain.AccountAdmin, false},
		{domain.AccountAdmin, domain.AccountUser, true},
		{domain.AccountAdmin, domain.AccountModerator, true},
		{domain.AccountAdmin, domain.AccountAdmin, true},
	}

	for _, tc := range cases {
		c := contextWithUser(tc.caller)
		called := false
		err := RequireLevel(tc.required)(func(c echo.Context) error {
			called = true
			return c.NoContent(http.StatusOK)
		})(c)

		if tc.allowed {
			if err != nil || !called {
				t.Errorf("%s requiring %s: expected pass, got err=%v called=%v", tc.caller, tc.required, err, called)
			}
		} else {
			if !errors.Is(err, domain.ErrForbidden) {
				t.Errorf("%s requiring %s: expected ErrForbidden, got %v", tc.caller, tc.required, err)
			}
			if called {
				t.Errorf("%s requiring %s: next handler should not run", tc.caller, tc.required)
			}
		}
	}
}

func TestRequireLevel_NoUser(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := RequireLevel(domain.AccountUser)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})(c)

	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
