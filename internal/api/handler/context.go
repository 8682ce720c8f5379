package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/ewersson/app-api/internal/api/middleware"
	"github.com/ewersson/app-api/internal/core/domain"
)

// currentUser returns the identity attached by the Identity middleware.
// Routes behind Authorize always have one; the check guards handlers mounted
// without the policy.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.IdentityFrom(c.Request().Context())
	if !ok {
		return nil, domain.ErrAuthenticationRequired
	}
	return user, nil
}
