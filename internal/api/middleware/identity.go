package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ewersson/app-api/internal/api/metrics"
	"github.com/ewersson/app-api/internal/core/domain"
	"github.com/ewersson/app-api/internal/core/ports"
)

const bearerPrefix = "Bearer "

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying the authenticated user.
func WithIdentity(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, identityKey{}, user)
}

// IdentityFrom returns the authenticated user attached to ctx, if any.
func IdentityFrom(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(identityKey{}).(*domain.User)
	return user, ok && user != nil
}

// Identity resolves the bearer token of each request to a stored user and
// attaches it to the request context.
//
// It never rejects a request: a missing header, a header without the
// "Bearer " prefix, an invalid token or an unknown subject all leave the
// request anonymous. Access decisions belong to Authorize.
func Identity(tokens ports.TokenService, users ports.UserRepository, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), bearerPrefix)
			if !ok {
				return next(c)
			}

			subject, ok := tokens.Validate(token)
			if !ok {
				metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
				return next(c)
			}

			ctx := c.Request().Context()
			user, err := users.FindByLogin(ctx, subject)
			if err != nil {
				if !errors.Is(err, domain.ErrUserNotFound) {
					log.Warn().Err(err).Str("path", c.Path()).Msg("identity lookup failed")
				}
				metrics.TokenValidationsTotal.WithLabelValues("unknown_subject").Inc()
				return next(c)
			}

			metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()
			c.SetRequest(c.Request().WithContext(WithIdentity(ctx, user)))
			return next(c)
		}
	}
}
