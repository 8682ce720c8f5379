package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ewersson/app-api/internal/api/metrics"
	"github.com/ewersson/app-api/internal/core/domain"
	"github.com/ewersson/app-api/internal/core/ports"
)

const (
	registerPath = "/auth/register"
	loginPath    = "/auth/login"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account. No token is issued.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Login, password and role (ADMIN or USER)"
// @Success      200   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return err
	}

	err := h.authService.Register(c.Request().Context(), req.Login, req.Password, req.Role)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrDuplicateLogin), errors.Is(err, domain.ErrInvalidRole):
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return err
	default:
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultError).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return c.JSON(http.StatusOK, registerResponse{
		Message: "User registered successfully",
		Links:   authLinks{Self: registerPath, Login: loginPath},
	})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return err
	}

	token, err := h.authService.Login(c.Request().Context(), req.Login, req.Password)
	if err != nil {
		result := metrics.ResultError
		if errors.Is(err, domain.ErrInvalidCredentials) {
			result = metrics.ResultRejected
		}
		metrics.LoginsTotal.WithLabelValues(result).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Token: token,
		Links: authLinks{Self: loginPath, Register: registerPath},
	})
}
