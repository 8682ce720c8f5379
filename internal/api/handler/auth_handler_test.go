package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ewersson/app-api/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, login, password, role string) error
	loginFn    func(ctx context.Context, login, password string) (string, error)
}

func (s *stubAuthService) Register(ctx context.Context, login, password, role string) error {
	return s.registerFn(ctx, login, password, role)
}

func (s *stubAuthService) Login(ctx context.Context, login, password string) (string, error) {
	return s.loginFn(ctx, login, password)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpErrorCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, login, password, role string) error {
			if login != "alice" || password != "s3cret" || role != "user" {
				t.Fatalf("unexpected args: %s %s %s", login, password, role)
			}
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/auth/register", `{"login":"alice","password":"s3cret","role":"user"}`)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp registerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Message == "" || resp.Links.Self != "/auth/register" || resp.Links.Login != "/auth/login" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "token") {
		t.Fatalf("register must not issue a token: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_Rejections(t *testing.T) {
	cases := map[string]error{
		"duplicate":    domain.ErrDuplicateLogin,
		"invalid role": domain.ErrInvalidRole,
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			e := newTestEcho()
			handler := NewAuthHandler(&stubAuthService{
				registerFn: func(context.Context, string, string, string) error { return want },
			})

			c, _ := jsonContext(e, http.MethodPost, "/auth/register", `{"login":"bob","password":"x","role":"ROOT"}`)
			if err := handler.Register(c); !errors.Is(err, want) {
				t.Fatalf("expected %v, got %v", want, err)
			}
		})
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, string, string, string) error {
			t.Fatalf("service must not be called")
			return nil
		},
	})

	for _, body := range []string{`{"login":`, `{"login":"bob","role":"USER"}`, `{}`} {
		c, _ := jsonContext(e, http.MethodPost, "/auth/register", body)
		if code := httpErrorCode(t, handler.Register(c)); code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, code)
		}
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, login, password string) (string, error) {
			if login != "alice" || password != "s3cret" {
				t.Fatalf("unexpected args: %s %s", login, password)
			}
			return "jwt-token", nil
		},
	})

	c, rec := jsonContext(e, http.MethodPost, "/auth/login", `{"login":"alice","password":"s3cret"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "jwt-token" || resp.Links.Self != "/auth/login" || resp.Links.Register != "/auth/register" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (string, error) {
			return "", domain.ErrInvalidCredentials
		},
	})

	c, rec := jsonContext(e, http.MethodPost, "/auth/login", `{"login":"alice","password":"wrong"}`)
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("handler must leave rendering to the error handler")
	}
}
