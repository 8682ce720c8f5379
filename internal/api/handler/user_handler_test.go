package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/ewersson/app-api/internal/api/middleware"
	"github.com/ewersson/app-api/internal/core/domain"
)

func TestUserHandler_Me(t *testing.T) {
	e := newTestEcho()
	c, rec := jsonContext(e, http.MethodGet, "/users/me", "")
	user := &domain.User{ID: "u1", Login: "alice", PasswordHash: "$2a$hash", Role: domain.RoleAdmin}
	c.SetRequest(c.Request().WithContext(middleware.WithIdentity(c.Request().Context(), user)))

	if err := NewUserHandler().Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp meResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "u1" || resp.Login != "alice" || resp.Role != domain.RoleAdmin {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}

func TestUserHandler_Me_Anonymous(t *testing.T) {
	e := newTestEcho()
	c, _ := jsonContext(e, http.MethodGet, "/users/me", "")

	if err := NewUserHandler().Me(c); !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}
}
