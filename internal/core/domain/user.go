package domain

import (
	"strings"
	"time"
)

// Role is the authorization role carried by a user.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole maps a role name to a known Role. Matching ignores case, so
// "user" and "USER" are equivalent.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", ErrInvalidRole
	}
}

// Grants returns every role this role satisfies. ADMIN also carries USER.
func (r Role) Grants() []Role {
	switch r {
	case RoleAdmin:
		return []Role{RoleAdmin, RoleUser}
	case RoleUser:
		return []Role{RoleUser}
	default:
		return nil
	}
}

// Satisfies reports whether r grants the required role.
func (r Role) Satisfies(required Role) bool {
	for _, g := range r.Grants() {
		if g == required {
			return true
		}
	}
	return false
}

// User models an account able to authenticate against the API.
type User struct {
	ID           string    `json:"id"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
