package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/ewersson/app-api/internal/api/metrics"
	"github.com/ewersson/app-api/internal/core/domain"
)

// Requirement is what a route demands from the caller.
type Requirement struct {
	public bool
	role   domain.Role
}

var (
	// Public routes are reachable without an identity.
	Public = Requirement{public: true}
	// Authenticated routes need an identity with any role.
	Authenticated = Requirement{}
)

// RequireRole demands an identity whose role grants r.
func RequireRole(r domain.Role) Requirement {
	return Requirement{role: r}
}

// Rule binds a method and an Echo route template ("/products/:id") to a requirement.
type Rule struct {
	Method      string
	Path        string
	Requirement Requirement
}

type routeKey struct {
	method string
	path   string
}

// Policy is a static route table. Routes missing from the table are Authenticated.
type Policy struct {
	rules map[routeKey]Requirement
}

// NewPolicy builds a Policy from rules. A later rule for the same route wins.
func NewPolicy(rules ...Rule) *Policy {
	p := &Policy{rules: make(map[routeKey]Requirement, len(rules))}
	for _, r := range rules {
		p.rules[routeKey{method: r.Method, path: r.Path}] = r.Requirement
	}
	return p
}

// DefaultPolicy is the access table of the API.
func DefaultPolicy() *Policy {
	return NewPolicy(
		Rule{echo.POST, "/auth/register", Public},
		Rule{echo.POST, "/auth/login", Public},

		Rule{echo.POST, "/products", RequireRole(domain.RoleUser)},
		Rule{echo.GET, "/products/all", RequireRole(domain.RoleUser)},
		Rule{echo.GET, "/products/:id", RequireRole(domain.RoleUser)},

		// operational endpoints
		Rule{echo.GET, "/health", Public},
		Rule{echo.GET, "/health/ready", Public},
		Rule{echo.GET, "/metrics", Public},
		Rule{echo.GET, "/swagger/*", Public},
	)
}

// Requirement returns the requirement for a method and route template.
func (p *Policy) Requirement(method, path string) Requirement {
	if req, ok := p.rules[routeKey{method: method, path: path}]; ok {
		return req
	}
	return Authenticated
}

// Check decides whether user may call the route. user may be nil.
func (p *Policy) Check(user *domain.User, method, path string) error {
	req := p.Requirement(method, path)
	if req.public {
		return nil
	}
	if user == nil {
		return domain.ErrAuthenticationRequired
	}
	if req.role != "" && !user.Role.Satisfies(req.role) {
		return domain.ErrAuthorizationDenied
	}
	return nil
}

// Authorize enforces p before the handler runs. It must be registered after
// Identity.
func Authorize(p *Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := IdentityFrom(c.Request().Context())
			if err := p.Check(user, c.Request().Method, c.Path()); err != nil {
				reason := "forbidden"
				if user == nil {
					reason = "unauthenticated"
				}
				metrics.AccessDeniedTotal.WithLabelValues(reason).Inc()
				return err
			}
			return next(c)
		}
	}
}
