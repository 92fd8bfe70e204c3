package middleware

import (
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"prodiny/internal/auth"
	"prodiny/pkg/httputil"
)

const rbacModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch(r.obj, p.obj) && r.act == p.act`

// adminPolicies lists the routes reserved to the admin role. Every
// other role simply has no matching policy and is refused.
var adminPolicies = [][]string{
	{auth.RoleAdmin, "/api/colleges", http.MethodPost},
	{auth.RoleAdmin, "/api/colleges/*", http.MethodPut},
	{auth.RoleAdmin, "/api/colleges/*", http.MethodDelete},
	{auth.RoleAdmin, "/api/users", http.MethodGet},
	{auth.RoleAdmin, "/api/users/stats", http.MethodGet},
	{auth.RoleAdmin, "/api/users/*/role", http.MethodPut},
	{auth.RoleAdmin, "/api/users/*", http.MethodDelete},
}

// NewEnforcer builds the RBAC enforcer from the in-code model and
// policy table, so the binary carries no policy files.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	for _, p := range adminPolicies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	return enforcer, nil
}

type RBACMiddleware struct {
	enforcer *casbin.Enforcer
	logger   *zap.Logger
}

func NewRBACMiddleware(enforcer *casbin.Enforcer, logger *zap.Logger) *RBACMiddleware {
	return &RBACMiddleware{enforcer: enforcer, logger: logger}
}

// Enforce checks the resolved user's role against the policy table.
// It must run after Authenticate.
func (m *RBACMiddleware) Enforce(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return httputil.Message(c, http.StatusUnauthorized, "No token, authorization denied")
		}

		obj := c.Request().URL.Path
		act := c.Request().Method
		allowed, err := m.enforcer.Enforce(user.Role, obj, act)
		if err != nil {
			m.logger.Error("rbac enforce failed", zap.Error(err))
			return httputil.ServerError(c)
		}
		if !allowed {
			return httputil.Message(c, http.StatusForbidden, "Access denied. Admin privileges required.")
		}
		return next(c)
	}
}
