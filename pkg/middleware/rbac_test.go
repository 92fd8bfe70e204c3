package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prodiny/internal/auth"
)

func TestEnforcer_Policies(t *testing.T) {
	enforcer, err := NewEnforcer()
	require.NoError(t, err)

	tests := []struct {
		role    string
		path    string
		method  string
		allowed bool
	}{
		{auth.RoleAdmin, "/api/colleges", http.MethodPost, true},
		{auth.RoleAdmin, "/api/colleges/665f1a2b3c4d5e6f70818283", http.MethodPut, true},
		{auth.RoleAdmin, "/api/colleges/665f1a2b3c4d5e6f70818283", http.MethodDelete, true},
		{auth.RoleAdmin, "/api/users", http.MethodGet, true},
		{auth.RoleAdmin, "/api/users/stats", http.MethodGet, true},
		{auth.RoleAdmin, "/api/users/665f1a2b3c4d5e6f70818283/role", http.MethodPut, true},
		{auth.RoleAdmin, "/api/users/665f1a2b3c4d5e6f70818283", http.MethodDelete, true},
		{auth.RoleStudent, "/api/colleges", http.MethodPost, false},
		{auth.RoleStudent, "/api/users", http.MethodGet, false},
		{auth.RoleFaculty, "/api/colleges/665f1a2b3c4d5e6f70818283", http.MethodDelete, false},
		{auth.RoleFaculty, "/api/users/stats", http.MethodGet, false},
	}

	for _, tt := range tests {
		allowed, err := enforcer.Enforce(tt.role, tt.path, tt.method)
		require.NoError(t, err)
		assert.Equal(t, tt.allowed, allowed, "%s %s %s", tt.role, tt.method, tt.path)
	}
}

func runEnforced(t *testing.T, user *auth.User, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	enforcer, err := NewEnforcer()
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(userContextKey, user)
	}

	mw := NewRBACMiddleware(enforcer, zap.NewNop())
	handler := mw.Enforce(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec
}

func TestEnforce_NoUser(t *testing.T) {
	rec := runEnforced(t, nil, http.MethodPost, "/api/colleges")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEnforce_StudentDenied(t *testing.T) {
	rec := runEnforced(t, &auth.User{Role: auth.RoleStudent}, http.MethodPost, "/api/colleges")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"Access denied. Admin privileges required."}`, rec.Body.String())
}

func TestEnforce_AdminAllowed(t *testing.T) {
	rec := runEnforced(t, &auth.User{Role: auth.RoleAdmin}, http.MethodPost, "/api/colleges")
	assert.Equal(t, http.StatusOK, rec.Code)
}
