package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"prodiny/internal/auth"
)

type stubResolver struct {
	user *auth.User
	err  error
}

func (s *stubResolver) FindByID(ctx context.Context, id primitive.ObjectID) (*auth.User, error) {
	return s.user, s.err
}

func runAuthenticated(t *testing.T, resolver UserResolver, header string) (*httptest.ResponseRecorder, *auth.User) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *auth.User
	mw := NewAuthMiddleware(resolver, zap.NewNop())
	handler := mw.Authenticate(func(c echo.Context) error {
		seen = CurrentUser(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, seen
}

func TestAuthenticate_NoHeader(t *testing.T) {
	rec, _ := runAuthenticated(t, &stubResolver{}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"No token, authorization denied"}`, rec.Body.String())
}

func TestAuthenticate_BadToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	rec, _ := runAuthenticated(t, &stubResolver{}, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Token is not valid"}`, rec.Body.String())
}

func TestAuthenticate_MissingBearerScheme(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := auth.GenerateToken(primitive.NewObjectID(), time.Hour)
	require.NoError(t, err)

	// A raw token without the Bearer scheme is not accepted.
	rec, _ := runAuthenticated(t, &stubResolver{}, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Token is not valid"}`, rec.Body.String())
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := auth.GenerateToken(primitive.NewObjectID(), time.Hour)
	require.NoError(t, err)

	rec, _ := runAuthenticated(t, &stubResolver{user: nil}, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Token is not valid"}`, rec.Body.String())
}

func TestAuthenticate_ResolverError(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := auth.GenerateToken(primitive.NewObjectID(), time.Hour)
	require.NoError(t, err)

	rec, _ := runAuthenticated(t, &stubResolver{err: errors.New("db down")}, "Bearer "+token)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthenticate_AttachesUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	user := &auth.User{ID: primitive.NewObjectID(), Name: "Ada", Role: auth.RoleStudent}
	token, err := auth.GenerateToken(user.ID, time.Hour)
	require.NoError(t, err)

	rec, seen := runAuthenticated(t, &stubResolver{user: user}, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, user.ID, seen.ID)
}

func TestCurrentUser_Unauthenticated(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Nil(t, CurrentUser(c))
}
