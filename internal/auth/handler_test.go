package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func performJSON(t *testing.T, handler echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	return rec
}

func TestSignupHandler_DuplicateEmail(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	store := newStubStore()
	collegeID := store.addCollege()
	store.users["ada@mit.edu"] = &User{Email: "ada@mit.edu"}

	handler := NewAuthHandler(newTestService(store), zap.NewNop())
	body := `{"name":"Ada","email":"ada@mit.edu","password":"secret1","collegeId":"` + collegeID.Hex() + `"}`
	rec := performJSON(t, handler.Signup, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"User already exists with this email"}`, rec.Body.String())
}

func TestSignupHandler_Success(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	store := newStubStore()
	collegeID := store.addCollege()

	handler := NewAuthHandler(newTestService(store), zap.NewNop())
	body := `{"name":"Ada","email":"ada@mit.edu","password":"secret1","collegeId":"` + collegeID.Hex() + `"}`
	rec := performJSON(t, handler.Signup, body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"User created successfully"`)
	assert.Contains(t, rec.Body.String(), `"token"`)
}

func TestLoginHandler_WrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	store := newStubStore()
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	store.users["ada@mit.edu"] = &User{ID: primitive.NewObjectID(), Email: "ada@mit.edu", PasswordHash: hash}

	handler := NewAuthHandler(newTestService(store), zap.NewNop())
	rec := performJSON(t, handler.Login, `{"email":"ada@mit.edu","password":"wrong"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid credentials"}`, rec.Body.String())
}
