package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestParsePage_Defaults(t *testing.T) {
	c, _ := newContext(t, "/")
	page := ParsePage(c)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
}

func TestParsePage_Explicit(t *testing.T) {
	c, _ := newContext(t, "/?page=3&limit=25")
	page := ParsePage(c)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 25, page.Limit)
	assert.Equal(t, int64(50), page.Skip())
}

func TestParsePage_Invalid(t *testing.T) {
	c, _ := newContext(t, "/?page=-1&limit=abc")
	page := ParsePage(c)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
}

func TestParsePage_ClampsLimit(t *testing.T) {
	c, _ := newContext(t, "/?limit=5000")
	page := ParsePage(c)
	assert.Equal(t, 100, page.Limit)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 5, TotalPages(50, 10))
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("ada@mit.edu"))
	assert.False(t, ValidEmail("ada"))
	assert.False(t, ValidEmail("ada@"))
	assert.False(t, ValidEmail(""))
	assert.False(t, ValidEmail("Ada Lovelace <ada@mit.edu>"))
}

func TestMinChars(t *testing.T) {
	assert.True(t, MinChars("ab", 2))
	assert.False(t, MinChars("a", 2))
	assert.False(t, MinChars("   a   ", 2))
	assert.True(t, MinChars("  ab  ", 2))
}

func TestMessage(t *testing.T) {
	c, rec := newContext(t, "/")
	require.NoError(t, Message(c, http.StatusNotFound, "College not found"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"College not found"}`, rec.Body.String())
}

func TestValidationFailed(t *testing.T) {
	c, rec := newContext(t, "/")
	errs := []FieldError{{Field: "name", Message: "Name must be at least 2 characters"}}
	require.NoError(t, ValidationFailed(c, errs))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"errors":[{"field":"name","message":"Name must be at least 2 characters"}]}`, rec.Body.String())
}

func TestServerError(t *testing.T) {
	c, rec := newContext(t, "/")
	require.NoError(t, ServerError(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Server error"}`, rec.Body.String())
}
