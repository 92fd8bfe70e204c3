package subgroup

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"prodiny/internal/auth"
)

func performAs(t *testing.T, handler echo.HandlerFunc, method string, user *auth.User, id primitive.ObjectID) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id.Hex())
	c.Set("user", user)
	require.NoError(t, handler(c))
	return rec
}

func TestJoinHandler_WrongCollege(t *testing.T) {
	store, _, user, subgroup := fixtures()
	user.CollegeID = primitive.NewObjectID()
	handler := NewSubgroupHandler(NewSubgroupService(store, zap.NewNop()), zap.NewNop())

	rec := performAs(t, handler.Join, http.MethodPost, user, subgroup.ID)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"You can only join subgroups from your college"}`, rec.Body.String())
}

func TestJoinHandler_AlreadyMember(t *testing.T) {
	store, _, user, subgroup := fixtures()
	subgroup.Members = append(subgroup.Members, user.ID)
	handler := NewSubgroupHandler(NewSubgroupService(store, zap.NewNop()), zap.NewNop())

	rec := performAs(t, handler.Join, http.MethodPost, user, subgroup.ID)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"You are already a member of this subgroup"}`, rec.Body.String())
}

func TestJoinHandler_Success(t *testing.T) {
	store, _, user, subgroup := fixtures()
	handler := NewSubgroupHandler(NewSubgroupService(store, zap.NewNop()), zap.NewNop())

	rec := performAs(t, handler.Join, http.MethodPost, user, subgroup.ID)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Successfully joined the subgroup"}`, rec.Body.String())
}
