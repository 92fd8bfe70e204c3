package subgroup

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"prodiny/pkg/httputil"
	"prodiny/pkg/middleware"
)

type SubgroupHandler struct {
	service *SubgroupService
	logger  *zap.Logger
}

func NewSubgroupHandler(service *SubgroupService, logger *zap.Logger) *SubgroupHandler {
	return &SubgroupHandler{service: service, logger: logger}
}

func (h *SubgroupHandler) Recommended(c echo.Context) error {
	recommendations, err := h.service.Recommended(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		h.logger.Error("recommended subgroups failed", zap.Error(err))
		return httputil.ServerError(c)
	}
	return c.JSON(http.StatusOK, recommendations)
}

func (h *SubgroupHandler) List(c echo.Context) error {
	page := httputil.ParsePage(c)

	var collegeID *primitive.ObjectID
	if raw := c.QueryParam("collegeId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return httputil.Message(c, http.StatusBadRequest, "Invalid college ID")
		}
		collegeID = &id
	}

	result, err := h.service.List(c.Request().Context(), collegeID, page)
	if err != nil {
		h.logger.Error("list subgroups failed", zap.Error(err))
		return httputil.ServerError(c)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *SubgroupHandler) Get(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid subgroup ID")
	}

	detail, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return h.mapError(c, err, "get subgroup failed")
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *SubgroupHandler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid request")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return httputil.ValidationFailed(c, errs)
	}

	view, err := h.service.Create(c.Request().Context(), middleware.CurrentUser(c), req)
	if err != nil {
		return h.mapError(c, err, "create subgroup failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Subgroup created successfully",
		"subgroup": view,
	})
}

func (h *SubgroupHandler) Join(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid subgroup ID")
	}

	if err := h.service.Join(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return h.mapError(c, err, "join subgroup failed")
	}
	return httputil.Message(c, http.StatusOK, "Successfully joined the subgroup")
}

func (h *SubgroupHandler) Leave(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid subgroup ID")
	}

	if err := h.service.Leave(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return h.mapError(c, err, "leave subgroup failed")
	}
	return httputil.Message(c, http.StatusOK, "Successfully left the subgroup")
}

func (h *SubgroupHandler) CreatePost(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid subgroup ID")
	}

	var req CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid request")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return httputil.ValidationFailed(c, errs)
	}

	post, err := h.service.CreatePost(c.Request().Context(), middleware.CurrentUser(c), id, req)
	if err != nil {
		return h.mapError(c, err, "create post failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Post created successfully",
		"post":    post,
	})
}

func (h *SubgroupHandler) mapError(c echo.Context, err error, logMsg string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return httputil.Message(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrWrongCollege), errors.Is(err, ErrNotMemberPost):
		return httputil.Message(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrDuplicateName), errors.Is(err, ErrAlreadyMember), errors.Is(err, ErrNotMember):
		return httputil.Message(c, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(logMsg, zap.Error(err))
		return httputil.ServerError(c)
	}
}
