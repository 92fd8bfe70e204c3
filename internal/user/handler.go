package user

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"prodiny/pkg/httputil"
	"prodiny/pkg/middleware"
)

type UserHandler struct {
	service *UserService
	logger  *zap.Logger
}

func NewUserHandler(service *UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

func (h *UserHandler) Profile(c echo.Context) error {
	profile, err := h.service.Profile(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		h.logger.Error("profile failed", zap.Error(err))
		return httputil.ServerError(c)
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid user ID")
	}

	profile, public, err := h.service.Get(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return h.mapError(c, err, "get user failed")
	}
	if public != nil {
		return c.JSON(http.StatusOK, echo.Map{"user": public})
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) Update(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid user ID")
	}

	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid request")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return httputil.ValidationFailed(c, errs)
	}

	view, err := h.service.Update(c.Request().Context(), middleware.CurrentUser(c), id, req)
	if err != nil {
		return h.mapError(c, err, "update user failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Profile updated successfully",
		"user":    view,
	})
}

func (h *UserHandler) List(c echo.Context) error {
	page := httputil.ParsePage(c)

	filter := ListFilter{
		Role:   c.QueryParam("role"),
		Search: c.QueryParam("search"),
	}
	if raw := c.QueryParam("collegeId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return httputil.Message(c, http.StatusBadRequest, "Invalid college ID")
		}
		filter.CollegeID = &id
	}

	result, err := h.service.List(c.Request().Context(), filter, page)
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		return httputil.ServerError(c)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *UserHandler) ChangeRole(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid user ID")
	}

	var req RoleRequest
	if err := c.Bind(&req); err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid request")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return httputil.ValidationFailed(c, errs)
	}

	updated, err := h.service.ChangeRole(c.Request().Context(), id, req.Role)
	if err != nil {
		return h.mapError(c, err, "change role failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "User role updated successfully",
		"user": echo.Map{
			"id":    updated.ID,
			"name":  updated.Name,
			"email": updated.Email,
			"role":  updated.Role,
		},
	})
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.service.Delete(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return h.mapError(c, err, "delete user failed")
	}
	return httputil.Message(c, http.StatusOK, "User deleted successfully")
}

func (h *UserHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		h.logger.Error("stats failed", zap.Error(err))
		return httputil.ServerError(c)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *UserHandler) mapError(c echo.Context, err error, logMsg string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return httputil.Message(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		return httputil.Message(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrSelfDelete):
		return httputil.Message(c, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(logMsg, zap.Error(err))
		return httputil.ServerError(c)
	}
}
