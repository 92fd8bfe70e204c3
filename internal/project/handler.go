package project

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"prodiny/pkg/httputil"
	"prodiny/pkg/middleware"
)

type ProjectHandler struct {
	service *ProjectService
	logger  *zap.Logger
}

func NewProjectHandler(service *ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{service: service, logger: logger}
}

func (h *ProjectHandler) List(c echo.Context) error {
	page := httputil.ParsePage(c)

	filter := ListFilter{Status: c.QueryParam("status")}
	if raw := c.QueryParam("collegeId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return httputil.Message(c, http.StatusBadRequest, "Invalid college ID")
		}
		filter.CollegeID = &id
	}
	if raw := c.QueryParam("tags"); raw != "" {
		filter.Tags = strings.Split(raw, ",")
	}

	result, err := h.service.List(c.Request().Context(), filter, page)
	if err != nil {
		h.logger.Error("list projects failed", zap.Error(err))
		return httputil.ServerError(c)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *ProjectHandler) Get(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid project ID")
	}

	view, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return h.mapError(c, err, "get project failed")
	}
	return c.JSON(http.StatusOK, view)
}

func (h *ProjectHandler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid request")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return httputil.ValidationFailed(c, errs)
	}

	view, err := h.service.Create(c.Request().Context(), middleware.CurrentUser(c), req)
	if err != nil {
		h.logger.Error("create project failed", zap.Error(err))
		return httputil.ServerError(c)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Project created successfully",
		"project": view,
	})
}

func (h *ProjectHandler) Update(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid project ID")
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
		return h.mapError(c, err, "update project failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Project updated successfully",
		"project": view,
	})
}

func (h *ProjectHandler) Join(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid project ID")
	}

	if err := h.service.Join(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return h.mapError(c, err, "join project failed")
	}
	return httputil.Message(c, http.StatusOK, "Successfully joined the project")
}

func (h *ProjectHandler) Leave(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid project ID")
	}

	if err := h.service.Leave(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return h.mapError(c, err, "leave project failed")
	}
	return httputil.Message(c, http.StatusOK, "Successfully left the project")
}

func (h *ProjectHandler) Delete(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid project ID")
	}

	if err := h.service.Delete(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return h.mapError(c, err, "delete project failed")
	}
	return httputil.Message(c, http.StatusOK, "Project deleted successfully")
}

func (h *ProjectHandler) mapError(c echo.Context, err error, logMsg string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return httputil.Message(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotOwnerUpdate), errors.Is(err, ErrNotOwnerDelete), errors.Is(err, ErrWrongCollege):
		return httputil.Message(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrAlreadyMember), errors.Is(err, ErrNotMember), errors.Is(err, ErrOwnerLeave):
		return httputil.Message(c, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(logMsg, zap.Error(err))
		return httputil.ServerError(c)
	}
}
