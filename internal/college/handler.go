package college

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"prodiny/pkg/httputil"
)

type CollegeHandler struct {
	service *CollegeService
	logger  *zap.Logger
}

func NewCollegeHandler(service *CollegeService, logger *zap.Logger) *CollegeHandler {
	return &CollegeHandler{service: service, logger: logger}
}

func (h *CollegeHandler) List(c echo.Context) error {
	page := httputil.ParsePage(c)
	result, err := h.service.List(c.Request().Context(), c.QueryParam("search"), page)
	if err != nil {
		h.logger.Error("list colleges failed", zap.Error(err))
		return httputil.ServerError(c)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *CollegeHandler) Get(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid college ID")
	}

	detail, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return h.mapError(c, err, "get college failed")
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *CollegeHandler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid request")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return httputil.ValidationFailed(c, errs)
	}

	college, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return h.mapError(c, err, "create college failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "College created successfully",
		"college": college,
	})
}

func (h *CollegeHandler) Update(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid college ID")
	}

	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid request")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return httputil.ValidationFailed(c, errs)
	}

	college, err := h.service.Update(c.Request().Context(), id, req)
	if err != nil {
		return h.mapError(c, err, "update college failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "College updated successfully",
		"college": college,
	})
}

func (h *CollegeHandler) Delete(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid college ID")
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return h.mapError(c, err, "delete college failed")
	}
	return httputil.Message(c, http.StatusOK, "College deleted successfully")
}

func (h *CollegeHandler) mapError(c echo.Context, err error, logMsg string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return httputil.Message(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicate):
		return httputil.Message(c, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(logMsg, zap.Error(err))
		return httputil.ServerError(c)
	}
}
