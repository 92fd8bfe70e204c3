package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"prodiny/pkg/httputil"
)

type AuthHandler struct {
	service *AuthService
	logger  *zap.Logger
}

func NewAuthHandler(service *AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: logger}
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid request")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return httputil.ValidationFailed(c, errs)
	}

	user, token, err := h.service.Signup(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) || errors.Is(err, ErrInvalidCollege) {
			return httputil.Message(c, http.StatusBadRequest, err.Error())
		}
		h.logger.Error("signup failed", zap.Error(err))
		return httputil.ServerError(c)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User created successfully",
		"token":   token,
		"user": echo.Map{
			"id":        user.ID,
			"name":      user.Name,
			"email":     user.Email,
			"role":      user.Role,
			"collegeId": user.CollegeID,
		},
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return httputil.Message(c, http.StatusBadRequest, "Invalid request")
	}
	if errs := req.Validate(); len(errs) > 0 {
		return httputil.ValidationFailed(c, errs)
	}

	user, college, token, err := h.service.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return httputil.Message(c, http.StatusBadRequest, err.Error())
		}
		h.logger.Error("login failed", zap.Error(err))
		return httputil.ServerError(c)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"token":   token,
		"user": echo.Map{
			"id":      user.ID,
			"name":    user.Name,
			"email":   user.Email,
			"role":    user.Role,
			"college": college,
		},
	})
}
