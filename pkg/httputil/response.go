package httputil

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// FieldError is a single per-field validation failure, surfaced to
// clients as {"errors": [{"field": ..., "message": ...}]}.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func Message(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"message": msg})
}

func ValidationFailed(c echo.Context, errs []FieldError) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
}

func ServerError(c echo.Context) error {
	return Message(c, http.StatusInternalServerError, "Server error")
}
