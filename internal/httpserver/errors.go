package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/manha/pos/internal/service"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// errorResponse maps domain errors onto HTTP statuses. Anything not
// recognized is a 500 with the message withheld.
func errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrEmptyCart):
		return respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrLocked):
		return respondError(c, http.StatusLocked, err.Error())
	default:
		return respondError(c, http.StatusInternalServerError, "internal error")
	}
}

func respondError(c echo.Context, code int, msg string) error {
	return c.JSON(code, Response{Status: "error", Message: msg})
}
