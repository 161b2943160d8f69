package serviceutils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
)

// Response is the JSON envelope every handler returns.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func ResponseSuccess(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Response{Success: true, Message: message, Data: data})
}

func ResponseError(c echo.Context, status int, message string, err error) error {
	resp := Response{Success: false, Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.JSON(status, resp)
}

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	var (
		parseErr      *domain.ParseError
		validationErr *domain.ValidationError
	)
	switch {
	case errors.As(err, &parseErr), errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ResponseDomainError picks the status from err.
func ResponseDomainError(c echo.Context, message string, err error) error {
	return ResponseError(c, StatusFor(err), message, err)
}
