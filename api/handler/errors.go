package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/daniyarzhalgas/TripMate-backend/internal/dto"
	"github.com/daniyarzhalgas/TripMate-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const (
	codeValidation = "VALIDATION_ERROR"
	codeInternal   = "INTERNAL_ERROR"
)

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func validate(v *validator.Validate, payload any) error {
	if v == nil {
		return nil
	}
	return v.Struct(payload)
}

func writeError(c echo.Context, status int, err error) error {
	code := codeValidation
	if status >= http.StatusInternalServerError {
		code = codeInternal
	}
	return c.JSON(status, dto.Fail(code, err.Error()))
}

func writeServiceError(c echo.Context, err error) error {
	var authErr *service.AuthError
	if errors.As(err, &authErr) {
		return c.JSON(authErrorStatus(authErr.Code), dto.Fail(authErr.Code, authErr.Message))
	}
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return writeError(c, http.StatusBadRequest, err)
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, dto.Fail(service.CodeNotFound, "not found"))
	}
	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, dto.Fail(codeInternal, "internal server error"))
}

func authErrorStatus(code string) int {
	switch code {
	case service.CodeEmailExists:
		return http.StatusConflict
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeUpstreamAuth:
		return http.StatusBadGateway
	case service.CodeInvalidCredentials:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

// HTTPErrorHandler renders framework errors (404 routes, middleware
// rejections) in the response envelope.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	message := "internal server error"
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	}
	code := codeInternal
	switch status {
	case http.StatusUnauthorized:
		code = "UNAUTHORIZED"
	case http.StatusForbidden:
		code = "FORBIDDEN"
	case http.StatusNotFound:
		code = service.CodeNotFound
	case http.StatusTooManyRequests:
		code = "RATE_LIMITED"
	default:
		if status < http.StatusInternalServerError {
			code = codeValidation
		}
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, dto.Fail(code, message))
}
