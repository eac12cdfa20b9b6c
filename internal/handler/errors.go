package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"taskpilot/internal/errors"
)

// mapError converts a service error into an echo error carrying an
// ErrorResponse. The service error is kept as the internal cause.
func mapError(err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

func invalidBody(err error) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Message: "Invalid request body",
		Code:    "INVALID_BODY",
	}).SetInternal(err)
}

// NewErrorHandler returns the echo error handler that writes every failure
// as an ErrorResponse. Internal error text is exposed only in development.
func NewErrorHandler(log *zap.Logger, development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body, cause := resolveError(err, c)

		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Error(cause),
			)
			if development && cause != nil {
				body.Detail = cause.Error()
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Warn("write error response", zap.Error(err))
		}
	}
}

func resolveError(err error, c echo.Context) (int, errors.ErrorResponse, error) {
	he, ok := err.(*echo.HTTPError)
	if !ok {
		mapped := errors.MapErrorToHTTP(err)
		return mapped.StatusCode, mapped.ToErrorResponse(), err
	}

	cause := he.Internal
	if cause == nil {
		cause = he
	}

	switch msg := he.Message.(type) {
	case errors.ErrorResponse:
		return he.Code, msg, cause
	case string:
		if he.Code == http.StatusNotFound && msg == http.StatusText(http.StatusNotFound) {
			msg = "Route not found: " + c.Request().URL.Path
		}
		return he.Code, errors.ErrorResponse{Message: msg, Code: statusCode(he.Code)}, cause
	default:
		return he.Code, errors.ErrorResponse{Message: fmt.Sprint(msg), Code: statusCode(he.Code)}, cause
	}
}

func statusCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	case http.StatusInternalServerError:
		return "INTERNAL_ERROR"
	default:
		return "HTTP_ERROR"
	}
}
