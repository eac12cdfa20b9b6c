// Package middleware provides echo middlewares for authentication and logging.
package middleware

import (
	"strings"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "taskpilot/internal/errors"
)

const userIDKey = "userID"

const bearerPrefix = "Bearer "

// SessionValidator verifies a session token and returns its user id.
type SessionValidator interface {
	ValidateSessionToken(token string) (uuid.UUID, error)
}

// RequireUser rejects requests without a valid bearer session token and
// stores the caller's user id on the echo context.
func RequireUser(validator SessionValidator) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  userIDKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":" + bearerPrefix,
		ParseTokenFunc: func(_ echo.Context, token string) (interface{}, error) {
			return validator.ValidateSessionToken(token)
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			if !hasBearerToken(c.Request().Header.Get(echo.HeaderAuthorization)) {
				return apperrors.Auth("Not authorized, no token")
			}
			return apperrors.Auth("Not authorized, token failed")
		},
	})
}

// hasBearerToken mirrors echo's extractor, which matches the scheme
// case-insensitively.
func hasBearerToken(header string) bool {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return false
	}
	return strings.TrimSpace(header[len(bearerPrefix):]) != ""
}

// UserID returns the authenticated user id set by RequireUser.
func UserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(userIDKey).(uuid.UUID)
	return id, ok
}
