package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"taskpilot/internal/errors"
	"taskpilot/internal/middleware"
	"taskpilot/internal/service"
)

// UserHandler serves the caller's own account.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// ProtectedResponse echoes the authenticated user id.
type ProtectedResponse struct {
	Message string    `json:"message"`
	User    uuid.UUID `json:"user"`
}

// Protected godoc
// @Summary Check a session token
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProtectedResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /protected [get]
func (h *UserHandler) Protected(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ProtectedResponse{
		Message: "You accessed protected route",
		User:    userID,
	})
}

// Me godoc
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetUser(c.Request().Context(), userID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// currentUser reads the id stored by the session guard.
func currentUser(c echo.Context) (uuid.UUID, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		return uuid.Nil, mapError(errors.Auth("Not authorized, no token"))
	}
	return userID, nil
}
