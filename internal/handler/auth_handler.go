package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskpilot/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// MessageResponse carries a human-readable outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse carries a session token.
type TokenResponse struct {
	Token string `json:"token"`
}

// ResetTokenResponse carries a password reset token.
type ResetTokenResponse struct {
	ResetToken string `json:"resetToken"`
}

// SendRegisterOTP godoc
// @Summary Request a registration code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterCommand true "Registration data"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register/send-otp [post]
func (h *AuthHandler) SendRegisterOTP(c echo.Context) error {
	var req service.RegisterCommand
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	msg, err := h.authService.SendRegisterOTP(c.Request().Context(), req)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

// VerifyRegisterOTP godoc
// @Summary Complete registration with the emailed code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.VerifyRegisterCommand true "Registration data and code"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register/verify-otp [post]
func (h *AuthHandler) VerifyRegisterOTP(c echo.Context) error {
	var req service.VerifyRegisterCommand
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	msg, err := h.authService.VerifyRegisterOTP(c.Request().Context(), req)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, MessageResponse{Message: msg})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginCommand true "Login credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req service.LoginCommand
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	token, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// SendResetOTP godoc
// @Summary Request a password reset code
// @Description Always answers with the same message whether or not the email is registered.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.SendResetOTPCommand true "Account email"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/forgot-password/send-otp [post]
func (h *AuthHandler) SendResetOTP(c echo.Context) error {
	var req service.SendResetOTPCommand
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	msg, err := h.authService.SendResetOTP(c.Request().Context(), req)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

// VerifyResetOTP godoc
// @Summary Exchange a reset code for a reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.VerifyResetOTPCommand true "Email and code"
// @Success 200 {object} ResetTokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/forgot-password/verify-otp [post]
func (h *AuthHandler) VerifyResetOTP(c echo.Context) error {
	var req service.VerifyResetOTPCommand
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	resetToken, err := h.authService.VerifyResetOTP(c.Request().Context(), req)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, ResetTokenResponse{ResetToken: resetToken})
}

// ResetPassword godoc
// @Summary Set a new password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.ResetPasswordCommand true "Reset token and new password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/forgot-password/reset [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req service.ResetPasswordCommand
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	msg, err := h.authService.ResetPassword(c.Request().Context(), req)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: msg})
}
