package service

import (
	"encoding/json"
	"strings"
)

// RegisterCommand starts registration by requesting a code.
type RegisterCommand struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,max=254,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (c *RegisterCommand) normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = normalizeEmail(c.Email)
}

// VerifyRegisterCommand completes registration with the emailed code.
type VerifyRegisterCommand struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,max=254,email"`
	Password string `json:"password" validate:"required,min=6"`
	OTP      string `json:"otp" validate:"required"`
}

func (c *VerifyRegisterCommand) normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = normalizeEmail(c.Email)
	c.OTP = strings.TrimSpace(c.OTP)
}

// LoginCommand exchanges credentials for a session token.
type LoginCommand struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (c *LoginCommand) normalize() {
	c.Email = normalizeEmail(c.Email)
}

// SendResetOTPCommand requests a password reset code.
type SendResetOTPCommand struct {
	Email string `json:"email" validate:"required"`
}

func (c *SendResetOTPCommand) normalize() {
	c.Email = normalizeEmail(c.Email)
}

// VerifyResetOTPCommand exchanges a reset code for a reset token.
type VerifyResetOTPCommand struct {
	Email string `json:"email" validate:"required"`
	OTP   string `json:"otp" validate:"required"`
}

func (c *VerifyResetOTPCommand) normalize() {
	c.Email = normalizeEmail(c.Email)
	c.OTP = strings.TrimSpace(c.OTP)
}

// ResetPasswordCommand sets a new password using a reset token.
type ResetPasswordCommand struct {
	ResetToken  string `json:"resetToken" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// CreateCategoryCommand creates a category.
type CreateCategoryCommand struct {
	Name string `json:"name"`
}

// CreateTaskCommand creates a task. An empty or null category leaves the
// task uncategorized.
type CreateTaskCommand struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    *string `json:"category"`
}

// UpdateTaskCommand carries a partial task update; only fields present in
// the request body are applied.
type UpdateTaskCommand struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Status      Optional[string] `json:"status"`
	Category    Optional[string] `json:"category"`
}

// Optional records whether a JSON field was present and whether it was null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns a present Optional holding JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON is only invoked for keys present in the document.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
