package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskpilot/internal/auth"
	apperrors "taskpilot/internal/errors"
	"taskpilot/internal/mail"
	"taskpilot/internal/model"
	"taskpilot/internal/repository"
	"taskpilot/internal/validation"
)

const (
	bcryptCost = 10
	// bcrypt rejects longer input.
	maxPasswordBytes = 72
)

// Messages returned by the auth flows.
const (
	MsgOTPSent         = "OTP sent to your email"
	MsgAccountCreated  = "Account created successfully"
	MsgResetOTPSent    = "If that email exists, an OTP has been sent"
	MsgPasswordChanged = "Password reset successfully"
	msgInvalidCreds    = "Invalid credentials"
	msgUserExists      = "User already exists"
)

// AuthService handles registration, login and password reset.
type AuthService interface {
	SendRegisterOTP(ctx context.Context, cmd RegisterCommand) (string, error)
	VerifyRegisterOTP(ctx context.Context, cmd VerifyRegisterCommand) (string, error)
	Login(ctx context.Context, cmd LoginCommand) (token string, err error)
	SendResetOTP(ctx context.Context, cmd SendResetOTPCommand) (string, error)
	VerifyResetOTP(ctx context.Context, cmd VerifyResetOTPCommand) (resetToken string, err error)
	ResetPassword(ctx context.Context, cmd ResetPasswordCommand) (string, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	otpStore   auth.OTPStoreInterface
	mailer     mail.Mailer
	log        *zap.Logger
	generate   func() (string, error)
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	otpStore auth.OTPStoreInterface,
	mailer mail.Mailer,
	log *zap.Logger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		otpStore:   otpStore,
		mailer:     mailer,
		log:        log,
		generate:   auth.GenerateOTP,
	}
}

// SendRegisterOTP emails a registration code. No user is created yet.
func (s *authService) SendRegisterOTP(ctx context.Context, cmd RegisterCommand) (string, error) {
	cmd.normalize()
	if err := validation.Struct(cmd); err != nil {
		return "", err
	}
	if err := checkPasswordLength(cmd.Password); err != nil {
		return "", err
	}

	exists, err := s.userExists(ctx, cmd.Email)
	if err != nil {
		return "", err
	}
	if exists {
		return "", apperrors.Conflict(msgUserExists)
	}

	if err := s.issueOTP(ctx, cmd.Email, model.OTPPurposeRegister); err != nil {
		return "", err
	}
	return MsgOTPSent, nil
}

// VerifyRegisterOTP consumes the registration code and creates the user.
func (s *authService) VerifyRegisterOTP(ctx context.Context, cmd VerifyRegisterCommand) (string, error) {
	cmd.normalize()
	if err := validation.Struct(cmd); err != nil {
		return "", err
	}
	if err := checkPasswordLength(cmd.Password); err != nil {
		return "", err
	}

	if err := s.consumeOTP(ctx, cmd.Email, model.OTPPurposeRegister, cmd.OTP); err != nil {
		return "", err
	}

	// Registration may have completed between send and verify.
	exists, err := s.userExists(ctx, cmd.Email)
	if err != nil {
		return "", err
	}
	if exists {
		return "", apperrors.Conflict(msgUserExists)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         cmd.Name,
		Email:        cmd.Email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", apperrors.Conflict(msgUserExists)
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()))
	return MsgAccountCreated, nil
}

// Login authenticates a user and returns a session token. Unknown email and
// wrong password produce the same error.
func (s *authService) Login(ctx context.Context, cmd LoginCommand) (string, error) {
	cmd.normalize()
	if err := validation.Struct(cmd); err != nil {
		return "", err
	}

	user, err := s.userRepo.FindByEmail(ctx, cmd.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.Auth(msgInvalidCreds)
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)); err != nil {
		return "", apperrors.Auth(msgInvalidCreds)
	}

	token, err := s.jwtService.GenerateSessionToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return token, nil
}

// SendResetOTP emails a reset code if the account exists. The response is
// identical either way; failures are logged, not returned.
func (s *authService) SendResetOTP(ctx context.Context, cmd SendResetOTPCommand) (string, error) {
	cmd.normalize()
	if err := validation.Struct(cmd); err != nil {
		return "", err
	}

	exists, err := s.userExists(ctx, cmd.Email)
	if err != nil {
		s.log.Error("reset otp: user lookup failed", zap.Error(err))
		return MsgResetOTPSent, nil
	}
	if !exists {
		return MsgResetOTPSent, nil
	}

	if err := s.issueOTP(ctx, cmd.Email, model.OTPPurposeReset); err != nil {
		s.log.Error("reset otp: issue failed", zap.Error(err))
	}
	return MsgResetOTPSent, nil
}

// VerifyResetOTP consumes the reset code and returns a short-lived reset token.
func (s *authService) VerifyResetOTP(ctx context.Context, cmd VerifyResetOTPCommand) (string, error) {
	cmd.normalize()
	if err := validation.Struct(cmd); err != nil {
		return "", err
	}

	if err := s.consumeOTP(ctx, cmd.Email, model.OTPPurposeReset, cmd.OTP); err != nil {
		return "", err
	}

	token, err := s.jwtService.GenerateResetToken(cmd.Email)
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return token, nil
}

// ResetPassword sets a new password for the account named in the reset token.
func (s *authService) ResetPassword(ctx context.Context, cmd ResetPasswordCommand) (string, error) {
	if err := validation.Struct(cmd); err != nil {
		return "", err
	}
	if err := checkPasswordLength(cmd.NewPassword); err != nil {
		return "", err
	}

	email, err := s.jwtService.ValidateResetToken(cmd.ResetToken)
	if err != nil {
		if errors.Is(err, auth.ErrWrongPurpose) {
			return "", apperrors.Auth("Invalid token purpose")
		}
		return "", apperrors.Auth("Reset token is invalid or expired")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.NotFound("User not found")
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cmd.NewPassword), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hashedPassword)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.NotFound("User not found")
		}
		return "", fmt.Errorf("update password: %w", err)
	}

	s.log.Info("password reset", zap.String("user_id", user.ID.String()))
	return MsgPasswordChanged, nil
}

func (s *authService) userExists(ctx context.Context, email string) (bool, error) {
	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("check user existence: %w", err)
}

// issueOTP replaces any live code for (email, purpose) and mails the new one.
func (s *authService) issueOTP(ctx context.Context, email string, purpose model.OTPPurpose) error {
	code, err := s.generate()
	if err != nil {
		return err
	}
	if err := s.otpStore.Replace(ctx, email, purpose, code); err != nil {
		return err
	}
	if err := s.mailer.SendOTP(ctx, email, code, purpose); err != nil {
		return fmt.Errorf("send %s otp: %w", purpose, err)
	}
	return nil
}

// consumeOTP deletes the code on a match. A mismatch leaves the live code
// in place.
func (s *authService) consumeOTP(ctx context.Context, email string, purpose model.OTPPurpose, submitted string) error {
	err := s.otpStore.Consume(ctx, email, purpose, submitted)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, auth.ErrOTPNotFound):
		return apperrors.NotFound("OTP expired or not found")
	case errors.Is(err, auth.ErrOTPMismatch):
		return apperrors.Validation("Invalid OTP")
	default:
		return err
	}
}

// checkPasswordLength counts bytes, since that is what bcrypt limits.
func checkPasswordLength(password string) error {
	if len(password) > maxPasswordBytes {
		return apperrors.Validation(fmt.Sprintf("Password must be at most %d bytes", maxPasswordBytes))
	}
	return nil
}
