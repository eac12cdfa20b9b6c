package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	// SessionTokenExpiry is the duration for which session tokens are valid.
	SessionTokenExpiry = 24 * time.Hour
	// ResetTokenExpiry is the duration for which password reset tokens are valid.
	ResetTokenExpiry = 5 * time.Minute

	// PurposeReset marks a token that may only be used to reset a password.
	PurposeReset = "reset"
)

var (
	// ErrInvalidToken is returned for any token that fails verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrWrongPurpose is returned when a reset token does not carry the reset purpose.
	ErrWrongPurpose = errors.New("invalid token purpose")
)

// SessionClaims identify the caller; the user id travels in the subject.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// ResetClaims authorize a single password reset for Email.
type ResetClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret []byte
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// GenerateSessionToken issues a token bound to userID.
func (s *JWTService) GenerateSessionToken(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return s.sign(claims)
}

// GenerateResetToken issues a short-lived token usable only for resetting
// the password of email.
func (s *JWTService) GenerateResetToken(email string) (string, error) {
	now := s.now()
	claims := &ResetClaims{
		Email:   email,
		Purpose: PurposeReset,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ResetTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return s.sign(claims)
}

// ValidateSessionToken verifies a session token and returns the user id it
// was issued for. Reset tokens carry no subject and are rejected here.
func (s *JWTService) ValidateSessionToken(tokenString string) (uuid.UUID, error) {
	claims := &SessionClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return userID, nil
}

// ValidateResetToken verifies a reset token and returns the email it authorizes.
func (s *JWTService) ValidateResetToken(tokenString string) (string, error) {
	claims := &ResetClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return "", err
	}
	if claims.Purpose != PurposeReset {
		return "", ErrWrongPurpose
	}
	if claims.Email == "" {
		return "", fmt.Errorf("%w: missing email", ErrInvalidToken)
	}
	return claims.Email, nil
}

func (s *JWTService) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) parse(tokenString string, claims jwt.Claims) error {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
