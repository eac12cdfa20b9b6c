package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"taskpilot/internal/cache"
	"taskpilot/internal/model"
)

const (
	otpKeyPrefix = "otp:"
	otpDigits    = 6

	// DefaultOTPTTL matches the expiry promised in the OTP email.
	DefaultOTPTTL = 10 * time.Minute
)

var (
	// ErrOTPNotFound is returned when no live code exists for an (email, purpose) pair.
	ErrOTPNotFound = errors.New("otp not found")
	// ErrOTPMismatch is returned when a live code exists but differs from the submitted one.
	ErrOTPMismatch = errors.New("otp mismatch")
)

// OTPStoreInterface defines the interface for one-time code storage.
type OTPStoreInterface interface {
	// Replace drops any live code for (email, purpose) and stores code in its place.
	Replace(ctx context.Context, email string, purpose model.OTPPurpose, code string) error
	// Consume deletes the live code if it equals code. It returns
	// ErrOTPNotFound or ErrOTPMismatch otherwise; a mismatch keeps the code.
	Consume(ctx context.Context, email string, purpose model.OTPPurpose, code string) error
}

// OTPStore keeps one-time codes in the key-value store, one key per
// (email, purpose) with a TTL.
type OTPStore struct {
	cache cache.Store
	ttl   time.Duration
}

// Ensure OTPStore implements OTPStoreInterface
var _ OTPStoreInterface = (*OTPStore)(nil)

// NewOTPStore creates a new OTP store. A non-positive ttl falls back to DefaultOTPTTL.
func NewOTPStore(store cache.Store, ttl time.Duration) *OTPStore {
	if ttl <= 0 {
		ttl = DefaultOTPTTL
	}
	return &OTPStore{cache: store, ttl: ttl}
}

func otpKey(email string, purpose model.OTPPurpose) string {
	return otpKeyPrefix + string(purpose) + ":" + email
}

// Replace removes any previous code before writing the new one.
func (s *OTPStore) Replace(ctx context.Context, email string, purpose model.OTPPurpose, code string) error {
	key := otpKey(email, purpose)
	if err := s.cache.Delete(ctx, key); err != nil {
		return fmt.Errorf("clear otp: %w", err)
	}
	if err := s.cache.Set(ctx, key, []byte(code), s.ttl); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	return nil
}

// Consume checks and removes the code atomically; of two concurrent
// callers with the right code only one succeeds.
func (s *OTPStore) Consume(ctx context.Context, email string, purpose model.OTPPurpose, code string) error {
	found, deleted, err := s.cache.CompareAndDelete(ctx, otpKey(email, purpose), []byte(code))
	if err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	if !found {
		return ErrOTPNotFound
	}
	if !deleted {
		return ErrOTPMismatch
	}
	return nil
}

// GenerateOTP returns a uniformly random 6-digit code from crypto/rand.
func GenerateOTP() (string, error) {
	limit := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}
