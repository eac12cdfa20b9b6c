package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"taskpilot/internal/model"
)

func TestRenderOTP(t *testing.T) {
	reg, err := RenderOTP("123456", model.OTPPurposeRegister)
	require.NoError(t, err)
	assert.Equal(t, "Task Pilot – Verify your email", reg.Subject)
	assert.Contains(t, reg.HTML, "123456")
	assert.Contains(t, reg.HTML, "expires in 10 minutes")

	reset, err := RenderOTP("654321", model.OTPPurposeReset)
	require.NoError(t, err)
	assert.Equal(t, "Task Pilot – Password reset code", reset.Subject)
	assert.Contains(t, reset.HTML, "Reset your password")

	_, err = RenderOTP("000000", model.OTPPurpose("login"))
	assert.Error(t, err)
}

func TestSMTPMailer_SendOTP(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "noreply@example.com", Password: "secret"})

	var got *gomail.Msg
	m.send = func(_ context.Context, msg *gomail.Msg) error {
		got = msg
		return nil
	}

	err := m.SendOTP(context.Background(), "alice@example.com", "987654", model.OTPPurposeRegister)
	require.NoError(t, err)
	require.NotNil(t, got)

	rcpts, err := got.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@example.com"}, rcpts)

	sender, err := got.GetSender(false)
	require.NoError(t, err)
	assert.Equal(t, "noreply@example.com", sender)

	assert.Equal(t, []string{"Task Pilot – Verify your email"}, got.GetGenHeader(gomail.HeaderSubject))

	parts := got.GetParts()
	require.Len(t, parts, 1)
	body, err := parts[0].GetContent()
	require.NoError(t, err)
	assert.Contains(t, string(body), "987654")
}

func TestSMTPMailer_SendError(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"})
	m.send = func(context.Context, *gomail.Msg) error {
		return errors.New("connection refused")
	}

	err := m.SendOTP(context.Background(), "alice@example.com", "987654", model.OTPPurposeReset)
	assert.ErrorContains(t, err, "connection refused")
}

func TestSMTPMailer_RejectsBadRecipient(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"})
	m.send = func(context.Context, *gomail.Msg) error {
		t.Fatal("send must not be called")
		return nil
	}

	err := m.SendOTP(context.Background(), "not an address", "987654", model.OTPPurposeReset)
	assert.ErrorContains(t, err, "set recipient")
}

func TestSMTPMailer_CancelledContext(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"})
	m.send = func(context.Context, *gomail.Msg) error {
		t.Fatal("send must not be called")
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.SendOTP(ctx, "alice@example.com", "987654", model.OTPPurposeReset)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSMTPMailer_DialFailureIsBounded(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "127.0.0.1", Port: 1, From: "noreply@example.com", Timeout: time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	start := time.Now()

	err := m.SendOTP(ctx, "alice@example.com", "987654", model.OTPPurposeRegister)

	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestLogMailer(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewLogMailer(zap.New(core))

	require.NoError(t, m.SendOTP(context.Background(), "bob@example.com", "111222", model.OTPPurposeReset))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "bob@example.com", fields["to"])
	assert.Equal(t, "111222", fields["code"])
}
