package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"taskpilot/internal/model"
)

// Mailer delivers one-time codes to users.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string, purpose model.OTPPurpose) error
}

// Message is a rendered OTP email.
type Message struct {
	Subject string
	HTML    string
}

var otpTemplate = template.Must(template.New("otp").Parse(`<div style="font-family: 'Segoe UI', sans-serif; max-width: 480px; margin: 0 auto; background: #fdf7ef; border-radius: 16px; border: 1px solid #e8ddd0;">
  <div style="background: #147d71; padding: 32px 32px 24px; text-align: center;">
    <p style="margin: 0; color: rgba(255,255,255,0.8); font-size: 13px; letter-spacing: 1px; text-transform: uppercase;">Task Pilot</p>
    <h1 style="margin: 8px 0 0; color: #fff; font-size: 22px;">{{.Heading}}</h1>
  </div>
  <div style="padding: 32px;">
    <p style="color: #4b5f75; margin: 0 0 24px;">{{.Description}}</p>
    <div style="background: #fff; border: 2px dashed #147d71; border-radius: 12px; padding: 24px; text-align: center; margin-bottom: 24px;">
      <p style="margin: 0; font-size: 40px; font-weight: 800; letter-spacing: 10px; color: #12263a;">{{.Code}}</p>
    </div>
    <p style="color: #4b5f75; font-size: 13px; margin: 0;">If you didn't request this, you can safely ignore this email.</p>
  </div>
</div>
`))

// RenderOTP builds the subject and HTML body for a code.
func RenderOTP(code string, purpose model.OTPPurpose) (Message, error) {
	data := struct {
		Heading     string
		Description string
		Code        string
	}{Code: code}

	var subject string
	switch purpose {
	case model.OTPPurposeRegister:
		subject = "Task Pilot – Verify your email"
		data.Heading = "Verify your email address"
		data.Description = "Use the code below to complete your registration. It expires in 10 minutes."
	case model.OTPPurposeReset:
		subject = "Task Pilot – Password reset code"
		data.Heading = "Reset your password"
		data.Description = "Use the code below to reset your password. It expires in 10 minutes."
	default:
		return Message{}, fmt.Errorf("unknown otp purpose %q", purpose)
	}

	var buf bytes.Buffer
	if err := otpTemplate.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("render otp email: %w", err)
	}
	return Message{Subject: subject, HTML: buf.String()}, nil
}

// SMTPConfig holds relay settings for SMTPMailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

const defaultSMTPTimeout = 10 * time.Second

// SMTPMailer sends mail through an SMTP relay. STARTTLS is required; the
// dial and every command are bounded by the configured timeout and the
// request context.
type SMTPMailer struct {
	from string
	opts []gomail.Option
	host string
	send func(ctx context.Context, msg *gomail.Msg) error
}

// Ensure SMTPMailer implements Mailer
var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates a mailer for cfg. Auth is skipped when Username is
// empty, and From falls back to Username.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultSMTPTimeout
	}
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTimeout(timeout),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	m := &SMTPMailer{from: from, opts: opts, host: cfg.Host}
	m.send = m.dialAndSend
	return m
}

// SendOTP renders and sends the code email.
func (m *SMTPMailer) SendOTP(ctx context.Context, to, code string, purpose model.OTPPurpose) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rendered, err := RenderOTP(code, purpose)
	if err != nil {
		return err
	}
	msg, err := m.build(to, rendered)
	if err != nil {
		return err
	}
	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}

func (m *SMTPMailer) build(to string, rendered Message) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat("Task Pilot", m.from); err != nil {
		return nil, fmt.Errorf("set sender %q: %w", m.from, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("set recipient %q: %w", to, err)
	}
	msg.Subject(rendered.Subject)
	msg.SetBodyString(gomail.TypeTextHTML, rendered.HTML)
	return msg, nil
}

// dialAndSend opens a fresh connection per message; gomail.Client holds a
// single connection and is not shared between requests.
func (m *SMTPMailer) dialAndSend(ctx context.Context, msg *gomail.Msg) error {
	client, err := gomail.NewClient(m.host, m.opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// LogMailer writes codes to the log instead of sending them. Used when no
// SMTP host is configured.
type LogMailer struct {
	log *zap.Logger
}

// Ensure LogMailer implements Mailer
var _ Mailer = (*LogMailer)(nil)

// NewLogMailer creates a mailer that only logs.
func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// SendOTP logs the recipient and code.
func (m *LogMailer) SendOTP(_ context.Context, to, code string, purpose model.OTPPurpose) error {
	m.log.Info("otp email (not sent, no SMTP host configured)",
		zap.String("to", to),
		zap.String("purpose", string(purpose)),
		zap.String("code", code),
	)
	return nil
}
