package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpMailer struct {
	client *mail.Client
	from   string
}

// NewSMTP creates a Mailer backed by an SMTP server.
func NewSMTP(cfg SMTPConfig) (Mailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}
	return &smtpMailer{client: client, from: cfg.From}, nil
}

func (m *smtpMailer) SendVerificationEmail(ctx context.Context, email, otp string) error {
	body := fmt.Sprintf("Your OTP for email verification is: %s. It expires in 10 minutes.", otp)
	return m.send(ctx, email, "Verify Your Email", body)
}

func (m *smtpMailer) SendPasswordResetEmail(ctx context.Context, email, link string) error {
	body := fmt.Sprintf("Click the link below to reset your password. It expires in 15 minutes.\n\n%s", link)
	return m.send(ctx, email, "Reset Your Password", body)
}

func (m *smtpMailer) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return nil
}
