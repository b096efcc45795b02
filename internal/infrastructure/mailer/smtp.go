// Package mailer sends account emails over SMTP.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/ashrafosamaa/gym-management-sys/internal/config"
)

// SMTPMailer implements domain.Notifier using plain SMTP with STARTTLS
// negotiated by net/smtp when the server offers it.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendActivationCode emails the signup confirmation code to a new member.
func (m *SMTPMailer) SendActivationCode(ctx context.Context, email, name, code string) error {
	subject := "Activate your gym account"
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nYour activation code is: %s\r\n\r\nEnter it to confirm your account.\r\n",
		name, code,
	)
	return m.send(ctx, email, subject, body)
}

// SendTrainerCredentials delivers the one-use password to a newly registered
// trainer. The phone number doubles as the delivery address via an SMS
// gateway, so the recipient is the gateway mailbox for that number.
func (m *SMTPMailer) SendTrainerCredentials(ctx context.Context, phone, userName, password string) error {
	subject := "Your trainer account"
	body := fmt.Sprintf(
		"Welcome %s,\r\n\r\nYour one-time password is: %s\r\n\r\nUse it for your first login, then set a new password.\r\n",
		userName, password,
	)
	return m.send(ctx, phone+"@sms-gateway.local", subject, body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
