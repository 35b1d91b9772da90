// Package mail delivers one-time codes by email.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/Sihamkassim/Gursha-diaries-Backend/internal/config"
)

// Message is a single HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer sends a message. A nil error means the transport accepted the
// message for the recipient.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Purpose selects the wording of a code email.
type Purpose int

const (
	PurposeVerification Purpose = iota
	PurposePasswordReset
)

var codeTemplate = template.Must(template.New("code").Parse(
	`<h1>{{.Code}}</h1><p>{{.Lead}} It expires in 5 minutes.</p>`))

// CodeMessage renders the email carrying code to address.
func CodeMessage(purpose Purpose, address, code string) (Message, error) {
	data := struct {
		Code string
		Lead string
	}{Code: code}

	subject := "Verification code"
	data.Lead = "Use this code to verify your email address."
	if purpose == PurposePasswordReset {
		subject = "Forgot password code"
		data.Lead = "Use this code to reset your password."
	}

	var buf bytes.Buffer
	if err := codeTemplate.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("render code email: %w", err)
	}
	return Message{To: address, Subject: subject, HTML: buf.String()}, nil
}

// New builds the mailer selected by cfg.MailProvider.
func New(cfg *config.Config) (Mailer, error) {
	switch cfg.MailProvider {
	case "smtp":
		return NewSMTPMailer(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
			Timeout:  cfg.MailTimeout,
		}), nil
	case "sendgrid":
		return NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFrom, "Gursha Diaries"), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.MailProvider)
	}
}
