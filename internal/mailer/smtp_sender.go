// Package mailer delivers queued emails over SMTP with STARTTLS.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"recipe-server/internal/interfaces"
	"recipe-server/internal/models"

	"go.uber.org/zap"
)

// Compile-time check to ensure smtpSender implements EmailSender
var _ interfaces.EmailSender = (*smtpSender)(nil)

// Config holds SMTP connection settings.
type Config struct {
	Host          string
	Port          int
	Username      string
	Password      string
	Sender        string
	SubjectPrefix string
}

type smtpSender struct {
	cfg    Config
	logger *zap.Logger
}

// NewSMTPSender creates an SMTP-backed EmailSender.
func NewSMTPSender(cfg Config, logger *zap.Logger) interfaces.EmailSender {
	return &smtpSender{
		cfg:    cfg,
		logger: logger.Named("SMTPSender"),
	}
}

// Send renders the template and delivers a single message. The context
// deadline bounds the dial; SMTP itself has no context support.
func (s *smtpSender) Send(ctx context.Context, msg *models.EmailMessage) error {
	log := s.logger.With(zap.String("to", msg.To), zap.String("template", msg.Template))

	body, err := renderBody(msg)
	if err != nil {
		log.Error("Failed to render email body", zap.Error(err))
		return err
	}

	subject := strings.TrimSpace(s.cfg.SubjectPrefix + " " + msg.Subject)
	var raw strings.Builder
	fmt.Fprintf(&raw, "From: %s\r\n", s.cfg.Sender)
	fmt.Fprintf(&raw, "To: %s\r\n", msg.To)
	fmt.Fprintf(&raw, "Subject: %s\r\n", subject)
	raw.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	raw.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		log.Error("Failed to dial SMTP server", zap.Error(err), zap.String("addr", addr))
		return fmt.Errorf("failed to dial smtp server: %w", err)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		log.Error("Failed to create SMTP client", zap.Error(err))
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			log.Error("STARTTLS failed", zap.Error(err))
			return fmt.Errorf("starttls failed: %w", err)
		}
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			log.Error("SMTP authentication failed", zap.Error(err))
			return fmt.Errorf("smtp auth failed: %w", err)
		}
	}

	sender := extractAddress(s.cfg.Sender)
	if err := client.Mail(sender); err != nil {
		return fmt.Errorf("smtp MAIL FROM failed: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp RCPT TO failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA failed: %w", err)
	}
	if _, err := w.Write([]byte(raw.String())); err != nil {
		w.Close()
		return fmt.Errorf("failed to write email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish email body: %w", err)
	}

	if err := client.Quit(); err != nil {
		log.Warn("SMTP QUIT failed", zap.Error(err))
	}

	log.Info("Email delivered")
	return nil
}

func renderBody(msg *models.EmailMessage) (string, error) {
	switch msg.Template {
	case models.EmailTemplateConfirm:
		return fmt.Sprintf(
			"Dear %s,\n\nWelcome to Recipe Blog!\n\nTo confirm your account please follow this link:\n\n%s\n\nThe link expires in one hour.\n\nIf you did not register, simply ignore this email.\n",
			msg.Username, msg.Link), nil
	case models.EmailTemplateResetPassword:
		return fmt.Sprintf(
			"Dear %s,\n\nTo reset your password follow this link:\n\n%s\n\nThe link expires in one hour.\n\nIf you have not requested a password reset, simply ignore this email.\n",
			msg.Username, msg.Link), nil
	case models.EmailTemplateChangeEmail:
		return fmt.Sprintf(
			"Dear %s,\n\nTo confirm your new email address follow this link:\n\n%s\n\nThe link expires in one hour.\n\nIf you have not requested an email change, simply ignore this email.\n",
			msg.Username, msg.Link), nil
	default:
		return "", fmt.Errorf("unknown email template %q", msg.Template)
	}
}

// extractAddress pulls the bare address out of "Name <addr>" senders.
func extractAddress(sender string) string {
	if start := strings.LastIndex(sender, "<"); start != -1 {
		if end := strings.LastIndex(sender, ">"); end > start {
			return sender[start+1 : end]
		}
	}
	return sender
}
