package services

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"hirescreen/job-screening/internal/config"
)

// Mailer delivers interview invitations. The demo implementation is selected
// statically by configuration and always succeeds without any I/O.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NewMailer picks the SMTP or demo implementation based on whether mail
// credentials are configured.
func NewMailer(cfg *config.Config, logger *zap.Logger) Mailer {
	if cfg.DemoMail() {
		logger.Info("mail credentials not configured, running in demo mode")
		return &demoMailer{logger: logger}
	}
	return &smtpMailer{cfg: cfg.SMTP, logger: logger}
}

type smtpMailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// Send implements Mailer.
func (m *smtpMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.From),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	m.logger.Info("invitation mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

type demoMailer struct {
	logger *zap.Logger
}

// Send implements Mailer. Demo mode logs the mail instead of delivering it.
func (m *demoMailer) Send(_ context.Context, to, subject, body string) error {
	m.logger.Info("demo mode: mail not sent",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_length", len(body)))
	return nil
}
