package notify

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/quotenest/quotenest-api/pkg/logging"
)

// SMTPConfig holds configuration for plain SMTP submission.
// All fields plus a from address are required for the sender to activate.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPSender sends emails over authenticated SMTP.
type SMTPSender struct {
	client    *gomail.Client
	fromEmail string
	logger    *logging.Logger
}

// NewSMTPSender creates an SMTP email sender. It returns nil when the
// configuration is incomplete, letting callers degrade to no notifications.
func NewSMTPSender(cfg SMTPConfig, fromEmail string, logger *logging.Logger) *SMTPSender {
	if cfg.Host == "" || cfg.Port == 0 || cfg.Username == "" || cfg.Password == "" || fromEmail == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
	}
	// Implicit TLS on the smtps port, STARTTLS everywhere else.
	if cfg.Port == 465 {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		logger.Error("smtp client setup failed", "error", err, "host", cfg.Host)
		return nil
	}

	return &SMTPSender{
		client:    client,
		fromEmail: fromEmail,
		logger:    logger,
	}
}

// Send submits the message over SMTP with plaintext and HTML parts.
func (s *SMTPSender) Send(ctx context.Context, msg EmailMessage) error {
	if s.client == nil {
		return fmt.Errorf("notify: smtp client not configured")
	}

	m := gomail.NewMsg()
	if err := m.From(s.fromEmail); err != nil {
		return fmt.Errorf("notify: invalid from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("notify: invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)
	if msg.HTML != "" {
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		s.logger.Error("smtp send failed", "error", err, "to", msg.To)
		return fmt.Errorf("notify: smtp send failed: %w", err)
	}

	s.logger.Info("email sent via smtp", "to", msg.To, "subject", msg.Subject)
	return nil
}

var _ EmailSender = (*SMTPSender)(nil)
