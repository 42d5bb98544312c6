package notify

import (
	"context"
	"errors"

	"github.com/wneessen/go-mail"

	"github.com/sathviktm/AI-Health-Assistant/pkg/logging"
)

// SMTPSender sends emails over plain SMTP with STARTTLS.
type SMTPSender struct {
	client    *mail.Client
	fromEmail string
	fromName  string
	logger    *logging.Logger
}

// SMTPConfig holds configuration for the SMTP transport.
type SMTPConfig struct {
	Host      string
	Port      int
	FromEmail string
	FromName  string
	Password  string
}

// NewSMTPSender creates an SMTP email sender. The from address doubles as
// the auth username, matching common provider setups (Gmail app passwords).
func NewSMTPSender(cfg SMTPConfig, logger *logging.Logger) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, errors.New("notify: SMTP host is required")
	}
	if cfg.FromEmail == "" {
		return nil, errors.New("notify: SMTP sender address is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "Health Assistant Team"
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.FromEmail),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, &DeliveryError{Transport: "smtp", Err: err}
	}

	return &SMTPSender{
		client:    client,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}, nil
}

// Send sends an email via SMTP. The caller bounds the attempt through ctx.
func (s *SMTPSender) Send(ctx context.Context, msg EmailMessage) error {
	if s.client == nil {
		return &DeliveryError{Transport: "smtp", Err: errNotConfigured}
	}

	m := mail.NewMsg()
	if err := m.FromFormat(s.fromName, s.fromEmail); err != nil {
		return &DeliveryError{Transport: "smtp", Err: err}
	}
	if err := m.To(msg.To); err != nil {
		s.logger.Error("smtp rejected recipient", "error", err, "to", msg.To)
		return &DeliveryError{Transport: "smtp", Err: err}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		s.logger.Error("smtp send failed", "error", err, "to", msg.To)
		return &DeliveryError{Transport: "smtp", Err: err}
	}

	s.logger.Info("email sent via smtp", "to", msg.To, "subject", msg.Subject)
	return nil
}

var _ EmailSender = (*SMTPSender)(nil)
