package mail

import (
	"fmt"

	"github.com/nordvik-interiors/ops-api/internal/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends outbound mail over SMTP. When disabled in config every
// send becomes a logged no-op so outreach still works in environments
// without SMTP credentials.
type Mailer struct {
	cfg    *config.SMTPConfig
	dialer *gomail.Dialer
	logger *zap.Logger
}

func NewMailer(cfg *config.SMTPConfig, logger *zap.Logger) *Mailer {
	m := &Mailer{
		cfg:    cfg,
		logger: logger,
	}
	if cfg.Enabled {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return m
}

// Enabled reports whether outbound mail is configured
func (m *Mailer) Enabled() bool {
	return m.cfg.Enabled && m.dialer != nil
}

// Send delivers a plain-text email to a single recipient
func (m *Mailer) Send(to, subject, body string) error {
	if !m.Enabled() {
		m.logger.Info("mail delivery disabled, skipping send",
			zap.String("to", to),
			zap.String("subject", subject))
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.From, m.cfg.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}

	m.logger.Info("mail sent",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}
