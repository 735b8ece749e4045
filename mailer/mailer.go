// Package mailer delivers transactional email.
package mailer

import (
	"context"
	"fmt"

	"github.com/mailgun/mailgun-go/v4"
	"go.uber.org/zap"

	"github.com/ZacIsrael/dev-camper-api/config"
	"github.com/ZacIsrael/dev-camper-api/log"
	"github.com/ZacIsrael/dev-camper-api/services"
)

// New returns a Mailgun mailer, or a Logger when Mailgun is not configured.
func New(cfg *config.Config) services.Mailer {
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" {
		log.Logger.Warn("mailgun not configured, emails will only be logged")
		return Logger{}
	}
	return NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail))
}

type Mailgun struct {
	mg   mailgun.Mailgun
	from string
}

func NewMailgun(domain, apiKey, from string) *Mailgun {
	return &Mailgun{mg: mailgun.NewMailgun(domain, apiKey), from: from}
}

func (m *Mailgun) Send(ctx context.Context, msg services.Message) error {
	message := m.mg.NewMessage(m.from, msg.Subject, msg.Text, msg.To)
	_, id, err := m.mg.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("mailgun send: %w", err)
	}
	log.Logger.Debug("email sent", zap.String("to", msg.To), zap.String("id", id))
	return nil
}

// Logger writes messages to the log instead of sending them.
type Logger struct{}

func (Logger) Send(ctx context.Context, msg services.Message) error {
	log.Logger.Info("email",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text),
	)
	return nil
}
