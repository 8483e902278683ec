package email

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/newsletter/internal/logging"
	"github.com/dmitrijs2005/newsletter/internal/server/config"
)

// NewSender builds the provider selected by cfg.EmailProvider. The returned
// close func releases provider connections and is never nil.
func NewSender(ctx context.Context, cfg *config.Config, l logging.Logger) (Sender, func() error, error) {
	noop := func() error { return nil }

	switch cfg.EmailProvider {
	case config.EmailProviderLog, "":
		return NewLogSender(l), noop, nil
	case config.EmailProviderSMTP:
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailSender), noop, nil
	case config.EmailProviderSES:
		s, err := NewSESSender(ctx, cfg.SESRegion, cfg.SESAccessKey, cfg.SESSecretKey, cfg.EmailSender)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case config.EmailProviderMailgun:
		return NewMailgunSender(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunBaseURL, cfg.EmailSender), noop, nil
	case config.EmailProviderAMQP:
		s, err := NewQueueSender(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown email provider %q", cfg.EmailProvider)
	}
}

// WithTimeout bounds every Send by d.
func WithTimeout(s Sender, d time.Duration) Sender {
	if d <= 0 {
		return s
	}
	return timeoutSender{next: s, d: d}
}

type timeoutSender struct {
	next Sender
	d    time.Duration
}

func (t timeoutSender) Send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.Send(ctx, msg)
}
