package email

import (
	"context"
	"fmt"

	"github.com/mailgun/mailgun-go/v4"
)

type mailgunAPI interface {
	NewMessage(from, subject, text string, to ...string) *mailgun.Message
	Send(ctx context.Context, m *mailgun.Message) (string, string, error)
}

// MailgunSender sends through the Mailgun messages API.
type MailgunSender struct {
	from   string
	client mailgunAPI
}

// NewMailgunSender builds a client for domain. baseURL overrides the API
// endpoint, e.g. for the EU region; empty keeps the default.
func NewMailgunSender(domain, apiKey, baseURL, from string) *MailgunSender {
	mg := mailgun.NewMailgun(domain, apiKey)
	if baseURL != "" {
		mg.SetAPIBase(baseURL)
	}
	return &MailgunSender{from: from, client: mg}
}

func (s *MailgunSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}

	m := s.client.NewMessage(s.from, msg.Subject, msg.Text, msg.To)
	if msg.HTML != "" {
		m.SetHtml(msg.HTML)
	}

	if _, _, err := s.client.Send(ctx, m); err != nil {
		return fmt.Errorf("mailgun send: %w", err)
	}
	return nil
}
