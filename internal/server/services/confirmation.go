package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/dmitrijs2005/newsletter/internal/server/email"
)

// ConfirmationMailer sends the "confirm your subscription" email.
type ConfirmationMailer struct {
	sender    email.Sender
	templates *email.Templates
	baseURL   string
}

func NewConfirmationMailer(sender email.Sender, templates *email.Templates, baseURL string) *ConfirmationMailer {
	return &ConfirmationMailer{sender: sender, templates: templates, baseURL: baseURL}
}

// Send renders and sends the confirmation email for reg. Failures wrap
// common.ErrorInternal; the registration itself is unaffected.
func (m *ConfirmationMailer) Send(ctx context.Context, reg *Registration) error {
	msg, err := m.templates.ConfirmationEmail(m.baseURL, reg.Subscriber.Name, reg.Subscriber.Email, reg.Token)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: send confirmation: %w", common.ErrorInternal, err)
	}
	return nil
}
