package email

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/osteele/liquid"
)

const (
	confirmationSubject = "Welcome to our newsletter!"

	confirmationHTML = `<p>Hi {{ name | escape }},</p>
<p>Welcome to our newsletter!<br />
Click <a href="{{ link | escape }}">here</a> to confirm your subscription.</p>`

	confirmationText = `Hi {{ name }},

Welcome to our newsletter!
Visit {{ link }} to confirm your subscription.
`
)

// Templates renders the transactional emails.
type Templates struct {
	html *liquid.Template
	text *liquid.Template
}

func NewTemplates() (*Templates, error) {
	engine := liquid.NewEngine()

	html, err := engine.ParseString(confirmationHTML)
	if err != nil {
		return nil, fmt.Errorf("parse confirmation html: %w", err)
	}
	text, err := engine.ParseString(confirmationText)
	if err != nil {
		return nil, fmt.Errorf("parse confirmation text: %w", err)
	}
	return &Templates{html: html, text: text}, nil
}

// ConfirmationLink is <baseURL>/subscriptions/confirm?subscription_token=<token>.
func ConfirmationLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/subscriptions/confirm?subscription_token=" + url.QueryEscape(token)
}

// ConfirmationEmail renders the message asking name at to to confirm.
func (t *Templates) ConfirmationEmail(baseURL, name, to, token string) (Message, error) {
	bindings := map[string]any{
		"name": name,
		"link": ConfirmationLink(baseURL, token),
	}

	html, err := t.html.RenderString(bindings)
	if err != nil {
		return Message{}, fmt.Errorf("render confirmation html: %w", err)
	}
	text, err := t.text.RenderString(bindings)
	if err != nil {
		return Message{}, fmt.Errorf("render confirmation text: %w", err)
	}

	return Message{To: to, Subject: confirmationSubject, HTML: html, Text: text}, nil
}
