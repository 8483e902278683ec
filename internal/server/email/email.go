// Package email delivers single messages through one of several providers.
// Every provider implements Sender; none of them retries.
package email

import (
	"context"
	"errors"
)

// Message is one outgoing email. It is also the JSON body put on the mail
// queue.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

// Sender delivers one message to one recipient.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var ErrEmptyRecipient = errors.New("email: empty recipient")

func (m Message) validate() error {
	if m.To == "" {
		return ErrEmptyRecipient
	}
	return nil
}
