package email

import (
	"context"

	"github.com/dmitrijs2005/newsletter/internal/logging"
)

// LogSender writes messages to the logger instead of sending them. It is the
// default for local development.
type LogSender struct {
	log logging.Logger
}

func NewLogSender(l logging.Logger) *LogSender {
	return &LogSender{log: l.With("component", "email.log")}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	s.log.Info(ctx, "email",
		"to", logging.RedactEmail(msg.To),
		"subject", msg.Subject,
	)
	s.log.Debug(ctx, "email body", "text", msg.Text)
	return nil
}
