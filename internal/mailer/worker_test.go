package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/newsletter/internal/logging"
	"github.com/dmitrijs2005/newsletter/internal/server/email"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type ackCall struct {
	kind    string
	requeue bool
}

type fakeAcknowledger struct {
	calls []ackCall
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.calls = append(f.calls, ackCall{kind: "ack"})
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.calls = append(f.calls, ackCall{kind: "nack", requeue: requeue})
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	f.calls = append(f.calls, ackCall{kind: "reject", requeue: requeue})
	return nil
}

type fakeSender struct {
	sent []email.Message
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg email.Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

func delivery(t *testing.T, ack amqp.Acknowledger, body any) amqp.Delivery {
	t.Helper()
	var raw []byte
	switch b := body.(type) {
	case []byte:
		raw = b
	default:
		var err error
		raw, err = json.Marshal(b)
		require.NoError(t, err)
	}
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: raw}
}

func TestWorker_Handle(t *testing.T) {
	msg := email.Message{To: "alice@example.com", Subject: "s", HTML: "<p>h</p>", Text: "h"}

	cases := []struct {
		name     string
		body     any
		sendErr  error
		wantCall ackCall
		wantSent int
	}{
		{"delivered", msg, nil, ackCall{kind: "ack"}, 1},
		{"send failure", msg, errors.New("smtp 550"), ackCall{kind: "nack"}, 1},
		{"malformed json", []byte("{not json"), nil, ackCall{kind: "reject"}, 0},
		{"missing recipient", email.Message{Subject: "s"}, nil, ackCall{kind: "reject"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ack := &fakeAcknowledger{}
			s := &fakeSender{err: tc.sendErr}
			w := NewWorker(s, nopLogger{})

			w.Handle(context.Background(), delivery(t, ack, tc.body))

			require.Len(t, ack.calls, 1)
			assert.Equal(t, tc.wantCall, ack.calls[0])
			assert.Len(t, s.sent, tc.wantSent)
		})
	}
}

func TestWorker_Consume(t *testing.T) {
	ack := &fakeAcknowledger{}
	s := &fakeSender{}
	w := NewWorker(s, nopLogger{})

	ch := make(chan amqp.Delivery, 2)
	ch <- delivery(t, ack, email.Message{To: "a@example.com"})
	ch <- delivery(t, ack, email.Message{To: "b@example.com"})
	close(ch)

	done := make(chan struct{})
	go func() {
		w.Consume(context.Background(), ch)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Consume did not return after channel close")
	}
	assert.Len(t, s.sent, 2)
	assert.Len(t, ack.calls, 2)
}

func TestWorker_ConsumeStopsOnCancel(t *testing.T) {
	w := NewWorker(&fakeSender{}, nopLogger{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		w.Consume(ctx, make(chan amqp.Delivery))
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Consume did not stop on cancel")
	}
}
