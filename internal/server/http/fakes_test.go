package http

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/dmitrijs2005/newsletter/internal/logging"
	"github.com/dmitrijs2005/newsletter/internal/server/models"
	"github.com/dmitrijs2005/newsletter/internal/server/services"
	"github.com/google/uuid"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type fakeRegistry struct {
	registerErr error
	confirmErr  error
	pending     *services.Registration
	pendingErr  error

	registered []string
	confirmed  []string
}

func (f *fakeRegistry) Register(ctx context.Context, email, name string) (*services.Registration, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	f.registered = append(f.registered, email)
	return &services.Registration{
		Subscriber: models.Subscriber{ID: uuid.New(), Email: email, Name: name},
		Token:      "tok",
	}, nil
}

func (f *fakeRegistry) Confirm(ctx context.Context, token string) error {
	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.confirmed = append(f.confirmed, token)
	return nil
}

func (f *fakeRegistry) Pending(ctx context.Context, email string) (*services.Registration, error) {
	if f.pendingErr != nil {
		return nil, f.pendingErr
	}
	if f.pending == nil {
		return nil, common.ErrorNotFound
	}
	return f.pending, nil
}

type fakeConfirmations struct {
	mu   sync.Mutex
	sent []*services.Registration
	err  error
}

func (f *fakeConfirmations) Send(ctx context.Context, reg *services.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, reg)
	return f.err
}

type fakeCredentials struct {
	username, password string
	id                 uuid.UUID
	err                error
}

func (f *fakeCredentials) Validate(ctx context.Context, username, password string) (uuid.UUID, error) {
	if f.err != nil {
		return uuid.Nil, f.err
	}
	if username != f.username || password != f.password {
		return uuid.Nil, common.ErrInvalidCredentials
	}
	return f.id, nil
}

type fakePublisher struct {
	issues    []models.Issue
	publisher uuid.UUID
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, publisherID uuid.UUID, issue models.Issue) (*services.Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.publisher = publisherID
	f.issues = append(f.issues, issue)
	return &services.Report{IssueID: uuid.New(), Sent: 3}, nil
}
