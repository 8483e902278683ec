package services

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"sync"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/dmitrijs2005/newsletter/internal/dbx"
	"github.com/dmitrijs2005/newsletter/internal/logging"
	"github.com/dmitrijs2005/newsletter/internal/server/email"
	"github.com/dmitrijs2005/newsletter/internal/server/models"
	"github.com/dmitrijs2005/newsletter/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/newsletter/internal/server/repositories/subscribers"
	"github.com/dmitrijs2005/newsletter/internal/server/repositories/tokens"
	"github.com/google/uuid"
)

// ---------- logger ----------

func newBufferLogger() (logging.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return logging.NewSlogLogger(slog.New(h)), &buf
}

// ---------- repositories ----------

type fakeSubscribersRepo struct {
	created   []models.Subscriber
	createErr error

	confirmed  []uuid.UUID
	confirmErr error

	byEmail    *models.Subscriber
	byEmailErr error

	list    []models.Subscriber
	listErr error
}

func (f *fakeSubscribersRepo) Create(ctx context.Context, s *models.Subscriber) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *s)
	return nil
}

func (f *fakeSubscribersRepo) Confirm(ctx context.Context, id uuid.UUID) error {
	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.confirmed = append(f.confirmed, id)
	return nil
}

func (f *fakeSubscribersRepo) GetByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	if f.byEmail == nil {
		return nil, common.ErrorNotFound
	}
	return f.byEmail, nil
}

func (f *fakeSubscribersRepo) ListConfirmed(ctx context.Context) ([]models.Subscriber, error) {
	return f.list, f.listErr
}

type fakeTokensRepo struct {
	created   []models.SubscriptionToken
	createErr error

	findID  uuid.UUID
	findErr error

	bySub    string
	bySubErr error
}

func (f *fakeTokensRepo) Create(ctx context.Context, t *models.SubscriptionToken) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *t)
	return nil
}

func (f *fakeTokensRepo) FindSubscriberID(ctx context.Context, token string) (uuid.UUID, error) {
	return f.findID, f.findErr
}

func (f *fakeTokensRepo) FindBySubscriber(ctx context.Context, id uuid.UUID) (string, error) {
	return f.bySub, f.bySubErr
}

type fakeCredentialsRepo struct {
	byName map[string]*models.Credential
	err    error
}

func (f *fakeCredentialsRepo) Create(ctx context.Context, c *models.Credential) error {
	return nil
}

func (f *fakeCredentialsRepo) GetByUsername(ctx context.Context, username string) (*models.Credential, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.byName[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return c, nil
}

type fakeRepoManager struct {
	s *fakeSubscribersRepo
	t *fakeTokensRepo
	c *fakeCredentialsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error   { return nil }
func (m *fakeRepoManager) Subscribers(db dbx.DBTX) subscribers.Repository { return m.s }
func (m *fakeRepoManager) Tokens(db dbx.DBTX) tokens.Repository           { return m.t }
func (m *fakeRepoManager) Credentials(db dbx.DBTX) credentials.Repository { return m.c }

// ---------- email ----------

type fakeSender struct {
	mu     sync.Mutex
	sent   []email.Message
	failTo map[string]error
}

func (f *fakeSender) Send(ctx context.Context, msg email.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	if err, ok := f.failTo[msg.To]; ok {
		return err
	}
	return nil
}

func (f *fakeSender) recipients() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		out = append(out, m.To)
	}
	return out
}

// ---------- archive ----------

type fakeArchive struct {
	stored []*models.PublishedIssue
	err    error
}

func (f *fakeArchive) Store(ctx context.Context, p *models.PublishedIssue) (string, error) {
	f.stored = append(f.stored, p)
	if f.err != nil {
		return "", f.err
	}
	return "issues/key.json", nil
}

// ---------- failure counter ----------

type fakeCounter struct {
	fails  []string
	resets []string
}

func (f *fakeCounter) Fail(ctx context.Context, username string) (int64, error) {
	f.fails = append(f.fails, username)
	return int64(len(f.fails)), nil
}

func (f *fakeCounter) Reset(ctx context.Context, username string) error {
	f.resets = append(f.resets, username)
	return nil
}
