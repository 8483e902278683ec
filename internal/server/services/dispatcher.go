package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/dmitrijs2005/newsletter/internal/logging"
	"github.com/dmitrijs2005/newsletter/internal/server/email"
	"github.com/dmitrijs2005/newsletter/internal/server/models"
	"github.com/dmitrijs2005/newsletter/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/newsletter/internal/server/validation"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// IssueArchive keeps a copy of each published issue.
type IssueArchive interface {
	Store(ctx context.Context, p *models.PublishedIssue) (string, error)
}

// Report summarises one publish call.
type Report struct {
	IssueID    uuid.UUID `json:"issue_id"`
	Sent       int       `json:"sent"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	ArchiveKey string    `json:"archive_key,omitempty"`
}

// Dispatcher delivers an issue to every confirmed subscriber.
type Dispatcher struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sender      email.Sender
	archive     IssueArchive
	concurrency int
	log         logging.Logger
	now         func() time.Time
}

// NewDispatcher builds a dispatcher sending to at most concurrency
// recipients at a time; 1 sends sequentially.
func NewDispatcher(
	db *sql.DB,
	m repomanager.RepositoryManager,
	sender email.Sender,
	archive IssueArchive,
	concurrency int,
	l logging.Logger,
) *Dispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Dispatcher{
		db:          db,
		repomanager: m,
		sender:      sender,
		archive:     archive,
		concurrency: concurrency,
		log:         l.With("component", "dispatcher"),
		now:         time.Now,
	}
}

// Publish sends issue to all confirmed subscribers. Only a failure to read
// the subscriber list fails the call (common.ErrorInternal). Stored emails
// that no longer validate are skipped and send failures are logged; neither
// stops the remaining recipients.
func (d *Dispatcher) Publish(ctx context.Context, publisherID uuid.UUID, issue models.Issue) (*Report, error) {
	if err := validation.ValidateIssue(issue); err != nil {
		return nil, err
	}

	subs, err := d.repomanager.Subscribers(d.db).ListConfirmed(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list confirmed subscribers: %w", common.ErrorInternal, err)
	}

	report := &Report{IssueID: uuid.New()}
	log := d.log.With("issue_id", report.IssueID)

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(d.concurrency)

	for _, s := range subs {
		addr, err := validation.ParseEmail(s.Email)
		if err != nil {
			log.Warn(ctx, "skipping confirmed subscriber with invalid stored email",
				"subscriber_id", s.ID, "stage", "validate_email", "error", err)
			report.Skipped++
			continue
		}

		g.Go(func() error {
			msg := email.Message{
				To:      addr,
				Subject: issue.Title,
				HTML:    issue.Content.HTML,
				Text:    issue.Content.Text,
			}
			err := d.sender.Send(ctx, msg)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Error(ctx, "failed to deliver issue",
					"subscriber_id", s.ID, "email", logging.RedactEmail(addr), "stage", "send", "error", err)
				report.Failed++
				return nil
			}
			report.Sent++
			return nil
		})
	}
	_ = g.Wait()

	log.Info(ctx, "issue published",
		"sent", report.Sent, "skipped", report.Skipped, "failed", report.Failed)

	d.store(ctx, log, publisherID, issue, report)
	return report, nil
}

func (d *Dispatcher) store(ctx context.Context, log logging.Logger, publisherID uuid.UUID, issue models.Issue, r *Report) {
	key, err := d.archive.Store(ctx, &models.PublishedIssue{
		ID:          r.IssueID,
		PublishedAt: d.now().UTC(),
		PublishedBy: publisherID,
		Issue:       issue,
		Sent:        r.Sent,
		Skipped:     r.Skipped,
		Failed:      r.Failed,
	})
	if err != nil {
		log.Error(ctx, "failed to archive issue", "stage", "archive", "error", err)
		return
	}
	r.ArchiveKey = key
}
