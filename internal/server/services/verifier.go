package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/dmitrijs2005/newsletter/internal/logging"
	"github.com/dmitrijs2005/newsletter/internal/server/password"
	"github.com/dmitrijs2005/newsletter/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// PasswordVerifier checks a password against a PHC hash.
type PasswordVerifier interface {
	Verify(phc, pw string) error
}

// BlockingRunner runs CPU-heavy work off the request goroutine.
type BlockingRunner interface {
	Do(ctx context.Context, fn func() error) error
}

// FailureCounter records failed logins for auditing.
type FailureCounter interface {
	Fail(ctx context.Context, username string) (int64, error)
	Reset(ctx context.Context, username string) error
}

// CredentialVerifier authenticates publishers for login and for publishing.
type CredentialVerifier struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordVerifier
	pool        BlockingRunner
	dummyHash   string
	failures    FailureCounter
	log         logging.Logger
}

func NewCredentialVerifier(
	db *sql.DB,
	m repomanager.RepositoryManager,
	hasher PasswordVerifier,
	pool BlockingRunner,
	dummyHash string,
	failures FailureCounter,
	l logging.Logger,
) *CredentialVerifier {
	return &CredentialVerifier{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		pool:        pool,
		dummyHash:   dummyHash,
		failures:    failures,
		log:         l.With("component", "credential_verifier"),
	}
}

// Validate returns the publisher id for a matching username and password.
//
// An unknown username is checked against the dummy hash so it costs the same
// as a wrong password, and both return common.ErrInvalidCredentials. Storage
// and hashing faults return common.ErrorInternal instead.
func (v *CredentialVerifier) Validate(ctx context.Context, username, pw string) (uuid.UUID, error) {
	var (
		userID   uuid.UUID
		found    bool
		expected = v.dummyHash
	)

	c, err := v.repomanager.Credentials(v.db).GetByUsername(ctx, username)
	switch {
	case err == nil:
		userID, found, expected = c.UserID, true, c.PasswordHash
	case errors.Is(err, common.ErrorNotFound):
	default:
		return uuid.Nil, fmt.Errorf("%w: load credentials: %w", common.ErrorInternal, err)
	}

	err = v.pool.Do(ctx, func() error {
		return v.hasher.Verify(expected, pw)
	})
	switch {
	case err == nil:
	case errors.Is(err, password.ErrMismatch):
		v.recordFailure(ctx, username)
		return uuid.Nil, common.ErrInvalidCredentials
	default:
		return uuid.Nil, fmt.Errorf("%w: verify password: %w", common.ErrorInternal, err)
	}

	if !found {
		v.recordFailure(ctx, username)
		return uuid.Nil, common.ErrInvalidCredentials
	}

	if err := v.failures.Reset(ctx, username); err != nil {
		v.log.Warn(ctx, "reset failed login counter", "error", err)
	}
	return userID, nil
}

func (v *CredentialVerifier) recordFailure(ctx context.Context, username string) {
	n, err := v.failures.Fail(ctx, username)
	if err != nil {
		v.log.Warn(ctx, "record failed login", "error", err)
		return
	}
	v.log.Info(ctx, "invalid credentials", "username", username, "failures", n)
}
