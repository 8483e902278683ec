// Package services contains the server-side business logic: subscriber
// registration and confirmation, publisher credential checks and issue
// delivery.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/dmitrijs2005/newsletter/internal/dbx"
	"github.com/dmitrijs2005/newsletter/internal/server/models"
	"github.com/dmitrijs2005/newsletter/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/newsletter/internal/server/validation"
	"github.com/google/uuid"
)

// Registration is a freshly stored subscriber and its confirmation token.
type Registration struct {
	Subscriber models.Subscriber
	Token      string
}

// Registry owns subscribers and their confirmation tokens.
type Registry struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	newToken    func() (string, error)
	now         func() time.Time
}

func NewRegistry(db *sql.DB, m repomanager.RepositoryManager) *Registry {
	return &Registry{
		db:          db,
		repomanager: m,
		newToken:    generateSubscriptionToken,
		now:         time.Now,
	}
}

func generateSubscriptionToken() (string, error) {
	return common.MakeRandAlphanumeric(common.SubscriptionTokenLength)
}

// Register validates the input and stores a pending subscriber together with
// its token in one transaction. Either both rows become visible or neither
// does. Invalid input yields common.ErrorValidation; everything else,
// including a duplicate email, is common.ErrorInternal.
//
// Sending the confirmation email is left to the caller, after Register
// returns.
func (r *Registry) Register(ctx context.Context, email, name string) (*Registration, error) {
	email, err := validation.ParseEmail(email)
	if err != nil {
		return nil, err
	}
	name, err = validation.ParseName(name)
	if err != nil {
		return nil, err
	}

	token, err := r.newToken()
	if err != nil {
		return nil, fmt.Errorf("%w: generate token: %w", common.ErrorInternal, err)
	}

	reg := &Registration{
		Subscriber: models.Subscriber{
			ID:           uuid.New(),
			Email:        email,
			Name:         name,
			SubscribedAt: r.now().UTC(),
			Status:       models.StatusPendingConfirmation,
		},
		Token: token,
	}

	err = dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := r.repomanager.Subscribers(tx).Create(ctx, &reg.Subscriber); err != nil {
			return fmt.Errorf("insert subscriber: %w", err)
		}
		t := &models.SubscriptionToken{Token: token, SubscriberID: reg.Subscriber.ID}
		if err := r.repomanager.Tokens(tx).Create(ctx, t); err != nil {
			return fmt.Errorf("store token: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: register: %w", common.ErrorInternal, err)
	}

	return reg, nil
}

// Confirm marks the token's subscriber as confirmed. Tokens stay valid after
// use, so confirming twice succeeds twice. An unknown token yields
// common.ErrorUnauthorized.
func (r *Registry) Confirm(ctx context.Context, token string) error {
	id, err := r.repomanager.Tokens(r.db).FindSubscriberID(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return fmt.Errorf("%w: find token: %w", common.ErrorInternal, err)
	}

	if err := r.repomanager.Subscribers(r.db).Confirm(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return fmt.Errorf("%w: confirm subscriber: %w", common.ErrorInternal, err)
	}
	return nil
}

// Pending returns the registration of a subscriber who has not confirmed yet,
// so the confirmation email can be sent again. Unknown or already confirmed
// addresses yield common.ErrorNotFound.
func (r *Registry) Pending(ctx context.Context, email string) (*Registration, error) {
	email, err := validation.ParseEmail(email)
	if err != nil {
		return nil, err
	}

	s, err := r.repomanager.Subscribers(r.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: find subscriber: %w", common.ErrorInternal, err)
	}
	if s.Status != models.StatusPendingConfirmation {
		return nil, common.ErrorNotFound
	}

	token, err := r.repomanager.Tokens(r.db).FindBySubscriber(ctx, s.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: find token: %w", common.ErrorInternal, err)
	}

	return &Registration{Subscriber: *s, Token: token}, nil
}
