// Package tokens provides a PostgreSQL-backed repository for subscription
// confirmation tokens. Tokens are never rotated, expired or deleted, so a
// token keeps resolving to the same subscriber for its whole life.
package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/dmitrijs2005/newsletter/internal/dbx"
	"github.com/dmitrijs2005/newsletter/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements token storage over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create stores the token → subscriber mapping.
func (r *PostgresRepository) Create(ctx context.Context, t *models.SubscriptionToken) error {
	query := `
		INSERT INTO subscription_tokens (subscription_token, subscriber_id)
		VALUES ($1, $2)
	`
	if _, err := r.db.ExecContext(ctx, query, t.Token, t.SubscriberID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// FindSubscriberID resolves a token. Unknown tokens yield common.ErrorNotFound.
func (r *PostgresRepository) FindSubscriberID(ctx context.Context, token string) (uuid.UUID, error) {
	query := `
		SELECT subscriber_id FROM subscription_tokens
		WHERE subscription_token = $1
	`
	var id uuid.UUID
	if err := r.db.QueryRowContext(ctx, query, token).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, common.ErrorNotFound
		}
		return uuid.Nil, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

// FindBySubscriber returns the token issued to subscriberID, used when the
// confirmation email is sent again.
func (r *PostgresRepository) FindBySubscriber(ctx context.Context, subscriberID uuid.UUID) (string, error) {
	query := `
		SELECT subscription_token FROM subscription_tokens
		WHERE subscriber_id = $1
		LIMIT 1
	`
	var token string
	if err := r.db.QueryRowContext(ctx, query, subscriberID).Scan(&token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return token, nil
}
