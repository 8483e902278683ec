// Package subscribers provides the PostgreSQL repository for newsletter
// subscriptions.
package subscribers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/dmitrijs2005/newsletter/internal/dbx"
	"github.com/dmitrijs2005/newsletter/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PostgresRepository works over dbx.DBTX, so it can be bound to the pool or
// to a transaction.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts s. A second subscription for the same email is rejected by
// the unique constraint and reported as common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, s *models.Subscriber) error {
	query := `
		INSERT INTO subscriptions (id, email, name, subscribed_at, status)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.Email, s.Name, s.SubscribedAt, string(s.Status)); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: subscription for this email: %w", common.ErrorAlreadyExists, err)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Confirm marks the subscriber confirmed. Confirming twice is a no-op; an
// unknown id yields common.ErrorNotFound.
func (r *PostgresRepository) Confirm(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE subscriptions SET status = $1
		WHERE id = $2
	`
	res, err := r.db.ExecContext(ctx, query, string(models.StatusConfirmed), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	query := `
		SELECT id, email, name, subscribed_at, status FROM subscriptions
		WHERE email = $1
	`
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Subscriber, error) {
	var (
		s      models.Subscriber
		status string
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&s.ID, &s.Email, &s.Name, &s.SubscribedAt, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	s.Status = models.SubscriptionStatus(status)
	return &s, nil
}

// ListConfirmed returns every confirmed subscriber. Emails are returned as
// stored; callers re-validate them.
func (r *PostgresRepository) ListConfirmed(ctx context.Context) ([]models.Subscriber, error) {
	query := `
		SELECT id, email, name, subscribed_at, status FROM subscriptions
		WHERE status = $1
		ORDER BY subscribed_at
	`
	rows, err := r.db.QueryContext(ctx, query, string(models.StatusConfirmed))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Subscriber
	for rows.Next() {
		var (
			s      models.Subscriber
			status string
		)
		if err := rows.Scan(&s.ID, &s.Email, &s.Name, &s.SubscribedAt, &status); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		s.Status = models.SubscriptionStatus(status)
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
