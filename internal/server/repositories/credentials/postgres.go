// Package credentials stores publisher logins (username and PHC password
// hash) in PostgreSQL.
package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/dmitrijs2005/newsletter/internal/dbx"
	"github.com/dmitrijs2005/newsletter/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts c. A taken username yields common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, c *models.Credential) error {
	query :=
		`INSERT INTO users (user_id, username, password_hash)
		 VALUES ($1, $2, $3)
		 `

	if _, err := r.db.ExecContext(ctx, query, c.UserID, c.Username, c.PasswordHash); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: username %q", common.ErrorAlreadyExists, c.Username)
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// GetByUsername returns common.ErrorNotFound when no such user exists.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Credential, error) {
	query :=
		`SELECT user_id, username, password_hash FROM users
		 WHERE username = $1
		 `

	c := &models.Credential{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(&c.UserID, &c.Username, &c.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}
