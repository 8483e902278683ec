package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/newsletter/internal/dbx"
	"github.com/dmitrijs2005/newsletter/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/newsletter/internal/server/repositories/subscribers"
	"github.com/dmitrijs2005/newsletter/internal/server/repositories/tokens"
)

// RepositoryManager vends repositories bound to either the pool or a
// transaction, so services can group writes into one unit of work.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Subscribers(db dbx.DBTX) subscribers.Repository
	Tokens(db dbx.DBTX) tokens.Repository
	Credentials(db dbx.DBTX) credentials.Repository
}
