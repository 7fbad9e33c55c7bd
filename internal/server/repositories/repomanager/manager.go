package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/authvault/internal/dbx"
	"github.com/dmitrijs2005/authvault/internal/server/repositories/resettokens"
	"github.com/dmitrijs2005/authvault/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX (a *sql.DB or an open
// transaction) and exposes a schema migration hook.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	ResetTokens(db dbx.DBTX) resettokens.Repository
}
