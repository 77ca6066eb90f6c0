package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/chapel/internal/dbx"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/events"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/messages"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/sermons"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/series"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/speakers"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either the pool or a
// transaction, so services can compose several of them under dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sermons(db dbx.DBTX) sermons.Repository
	Speakers(db dbx.DBTX) speakers.Repository
	Series(db dbx.DBTX) series.Repository
	Events(db dbx.DBTX) events.Repository
	Messages(db dbx.DBTX) messages.Repository
}
