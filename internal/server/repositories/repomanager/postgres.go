// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/chapel/internal/dbx"
	"github.com/dmitrijs2005/chapel/internal/server/migrations"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/events"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/messages"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/sermons"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/series"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/speakers"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Sermons(db dbx.DBTX) sermons.Repository {
	return sermons.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Speakers(db dbx.DBTX) speakers.Repository {
	return speakers.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Series(db dbx.DBTX) series.Repository {
	return series.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Events(db dbx.DBTX) events.Repository {
	return events.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Messages(db dbx.DBTX) messages.Repository {
	return messages.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}
