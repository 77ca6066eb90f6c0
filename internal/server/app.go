// Package server wires the configured components together and runs the HTTP
// server until it receives a termination signal.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/chapel/internal/logging"
	"github.com/dmitrijs2005/chapel/internal/server/auth"
	"github.com/dmitrijs2005/chapel/internal/server/blob"
	"github.com/dmitrijs2005/chapel/internal/server/config"
	"github.com/dmitrijs2005/chapel/internal/server/httpapi"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/chapel/internal/server/services"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	sqlOpen = sql.Open

	newRepoManager = func() repomanager.RepositoryManager {
		return repomanager.NewPostgresRepositoryManager()
	}
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	users    *services.UserService
	content  *services.ContentService
	media    *blob.S3Store
	verifier *auth.TokenVerifier
}

// NewApp connects to the database, applies migrations and builds the services.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := sqlOpen("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	media, err := blob.NewS3Store(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	secret := []byte(cfg.SecretKey)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost, cfg.HashConcurrency)
	issuer := auth.NewTokenIssuer(secret, cfg.TokenTTL, nil)

	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		users:    services.NewUserService(db, rm, hasher, issuer, logger),
		content:  services.NewContentService(db, rm, logger),
		media:    media,
		verifier: auth.NewTokenVerifier(secret, nil),
	}, nil
}

// Users exposes the user service to the admin command.
func (app *App) Users() *services.UserService {
	return app.users
}

func (app *App) Close() error {
	return app.db.Close()
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	gin.SetMode(httpapi.GinMode(app.config.Env))
	srv := httpapi.NewServer(app.config, app.logger, httpapi.Deps{
		Users:    app.users,
		Content:  app.content,
		Media:    app.media,
		Verifier: app.verifier,
	})

	return srv.Run(ctx)
}
