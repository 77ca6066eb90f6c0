// Package httpapi is the HTTP surface of the site: the route table, the
// access gate and the handlers behind them.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/chapel/internal/logging"
	"github.com/dmitrijs2005/chapel/internal/server/auth"
	"github.com/dmitrijs2005/chapel/internal/server/config"
	"github.com/dmitrijs2005/chapel/internal/server/models"
	"github.com/dmitrijs2005/chapel/internal/server/services"
	"github.com/gin-gonic/gin"
)

type UserService interface {
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Register(ctx context.Context, in services.NewUser) (*models.PublicUser, error)
}

type ContentService interface {
	ListSermons(ctx context.Context) ([]*models.Sermon, error)
	SermonIndex(ctx context.Context) (*models.SermonIndex, error)
	CreateSermon(ctx context.Context, in *models.Sermon) (*models.Sermon, error)
	UpdateSermon(ctx context.Context, id string, patch *models.Sermon) (*models.Sermon, error)
	DeleteSermon(ctx context.Context, id string) error

	ListSpeakers(ctx context.Context) ([]*models.Speaker, error)
	CreateSpeaker(ctx context.Context, in *models.Speaker) (*models.Speaker, error)
	DeleteSpeaker(ctx context.Context, id string) error

	ListSeries(ctx context.Context) ([]*models.Series, error)
	CreateSeries(ctx context.Context, in *models.Series) (*models.Series, error)
	DeleteSeries(ctx context.Context, id string) error

	ListEvents(ctx context.Context) ([]*models.Event, error)
	CreateEvent(ctx context.Context, in *models.Event) (*models.Event, error)
	DeleteEvent(ctx context.Context, id string) error

	SubmitMessage(ctx context.Context, in *models.Message) (*models.Message, error)
	ListMessages(ctx context.Context) ([]*models.Message, error)
}

type MediaStore interface {
	Put(ctx context.Context, filename, contentType string, body io.Reader, size int64) (string, error)
}

type TokenVerifier interface {
	Verify(raw string) (*auth.Claims, error)
}

// Deps are the collaborators the handlers call into.
type Deps struct {
	Users    UserService
	Content  ContentService
	Media    MediaStore
	Verifier TokenVerifier
}

type Server struct {
	address      string
	users        UserService
	content      ContentService
	media        MediaStore
	verifier     TokenVerifier
	tokenTTL     time.Duration
	cookieSecure bool
	readTimeout  time.Duration
	writeTimeout time.Duration
	location     *time.Location
	logger       logging.Logger
}

func NewServer(cfg *config.Config, l logging.Logger, d Deps) *Server {
	return &Server{
		address:      cfg.HTTPAddr,
		users:        d.Users,
		content:      d.Content,
		media:        d.Media,
		verifier:     d.Verifier,
		tokenTTL:     cfg.TokenTTL,
		cookieSecure: cfg.CookieSecure,
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
		location:     time.Local,
		logger:       l.With("module", "http_server"),
	}
}

// GinMode picks gin's mode for a deployment environment. Only local and dev
// get debug mode with its route dump; anything else runs in release mode.
func GinMode(env string) string {
	switch env {
	case "local", "dev":
		return gin.DebugMode
	default:
		return gin.ReleaseMode
	}
}

// Handler builds the gin engine from the route table. It fails if the table
// declares a mutating route without an access gate.
func (s *Server) Handler() (http.Handler, error) {
	engine := gin.New()
	engine.Use(requestLogger(s.logger), recovery(s.logger))

	if err := mount(engine, s.routes(), Gate(s.verifier, s.logger)); err != nil {
		return nil, err
	}
	return engine, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	h, err := s.Handler()
	if err != nil {
		return err
	}

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:      h,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
