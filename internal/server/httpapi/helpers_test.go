package httpapi

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/chapel/internal/common"
	"github.com/dmitrijs2005/chapel/internal/dbx"
	"github.com/dmitrijs2005/chapel/internal/logging"
	"github.com/dmitrijs2005/chapel/internal/server/auth"
	"github.com/dmitrijs2005/chapel/internal/server/config"
	"github.com/dmitrijs2005/chapel/internal/server/models"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/events"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/messages"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/sermons"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/series"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/speakers"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/users"
	"github.com/dmitrijs2005/chapel/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testSecret = []byte("test-secret")

// usersOnlyRepoManager backs the user service with an in-memory store.
type usersOnlyRepoManager struct {
	users users.Repository
}

func (m *usersOnlyRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *usersOnlyRepoManager) Users(dbx.DBTX) users.Repository            { return m.users }
func (m *usersOnlyRepoManager) Sermons(dbx.DBTX) sermons.Repository        { return nil }
func (m *usersOnlyRepoManager) Speakers(dbx.DBTX) speakers.Repository      { return nil }
func (m *usersOnlyRepoManager) Series(dbx.DBTX) series.Repository          { return nil }
func (m *usersOnlyRepoManager) Events(dbx.DBTX) events.Repository          { return nil }
func (m *usersOnlyRepoManager) Messages(dbx.DBTX) messages.Repository      { return nil }

// stubContent records what the handlers pass in and returns canned errors.
type stubContent struct {
	mu sync.Mutex

	err      error
	speakers []*models.Speaker
	events   []*models.Event
	messages []*models.Message
	patched  *models.Sermon
}

func (s *stubContent) ListSermons(context.Context) ([]*models.Sermon, error) {
	return []*models.Sermon{}, s.err
}
func (s *stubContent) SermonIndex(context.Context) (*models.SermonIndex, error) {
	return &models.SermonIndex{Books: []string{"Romans"}, Series: []string{"Romans"}, Speakers: []string{"J. Smith"}}, s.err
}
func (s *stubContent) CreateSermon(_ context.Context, in *models.Sermon) (*models.Sermon, error) {
	if s.err != nil {
		return nil, s.err
	}
	in.ID = "s-1"
	return in, nil
}
func (s *stubContent) UpdateSermon(_ context.Context, id string, patch *models.Sermon) (*models.Sermon, error) {
	if s.err != nil {
		return nil, s.err
	}
	patch.ID = id
	s.patched = patch
	return patch, nil
}
func (s *stubContent) DeleteSermon(context.Context, string) error { return s.err }

func (s *stubContent) ListSpeakers(context.Context) ([]*models.Speaker, error) {
	return s.speakers, s.err
}
func (s *stubContent) CreateSpeaker(_ context.Context, in *models.Speaker) (*models.Speaker, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speakers = append(s.speakers, in)
	return in, nil
}
func (s *stubContent) DeleteSpeaker(context.Context, string) error { return s.err }

func (s *stubContent) ListSeries(context.Context) ([]*models.Series, error) { return nil, s.err }
func (s *stubContent) CreateSeries(_ context.Context, in *models.Series) (*models.Series, error) {
	return in, s.err
}
func (s *stubContent) DeleteSeries(context.Context, string) error { return s.err }

func (s *stubContent) ListEvents(context.Context) ([]*models.Event, error) { return s.events, s.err }
func (s *stubContent) CreateEvent(_ context.Context, in *models.Event) (*models.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.events = append(s.events, in)
	return in, nil
}
func (s *stubContent) DeleteEvent(context.Context, string) error { return s.err }

func (s *stubContent) SubmitMessage(_ context.Context, in *models.Message) (*models.Message, error) {
	if in.Name == "" || in.Email == "" || in.Date == "" || in.Message == "" {
		return nil, common.ErrorValidation
	}
	s.messages = append(s.messages, in)
	return in, s.err
}
func (s *stubContent) ListMessages(context.Context) ([]*models.Message, error) {
	return s.messages, s.err
}

type stubMedia struct {
	name string
	body string
}

func (m *stubMedia) Put(_ context.Context, filename, _ string, body io.Reader, _ int64) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.name, m.body = filename, string(b)
	return "https://cdn.example.com/media/x/" + filename, nil
}

type testEnv struct {
	server  *Server
	handler http.Handler
	users   *services.UserService
	content *stubContent
	media   *stubMedia
	issuer  *auth.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	issuer := auth.NewTokenIssuer(testSecret, time.Hour, nil)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost, 4)
	us := services.NewUserService(nil, &usersOnlyRepoManager{users: users.NewMemoryRepository()}, hasher, issuer, logging.Discard())

	env := &testEnv{users: us, content: &stubContent{}, media: &stubMedia{}, issuer: issuer}

	cfg := &config.Config{TokenTTL: time.Hour}
	env.server = NewServer(cfg, logging.Discard(), Deps{
		Users:    us,
		Content:  env.content,
		Media:    env.media,
		Verifier: auth.NewTokenVerifier(testSecret, nil),
	})
	env.server.location = time.UTC

	h, err := env.server.Handler()
	require.NoError(t, err)
	env.handler = h
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withToken(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: common.TokenCookieName, Value: token})
	return req
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == common.TokenCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", common.TokenCookieName)
	return nil
}

func (e *testEnv) token(t *testing.T, subject string, isAdmin bool) string {
	t.Helper()
	tok, err := e.issuer.Issue(subject, isAdmin)
	require.NoError(t, err)
	return tok
}
