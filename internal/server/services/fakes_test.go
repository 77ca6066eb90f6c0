package services

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/dmitrijs2005/chapel/internal/common"
	"github.com/dmitrijs2005/chapel/internal/dbx"
	"github.com/dmitrijs2005/chapel/internal/server/models"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/events"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/messages"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/sermons"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/series"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/speakers"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/users"
)

// fakeRepoManager hands out the same repository regardless of the DBTX,
// which is enough for services that only care about call order and results.
type fakeRepoManager struct {
	users    users.Repository
	sermons  sermons.Repository
	speakers speakers.Repository
	series   series.Repository
	events   events.Repository
	messages messages.Repository
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository            { return m.users }
func (m *fakeRepoManager) Sermons(dbx.DBTX) sermons.Repository        { return m.sermons }
func (m *fakeRepoManager) Speakers(dbx.DBTX) speakers.Repository      { return m.speakers }
func (m *fakeRepoManager) Series(dbx.DBTX) series.Repository          { return m.series }
func (m *fakeRepoManager) Events(dbx.DBTX) events.Repository          { return m.events }
func (m *fakeRepoManager) Messages(dbx.DBTX) messages.Repository      { return m.messages }

type fakeUsersRepo struct {
	getOut *models.User
	getErr error

	createErr error
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = "u-1"
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(context.Context, string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

// countingHasher records which hashes Compare was asked to check.
type countingHasher struct {
	PasswordHasher
	compares atomic.Int32
	lastHash atomic.Value
}

func (h *countingHasher) Compare(ctx context.Context, password, hash string) (bool, error) {
	h.compares.Add(1)
	h.lastHash.Store(hash)
	return h.PasswordHasher.Compare(ctx, password, hash)
}

type fakeSermonsRepo struct {
	stored    map[string]*models.Sermon
	updateErr error
	updated   *models.Sermon
}

func (f *fakeSermonsRepo) Create(_ context.Context, s *models.Sermon) (*models.Sermon, error) {
	s.ID = "s-new"
	f.stored[s.ID] = s
	return s, nil
}

func (f *fakeSermonsRepo) List(context.Context) ([]*models.Sermon, error) {
	out := make([]*models.Sermon, 0, len(f.stored))
	for _, s := range f.stored {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSermonsRepo) GetForUpdate(_ context.Context, id string) (*models.Sermon, error) {
	s, ok := f.stored[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSermonsRepo) Update(_ context.Context, s *models.Sermon) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = s
	f.stored[s.ID] = s
	return nil
}

func (f *fakeSermonsRepo) Delete(_ context.Context, id string) error {
	delete(f.stored, id)
	return nil
}

func (f *fakeSermonsRepo) Index(context.Context) (*models.SermonIndex, error) {
	return &models.SermonIndex{}, nil
}

type fakeSpeakersRepo struct {
	created *models.Speaker
	err     error
}

func (f *fakeSpeakersRepo) Create(_ context.Context, s *models.Speaker) (*models.Speaker, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = s
	return s, nil
}
func (f *fakeSpeakersRepo) List(context.Context) ([]*models.Speaker, error) { return nil, nil }
func (f *fakeSpeakersRepo) Delete(context.Context, string) error             { return nil }

type fakeEventsRepo struct {
	created *models.Event
}

func (f *fakeEventsRepo) Create(_ context.Context, e *models.Event) (*models.Event, error) {
	f.created = e
	return e, nil
}
func (f *fakeEventsRepo) List(context.Context) ([]*models.Event, error) { return nil, nil }
func (f *fakeEventsRepo) Delete(context.Context, string) error           { return nil }

type fakeMessagesRepo struct {
	created []*models.Message
}

func (f *fakeMessagesRepo) Create(_ context.Context, m *models.Message) (*models.Message, error) {
	m.ID = "m-1"
	f.created = append(f.created, m)
	return m, nil
}
func (f *fakeMessagesRepo) List(context.Context) ([]*models.Message, error) { return f.created, nil }
