package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/chapel/internal/common"
	"github.com/dmitrijs2005/chapel/internal/logging"
	"github.com/dmitrijs2005/chapel/internal/server/auth"
	"github.com/dmitrijs2005/chapel/internal/server/models"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("k")

func newUserService(t *testing.T, repo users.Repository) (*UserService, *countingHasher) {
	t.Helper()
	h := &countingHasher{PasswordHasher: auth.NewPasswordHasher(bcrypt.MinCost, 4)}
	issuer := auth.NewTokenIssuer(testSecret, time.Hour, nil)
	return NewUserService(nil, &fakeRepoManager{users: repo}, h, issuer, logging.Discard()), h
}

func TestLogin_Success(t *testing.T) {
	s, _ := newUserService(t, users.NewMemoryRepository())
	ctx := context.Background()

	_, err := s.CreateAdmin(ctx, NewUser{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	sess, err := s.Login(ctx, "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.PublicUser{Username: "a@x.com", IsAdmin: true}, sess.User)

	claims, err := auth.NewTokenVerifier(testSecret, nil).Verify(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.True(t, claims.IsAdmin)
}

func TestLogin_WrongPasswordAndUnknownUserLookTheSame(t *testing.T) {
	s, h := newUserService(t, users.NewMemoryRepository())
	ctx := context.Background()

	_, err := s.Register(ctx, NewUser{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	_, errWrong := s.Login(ctx, "a@x.com", "nope")
	_, errUnknown := s.Login(ctx, "ghost@x.com", "pw")

	assert.ErrorIs(t, errWrong, common.ErrorUnauthorized)
	assert.ErrorIs(t, errUnknown, common.ErrorUnauthorized)
	assert.Equal(t, errWrong.Error(), errUnknown.Error())

	// The unknown user still paid for a comparison, against the decoy hash.
	assert.EqualValues(t, 2, h.compares.Load())
	assert.Equal(t, h.Decoy(), h.lastHash.Load())
}

func TestLogin_EmptyCredentials(t *testing.T) {
	s, _ := newUserService(t, users.NewMemoryRepository())

	_, err := s.Login(context.Background(), "", "pw")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	_, err = s.Login(context.Background(), "a@x.com", "")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestLogin_StorageFailureIsNotUnauthorized(t *testing.T) {
	s, _ := newUserService(t, &fakeUsersRepo{getErr: errors.New("db down")})

	_, err := s.Login(context.Background(), "a@x.com", "pw")
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.NotErrorIs(t, err, common.ErrorUnauthorized)
}

func TestLogin_MalformedStoredHash(t *testing.T) {
	s, _ := newUserService(t, &fakeUsersRepo{getOut: &models.User{ID: "u-1", Email: "a@x.com", PasswordHash: "not-bcrypt"}})

	_, err := s.Login(context.Background(), "a@x.com", "pw")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestRegister_NewAccountsAreNotAdmin(t *testing.T) {
	repo := users.NewMemoryRepository()
	s, _ := newUserService(t, repo)

	pub, err := s.Register(context.Background(), NewUser{Email: " b@x.com ", Password: "pw", FullName: "B"})
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", pub.Username)
	assert.False(t, pub.IsAdmin)

	stored, err := repo.GetUserByEmail(context.Background(), "b@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", stored.PasswordHash)
	assert.Equal(t, "B", stored.FullName)
}

func TestRegister_Conflict(t *testing.T) {
	s, _ := newUserService(t, &fakeUsersRepo{createErr: common.ErrAlreadyExists})

	_, err := s.Register(context.Background(), NewUser{Email: "a@x.com", Password: "pw"})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestRegister_StorageFailure(t *testing.T) {
	s, _ := newUserService(t, &fakeUsersRepo{createErr: errors.New("db down")})

	_, err := s.Register(context.Background(), NewUser{Email: "a@x.com", Password: "pw"})
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestRegister_Validation(t *testing.T) {
	s, _ := newUserService(t, users.NewMemoryRepository())

	tests := []struct {
		name string
		in   NewUser
	}{
		{"no email", NewUser{Password: "pw"}},
		{"not an email", NewUser{Email: "bob", Password: "pw"}},
		{"no password", NewUser{Email: "a@x.com"}},
		{"password over bcrypt limit", NewUser{Email: "a@x.com", Password: strings.Repeat("p", auth.MaxPasswordBytes+1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tt.in)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	s, _ := newUserService(t, users.NewMemoryRepository())

	const n = 16
	var (
		wg        sync.WaitGroup
		ok        atomic.Int32
		conflicts atomic.Int32
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Register(context.Background(), NewUser{Email: "race@x.com", Password: "pw"})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, common.ErrAlreadyExists):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, ok.Load())
	assert.EqualValues(t, n-1, conflicts.Load())
}
