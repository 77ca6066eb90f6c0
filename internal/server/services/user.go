// Package services contains server-side business logic. This file implements
// UserService, which handles registration and login against the credential
// store.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/chapel/internal/common"
	"github.com/dmitrijs2005/chapel/internal/logging"
	"github.com/dmitrijs2005/chapel/internal/server/models"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/repomanager"
)

// PasswordHasher is the slice of auth.PasswordHasher the service needs.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Compare(ctx context.Context, password, hash string) (bool, error)
	Decoy() string
}

// TokenIssuer is the slice of auth.TokenIssuer the service needs.
type TokenIssuer interface {
	Issue(subject string, isAdmin bool) (string, error)
}

// Session is the result of a successful login.
type Session struct {
	Token string
	User  models.PublicUser
}

// NewUser is the input to Register and CreateAdmin.
type NewUser struct {
	Email    string
	Password string
	FullName string
	Picture  string
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	issuer      TokenIssuer
	logger      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, issuer TokenIssuer, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		issuer:      issuer,
		logger:      logger.With("module", "users"),
	}
}

// Login checks the credentials and returns a signed token for the user.
//
// Unknown email and wrong password both yield common.ErrorUnauthorized, and an
// unknown email still costs one bcrypt comparison. Storage failures and
// unreadable stored hashes yield common.ErrorInternal instead.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Compare(ctx, password, s.hasher.Decoy())
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	ok, err := s.hasher.Compare(ctx, password, user.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "password check failed", "user", user.ID, "error", err)
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	token, err := s.issuer.Issue(user.Email, user.IsAdmin)
	if err != nil {
		s.logger.Error(ctx, "token issue failed", "user", user.ID, "error", err)
		return nil, common.ErrorInternal
	}

	return &Session{Token: token, User: user.Public()}, nil
}

// Register creates a regular (non-admin) account. A taken email yields
// common.ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, in NewUser) (*models.PublicUser, error) {
	return s.create(ctx, in, false)
}

// CreateAdmin creates an administrator account. It is only reachable from
// the admin command, never over HTTP.
func (s *UserService) CreateAdmin(ctx context.Context, in NewUser) (*models.PublicUser, error) {
	return s.create(ctx, in, true)
}

func (s *UserService) create(ctx context.Context, in NewUser, isAdmin bool) (*models.PublicUser, error) {
	email := normalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email is required", common.ErrorValidation)
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", common.ErrorValidation)
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if errors.Is(err, common.ErrorValidation) {
		return nil, err
	}
	if err != nil {
		s.logger.Error(ctx, "hash password failed", "error", err)
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Picture:      in.Picture,
		IsAdmin:      isAdmin,
	}

	created, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		s.logger.Error(ctx, "create user failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user created", "user", created.ID, "admin", created.IsAdmin)
	pub := created.Public()
	return &pub, nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
