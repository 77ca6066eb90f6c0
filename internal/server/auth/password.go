package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/chapel/internal/common"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// PasswordHasher hashes and checks passwords with bcrypt. At most
// `concurrency` hash operations run at once; callers beyond that wait for a
// slot or for their context to end.
type PasswordHasher struct {
	cost int
	sem  *semaphore.Weighted

	decoyOnce sync.Once
	decoy     string
}

func NewPasswordHasher(cost, concurrency int) *PasswordHasher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &PasswordHasher{cost: cost, sem: semaphore.NewWeighted(int64(concurrency))}
}

// Hash returns the bcrypt hash of password, salt included. A password over
// MaxPasswordBytes is rejected with common.ErrorValidation.
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", fmt.Errorf("%w: password longer than %d bytes", common.ErrorValidation, MaxPasswordBytes)
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Compare reports whether password matches hash. A mismatch is (false, nil);
// a hash that bcrypt cannot read is an error wrapping common.ErrMalformedHash,
// because that is a storage defect rather than a wrong password.
func (h *PasswordHasher) Compare(ctx context.Context, password, hash string) (bool, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", common.ErrMalformedHash, err)
	}
}

// Decoy returns a valid hash of a random secret at the configured cost.
// Comparing against it when a user does not exist keeps the login response
// time independent of whether the identifier is registered.
func (h *PasswordHasher) Decoy() string {
	h.decoyOnce.Do(func() {
		secret, err := common.MakeRandHexString(16)
		if err != nil {
			secret = "decoy"
		}
		b, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
		if err == nil {
			h.decoy = string(b)
		}
	})
	return h.decoy
}
