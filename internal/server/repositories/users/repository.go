// Package users is the credential store: lookup by email and insert with
// uniqueness enforced by the storage itself.
package users

import (
	"context"

	"github.com/dmitrijs2005/chapel/internal/server/models"
)

// Repository stores credential records.
//
// Create returns common.ErrAlreadyExists when the email is taken. The check
// must be atomic with the insert; implementations may not look up first and
// insert second.
//
// GetUserByEmail returns common.ErrorNotFound when no record matches.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
