// Package speakers stores preachers. Full names are unique.
package speakers

import (
	"context"

	"github.com/dmitrijs2005/chapel/internal/server/models"
)

type Repository interface {
	// Create returns common.ErrAlreadyExists for a duplicate full name.
	Create(ctx context.Context, s *models.Speaker) (*models.Speaker, error)
	List(ctx context.Context) ([]*models.Speaker, error)
	Delete(ctx context.Context, id string) error
}
