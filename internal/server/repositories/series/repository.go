// Package series stores sermon series. Titles are unique.
package series

import (
	"context"

	"github.com/dmitrijs2005/chapel/internal/server/models"
)

type Repository interface {
	// Create returns common.ErrAlreadyExists for a duplicate title.
	Create(ctx context.Context, s *models.Series) (*models.Series, error)
	List(ctx context.Context) ([]*models.Series, error)
	Delete(ctx context.Context, id string) error
}
