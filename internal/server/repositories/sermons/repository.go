// Package sermons stores sermon recordings and their metadata.
package sermons

import (
	"context"

	"github.com/dmitrijs2005/chapel/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, s *models.Sermon) (*models.Sermon, error)
	List(ctx context.Context) ([]*models.Sermon, error)
	// GetForUpdate locks the row when bound to a transaction.
	GetForUpdate(ctx context.Context, id string) (*models.Sermon, error)
	Update(ctx context.Context, s *models.Sermon) error
	Delete(ctx context.Context, id string) error
	Index(ctx context.Context) (*models.SermonIndex, error)
}
