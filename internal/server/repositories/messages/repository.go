// Package messages stores contact form submissions.
package messages

import (
	"context"

	"github.com/dmitrijs2005/chapel/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, m *models.Message) (*models.Message, error)
	// List returns messages newest first.
	List(ctx context.Context) ([]*models.Message, error)
}
