// Package events stores calendar events.
package events

import (
	"context"

	"github.com/dmitrijs2005/chapel/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, e *models.Event) (*models.Event, error)
	// List returns events ordered by start time, earliest first.
	List(ctx context.Context) ([]*models.Event, error)
	Delete(ctx context.Context, id string) error
}
