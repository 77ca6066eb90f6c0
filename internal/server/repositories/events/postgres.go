package events

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/chapel/internal/common"
	"github.com/dmitrijs2005/chapel/internal/dbx"
	"github.com/dmitrijs2005/chapel/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, e *models.Event) (*models.Event, error) {
	query :=
		`INSERT INTO events (title, description, starts_at, ends_at, speaker, kind)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`

	var end sql.NullTime
	if e.End != nil {
		end = sql.NullTime{Time: *e.End, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Start, end, e.Speaker, e.Type).Scan(&e.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Event, error) {
	query :=
		`SELECT id, title, description, starts_at, ends_at, speaker, kind FROM events
		 ORDER BY starts_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Event, 0)
	for rows.Next() {
		e := &models.Event{}
		var end sql.NullTime
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Start, &end, &e.Speaker, &e.Type); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if end.Valid {
			t := end.Time
			e.End = &t
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
