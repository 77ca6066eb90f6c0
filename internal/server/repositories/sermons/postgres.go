package sermons

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
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

func refsOrEmpty(refs json.RawMessage) string {
	if len(refs) == 0 {
		return "[]"
	}
	return string(refs)
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Sermon) (*models.Sermon, error) {
	query :=
		`INSERT INTO sermons (speaker, refs, preached_on, service, url, series)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		s.Speaker, refsOrEmpty(s.References), s.Date, s.Service, s.URL, s.Series).Scan(&s.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Sermon, error) {
	query :=
		`SELECT id, speaker, refs, preached_on, service, url, series FROM sermons
		 ORDER BY preached_on DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Sermon, 0)
	for rows.Next() {
		s, err := scanSermon(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Sermon, error) {
	query :=
		`SELECT id, speaker, refs, preached_on, service, url, series FROM sermons
		 WHERE id = $1
		 FOR UPDATE`

	s, err := scanSermon(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Update(ctx context.Context, s *models.Sermon) error {
	query :=
		`UPDATE sermons SET speaker = $2, refs = $3, preached_on = $4, service = $5, url = $6, series = $7
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		s.ID, s.Speaker, refsOrEmpty(s.References), s.Date, s.Service, s.URL, s.Series)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sermons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) Index(ctx context.Context) (*models.SermonIndex, error) {
	series, err := r.distinct(ctx, `SELECT DISTINCT series FROM sermons WHERE series <> '' ORDER BY series`)
	if err != nil {
		return nil, err
	}
	speakers, err := r.distinct(ctx, `SELECT DISTINCT speaker FROM sermons WHERE speaker <> '' ORDER BY speaker`)
	if err != nil {
		return nil, err
	}
	books, err := r.distinct(ctx, booksQuery)
	if err != nil {
		return nil, err
	}
	return &models.SermonIndex{Books: books, Series: series, Speakers: speakers}, nil
}

// A passage reference names startBook and endBook; a single verse or chapter
// names book.
const booksQuery = `SELECT DISTINCT book FROM sermons s
	CROSS JOIN LATERAL jsonb_array_elements(
		CASE WHEN jsonb_typeof(s.refs) = 'array' THEN s.refs ELSE '[]'::jsonb END
	) AS r(ref)
	CROSS JOIN LATERAL (VALUES
		(r.ref->'details'->>'startBook'),
		(r.ref->'details'->>'endBook'),
		(r.ref->'details'->>'book')
	) AS b(book)
	WHERE book IS NOT NULL AND book <> ''
	ORDER BY book`

func (r *PostgresRepository) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return values, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSermon(row scanner) (*models.Sermon, error) {
	s := &models.Sermon{}
	var refs []byte
	if err := row.Scan(&s.ID, &s.Speaker, &refs, &s.Date, &s.Service, &s.URL, &s.Series); err != nil {
		return nil, err
	}
	s.References = json.RawMessage(refs)
	return s, nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
