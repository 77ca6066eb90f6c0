package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/chapel/internal/common"
	"github.com/dmitrijs2005/chapel/internal/dbx"
	"github.com/dmitrijs2005/chapel/internal/logging"
	"github.com/dmitrijs2005/chapel/internal/server/models"
	"github.com/dmitrijs2005/chapel/internal/server/repositories/repomanager"
)

// ContentService manages the public site content: sermons, speakers, series,
// events and contact messages. Repository sentinels (common.ErrorNotFound,
// common.ErrAlreadyExists) pass through unchanged.
type ContentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewContentService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ContentService {
	return &ContentService{db: db, repomanager: m, logger: logger.With("module", "content")}
}

func (s *ContentService) ListSermons(ctx context.Context) ([]*models.Sermon, error) {
	return s.repomanager.Sermons(s.db).List(ctx)
}

func (s *ContentService) SermonIndex(ctx context.Context) (*models.SermonIndex, error) {
	return s.repomanager.Sermons(s.db).Index(ctx)
}

func (s *ContentService) CreateSermon(ctx context.Context, in *models.Sermon) (*models.Sermon, error) {
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", common.ErrorValidation)
	}
	created, err := s.repomanager.Sermons(s.db).Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "sermon created", "id", created.ID)
	return created, nil
}

// UpdateSermon locks the sermon, overlays the non-empty fields of patch and
// writes it back in one transaction.
func (s *ContentService) UpdateSermon(ctx context.Context, id string, patch *models.Sermon) (*models.Sermon, error) {
	var updated *models.Sermon

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Sermons(tx)

		cur, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		mergeSermon(cur, patch)
		if err := repo.Update(ctx, cur); err != nil {
			return err
		}
		updated = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "sermon updated", "id", id)
	return updated, nil
}

func mergeSermon(dst, patch *models.Sermon) {
	if patch.Speaker != "" {
		dst.Speaker = patch.Speaker
	}
	if len(patch.References) > 0 {
		dst.References = patch.References
	}
	if !patch.Date.IsZero() {
		dst.Date = patch.Date
	}
	if patch.Service != "" {
		dst.Service = patch.Service
	}
	if patch.URL != "" {
		dst.URL = patch.URL
	}
	if patch.Series != "" {
		dst.Series = patch.Series
	}
}

func (s *ContentService) DeleteSermon(ctx context.Context, id string) error {
	return s.repomanager.Sermons(s.db).Delete(ctx, id)
}

func (s *ContentService) ListSpeakers(ctx context.Context) ([]*models.Speaker, error) {
	return s.repomanager.Speakers(s.db).List(ctx)
}

// CreateSpeaker derives the full name from first name and surname when it is
// not given.
func (s *ContentService) CreateSpeaker(ctx context.Context, in *models.Speaker) (*models.Speaker, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.Surname = strings.TrimSpace(in.Surname)
	if in.FullName = strings.TrimSpace(in.FullName); in.FullName == "" {
		in.FullName = strings.TrimSpace(in.FirstName + " " + in.Surname)
	}
	if in.FullName == "" {
		return nil, fmt.Errorf("%w: speaker name is required", common.ErrorValidation)
	}
	return s.repomanager.Speakers(s.db).Create(ctx, in)
}

func (s *ContentService) DeleteSpeaker(ctx context.Context, id string) error {
	return s.repomanager.Speakers(s.db).Delete(ctx, id)
}

func (s *ContentService) ListSeries(ctx context.Context) ([]*models.Series, error) {
	return s.repomanager.Series(s.db).List(ctx)
}

func (s *ContentService) CreateSeries(ctx context.Context, in *models.Series) (*models.Series, error) {
	if in.Title = strings.TrimSpace(in.Title); in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrorValidation)
	}
	return s.repomanager.Series(s.db).Create(ctx, in)
}

func (s *ContentService) DeleteSeries(ctx context.Context, id string) error {
	return s.repomanager.Series(s.db).Delete(ctx, id)
}

func (s *ContentService) ListEvents(ctx context.Context) ([]*models.Event, error) {
	return s.repomanager.Events(s.db).List(ctx)
}

func (s *ContentService) CreateEvent(ctx context.Context, in *models.Event) (*models.Event, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrorValidation)
	}
	if in.Start.IsZero() {
		return nil, fmt.Errorf("%w: start is required", common.ErrorValidation)
	}
	if in.End != nil && in.End.Before(in.Start) {
		return nil, fmt.Errorf("%w: end before start", common.ErrorValidation)
	}
	return s.repomanager.Events(s.db).Create(ctx, in)
}

func (s *ContentService) DeleteEvent(ctx context.Context, id string) error {
	return s.repomanager.Events(s.db).Delete(ctx, id)
}

// SubmitMessage stores a contact form submission. Every field is required.
func (s *ContentService) SubmitMessage(ctx context.Context, in *models.Message) (*models.Message, error) {
	for _, v := range []string{in.Name, in.Email, in.Date, in.Message} {
		if strings.TrimSpace(v) == "" {
			return nil, common.ErrorValidation
		}
	}
	return s.repomanager.Messages(s.db).Create(ctx, in)
}

func (s *ContentService) ListMessages(ctx context.Context) ([]*models.Message, error) {
	return s.repomanager.Messages(s.db).List(ctx)
}
