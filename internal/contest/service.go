package contest

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/quillhaven/contest-registry/internal/contest/entity"
	contestrepo "github.com/quillhaven/contest-registry/internal/contest/repo"
)

var ErrNotFound = errors.New("contest not found")

// ContestService encapsulates contest CRUD. The join flow lives in the
// registration package; this service only mutates plain fields and the
// explicit participant-set replacement.
type ContestService struct {
	repo *contestrepo.ContestRepo
}

func NewContestService(db *sqlx.DB, r *contestrepo.ContestRepo) *ContestService {
	if r == nil {
		r = contestrepo.NewContestRepo(db)
	}
	return &ContestService{repo: r}
}

// Create stores a new contest. Start/end ordering is intentionally not
// validated, matching the established API behavior.
func (s *ContestService) Create(ctx context.Context, name string, adminID int64, start, end time.Time) (*entity.Contest, error) {
	c := &entity.Contest{
		Name:          name,
		AdminID:       adminID,
		StartDatetime: start,
		EndDatetime:   end,
	}
	if _, err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return s.Get(ctx, c.ID)
}

// List returns all contests.
func (s *ContestService) List(ctx context.Context) ([]*entity.Contest, error) {
	return s.repo.List(ctx)
}

// Get returns one contest by id.
func (s *ContestService) Get(ctx context.Context, id int64) (*entity.Contest, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListByUser returns contests the user participates in.
func (s *ContestService) ListByUser(ctx context.Context, userID int64) ([]*entity.Contest, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UpdateParams carries optional field updates; nil means "leave unchanged".
// A non-nil Participants replaces the whole membership set, silently
// skipping unknown user ids.
type UpdateParams struct {
	Name          *string
	StartDatetime *time.Time
	EndDatetime   *time.Time
	Participants  *[]int64
}

// Update applies partial field updates to an existing contest and returns
// the refreshed record.
func (s *ContestService) Update(ctx context.Context, id int64, p UpdateParams) (*entity.Contest, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		existing.Name = *p.Name
	}
	if p.StartDatetime != nil {
		existing.StartDatetime = *p.StartDatetime
	}
	if p.EndDatetime != nil {
		existing.EndDatetime = *p.EndDatetime
	}
	rows, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// existed a moment ago, deleted concurrently
		return nil, ErrNotFound
	}
	if p.Participants != nil {
		if err := s.repo.ReplaceParticipants(ctx, id, *p.Participants); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

// Delete removes a contest and all of its membership rows.
func (s *ContestService) Delete(ctx context.Context, id int64) error {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
