package repo

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/quillhaven/contest-registry/internal/contest/entity"
	userentity "github.com/quillhaven/contest-registry/internal/user/entity"
)

// ContestRepo provides data access for contests and their membership rows.
type ContestRepo struct {
	db *sqlx.DB
}

func NewContestRepo(db *sqlx.DB) *ContestRepo { return &ContestRepo{db: db} }

// EnsureTable creates the contests and contest_participants tables if not
// exists (idempotent). The composite primary key on (contest_id, user_id) is
// the sole enforcement point for the one-membership-per-pair invariant, and
// the ON DELETE CASCADE keeps membership rows from outliving their contest.
func (r *ContestRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS contests (
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  admin_id BIGINT NOT NULL,
  start_datetime TIMESTAMPTZ NOT NULL,
  end_datetime TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS contest_participants (
  contest_id BIGINT NOT NULL REFERENCES contests(id) ON DELETE CASCADE,
  user_id BIGINT NOT NULL REFERENCES users(id),
  PRIMARY KEY (contest_id, user_id)
);
CREATE INDEX IF NOT EXISTS idx_contest_participants_user_id ON contest_participants (user_id);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Create inserts a new contest row and returns its id.
func (r *ContestRepo) Create(ctx context.Context, c *entity.Contest) (int64, error) {
	const q = `INSERT INTO contests (name, admin_id, start_datetime, end_datetime)
		VALUES ($1, $2, $3, $4) RETURNING id`
	var id int64
	if err := r.db.QueryRowxContext(ctx, q, c.Name, c.AdminID, c.StartDatetime, c.EndDatetime).Scan(&id); err != nil {
		return 0, err
	}
	c.ID = id
	return id, nil
}

// GetByID fetches a contest with its participant set, or sql.ErrNoRows.
func (r *ContestRepo) GetByID(ctx context.Context, id int64) (*entity.Contest, error) {
	const q = `SELECT id, name, admin_id, start_datetime, end_datetime FROM contests WHERE id=$1`
	var row entity.Contest
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, err
	}
	participants, err := r.loadParticipants(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	row.Participants = participants
	return &row, nil
}

// List returns all contests with participant sets, ordered by id.
func (r *ContestRepo) List(ctx context.Context) ([]*entity.Contest, error) {
	const q = `SELECT id, name, admin_id, start_datetime, end_datetime FROM contests ORDER BY id`
	rows := []*entity.Contest{}
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	for _, c := range rows {
		participants, err := r.loadParticipants(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		c.Participants = participants
	}
	return rows, nil
}

// ListByUser returns contests the given user participates in.
func (r *ContestRepo) ListByUser(ctx context.Context, userID int64) ([]*entity.Contest, error) {
	const q = `SELECT c.id, c.name, c.admin_id, c.start_datetime, c.end_datetime
		FROM contests c
		JOIN contest_participants cp ON cp.contest_id = c.id
		WHERE cp.user_id=$1 ORDER BY c.id`
	rows := []*entity.Contest{}
	if err := r.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, err
	}
	for _, c := range rows {
		participants, err := r.loadParticipants(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		c.Participants = participants
	}
	return rows, nil
}

// Update writes name/start/end for an existing contest and reports rows affected.
func (r *ContestRepo) Update(ctx context.Context, c *entity.Contest) (int64, error) {
	const q = `UPDATE contests SET name=$2, start_datetime=$3, end_datetime=$4 WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, c.ID, c.Name, c.StartDatetime, c.EndDatetime)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReplaceParticipants swaps the full membership set of a contest in one
// transaction. Unknown user ids are silently skipped.
func (r *ContestRepo) ReplaceParticipants(ctx context.Context, contestID int64, userIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM contest_participants WHERE contest_id=$1`, contestID); err != nil {
		return err
	}
	if len(userIDs) > 0 {
		const q = `INSERT INTO contest_participants (contest_id, user_id)
			SELECT $1, id FROM users WHERE id = ANY($2)
			ON CONFLICT DO NOTHING`
		if _, err := tx.ExecContext(ctx, q, contestID, pq.Array(userIDs)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Delete removes a contest and reports rows affected. Membership rows go
// with it via the FK cascade.
func (r *ContestRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contests WHERE id=$1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *ContestRepo) loadParticipants(ctx context.Context, contestID int64) ([]userentity.User, error) {
	const q = `SELECT u.id, u.username FROM users u
		JOIN contest_participants cp ON cp.user_id = u.id
		WHERE cp.contest_id=$1 ORDER BY u.id`
	users := []userentity.User{}
	if err := r.db.SelectContext(ctx, &users, q, contestID); err != nil {
		return nil, err
	}
	return users, nil
}
