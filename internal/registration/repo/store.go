package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/quillhaven/contest-registry/internal/registration"
)

// Store implements registration.Store on top of Postgres via sqlx. All
// constraint rejections are translated into the registration package's
// sentinels here, at the storage boundary, so no pq error crosses into the
// orchestrator.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store { return &Store{db: db} }

func (s *Store) Begin(ctx context.Context) (registration.Tx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &storeTx{tx: tx}, nil
}

type storeTx struct {
	tx *sqlx.Tx
}

func (t *storeTx) FindUserID(ctx context.Context, username string) (int64, bool, error) {
	var id int64
	err := t.tx.QueryRowxContext(ctx, `SELECT id FROM users WHERE username=$1`, username).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return id, true, nil
}

func (t *storeTx) CreateUser(ctx context.Context, username string) (int64, error) {
	var id int64
	err := t.tx.QueryRowxContext(ctx,
		`INSERT INTO users (username) VALUES ($1) RETURNING id`, username).Scan(&id)
	if err != nil {
		return 0, translate(err)
	}
	return id, nil
}

func (t *storeTx) ContestExists(ctx context.Context, contestID int64) (bool, error) {
	var exists bool
	err := t.tx.QueryRowxContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM contests WHERE id=$1)`, contestID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (t *storeTx) AttachParticipant(ctx context.Context, contestID, userID int64) error {
	// no pre-check on purpose: the composite primary key is the single
	// serialization point for racing identical joins
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO contest_participants (contest_id, user_id) VALUES ($1, $2)`, contestID, userID)
	if err != nil {
		return translate(err)
	}
	return nil
}

func (t *storeTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return translate(err)
	}
	return nil
}

func (t *storeTx) Rollback() error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

// pq error codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	uniqueViolation     = pq.ErrorCode("23505")
	foreignKeyViolation = pq.ErrorCode("23503")
)

func translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case uniqueViolation:
		if pqErr.Constraint == "users_username_key" {
			return registration.ErrUserCreateConflict
		}
		return registration.ErrAlreadyMember
	case foreignKeyViolation:
		// membership insert referencing a contest deleted mid-flight
		return registration.ErrContestNotFound
	}
	return err
}
