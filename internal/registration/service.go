package registration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quillhaven/contest-registry/internal/notification"
)

// sentinel errors for the registration flow. ErrAlreadyMember and
// ErrContestNotFound are produced by the store when the database rejects an
// insert; they are translated into JoinResult outcomes here and never escape
// as errors. ErrUserCreateConflict signals that a concurrent request
// committed the same new username first.
var (
	ErrInvalidUsername    = errors.New("username must not be empty")
	ErrAlreadyMember      = errors.New("participant already added")
	ErrContestNotFound    = errors.New("contest not found")
	ErrUserCreateConflict = errors.New("concurrent user creation")
)

// Store opens registration transactions against the backing database.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is one registration unit of work. The user insert and the membership
// insert share this transaction so they commit or roll back together.
// Rollback after a successful Commit must be a no-op so callers can defer it.
type Tx interface {
	// FindUserID resolves a username to its id; found=false is not an error.
	FindUserID(ctx context.Context, username string) (id int64, found bool, err error)
	// CreateUser inserts a user row, uncommitted. Returns
	// ErrUserCreateConflict when another transaction committed the same
	// username in the meantime.
	CreateUser(ctx context.Context, username string) (int64, error)
	// ContestExists reports whether the contest row is visible.
	ContestExists(ctx context.Context, contestID int64) (bool, error)
	// AttachParticipant inserts the (contest, user) membership row without
	// any pre-check; uniqueness is left to the primary key so two racing
	// joins serialize at the database. Returns ErrAlreadyMember or
	// ErrContestNotFound on constraint rejection.
	AttachParticipant(ctx context.Context, contestID, userID int64) error
	Commit() error
	Rollback() error
}

// Publisher hands a notification event to the mail queue.
type Publisher interface {
	Publish(ctx context.Context, evt notification.Event) error
}

// Outcome is the variant tag of a JoinResult.
type Outcome string

const (
	OutcomeJoined          Outcome = "joined"
	OutcomeAlreadyMember   Outcome = "already_member"
	OutcomeContestNotFound Outcome = "contest_not_found"
)

// JoinResult reports how a join attempt ended. NotifyErr is only ever set on
// OutcomeJoined and marks a degraded success: the registration committed but
// the notification could not be queued.
type JoinResult struct {
	Outcome   Outcome
	UserID    int64
	NotifyErr error
}

type Config struct {
	// ContestPageURL is interpolated into the notification body.
	ContestPageURL string
	// TxTimeout bounds the registration transaction.
	TxTimeout time.Duration
	// PublishTimeout bounds the post-commit queue append.
	PublishTimeout time.Duration
}

// ConfigFromEnv reads registration config from environment variables
func ConfigFromEnv() Config {
	pageURL := os.Getenv("CONTEST_PAGE_URL")
	if pageURL == "" {
		pageURL = "http://127.0.0.1:3000/contests"
	}
	txTimeout := 5 * time.Second
	if v := os.Getenv("DATABASE_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			txTimeout = time.Duration(n) * time.Millisecond
		}
	}
	return Config{ContestPageURL: pageURL, TxTimeout: txTimeout, PublishTimeout: 3 * time.Second}
}

// Service orchestrates contest joins: resolve-or-create the user, attach the
// membership in the same transaction, then queue the mail notification
// strictly after commit.
type Service struct {
	store     Store
	publisher Publisher
	logger    *zap.SugaredLogger
	cfg       Config
}

func NewService(store Store, publisher Publisher, logger *zap.SugaredLogger, cfg Config) *Service {
	if cfg.TxTimeout <= 0 {
		cfg.TxTimeout = 5 * time.Second
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 3 * time.Second
	}
	return &Service{store: store, publisher: publisher, logger: logger, cfg: cfg}
}

// Join registers username (an email) as a participant of the contest.
// Storage faults come back as errors; duplicate membership and missing
// contest are normal outcomes, not errors.
func (s *Service) Join(ctx context.Context, contestID int64, username string) (JoinResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return JoinResult{}, ErrInvalidUsername
	}

	res, err := s.joinOnce(ctx, contestID, username)
	if errors.Is(err, ErrUserCreateConflict) {
		// A concurrent first join committed this username; the retry will
		// find the user on the normal lookup path.
		res, err = s.joinOnce(ctx, contestID, username)
	}
	if err != nil {
		return JoinResult{}, err
	}

	if res.Outcome == OutcomeJoined {
		res.NotifyErr = s.notify(ctx, username)
	}
	return res, nil
}

func (s *Service) joinOnce(ctx context.Context, contestID int64, username string) (JoinResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.TxTimeout)
	defer cancel()

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return JoinResult{}, fmt.Errorf("begin join tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	userID, found, err := tx.FindUserID(ctx, username)
	if err != nil {
		return JoinResult{}, fmt.Errorf("find user: %w", err)
	}
	if !found {
		userID, err = tx.CreateUser(ctx, username)
		if err != nil {
			if errors.Is(err, ErrUserCreateConflict) {
				return JoinResult{}, err
			}
			return JoinResult{}, fmt.Errorf("create user: %w", err)
		}
	}

	exists, err := tx.ContestExists(ctx, contestID)
	if err != nil {
		return JoinResult{}, fmt.Errorf("load contest: %w", err)
	}
	if !exists {
		// rollback discards any user row created above
		return JoinResult{Outcome: OutcomeContestNotFound}, nil
	}

	if err := tx.AttachParticipant(ctx, contestID, userID); err != nil {
		switch {
		case errors.Is(err, ErrAlreadyMember):
			s.logger.Infow("duplicate join attempt", "contest_id", contestID, "username", username)
			return JoinResult{Outcome: OutcomeAlreadyMember}, nil
		case errors.Is(err, ErrContestNotFound):
			// contest deleted between the existence check and the insert
			return JoinResult{Outcome: OutcomeContestNotFound}, nil
		}
		return JoinResult{}, fmt.Errorf("attach participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if errors.Is(err, ErrAlreadyMember) {
			s.logger.Infow("duplicate join attempt", "contest_id", contestID, "username", username)
			return JoinResult{Outcome: OutcomeAlreadyMember}, nil
		}
		return JoinResult{}, fmt.Errorf("commit join: %w", err)
	}
	return JoinResult{Outcome: OutcomeJoined, UserID: userID}, nil
}

// notify queues the subscription mail. It runs detached from the request
// context: the registration is already committed, so caller cancellation
// must not unwind it, only the bounded timeout applies.
func (s *Service) notify(ctx context.Context, recipient string) error {
	evt := notification.NewContestSubscription(recipient, s.cfg.ContestPageURL)

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.PublishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, evt); err != nil {
		s.logger.Warnw("mail queue publish failed",
			"recipient", recipient, "event_id", evt.EventID, "err", err)
		return err
	}
	s.logger.Debugw("notification queued", "recipient", recipient, "event_id", evt.EventID)
	return nil
}
