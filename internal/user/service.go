package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/quillhaven/contest-registry/internal/user/entity"
	userrepo "github.com/quillhaven/contest-registry/internal/user/repo"
)

var ErrUserNotFound = errors.New("user not found")

// UserService exposes the read side of the user roster. Users are only ever
// created by the registration flow, so there is no create/update here.
type UserService struct {
	repo *userrepo.UserRepo
}

func NewUserService(db *sqlx.DB, r *userrepo.UserRepo) *UserService {
	if r == nil {
		r = userrepo.NewUserRepo(db)
	}
	return &UserService{repo: r}
}

// List returns every known user.
func (s *UserService) List(ctx context.Context) ([]entity.User, error) {
	return s.repo.List(ctx)
}

// GetByEmail looks up a user by its unique username (email) string.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.repo.GetByUsername(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
