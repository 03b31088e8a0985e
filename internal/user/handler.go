package user

import (
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/quillhaven/contest-registry/pkg/utilities"
)

// Handler exposes HTTP endpoints for the user read side.
type Handler struct {
	svc    *UserService
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewUserService(db, nil), logger: logger}
}

// List handles GET /contests/users.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Errorw("list users failed", "err", err)
		utilities.WriteJSON(w, http.StatusInternalServerError, utilities.ErrorEnvelope("list users failed"))
		return
	}
	utilities.WriteJSON(w, http.StatusOK,
		utilities.SuccessEnvelope("", utilities.Collection(len(users), users)))
}

// GetByEmail handles GET /contests/get_user_by_email/{email}.
func (h *Handler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	u, err := h.svc.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utilities.WriteJSON(w, http.StatusNotFound, utilities.ErrorEnvelope("user not found"))
			return
		}
		h.logger.Errorw("get user failed", "email", email, "err", err)
		utilities.WriteJSON(w, http.StatusInternalServerError, utilities.ErrorEnvelope("get user failed"))
		return
	}
	utilities.WriteJSON(w, http.StatusOK,
		utilities.SuccessEnvelope("", utilities.Collection(1, []any{u})))
}
