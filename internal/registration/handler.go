package registration

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/quillhaven/contest-registry/pkg/utilities"
)

// Joiner is the registration entry point the HTTP layer depends on.
type Joiner interface {
	Join(ctx context.Context, contestID int64, username string) (JoinResult, error)
}

// Handler exposes the join endpoint.
type Handler struct {
	svc    Joiner
	logger *zap.SugaredLogger
}

func NewHandler(svc Joiner, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// JoinRequest is the request body for the join endpoint.
type JoinRequest struct {
	Username string `json:"username"`
}

// Join handles POST /contests/{id}/add_new_partecipant. Outcomes map to
// 200 / 409 / 404; a failed notification publish downgrades a 200 with a
// warning field instead of failing the request.
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	contestID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utilities.WriteJSON(w, http.StatusBadRequest, utilities.ErrorEnvelope("invalid contest id"))
		return
	}
	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utilities.WriteJSON(w, http.StatusBadRequest, utilities.ErrorEnvelope("invalid payload"))
		return
	}

	res, err := h.svc.Join(r.Context(), contestID, req.Username)
	if err != nil {
		if errors.Is(err, ErrInvalidUsername) {
			utilities.WriteJSON(w, http.StatusBadRequest, utilities.ErrorEnvelope(err.Error()))
			return
		}
		h.logger.Errorw("join failed", "contest_id", contestID, "err", err)
		utilities.WriteJSON(w, http.StatusInternalServerError, utilities.ErrorEnvelope("registration failed"))
		return
	}

	switch res.Outcome {
	case OutcomeAlreadyMember:
		utilities.WriteJSON(w, http.StatusConflict, utilities.ErrorEnvelope("partecipant already added before"))
	case OutcomeContestNotFound:
		utilities.WriteJSON(w, http.StatusNotFound, utilities.ErrorEnvelope("contest not found"))
	default:
		env := utilities.SuccessEnvelope("", map[string]any{"user_id": res.UserID})
		if res.NotifyErr != nil {
			env["warning"] = "notification delivery failed"
		}
		utilities.WriteJSON(w, http.StatusOK, env)
	}
}
