package contest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/quillhaven/contest-registry/internal/contest/entity"
	userentity "github.com/quillhaven/contest-registry/internal/user/entity"
	"github.com/quillhaven/contest-registry/pkg/utilities"
)

// Handler exposes HTTP endpoints for contest CRUD.
type Handler struct {
	svc    *ContestService
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewContestService(db, nil), logger: logger}
}

// contestResponse is the wire shape of a contest, matching the established
// API contract (including the "type" discriminator and datetime format).
type contestResponse struct {
	Type          string            `json:"type"`
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	AdminID       int64             `json:"admin_id"`
	StartDatetime string            `json:"start_datetime"`
	EndDatetime   string            `json:"end_datetime"`
	Participants  []userentity.User `json:"participants"`
}

func toContestResponse(c *entity.Contest) contestResponse {
	participants := c.Participants
	if participants == nil {
		participants = []userentity.User{}
	}
	return contestResponse{
		Type:          "Contest",
		ID:            c.ID,
		Name:          c.Name,
		AdminID:       c.AdminID,
		StartDatetime: c.StartDatetime.Format(entity.WireTimeFormat),
		EndDatetime:   c.EndDatetime.Format(entity.WireTimeFormat),
		Participants:  participants,
	}
}

func toContestResponses(contests []*entity.Contest) []contestResponse {
	responses := make([]contestResponse, 0, len(contests))
	for _, c := range contests {
		responses = append(responses, toContestResponse(c))
	}
	return responses
}

// CreateRequest is the request body for contest creation.
type CreateRequest struct {
	Name          string `json:"name"`
	AdminID       int64  `json:"admin_id"`
	StartDatetime string `json:"start_datetime"`
	EndDatetime   string `json:"end_datetime"`
}

// Create handles POST /contests.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utilities.WriteJSON(w, http.StatusBadRequest, utilities.ErrorEnvelope("invalid payload"))
		return
	}
	start, err := time.Parse(entity.WireTimeFormat, req.StartDatetime)
	if err != nil {
		utilities.WriteJSON(w, http.StatusBadRequest, utilities.ErrorEnvelope(err.Error()))
		return
	}
	end, err := time.Parse(entity.WireTimeFormat, req.EndDatetime)
	if err != nil {
		utilities.WriteJSON(w, http.StatusBadRequest, utilities.ErrorEnvelope(err.Error()))
		return
	}
	c, err := h.svc.Create(r.Context(), req.Name, req.AdminID, start, end)
	if err != nil {
		h.logger.Errorw("create contest failed", "err", err)
		utilities.WriteJSON(w, http.StatusInternalServerError, utilities.ErrorEnvelope("create contest failed"))
		return
	}
	utilities.WriteJSON(w, http.StatusCreated,
		utilities.SuccessEnvelope("created", utilities.Collection(1, []contestResponse{toContestResponse(c)})))
}

// List handles GET /contests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	contests, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Errorw("list contests failed", "err", err)
		utilities.WriteJSON(w, http.StatusInternalServerError, utilities.ErrorEnvelope("list contests failed"))
		return
	}
	utilities.WriteJSON(w, http.StatusOK,
		utilities.SuccessEnvelope("", utilities.Collection(len(contests), toContestResponses(contests))))
}

// Get handles GET /contests/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := contestID(w, r)
	if !ok {
		return
	}
	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, id, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK,
		utilities.SuccessEnvelope("", utilities.Collection(1, []contestResponse{toContestResponse(c)})))
}

// UpdateRequest is the request body for contest updates. Absent fields are
// left unchanged; a present participants list replaces the membership set.
type UpdateRequest struct {
	Name          *string  `json:"name"`
	StartDatetime *string  `json:"start_datetime"`
	EndDatetime   *string  `json:"end_datetime"`
	Participants  *[]int64 `json:"participants"`
}

// Update handles PUT /contests/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := contestID(w, r)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utilities.WriteJSON(w, http.StatusBadRequest, utilities.ErrorEnvelope("invalid payload"))
		return
	}
	params := UpdateParams{Name: req.Name, Participants: req.Participants}
	if req.StartDatetime != nil {
		start, err := time.Parse(entity.WireTimeFormat, *req.StartDatetime)
		if err != nil {
			utilities.WriteJSON(w, http.StatusBadRequest, utilities.ErrorEnvelope(err.Error()))
			return
		}
		params.StartDatetime = &start
	}
	if req.EndDatetime != nil {
		end, err := time.Parse(entity.WireTimeFormat, *req.EndDatetime)
		if err != nil {
			utilities.WriteJSON(w, http.StatusBadRequest, utilities.ErrorEnvelope(err.Error()))
			return
		}
		params.EndDatetime = &end
	}
	c, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		h.respondError(w, id, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK,
		utilities.SuccessEnvelope("", utilities.Collection(1, []contestResponse{toContestResponse(c)})))
}

// Delete handles DELETE /contests/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := contestID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.respondError(w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListByUser handles GET /contests/getcontestsbyuser/{user_id}.
func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("user_id"), 10, 64)
	if err != nil {
		utilities.WriteJSON(w, http.StatusBadRequest, utilities.ErrorEnvelope("invalid user id"))
		return
	}
	contests, err := h.svc.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Errorw("list contests by user failed", "user_id", userID, "err", err)
		utilities.WriteJSON(w, http.StatusInternalServerError, utilities.ErrorEnvelope("list contests failed"))
		return
	}
	utilities.WriteJSON(w, http.StatusOK,
		utilities.SuccessEnvelope("", utilities.Collection(len(contests), toContestResponses(contests))))
}

func (h *Handler) respondError(w http.ResponseWriter, id int64, err error) {
	if errors.Is(err, ErrNotFound) {
		utilities.WriteJSON(w, http.StatusNotFound, utilities.ErrorEnvelope("contest not found"))
		return
	}
	h.logger.Errorw("contest operation failed", "contest_id", id, "err", err)
	utilities.WriteJSON(w, http.StatusInternalServerError, utilities.ErrorEnvelope("internal error"))
}

func contestID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utilities.WriteJSON(w, http.StatusBadRequest, utilities.ErrorEnvelope("invalid contest id"))
		return 0, false
	}
	return id, true
}
