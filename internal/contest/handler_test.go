package contest

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/quillhaven/contest-registry/internal/contest/entity"
	userentity "github.com/quillhaven/contest-registry/internal/user/entity"
)

func TestToContestResponse(t *testing.T) {
	c := &entity.Contest{
		ID:            3,
		Name:          "spring ctf",
		AdminID:       9,
		StartDatetime: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		EndDatetime:   time.Date(2024, 5, 2, 18, 30, 0, 0, time.UTC),
		Participants:  []userentity.User{{ID: 1, Username: "a@x.com"}},
	}
	resp := toContestResponse(c)

	if resp.Type != "Contest" {
		t.Errorf("type = %q, want Contest", resp.Type)
	}
	if resp.StartDatetime != "2024-05-01 10:00:00" {
		t.Errorf("start = %q", resp.StartDatetime)
	}
	if resp.EndDatetime != "2024-05-02 18:30:00" {
		t.Errorf("end = %q", resp.EndDatetime)
	}
	if len(resp.Participants) != 1 || resp.Participants[0].Username != "a@x.com" {
		t.Errorf("participants = %v", resp.Participants)
	}
}

func TestToContestResponseNilParticipants(t *testing.T) {
	resp := toContestResponse(&entity.Contest{ID: 1})
	if resp.Participants == nil {
		t.Error("participants must serialize as [] rather than null")
	}
}

func TestCreateRejectsMalformedDatetime(t *testing.T) {
	// the handler validates before touching the service
	h := &Handler{logger: zap.NewNop().Sugar()}
	body := `{"name":"c","admin_id":1,"start_datetime":"2024/05/01","end_datetime":"2024-05-02 18:30:00"}`
	req := httptest.NewRequest("POST", "/contests", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Create(w, req)
	if w.Code != 400 {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestContestIDParsing(t *testing.T) {
	req := httptest.NewRequest("GET", "/contests/abc", nil)
	req.SetPathValue("id", "abc")
	w := httptest.NewRecorder()

	if _, ok := contestID(w, req); ok {
		t.Fatal("expected invalid id to be rejected")
	}
	if w.Code != 400 {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
