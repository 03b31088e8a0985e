package notification

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewContestSubscription(t *testing.T) {
	evt := NewContestSubscription("a@x.com", "http://contests.local/contests")

	if evt.Recipient != "a@x.com" {
		t.Errorf("recipient = %q, want a@x.com", evt.Recipient)
	}
	if evt.Subject != "Contest Subscription" {
		t.Errorf("subject = %q", evt.Subject)
	}
	if !strings.Contains(evt.Body, "http://contests.local/contests") {
		t.Errorf("body does not reference the contest page: %q", evt.Body)
	}
	if evt.EventID == "" {
		t.Error("event id must be set")
	}
	if evt.QueuedAt == "" {
		t.Error("queued_at must be set")
	}
}

// The delivery consumer keys on these JSON field names; they must not drift.
func TestEventWireFieldNames(t *testing.T) {
	evt := NewContestSubscription("a@x.com", "http://contests.local/contests")
	payload, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"to_email", "subject", "body", "event_id", "queued_at"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("payload missing field %q", key)
		}
	}
	if fields["to_email"] != "a@x.com" {
		t.Errorf("to_email = %v", fields["to_email"])
	}
}
