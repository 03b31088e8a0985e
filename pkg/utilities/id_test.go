package utilities

import "testing"

func TestNewEventID(t *testing.T) {
	if id := NewEventID(); id == "" {
		t.Fatal("event id must not be empty")
	}
}

// Event IDs come from one shared snowflake node, so a burst of calls within
// the same millisecond must still produce distinct IDs.
func TestEventIDsDistinctWithinMillisecond(t *testing.T) {
	seen := map[string]bool{}
	for range 64 {
		id := NewEventID()
		if seen[id] {
			t.Fatalf("duplicate event id %q", id)
		}
		seen[id] = true
	}
}

func TestNewKSUID(t *testing.T) {
	if a, b := NewKSUID(), NewKSUID(); a == b {
		t.Errorf("ksuids collide: %q", a)
	}
}
