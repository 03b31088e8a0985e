package notification

import (
	"time"

	"github.com/quillhaven/contest-registry/pkg/utilities"
)

// Event is the message pushed onto the mail queue. The to_email, subject and
// body fields are a stable contract with the delivery consumer; event_id and
// queued_at are correlation metadata for the consumer's retry handling.
type Event struct {
	EventID   string `json:"event_id"`
	Recipient string `json:"to_email"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	QueuedAt  string `json:"queued_at"`
}

// NewContestSubscription builds the notification sent to a user who just
// joined a contest.
func NewContestSubscription(recipient, contestPageURL string) Event {
	return Event{
		EventID:   utilities.NewEventID(),
		Recipient: recipient,
		Subject:   "Contest Subscription",
		Body:      "Hi! You are now subscribed to a new contest! Please check the contest page " + contestPageURL,
		QueuedAt:  time.Now().UTC().Format(time.RFC3339),
	}
}
