package entity

import (
	"time"

	userentity "github.com/quillhaven/contest-registry/internal/user/entity"
)

// WireTimeFormat is the datetime layout used on the API surface for contest
// start/end times. It is an external contract with existing consumers.
const WireTimeFormat = "2006-01-02 15:04:05"

// Contest represents a row in the `contests` table plus its loaded
// participant set. Start/end ordering is deliberately not validated
// anywhere; callers may store inverted ranges.
type Contest struct {
	ID            int64     `db:"id"`
	Name          string    `db:"name"`
	AdminID       int64     `db:"admin_id"`
	StartDatetime time.Time `db:"start_datetime"`
	EndDatetime   time.Time `db:"end_datetime"`

	// Participants is populated by the repo from contest_participants.
	Participants []userentity.User `db:"-"`
}
