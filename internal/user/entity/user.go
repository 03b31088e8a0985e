package entity

// User represents a row in the `users` table. A user is created lazily the
// first time an unseen username (an email address) joins a contest and is
// never mutated afterwards.
type User struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
}
