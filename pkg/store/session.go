package store

import "time"

// Session represents an active login session held in memory between login
// and logout. The JWT itself is stateless; the session record exists so that
// logout can invalidate a token before it expires.
type Session struct {
	Token    string    `json:"token"`
	UserId   int64     `json:"user_id"`
	IssuedAt time.Time `json:"issued_at"`
}
