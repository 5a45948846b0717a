package session

import (
	"time"

	"github.com/google/uuid"

	"sqltweet/internal/model"
)

// Session is the authenticated user's context, created at login or signup
// and passed explicitly to every operation until logout.
type Session struct {
	ID      string
	User    model.User
	Started time.Time
	ended   bool
}

func New(u model.User, now time.Time) *Session {
	return &Session{ID: uuid.NewString(), User: u, Started: now}
}

// UserID is the acting user's id.
func (s *Session) UserID() int64 { return s.User.ID }

// End marks the session logged out.
func (s *Session) End() { s.ended = true }

// Active reports whether s is a live session. A nil session is inactive.
func (s *Session) Active() bool { return s != nil && !s.ended }

// Fields returns log fields identifying the session.
func (s *Session) Fields() map[string]any {
	if s == nil {
		return nil
	}
	return map[string]any{"session": s.ID, "usr": s.User.ID}
}
