package recolour

import (
	"time"

	"github.com/google/uuid"
)

// Session identifies a single recolour request and the frame it targets.
// It replaces any notion of a globally "selected" frame: callers create one
// per request and pass it through.
type Session struct {
	ID      uuid.UUID `json:"id"`
	Frame   string    `json:"frame,omitempty"`
	Created time.Time `json:"created"`
}

// NewSession starts a session for the named frame.
func NewSession(frame string) *Session {
	return &Session{
		ID:      uuid.New(),
		Frame:   frame,
		Created: time.Now().UTC(),
	}
}
