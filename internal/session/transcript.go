// Package session holds the per-session chat transcript: an ordered,
// append-only record of user and assistant turns. Nothing is persisted across
// sessions.
package session

import (
	"sync"

	"github.com/google/uuid"
)

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in the conversation. Turns are immutable once appended;
// ordering is insertion order.
type Turn struct {
	Role    Role
	Content string
}

// Transcript is the ordered record of turns for one interactive session.
// Append-only except for Clear. The pipeline drives a transcript from a
// single flow, but the mutex keeps Clear atomic for any observer.
type Transcript struct {
	id    uuid.UUID
	mu    sync.Mutex
	turns []Turn
}

// NewTranscript creates an empty transcript for a new session.
func NewTranscript() *Transcript {
	return &Transcript{id: uuid.New()}
}

// ID returns the session identifier.
func (t *Transcript) ID() uuid.UUID { return t.id }

// Append adds a turn to the end of the transcript.
func (t *Transcript) Append(turn Turn) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = append(t.turns, turn)
}

// All returns the turns in insertion order. The returned slice is a copy.
func (t *Transcript) All() []Turn {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.turns)
}

// Clear empties the transcript.
func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = nil
}
