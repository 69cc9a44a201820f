// Package memory implements the in-process conversation store for Murshid.
// Each user gets a bounded turn history and a single pending-exercise slot.
// State lives for the process lifetime only; nothing here is persisted.
package memory

import "time"

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single message in a conversation.
type Turn struct {
	Role      string    // RoleUser or RoleAssistant
	Content   string    // message text
	Timestamp time.Time // when the turn was recorded
}

// PendingQuestion is the one outstanding generated exercise awaiting the
// user's answer. A user has at most one; generating a new exercise
// overwrites it and a successful evaluation clears it.
type PendingQuestion struct {
	Lesson   string // the lesson the exercise was generated for
	Question string // the full exercise text shown to the user
	AskedAt  time.Time
}

// Conversation is the per-user state tracked by the store.
type Conversation struct {
	ID         string // unique conversation ID (UUID)
	UserID     string
	Turns      []Turn // ordered turn buffer (oldest first)
	Pending    *PendingQuestion
	StartedAt  time.Time
	LastTurnAt time.Time
}
