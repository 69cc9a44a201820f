package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// StoreConfig holds configuration for the conversation Store.
type StoreConfig struct {
	// MaxTurns is the maximum number of turns kept per user. When exceeded,
	// the oldest turns are dropped (sliding window). Default: 50.
	MaxTurns int
}

// DefaultStoreConfig returns a StoreConfig with the documented defaults.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{MaxTurns: 50}
}

// Store holds every user's conversation state. Conversations are created
// lazily on first touch. All operations on a user's state happen under the
// store lock, so two racing requests for the same user cannot leave the
// pending-question slot half-written.
//
// Store is safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	config StoreConfig
	convos map[string]*Conversation // key: user ID
}

// NewStore creates a Store with the given configuration.
func NewStore(cfg StoreConfig) *Store {
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = DefaultStoreConfig().MaxTurns
	}
	return &Store{
		config: cfg,
		convos: make(map[string]*Conversation),
	}
}

// Append records a single turn for the user.
func (s *Store) Append(userID, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLocked(s.getOrCreateLocked(userID), role, content, time.Now())
}

// AppendExchange records a user turn and the assistant reply as one atomic
// pair, so readers never observe a question without its answer.
func (s *Store) AppendExchange(userID, userText, reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.getOrCreateLocked(userID)
	now := time.Now()
	s.appendLocked(c, RoleUser, userText, now)
	s.appendLocked(c, RoleAssistant, reply, now)
}

// Recent returns up to the n most recent turns for the user, oldest first.
// Returns nil when the user has no history.
func (s *Store) Recent(userID string, n int) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.convos[userID]
	if !ok || n <= 0 {
		return nil
	}
	turns := c.Turns
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// SetPending stores the generated exercise for the user, replacing any
// previous pending question in one step.
func (s *Store) SetPending(userID, lesson, question string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.getOrCreateLocked(userID)
	c.Pending = &PendingQuestion{
		Lesson:   lesson,
		Question: question,
		AskedAt:  time.Now(),
	}
}

// Pending returns a copy of the user's pending question, if any.
func (s *Store) Pending(userID string) (PendingQuestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convos[userID]
	if !ok || c.Pending == nil {
		return PendingQuestion{}, false
	}
	return *c.Pending, true
}

// HasPending reports whether the user currently has a pending question.
func (s *Store) HasPending(userID string) bool {
	_, ok := s.Pending(userID)
	return ok
}

// ClearPending removes the user's pending question. It is a no-op when
// none exists.
func (s *Store) ClearPending(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.convos[userID]; ok {
		c.Pending = nil
	}
}

// Snapshot returns a deep copy of the user's conversation, or nil when the
// user has never sent a message. Mutating the copy does not affect the store.
func (s *Store) Snapshot(userID string) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.convos[userID]
	if !ok {
		return nil
	}
	cp := *c
	cp.Turns = make([]Turn, len(c.Turns))
	copy(cp.Turns, c.Turns)
	if c.Pending != nil {
		p := *c.Pending
		cp.Pending = &p
	}
	return &cp
}

// getOrCreateLocked returns the user's conversation, creating an empty one
// when absent. Must be called with mu held.
func (s *Store) getOrCreateLocked(userID string) *Conversation {
	c, ok := s.convos[userID]
	if !ok {
		c = &Conversation{
			ID:        uuid.New().String(),
			UserID:    userID,
			StartedAt: time.Now(),
		}
		s.convos[userID] = c
	}
	return c
}

// appendLocked adds a turn and trims the buffer to MaxTurns. Must be
// called with mu held.
func (s *Store) appendLocked(c *Conversation, role, content string, now time.Time) {
	c.Turns = append(c.Turns, Turn{Role: role, Content: content, Timestamp: now})
	c.LastTurnAt = now
	if len(c.Turns) > s.config.MaxTurns {
		excess := len(c.Turns) - s.config.MaxTurns
		c.Turns = c.Turns[excess:]
	}
}
