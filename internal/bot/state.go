package bot

import "sync"

// ChatState marks what kind of free-text reply the bot is waiting for
// in a chat.
type ChatState int

const (
	// StateNone means no prompt is pending.
	StateNone ChatState = iota
	// StateAwaitingStopQuery means the next text is a stop code or name.
	StateAwaitingStopQuery
	// StateAwaitingServiceQuery means the next text is a service number.
	StateAwaitingServiceQuery
)

// StateStore maps chat ids to pending-input states. All operations hold the
// same lock, so concurrent updates for the same chat (rapid double-send)
// cannot observe a half-consumed state.
type StateStore struct {
	mu     sync.Mutex
	states map[int64]ChatState
}

// NewStateStore creates an empty state store.
func NewStateStore() *StateStore {
	return &StateStore{states: make(map[int64]ChatState)}
}

// Set records a pending state, overwriting any previous one.
func (s *StateStore) Set(chatID int64, state ChatState) {
	s.mu.Lock()
	s.states[chatID] = state
	s.mu.Unlock()
}

// Get returns the pending state, StateNone if there is none.
func (s *StateStore) Get(chatID int64) ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.states[chatID]; ok {
		return state
	}
	return StateNone
}

// Clear removes any pending state.
func (s *StateStore) Clear(chatID int64) {
	s.mu.Lock()
	delete(s.states, chatID)
	s.mu.Unlock()
}

// Consume atomically reads and clears the pending state, so exactly one
// reply handler wins when two updates race for the same chat.
func (s *StateStore) Consume(chatID int64) ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[chatID]
	if !ok {
		return StateNone
	}
	delete(s.states, chatID)
	return state
}
