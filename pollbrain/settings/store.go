package settings

import "github.com/pkg/errors"

// Store owns a loaded State and the path it is persisted to. It is not safe for concurrent use,
// one invocation owns the state file at a time
type Store struct {
	path  string
	state State
}

// Open loads the state file at path into a Store
func Open(path string) (*Store, error) {
	state, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewStore(path, state), nil
}

// NewStore wraps an already loaded state
func NewStore(path string, state State) *Store {
	if state.Polls == nil {
		state.Polls = []Poll{}
	}
	return &Store{path: path, state: state}
}

// Path returns the state file path
func (s *Store) Path() string {
	return s.path
}

// Token returns the bot API token
func (s *Store) Token() string {
	return s.state.Token
}

// ChatID returns the one chat the bot works in
func (s *Store) ChatID() int64 {
	return s.state.ChatID
}

// BotID returns the user id of the bot itself
func (s *Store) BotID() int64 {
	return s.state.BotID
}

// Folders returns the watched photo folders
func (s *Store) Folders() []string {
	return append([]string(nil), s.state.Folders...)
}

// Offset returns the id of the last processed update
func (s *Store) Offset() int {
	return s.state.LastUpdateID
}

// UpdateOffset marks updateID as processed. The offset never decreases
func (s *Store) UpdateOffset(updateID int) {
	if updateID > s.state.LastUpdateID {
		s.state.LastUpdateID = updateID
	}
}

// Polls returns a copy of the open polls, in insertion order
func (s *Store) Polls() []Poll {
	return append([]Poll(nil), s.state.Polls...)
}

// AddPoll appends a poll and persists the state
func (s *Store) AddPoll(poll Poll) error {
	s.state.Polls = append(s.state.Polls, poll)
	return errors.WithMessage(s.Save(), "AddPoll")
}

// RemovePolls drops every poll matching remove, keeping the order of the rest, and persists
// the state. It returns how many polls were removed
func (s *Store) RemovePolls(remove func(Poll) bool) (int, error) {
	remaining := make([]Poll, 0, len(s.state.Polls))
	for _, poll := range s.state.Polls {
		if !remove(poll) {
			remaining = append(remaining, poll)
		}
	}
	removed := len(s.state.Polls) - len(remaining)
	s.state.Polls = remaining
	return removed, errors.WithMessage(s.Save(), "RemovePolls")
}

// Save writes the full state back to the state file
func (s *Store) Save() error {
	return Save(s.state, s.path)
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() State {
	state := s.state
	state.Folders = s.Folders()
	state.Polls = s.Polls()
	return state
}
