package auth

import (
	"errors"
	"fmt"
	"sync"

	"stockroom-api/internal/model"
)

// ErrUnknownUser is returned when switching to a user that does not exist.
var ErrUnknownUser = errors.New("unknown user")

// Users is the fixed user directory. The first entry is the default.
var Users = []model.User{
	{ID: "1", Name: "Alice (Admin)", Role: model.RoleAdmin},
	{ID: "2", Name: "Bob (Manager)", Role: model.RoleManager},
	{ID: "3", Name: "Charlie (Staff)", Role: model.RoleStaff},
}

// FindUser looks up a user by id.
func FindUser(id string) (model.User, bool) {
	for _, u := range Users {
		if u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}

// State is the application session state.
type State struct {
	CurrentUser model.User
}

// Permissions resolves the current user's permissions.
func (s State) Permissions() model.Permissions {
	return Resolve(s.CurrentUser.Role)
}

// InitialState starts with the first user selected.
func InitialState() State {
	return State{CurrentUser: Users[0]}
}

// SwitchUser selects another user.
type SwitchUser struct {
	UserID string
}

// Reduce applies a transition to state and returns the new state. On error
// the original state is returned unchanged.
func Reduce(state State, action SwitchUser) (State, error) {
	user, ok := FindUser(action.UserID)
	if !ok {
		return state, fmt.Errorf("switch to %q: %w", action.UserID, ErrUnknownUser)
	}
	state.CurrentUser = user
	return state, nil
}

// Session holds the current State behind a lock.
type Session struct {
	mu    sync.RWMutex
	state State
}

// NewSession returns a session in the initial state.
func NewSession() *Session {
	return &Session{state: InitialState()}
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies action to the session.
func (s *Session) Dispatch(action SwitchUser) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Reduce(s.state, action)
	if err != nil {
		return s.state, err
	}
	s.state = next
	return next, nil
}
