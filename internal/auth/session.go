package auth

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrUnknownSession is returned for a session id the registry does not hold.
var ErrUnknownSession = errors.New("unknown session")

// FlashKind selects how a flash message is rendered.
type FlashKind string

// Flash kinds.
const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
	FlashWarning FlashKind = "warning"
	FlashInfo    FlashKind = "info"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    FlashKind
	Message string
}

// Session is the per-visitor state. Sessions never expire.
type Session struct {
	ID       string
	LoggedIn bool
	Username string

	flash *Flash
}

// Sessions is an in-memory session registry safe for concurrent use.
type Sessions struct {
	mu   sync.Mutex
	byID map[string]*Session
}

// NewSessions returns an empty registry.
func NewSessions() *Sessions {
	return &Sessions{byID: make(map[string]*Session)}
}

// Start creates a logged-out session and returns its id.
func (s *Sessions) Start() string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[id] = &Session{ID: id}
	return id
}

// Get returns a copy of the session with the given id.
func (s *Sessions) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[id]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// MarkLoggedIn records a successful login on the session.
func (s *Sessions) MarkLoggedIn(id, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[id]
	if !ok {
		return ErrUnknownSession
	}
	sess.LoggedIn = true
	sess.Username = username
	return nil
}

// End removes the session. Ending an unknown id is a no-op.
func (s *Sessions) End(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
}

// SetFlash stores a message for the next page, replacing any pending one.
func (s *Sessions) SetFlash(id string, f Flash) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[id]
	if !ok {
		return ErrUnknownSession
	}
	sess.flash = &f
	return nil
}

// PopFlash returns and clears the pending message.
func (s *Sessions) PopFlash(id string) (Flash, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[id]
	if !ok || sess.flash == nil {
		return Flash{}, false
	}
	f := *sess.flash
	sess.flash = nil
	return f, true
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
