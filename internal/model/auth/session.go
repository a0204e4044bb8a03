package auth

import (
	"sync"

	"max.ks1230/personal-ledger/internal/model/customerr"
)

// ReasonNotLoggedIn is the AuthError reason for a missing session.
const ReasonNotLoggedIn = "not logged in"

// Session binds a sequence of ledger calls to one user. Only Gate.Login
// hands out a valid one; the zero Session is unauthenticated.
type Session struct {
	userID   int64
	username string
}

func (s Session) UserID() int64 {
	return s.userID
}

func (s Session) Username() string {
	return s.username
}

func (s Session) Valid() bool {
	return s.userID > 0
}

// Require returns an AuthError for a zero session.
func (s Session) Require() error {
	if !s.Valid() {
		return customerr.Auth(ReasonNotLoggedIn)
	}
	return nil
}

// Sessions tracks which client is authenticated as whom. A client is either
// absent (unauthenticated) or mapped to exactly one session.
type Sessions struct {
	mu       sync.Mutex
	byClient map[int64]Session
}

func NewSessions() *Sessions {
	return &Sessions{byClient: make(map[int64]Session)}
}

func (s *Sessions) Login(clientID int64, session Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byClient[clientID] = session
}

// Logout reports whether the client was authenticated.
func (s *Sessions) Logout(clientID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.byClient[clientID]
	delete(s.byClient, clientID)
	return ok
}

func (s *Sessions) Current(clientID int64) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.byClient[clientID]
	return session, ok
}
