package session

import "sync"

// TokenSource is the read-only view of the token store used by the API client.
type TokenSource interface {
	Get() (string, bool)
}

// TokenStore is the process-wide, in-memory holder of the bearer credential.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewTokenStore returns an empty store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Set replaces the current token.
func (s *TokenStore) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Get returns the current token, if any.
func (s *TokenStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Clear drops the token and reports whether one was held.
func (s *TokenStore) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := s.token != ""
	s.token = ""
	return had
}

// ClearIf drops the token only while it is still token. It reports whether it
// did, so a rejection of an older token never clears a newer one.
func (s *TokenStore) ClearIf(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" || s.token != token {
		return false
	}
	s.token = ""
	return true
}
