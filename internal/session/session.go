package session

import (
	"sync"

	"github.com/trustcare/cli/internal/models"
)

// State is the position of the session in the login flow.
type State int

const (
	Anonymous State = iota
	LoginPending
	OtpPending
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case LoginPending:
		return "login-pending"
	case OtpPending:
		return "otp-pending"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// PendingLogin carries the user between the credential step and the OTP step.
type PendingLogin struct {
	Username    string `json:"username" yaml:"username"`
	MaskedEmail string `json:"maskedEmail" yaml:"masked_email"`
}

// View is the read-only face of the session handed to guards and screens.
type View interface {
	State() State
	User() *models.UserProfile
	IsAuthenticated() bool
	IsLoading() bool
	Pending() (PendingLogin, bool)
}

// Session is the snapshot of who is signed in.
type Session struct {
	mu         sync.RWMutex
	state      State
	user       *models.UserProfile
	loading    int
	pending    *PendingLogin
	generation uint64
}

// Writer mutates a Session. Only the auth controller holds one.
type Writer struct {
	s *Session
}

// New creates an anonymous session and the writer that owns it.
func New() (*Session, *Writer) {
	s := &Session{}
	return s, &Writer{s: s}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the profile snapshot. Callers must treat it as immutable.
func (s *Session) User() *models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == Authenticated && s.user != nil
}

func (s *Session) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading > 0
}

func (s *Session) Pending() (PendingLogin, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pending == nil {
		return PendingLogin{}, false
	}
	return *s.pending, true
}

// Generation changes every time the session is reset. Responses started under
// an older generation must not be applied.
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Session returns the read-only session this writer owns.
func (w *Writer) Session() *Session {
	return w.s
}

func (w *Writer) SetState(state State) {
	w.s.mu.Lock()
	w.s.state = state
	w.s.mu.Unlock()
}

// BeginLoading marks a network round-trip that the auth gate must wait for.
// The returned func ends it.
func (w *Writer) BeginLoading() func() {
	w.s.mu.Lock()
	w.s.loading++
	w.s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			w.s.mu.Lock()
			if w.s.loading > 0 {
				w.s.loading--
			}
			w.s.mu.Unlock()
		})
	}
}

func (w *Writer) SetPending(p PendingLogin) {
	w.s.mu.Lock()
	w.s.pending = &p
	w.s.state = OtpPending
	w.s.mu.Unlock()
}

// BeginLogin enters LoginPending, discarding any earlier pending login.
func (w *Writer) BeginLogin() {
	w.s.mu.Lock()
	w.s.pending = nil
	w.s.state = LoginPending
	w.s.mu.Unlock()
}

// Authenticate replaces the profile wholesale and ends the login flow.
func (w *Writer) Authenticate(user *models.UserProfile) {
	w.s.mu.Lock()
	w.s.user = user
	w.s.pending = nil
	w.s.state = Authenticated
	w.s.mu.Unlock()
}

// Reset returns the session to Anonymous and starts a new generation. A
// session that is already anonymous is left untouched and Reset reports false.
func (w *Writer) Reset() bool {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	changed := w.s.state != Anonymous || w.s.user != nil || w.s.pending != nil
	if !changed {
		return false
	}
	w.s.state = Anonymous
	w.s.user = nil
	w.s.pending = nil
	w.s.generation++
	return true
}

// Invalidate starts a new generation without touching the session, so
// responses already in flight are discarded.
func (w *Writer) Invalidate() {
	w.s.mu.Lock()
	w.s.generation++
	w.s.mu.Unlock()
}
