package shell

import (
	"sync"

	"github.com/trustcare/cli/internal/routes"
)

// History is the navigation stack of the shell. It implements
// routes.Navigator.
type History struct {
	mu      sync.Mutex
	stack   []string
	version uint64
}

// NewHistory starts at the login screen.
func NewHistory() *History {
	return &History{stack: []string{routes.Login}}
}

// Navigate pushes path. With replace the whole stack is dropped first, so
// back cannot reach anything visited before.
func (h *History) Navigate(path string, replace bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if replace {
		h.stack = h.stack[:0]
	}
	h.stack = append(h.stack, path)
	h.version++
}

// Back pops the current screen. It reports false at the bottom of the stack.
func (h *History) Back() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.stack) < 2 {
		return h.current(), false
	}
	h.stack = h.stack[:len(h.stack)-1]
	h.version++
	return h.current(), true
}

// Current is the screen on top of the stack.
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current()
}

// Version changes on every navigation, including to the same path.
func (h *History) Version() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.version
}

// Len is the depth of the stack.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.stack)
}

func (h *History) current() string {
	if len(h.stack) == 0 {
		return routes.Login
	}
	return h.stack[len(h.stack)-1]
}
