package nav

import "sync"

// History abstracts the canonical location: the current fragment, writes to
// it, and change notification. The machine only transitions screens through
// fragment-change notifications, never directly from a write.
type History interface {
	Fragment() string
	Write(fragment string)
	Notify(fn func(fragment string))
}

// MemoryHistory is the in-process History used by the terminal client.
// Listeners are invoked synchronously in registration order on every write,
// including writes that repeat the current fragment.
type MemoryHistory struct {
	mu        sync.Mutex
	fragment  string
	listeners []func(string)
}

// NewMemoryHistory starts at the empty (home) fragment.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{fragment: "#/"}
}

func (h *MemoryHistory) Fragment() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fragment
}

func (h *MemoryHistory) Write(fragment string) {
	h.mu.Lock()
	h.fragment = fragment
	listeners := make([]func(string), len(h.listeners))
	copy(listeners, h.listeners)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(fragment)
	}
}

func (h *MemoryHistory) Notify(fn func(fragment string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}
