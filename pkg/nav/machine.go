package nav

import (
	"sync"

	"tableflip.dev/sphere/pkg/identity"
)

// Machine derives the current Screen Reference from the location fragment
// gated by authentication status. It is the only writer of the visible
// screen; explicit navigation goes through the fragment so a single code
// path produces visible state changes.
type Machine struct {
	mu      sync.Mutex
	history History
	status  identity.Status
	current Ref
	settled bool
	hooks   []func(prev, next Ref)
}

// NewMachine wires a machine to its history. No screen is committed until
// the auth status resolves to a known value.
func NewMachine(h History) *Machine {
	m := &Machine{history: h}
	h.Notify(m.handleFragment)
	return m
}

// OnScreenChange registers a hook invoked after the committed screen changes.
// Hooks are where screen-scoped caches clear (timeline arbitration reset,
// transient list state). They run outside the machine's lock.
func (m *Machine) OnScreenChange(fn func(prev, next Ref)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, fn)
}

// Current returns the committed Screen Reference. ok is false while the auth
// status is still unknown and no screen has been committed.
func (m *Machine) Current() (Ref, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.settled
}

// Status returns the auth status the machine last observed.
func (m *Machine) Status() identity.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// SetStatus feeds an auth-status change into the machine. Moving to a known
// status replays the current fragment; moving to unknown freezes transitions
// until the status settles again.
func (m *Machine) SetStatus(s identity.Status) {
	m.mu.Lock()
	if s == m.status {
		m.mu.Unlock()
		return
	}
	m.status = s
	m.mu.Unlock()
	if s == identity.StatusUnknown {
		return
	}
	m.handleFragment(m.history.Fragment())
}

// Navigate requests a screen directly. It encodes the ref to its canonical
// fragment and writes it to the history; the committed screen then changes
// through the fragment-change listener, never here. Navigating to the
// current location is a no-op: no URL write, no state mutation.
func (m *Machine) Navigate(r Ref) {
	canonical := Encode(r)
	if canonical == m.history.Fragment() {
		return
	}
	m.history.Write(canonical)
}

// handleFragment is the single transition path: parse, map, gate, commit,
// then rewrite the fragment when the committed screen's canonical form
// differs from what the location says.
func (m *Machine) handleFragment(fragment string) {
	m.mu.Lock()
	if m.status == identity.StatusUnknown {
		// Defer: the machine must not guess. SetStatus replays the fragment.
		m.mu.Unlock()
		return
	}
	next := m.resolveLocked(fragment)

	var prev Ref
	changed := false
	if !m.settled || !next.Equal(m.current) {
		prev = m.current
		m.current = next
		m.settled = true
		changed = true
	}
	hooks := make([]func(prev, next Ref), len(m.hooks))
	copy(hooks, m.hooks)
	canonical := Encode(next)
	m.mu.Unlock()

	if changed {
		for _, fn := range hooks {
			fn(prev, next)
		}
	}
	if canonical != fragment {
		// Keep the fragment the canonical encoding of the active screen.
		// This re-enters handleFragment once and converges immediately.
		m.history.Write(canonical)
	}
}

// resolveLocked maps a fragment to the screen it yields under the current
// auth status. Unparseable fragments never fail; they degrade to the default
// screen for the status.
func (m *Machine) resolveLocked(fragment string) Ref {
	ref, ok := Decode(fragment)
	if !ok {
		if m.status == identity.StatusAuthenticated {
			return NewRef(Home, nil)
		}
		return NewRef(Login, nil)
	}
	if ref.Screen.AuthScreen() && m.status == identity.StatusAuthenticated && ref.Screen != CompleteProfile {
		return NewRef(Home, nil)
	}
	if ref.Screen.Protected() && m.status == identity.StatusUnauthenticated {
		return NewRef(Login, nil)
	}
	return ref
}
