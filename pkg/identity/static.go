package identity

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrBadCredentials is returned by StaticProvider.SignIn when the supplied
// credentials do not match a registered account.
var ErrBadCredentials = errors.New("identity: invalid email or password")

// StaticProvider is an in-memory Provider used by tests and offline
// development. Accounts are registered up front; any registered email with
// the matching password signs in.
type StaticProvider struct {
	mu       sync.Mutex
	status   Status
	session  Session
	accounts map[string]staticAccount
	watchers []chan Status
}

type staticAccount struct {
	session  Session
	password string
}

// NewStaticProvider returns a provider in StatusUnknown. Call Resolve (or
// SignIn) to move it to a known state, mirroring the asynchronous session
// resolution of a real identity service.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{accounts: make(map[string]staticAccount)}
}

// Register adds an account that SignIn will accept.
func (p *StaticProvider) Register(s Session, password string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts[strings.ToLower(s.Email)] = staticAccount{session: s, password: password}
}

// Resolve settles the initial unknown state. With a zero session it resolves
// to unauthenticated; otherwise to an authenticated session.
func (p *StaticProvider) Resolve(s Session) {
	p.mu.Lock()
	if s.UserID == "" {
		p.status = StatusUnauthenticated
		p.session = Session{}
	} else {
		p.status = StatusAuthenticated
		p.session = s
	}
	watchers, status := p.snapshotWatchersLocked()
	p.mu.Unlock()
	broadcast(watchers, status)
}

func (p *StaticProvider) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *StaticProvider) Session() (Session, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status != StatusAuthenticated {
		return Session{}, false
	}
	return p.session, true
}

// Watch streams status changes. The current status is delivered immediately.
func (p *StaticProvider) Watch(ctx context.Context) (<-chan Status, error) {
	p.mu.Lock()
	ch := make(chan Status, 8)
	ch <- p.status
	p.watchers = append(p.watchers, ch)
	p.mu.Unlock()

	go func() {
		<-ctx.Done()
		p.mu.Lock()
		for i, w := range p.watchers {
			if w == ch {
				p.watchers = append(p.watchers[:i], p.watchers[i+1:]...)
				break
			}
		}
		p.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

func (p *StaticProvider) SignIn(ctx context.Context, email, password string) (Session, error) {
	p.mu.Lock()
	acct, ok := p.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok || acct.password != password {
		p.mu.Unlock()
		return Session{}, ErrBadCredentials
	}
	p.status = StatusAuthenticated
	p.session = acct.session
	watchers, status := p.snapshotWatchersLocked()
	p.mu.Unlock()
	broadcast(watchers, status)
	return acct.session, nil
}

func (p *StaticProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.status = StatusUnauthenticated
	p.session = Session{}
	watchers, status := p.snapshotWatchersLocked()
	p.mu.Unlock()
	broadcast(watchers, status)
	return nil
}

func (p *StaticProvider) snapshotWatchersLocked() ([]chan Status, Status) {
	watchers := make([]chan Status, len(p.watchers))
	copy(watchers, p.watchers)
	return watchers, p.status
}

func broadcast(watchers []chan Status, status Status) {
	for _, w := range watchers {
		select {
		case w <- status:
		default:
			// Drop rather than block a slow consumer; the next change will
			// carry the fresh status.
		}
	}
}
