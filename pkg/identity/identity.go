// Package identity models the identity collaborator: who the user is and
// whether the session has been resolved yet. Navigation gating consumes the
// tri-state status; everything else reads the session.
package identity

import "context"

// Status is the tri-state authentication status. The zero value is
// StatusUnknown on purpose: until the provider has resolved the session,
// consumers must not guess.
type Status int

const (
	// StatusUnknown means the provider has not yet resolved the session.
	StatusUnknown Status = iota
	// StatusAuthenticated means a signed-in session exists.
	StatusAuthenticated
	// StatusUnauthenticated means the provider resolved to no session.
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Session describes the signed-in user.
type Session struct {
	UserID        string `json:"userId"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	EmailVerified bool   `json:"emailVerified"`
}

// Provider is the read-only identity boundary. Watch streams status changes
// until ctx is cancelled; the current status is always delivered first so a
// late subscriber does not miss the initial resolution.
type Provider interface {
	Status() Status
	Session() (Session, bool)
	Watch(ctx context.Context) (<-chan Status, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context) error
}
