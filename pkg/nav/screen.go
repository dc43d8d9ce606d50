// Package nav owns the single current-screen value: it maps the canonical
// location fragment plus authentication status into one Screen Reference, and
// is the only writer of the visible screen.
package nav

// Screen names one view of the client. The set is closed.
type Screen int

const (
	// Home is the sphere feed.
	Home Screen = iota
	// ImageBank is the sphere's shared image library.
	ImageBank
	// Diary is the user's diary.
	Diary
	// EditPost composes or edits a post, optionally seeded from an image.
	EditPost
	// Projects lists slideshow/album projects.
	Projects
	// PlayProject plays one project.
	PlayProject
	// Login through CompleteProfile are the auth screens.
	Login
	Signup
	ForgotPassword
	ConfirmEmail
	CompleteProfile
)

func (s Screen) String() string {
	switch s {
	case Home:
		return "home"
	case ImageBank:
		return "image-bank"
	case Diary:
		return "diary"
	case EditPost:
		return "edit-post"
	case Projects:
		return "projects"
	case PlayProject:
		return "play-project"
	case Login:
		return "login"
	case Signup:
		return "signup"
	case ForgotPassword:
		return "forgot-password"
	case ConfirmEmail:
		return "confirm-email"
	case CompleteProfile:
		return "complete-profile"
	default:
		return "unknown"
	}
}

// AuthScreen reports whether s belongs to the auth-only set. An
// authenticated user is redirected off these, with one exception:
// CompleteProfile is permitted while authenticated.
func (s Screen) AuthScreen() bool {
	switch s {
	case Login, Signup, ForgotPassword, ConfirmEmail, CompleteProfile:
		return true
	default:
		return false
	}
}

// Protected reports whether s requires an authenticated session.
func (s Screen) Protected() bool {
	return !s.AuthScreen()
}

// Recognized query parameter keys.
const (
	ParamImageID          = "imageId"
	ParamProjectID        = "projectId"
	ParamEmail            = "email"
	ParamUserID           = "userId"
	ParamPrefillPostImage = "prefillPostWithImageId"
	ParamScrollToPost     = "scrollToPostId"
)

var recognizedParams = map[string]bool{
	ParamImageID:          true,
	ParamProjectID:        true,
	ParamEmail:            true,
	ParamUserID:           true,
	ParamPrefillPostImage: true,
	ParamScrollToPost:     true,
}

// Ref is a Screen Reference: the named view plus its parameter map. It fully
// determines what is rendered. Refs are recomputed, never persisted.
type Ref struct {
	Screen Screen
	Params map[string]string
}

// NewRef builds a Ref with the given params, dropping unrecognized keys and
// empty values.
func NewRef(screen Screen, params map[string]string) Ref {
	r := Ref{Screen: screen}
	for k, v := range params {
		if recognizedParams[k] && v != "" {
			if r.Params == nil {
				r.Params = make(map[string]string, len(params))
			}
			r.Params[k] = v
		}
	}
	return r
}

// Param returns the named parameter, or "" when unset.
func (r Ref) Param(key string) string {
	return r.Params[key]
}

// Equal reports whether two refs name the same screen with identical params.
func (r Ref) Equal(o Ref) bool {
	if r.Screen != o.Screen || len(r.Params) != len(o.Params) {
		return false
	}
	for k, v := range r.Params {
		if o.Params[k] != v {
			return false
		}
	}
	return true
}
