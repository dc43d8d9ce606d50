package nav

import (
	"net/url"
	"sort"
	"strings"
)

// Fragment grammar: #/<segment>[/<subId>][?<key>=<value>&...]
//
// Encode and Decode are inverses for every representable Ref, so the fragment
// stays the canonical encoding of the active screen.

// Encode renders r as its canonical fragment.
func Encode(r Ref) string {
	var b strings.Builder
	b.WriteString("#/")

	embedded := ""
	switch r.Screen {
	case Home:
		// empty segment
	case EditPost:
		if id := r.Param(ParamImageID); id != "" {
			b.WriteString("images/edit/")
			b.WriteString(url.PathEscape(id))
			embedded = ParamImageID
		} else {
			// Composing with no seed image is its own location; a fake
			// image id must never leak into the fragment.
			b.WriteString("compose")
		}
	case PlayProject:
		if id := r.Param(ParamProjectID); id != "" {
			b.WriteString("projects/play/")
			b.WriteString(url.PathEscape(id))
			embedded = ParamProjectID
		} else {
			b.WriteString(Projects.String())
		}
	default:
		b.WriteString(r.Screen.String())
	}

	keys := make([]string, 0, len(r.Params))
	for k := range r.Params {
		if k != embedded {
			keys = append(keys, k)
		}
	}
	if len(keys) > 0 {
		sort.Strings(keys)
		b.WriteString("?")
		for i, k := range keys {
			if i > 0 {
				b.WriteString("&")
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteString("=")
			b.WriteString(url.QueryEscape(r.Params[k]))
		}
	}
	return b.String()
}

// Decode parses a fragment into a Ref. ok is false when the path segment is
// not recognized; Decode itself never fails on malformed input. Bad query
// strings are dropped and missing sub-ids degrade to the screen's list view.
func Decode(fragment string) (ref Ref, ok bool) {
	raw := strings.TrimPrefix(fragment, "#")
	raw = strings.TrimPrefix(raw, "/")

	rawPath := raw
	rawQuery := ""
	if idx := strings.Index(raw, "?"); idx >= 0 {
		rawPath, rawQuery = raw[:idx], raw[idx+1:]
	}

	params := map[string]string{}
	if rawQuery != "" {
		if values, err := url.ParseQuery(rawQuery); err == nil {
			for k := range values {
				params[k] = values.Get(k)
			}
		}
	}

	segments := []string{}
	for _, s := range strings.Split(rawPath, "/") {
		if s != "" {
			if un, err := url.PathUnescape(s); err == nil {
				s = un
			}
			segments = append(segments, s)
		}
	}

	switch {
	case len(segments) == 0:
		return NewRef(Home, params), true
	case segments[0] == "image-bank":
		return NewRef(ImageBank, params), true
	case segments[0] == "diary":
		return NewRef(Diary, params), true
	case segments[0] == "compose":
		return NewRef(EditPost, params), true
	case segments[0] == "images" && len(segments) >= 2 && segments[1] == "edit":
		if len(segments) >= 3 {
			params[ParamImageID] = segments[2]
			return NewRef(EditPost, params), true
		}
		return NewRef(ImageBank, params), true
	case segments[0] == "projects" && len(segments) >= 2 && segments[1] == "play":
		if len(segments) >= 3 {
			params[ParamProjectID] = segments[2]
			return NewRef(PlayProject, params), true
		}
		return NewRef(Projects, params), true
	case segments[0] == "projects":
		return NewRef(Projects, params), true
	case segments[0] == "login":
		return NewRef(Login, params), true
	case segments[0] == "signup":
		return NewRef(Signup, params), true
	case segments[0] == "forgot-password":
		return NewRef(ForgotPassword, params), true
	case segments[0] == "confirm-email":
		return NewRef(ConfirmEmail, params), true
	case segments[0] == "complete-profile":
		return NewRef(CompleteProfile, params), true
	default:
		return Ref{}, false
	}
}
