// Package prefs persists the two per-user preferences the client keeps
// locally: the last chosen sphere and the last chosen theme. Both are opaque
// strings keyed by user id, read once at session start and written on
// explicit user change.
package prefs

import (
	"errors"
	"os"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

const (
	keySphere = "sphere"
	keyTheme  = "theme"
)

// Store is the preference store.
type Store struct {
	d *diskv.Diskv
}

// Open roots a preference store at base, creating it lazily on first write.
func Open(base string) (*Store, error) {
	if base == "" {
		return nil, errors.New("prefs: base path required")
	}
	return &Store{d: diskv.New(diskv.Options{
		BasePath:     base,
		CacheSizeMax: 64 * 1024,
	})}, nil
}

// LastSphere returns the user's last chosen sphere id, or "" when none was
// ever chosen.
func (s *Store) LastSphere(userID string) string {
	return s.read(userID, keySphere)
}

// SetLastSphere records an explicit sphere change.
func (s *Store) SetLastSphere(userID, sphereID string) error {
	return s.write(userID, keySphere, sphereID)
}

// Theme returns the user's last chosen theme, or "" for the default.
func (s *Store) Theme(userID string) string {
	return s.read(userID, keyTheme)
}

// SetTheme records an explicit theme change.
func (s *Store) SetTheme(userID, theme string) error {
	return s.write(userID, keyTheme, theme)
}

func prefKey(userID, name string) string {
	return userID + "-" + name
}

func (s *Store) read(userID, name string) string {
	if strings.TrimSpace(userID) == "" {
		return ""
	}
	data, err := s.d.Read(prefKey(userID, name))
	if err != nil {
		return ""
	}
	return string(data)
}

func (s *Store) write(userID, name, value string) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New("prefs: user id required")
	}
	if value == "" {
		if err := s.d.Erase(prefKey(userID, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	return s.d.Write(prefKey(userID, name), []byte(value))
}
