package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SaveSession persists the session to path so CLI invocations stay signed in
// between runs. The file is written atomically.
func SaveSession(path string, s Session) error {
	if path == "" {
		return errors.New("identity: session path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("identity: ensure session directory: %w", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadSession reads a previously saved session. A missing file is not an
// error; it reports ok=false.
func LoadSession(path string) (Session, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, false, nil
		}
		return Session{}, false, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, false, fmt.Errorf("identity: decode session: %w", err)
	}
	if s.UserID == "" {
		return Session{}, false, nil
	}
	return s, true, nil
}

// ClearSession removes the saved session, signing the CLI out.
func ClearSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
