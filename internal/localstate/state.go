// Package localstate persists the small amount of client-side state
// that must survive restarts: the in-progress session id and the list
// of emails already submitted from this machine. The duplicate-email
// list is advisory only; the server enforces the real idempotency.
package localstate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Fixed well-known keys, mirrored from the browser clients'
// localStorage usage.
type fileState struct {
	SessionID       string   `json:"session_id"`
	SubmittedEmails []string `json:"submitted_emails"`
}

// Store is a file-backed key-value store guarded by a mutex.
type Store struct {
	path string
	mu   sync.Mutex
}

// DefaultPath places the state file under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "skillscope", "state.json"), nil
}

// Open creates a store at the given path, creating parent directories
// as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}
	return &Store{path: path}, nil
}

// SessionID returns the persisted session id, empty when none.
func (s *Store) SessionID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return "", err
	}
	return st.SessionID, nil
}

// SetSessionID persists the session id so an in-progress session
// survives a restart.
func (s *Store) SetSessionID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return err
	}
	st.SessionID = id
	return s.save(st)
}

// ClearSessionID removes the persisted id after a successful
// submission, preventing accidental resubmission from stale state.
func (s *Store) ClearSessionID() error {
	return s.SetSessionID("")
}

// RecordSubmittedEmail appends an email to the submitted list.
func (s *Store) RecordSubmittedEmail(email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return err
	}
	for _, e := range st.SubmittedEmails {
		if e == email {
			return nil
		}
	}
	st.SubmittedEmails = append(st.SubmittedEmails, email)
	return s.save(st)
}

// HasSubmittedEmail reports whether this machine already submitted for
// the given email.
func (s *Store) HasSubmittedEmail(email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return false, err
	}
	for _, e := range st.SubmittedEmails {
		if e == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) load() (fileState, error) {
	var st fileState
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("failed to read state file: %w", err)
	}
	if err := json.Unmarshal(data, &st); err != nil {
		// A corrupt state file is not worth failing the workflow over;
		// start fresh.
		return fileState{}, nil
	}
	return st, nil
}

func (s *Store) save(st fileState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}
