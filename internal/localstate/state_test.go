package localstate

import (
	"os"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "state.json"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s
}

func TestSessionIDRoundTrip(t *testing.T) {
	s := testStore(t)

	id, err := s.SessionID()
	if err != nil {
		t.Fatalf("SessionID() error = %v", err)
	}
	if id != "" {
		t.Errorf("fresh store SessionID() = %q, want empty", id)
	}

	if err := s.SetSessionID("abc-123"); err != nil {
		t.Fatalf("SetSessionID() error = %v", err)
	}
	id, err = s.SessionID()
	if err != nil {
		t.Fatal(err)
	}
	if id != "abc-123" {
		t.Errorf("SessionID() = %q, want abc-123", id)
	}

	if err := s.ClearSessionID(); err != nil {
		t.Fatalf("ClearSessionID() error = %v", err)
	}
	id, _ = s.SessionID()
	if id != "" {
		t.Errorf("SessionID() after clear = %q, want empty", id)
	}
}

func TestSubmittedEmails(t *testing.T) {
	s := testStore(t)

	dup, err := s.HasSubmittedEmail("a@b.com")
	if err != nil || dup {
		t.Errorf("HasSubmittedEmail(fresh) = %v, %v", dup, err)
	}

	if err := s.RecordSubmittedEmail("a@b.com"); err != nil {
		t.Fatal(err)
	}
	// Recording twice keeps one entry.
	if err := s.RecordSubmittedEmail("a@b.com"); err != nil {
		t.Fatal(err)
	}

	dup, err = s.HasSubmittedEmail("a@b.com")
	if err != nil || !dup {
		t.Errorf("HasSubmittedEmail() = %v, %v, want true", dup, err)
	}
	dup, _ = s.HasSubmittedEmail("other@b.com")
	if dup {
		t.Error("HasSubmittedEmail(other) = true")
	}
}

func TestEmailsSurviveSessionClear(t *testing.T) {
	s := testStore(t)
	if err := s.RecordSubmittedEmail("a@b.com"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSessionID("abc"); err != nil {
		t.Fatal(err)
	}
	if err := s.ClearSessionID(); err != nil {
		t.Fatal(err)
	}

	dup, _ := s.HasSubmittedEmail("a@b.com")
	if !dup {
		t.Error("submitted email lost when session id was cleared")
	}
}

func TestCorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	id, err := s.SessionID()
	if err != nil {
		t.Fatalf("SessionID() on corrupt file error = %v", err)
	}
	if id != "" {
		t.Errorf("SessionID() = %q, want empty", id)
	}
	// Writes recover the file.
	if err := s.SetSessionID("fresh"); err != nil {
		t.Fatalf("SetSessionID() error = %v", err)
	}
	id, _ = s.SessionID()
	if id != "fresh" {
		t.Errorf("SessionID() = %q, want fresh", id)
	}
}
