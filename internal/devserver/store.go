package devserver

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/jweekley-ucsc/skillscope/internal/api"
)

// submissionStore appends transcript submissions to a JSONL file and
// reads them back, guarding the file with a mutex.
type submissionStore struct {
	path string
	mu   sync.Mutex
}

func newSubmissionStore(path string) *submissionStore {
	return &submissionStore{path: path}
}

// Append stores one submission.
func (s *submissionStore) Append(record api.TranscriptRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open submissions file: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append submission: %w", err)
	}
	return nil
}

// All returns every stored submission in insertion order. Malformed
// lines are skipped, not fatal.
func (s *submissionStore) All() ([]api.TranscriptRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open submissions file: %w", err)
	}
	defer f.Close()

	var records []api.TranscriptRecord
	scanner := bufio.NewScanner(f)
	const maxCapacity = 10 * 1024 * 1024
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record api.TranscriptRecord
		if err := json.Unmarshal(line, &record); err != nil {
			slog.Warn("Skipping malformed submission line", "line", lineNum, "err", err)
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading submissions: %w", err)
	}
	return records, nil
}

// HasEmail reports whether a submission for the email already exists.
func (s *submissionStore) HasEmail(email string) (bool, error) {
	records, err := s.All()
	if err != nil {
		return false, err
	}
	for _, r := range records {
		if r.Email == email {
			return true, nil
		}
	}
	return false, nil
}
