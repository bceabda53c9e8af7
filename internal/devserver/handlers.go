package devserver

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jweekley-ucsc/skillscope/internal/api"
	"github.com/jweekley-ucsc/skillscope/internal/rubric"
)

// Domain failures are reported as 200 + success:false; only malformed
// requests get a non-2xx, which the client treats as transport failure.

func (s *Server) handleUploadAudio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, _, err := r.FormFile("audio")
	if err != nil {
		writeJSON(w, map[string]any{"success": false, "error": "missing audio file"})
		return
	}
	defer file.Close()

	filename := r.FormValue("filename")
	if filename == "" {
		writeJSON(w, map[string]any{"success": false, "error": "missing filename"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, 100*1024*1024))
	if err != nil {
		http.Error(w, "Failed to read upload", http.StatusInternalServerError)
		return
	}
	if len(data) == 0 {
		writeJSON(w, map[string]any{"success": false, "error": "empty audio upload"})
		return
	}

	dest := filepath.Join(s.uploadsDir(), filepath.Base(filename))
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		http.Error(w, "Failed to store upload", http.StatusInternalServerError)
		return
	}

	slog.Info("Stored audio upload", "filename", filename, "bytes", len(data))
	writeJSON(w, map[string]any{"success": true})
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Filename == "" {
		writeJSON(w, map[string]any{"success": false, "error": "missing filename"})
		return
	}

	audioPath := filepath.Join(s.uploadsDir(), filepath.Base(req.Filename))
	info, err := os.Stat(audioPath)
	if err != nil {
		writeJSON(w, map[string]any{"success": false, "error": "audio file not found"})
		return
	}

	// A sidecar transcript, when present, stands in for the real
	// transcription engine; otherwise a placeholder is produced so the
	// flow can still be exercised.
	sidecar := filepath.Join(s.sidecarDir(), filepath.Base(req.Filename)+".txt")
	if data, err := os.ReadFile(sidecar); err == nil {
		writeJSON(w, map[string]any{"success": true, "transcript": string(data)})
		return
	}

	transcript := fmt.Sprintf("[dev transcript for %s, %d bytes of audio]", req.Filename, info.Size())
	writeJSON(w, map[string]any{"success": true, "transcript": transcript})
}

func (s *Server) handleSubmitTranscript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var sub api.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if sub.Email == "" || sub.Transcript == "" {
		writeJSON(w, map[string]any{"success": false, "error": "missing email or transcript"})
		return
	}

	// Server-side idempotency keyed on email; the client-side submitted
	// list is advisory only.
	exists, err := s.submissions.HasEmail(sub.Email)
	if err != nil {
		http.Error(w, "Failed to check submissions", http.StatusInternalServerError)
		return
	}
	if exists {
		writeJSON(w, map[string]any{"success": false, "error": "a submission for this email already exists"})
		return
	}

	record := api.TranscriptRecord{
		ID:          uuid.NewString(),
		Name:        sub.Name,
		Email:       sub.Email,
		Transcript:  sub.Transcript,
		Reflection:  sub.Reflection,
		SubmittedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.submissions.Append(record); err != nil {
		http.Error(w, "Failed to store submission", http.StatusInternalServerError)
		return
	}

	slog.Info("Stored transcript submission", "email", sub.Email, "id", record.ID)
	writeJSON(w, map[string]any{"success": true})
}

func (s *Server) handleListTranscripts(w http.ResponseWriter, r *http.Request) {
	records, err := s.submissions.All()
	if err != nil {
		http.Error(w, "Failed to load submissions", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []api.TranscriptRecord{}
	}
	writeJSON(w, records)
}

func (s *Server) handleEvaluateTranscripts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		RubricCSV   string                 `json:"rubric_csv"`
		Transcripts []api.TranscriptRecord `json:"transcripts"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	def, err := rubric.Parse(req.RubricCSV)
	if err != nil {
		writeJSON(w, map[string]any{"success": false, "error": "invalid rubric: " + err.Error()})
		return
	}
	if len(req.Transcripts) == 0 {
		writeJSON(w, map[string]any{"success": false, "error": "no transcripts to evaluate"})
		return
	}

	entries := make([]api.EvaluationEntry, 0, len(req.Transcripts))
	for _, t := range req.Transcripts {
		entry := api.EvaluationEntry{Name: t.Name, Email: t.Email}
		if t.Transcript == "" {
			entry.Error = "transcript is empty"
		} else {
			entry.Score = scoreTranscript(def.Rows, t.Transcript)
		}
		entries = append(entries, entry)
	}

	if err := s.archiveBatch(entries); err != nil {
		slog.Error("Failed to archive evaluation batch", "err", err)
	}

	writeJSON(w, map[string]any{"success": true, "evaluations": entries})
}

// archiveBatch writes the batch outcome as line-delimited JSON under
// responses/ in the read-back record format.
func (s *Server) archiveBatch(entries []api.EvaluationEntry) error {
	filename := filepath.Join(s.responsesDir(),
		fmt.Sprintf("eval_%s.jsonl", time.Now().Format("2006-01-02_15-04-05")))

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create response file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, e := range entries {
		record := api.EvaluationRecord{
			Email:    e.Email,
			Error:    e.Error,
			Feedback: formatFeedback(e),
		}
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("failed to encode response record: %w", err)
		}
	}
	return nil
}

func (s *Server) handleListEvaluationFiles(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.responsesDir())
	if err != nil {
		writeJSON(w, []string{})
		return
	}
	files := []string{}
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".jsonl" {
			files = append(files, e.Name())
		}
	}
	writeJSON(w, files)
}

func (s *Server) handleGetEvaluationFile(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		http.Error(w, "Filename required", http.StatusBadRequest)
		return
	}

	path := filepath.Join(s.responsesDir(), filepath.Base(filename))
	data, err := os.ReadFile(path)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
