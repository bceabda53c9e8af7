// Package devserver is a local stand-in for the SkillScope deployment.
// It implements every endpoint the client consumes: audio upload,
// transcription (stubbed), transcript submission and listing, batch
// rubric evaluation via a keyword heuristic, and read-back of archived
// evaluation files. It exists so the capture and evaluation workflows
// can be exercised end to end without the production server.
package devserver

import (
	"net/http"
	"os"
	"path/filepath"
)

// Server holds the dev server's storage layout rooted at dataDir:
//
//	uploads/      raw audio artifacts
//	transcripts/  optional sidecar transcripts, <filename>.txt
//	data/         submissions.jsonl
//	responses/    archived evaluation batches, *.jsonl
type Server struct {
	dataDir     string
	submissions *submissionStore
}

// New creates a dev server rooted at dataDir, creating the layout.
func New(dataDir string) (*Server, error) {
	for _, sub := range []string{"uploads", "transcripts", "data", "responses"} {
		if err := os.MkdirAll(filepath.Join(dataDir, sub), 0o755); err != nil {
			return nil, err
		}
	}
	return &Server{
		dataDir:     dataDir,
		submissions: newSubmissionStore(filepath.Join(dataDir, "data", "submissions.jsonl")),
	}, nil
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/upload-audio", s.handleUploadAudio)
	mux.HandleFunc("/transcribe", s.handleTranscribe)
	mux.HandleFunc("/submit-transcript", s.handleSubmitTranscript)
	mux.HandleFunc("/transcripts", s.handleListTranscripts)
	mux.HandleFunc("/evaluate-transcripts", s.handleEvaluateTranscripts)
	mux.HandleFunc("/list-evaluation-files", s.handleListEvaluationFiles)
	mux.HandleFunc("/get-evaluation-file", s.handleGetEvaluationFile)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})
	return mux
}

func (s *Server) uploadsDir() string   { return filepath.Join(s.dataDir, "uploads") }
func (s *Server) sidecarDir() string   { return filepath.Join(s.dataDir, "transcripts") }
func (s *Server) responsesDir() string { return filepath.Join(s.dataDir, "responses") }
