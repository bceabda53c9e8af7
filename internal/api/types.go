package api

import "time"

// TranscriptRecord is one submitted interview transcript as returned by
// GET /transcripts. The id is assigned by the server at submission time
// and is the only stable identity for selection purposes.
type TranscriptRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Transcript  string `json:"transcript"`
	Reflection  string `json:"reflection,omitempty"`
	SubmittedAt string `json:"submitted_at"`
}

// SubmittedTime parses the submitted_at timestamp. A zero time is
// returned when the server sent something unparseable.
func (r TranscriptRecord) SubmittedTime() time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, r.SubmittedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Submission is the payload for POST /submit-transcript.
type Submission struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Transcript string `json:"transcript"`
	Reflection string `json:"reflection"`
}

// SkillScore is the per-skill outcome of a rubric evaluation.
type SkillScore struct {
	Level       string  `json:"level"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}

// EvaluationEntry is the per-transcript outcome of a batch evaluation.
// Either Score or Error is populated, never both.
type EvaluationEntry struct {
	Name  string                `json:"name"`
	Email string                `json:"email"`
	Score map[string]SkillScore `json:"score,omitempty"`
	Error string                `json:"error,omitempty"`
}

// Failed reports whether this entry carries a per-entry error rather
// than a score mapping.
func (e EvaluationEntry) Failed() bool {
	return e.Error != ""
}

// EvaluationRecord is one line of a stored line-delimited evaluation
// file, served back by GET /get-evaluation-file.
type EvaluationRecord struct {
	Email      string `json:"email"`
	Feedback   string `json:"feedback,omitempty"`
	Error      string `json:"error,omitempty"`
	PromptPath string `json:"prompt_path,omitempty"`
	RubricPath string `json:"rubric_path,omitempty"`
}
