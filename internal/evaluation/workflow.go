// Package evaluation implements the interviewer-side batch evaluation
// workflow: rubric ingestion, transcript selection and batch
// submission. The workflow object owns all state that the draft browser
// clients kept in ambient module variables.
package evaluation

import (
	"errors"

	"github.com/jweekley-ucsc/skillscope/internal/api"
	"github.com/jweekley-ucsc/skillscope/internal/rubric"
)

var (
	// ErrEmptyRubric rejects submission before a rubric with at least
	// one row has been loaded.
	ErrEmptyRubric = errors.New("no rubric loaded")
	// ErrEmptySelection rejects submission with nothing selected.
	ErrEmptySelection = errors.New("no transcripts selected")
	// ErrSubmitInFlight rejects a second submit while one is pending.
	ErrSubmitInFlight = errors.New("an evaluation batch is already in flight")
)

// Workflow holds one interviewer's rubric, transcript list and
// selection. Selection is keyed by the server-assigned record id, never
// by structural equality of the record fields.
type Workflow struct {
	rubric      rubric.Definition
	transcripts []api.TranscriptRecord
	selected    map[string]bool
	inFlight    bool
}

// NewWorkflow creates an empty workflow.
func NewWorkflow() *Workflow {
	return &Workflow{selected: make(map[string]bool)}
}

// SetRubric installs the parsed rubric.
func (w *Workflow) SetRubric(def rubric.Definition) {
	w.rubric = def
}

// Rubric returns the currently loaded rubric.
func (w *Workflow) Rubric() rubric.Definition {
	return w.rubric
}

// SetTranscripts replaces the transcript list. Any refresh invalidates
// prior selections, so the selection is always cleared here.
func (w *Workflow) SetTranscripts(records []api.TranscriptRecord) {
	w.transcripts = records
	w.selected = make(map[string]bool)
}

// Transcripts returns the current list in server order.
func (w *Workflow) Transcripts() []api.TranscriptRecord {
	return w.transcripts
}

// Toggle flips membership of the record with the given id and reports
// the new membership. Unknown ids are ignored.
func (w *Workflow) Toggle(id string) bool {
	if !w.knownID(id) {
		return false
	}
	if w.selected[id] {
		delete(w.selected, id)
		return false
	}
	w.selected[id] = true
	return true
}

// IsSelected reports membership for rendering selection markers.
func (w *Workflow) IsSelected(id string) bool {
	return w.selected[id]
}

// SelectAll selects exactly the currently-listed entries. Repeated
// presses are idempotent; it never accumulates across refreshes because
// SetTranscripts resets the set.
func (w *Workflow) SelectAll() {
	w.selected = make(map[string]bool, len(w.transcripts))
	for _, r := range w.transcripts {
		w.selected[r.ID] = true
	}
}

// ClearSelection empties the selection.
func (w *Workflow) ClearSelection() {
	w.selected = make(map[string]bool)
}

// SelectionSize returns the number of selected records.
func (w *Workflow) SelectionSize() int {
	return len(w.selected)
}

// Selected returns the selected records in list order.
func (w *Workflow) Selected() []api.TranscriptRecord {
	var out []api.TranscriptRecord
	for _, r := range w.transcripts {
		if w.selected[r.ID] {
			out = append(out, r)
		}
	}
	return out
}

// InFlight reports whether a batch submission is pending; the submit
// trigger is disabled for the duration.
func (w *Workflow) InFlight() bool {
	return w.inFlight
}

// CanSubmit checks the submission preconditions without side effects.
func (w *Workflow) CanSubmit() error {
	if w.inFlight {
		return ErrSubmitInFlight
	}
	if w.rubric.Empty() {
		return ErrEmptyRubric
	}
	if len(w.selected) == 0 {
		return ErrEmptySelection
	}
	return nil
}

// BeginSubmit validates preconditions and, on success, marks the batch
// in flight and returns the records to post. A violated precondition is
// a local error: no request may be sent.
func (w *Workflow) BeginSubmit() ([]api.TranscriptRecord, error) {
	if err := w.CanSubmit(); err != nil {
		return nil, err
	}
	w.inFlight = true
	return w.Selected(), nil
}

// FinishSubmit ends the in-flight batch. After a successful batch the
// selection is cleared; the caller refreshes the list from the server.
func (w *Workflow) FinishSubmit(success bool) {
	w.inFlight = false
	if success {
		w.selected = make(map[string]bool)
	}
}

func (w *Workflow) knownID(id string) bool {
	for _, r := range w.transcripts {
		if r.ID == id {
			return true
		}
	}
	return false
}
