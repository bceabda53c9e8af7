package review

import (
	"github.com/jweekley-ucsc/skillscope/internal/api"
	"github.com/jweekley-ucsc/skillscope/internal/rubric"
)

// rubricLoadedMsg reports the rubric file parse outcome.
type rubricLoadedMsg struct {
	def rubric.Definition
	err error
}

// transcriptsMsg delivers a refreshed transcript list.
type transcriptsMsg struct {
	records []api.TranscriptRecord
	err     error
}

// evalDoneMsg reports the batch evaluation outcome.
type evalDoneMsg struct {
	entries []api.EvaluationEntry
	err     error
}

// archivedMsg reports where the YAML archive of the batch was written.
type archivedMsg struct {
	path string
	err  error
}
