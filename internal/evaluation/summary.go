package evaluation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jweekley-ucsc/skillscope/internal/api"
)

// FormatScoreLine renders one per-skill outcome as
// "Skill: Level (Score) – Description".
func FormatScoreLine(skill string, s api.SkillScore) string {
	return fmt.Sprintf("%s: %s (%s) – %s", skill, s.Level, formatScore(s.Score), s.Description)
}

// FormatEntry renders one batch entry: a header identifying the
// candidate, then either the per-skill score lines or the verbatim
// error message. Skills are sorted for stable output.
func FormatEntry(e api.EvaluationEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <%s>\n", displayName(e.Name), e.Email)

	if e.Failed() {
		fmt.Fprintf(&b, "  error: %s\n", e.Error)
		return b.String()
	}

	skills := make([]string, 0, len(e.Score))
	for skill := range e.Score {
		skills = append(skills, skill)
	}
	sort.Strings(skills)

	for _, skill := range skills {
		fmt.Fprintf(&b, "  %s\n", FormatScoreLine(skill, e.Score[skill]))
	}
	return b.String()
}

// Summarize concatenates every batch entry, errored or scored, into one
// readable summary. Entries are never dropped: a partial failure shows
// up next to the successes it accompanied.
func Summarize(entries []api.EvaluationEntry) string {
	if len(entries) == 0 {
		return "No evaluations returned."
	}

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, FormatEntry(e))
	}

	var failed int
	for _, e := range entries {
		if e.Failed() {
			failed++
		}
	}

	header := fmt.Sprintf("Evaluated %d transcript(s), %d error(s)\n\n", len(entries), failed)
	return header + strings.Join(parts, "\n")
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func displayName(name string) string {
	if name == "" {
		return "No Name"
	}
	return name
}
