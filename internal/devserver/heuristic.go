package devserver

import (
	"sort"
	"strings"

	"github.com/jweekley-ucsc/skillscope/internal/api"
	"github.com/jweekley-ucsc/skillscope/internal/evaluation"
	"github.com/jweekley-ucsc/skillscope/internal/rubric"
)

// scoreTranscript applies the dev heuristic: for each skill, award the
// highest-scoring level when any word of the skill name appears in the
// transcript, otherwise the lowest. It stands in for the production
// LLM scorer and honors the same per-skill result shape.
func scoreTranscript(rows []rubric.Row, transcript string) map[string]api.SkillScore {
	bySkill := make(map[string][]rubric.Row)
	var order []string
	for _, row := range rows {
		if _, seen := bySkill[row.Skill]; !seen {
			order = append(order, row.Skill)
		}
		bySkill[row.Skill] = append(bySkill[row.Skill], row)
	}

	lower := strings.ToLower(transcript)
	result := make(map[string]api.SkillScore, len(order))

	for _, skill := range order {
		levels := bySkill[skill]
		sort.SliceStable(levels, func(i, j int) bool {
			return levels[i].Score < levels[j].Score
		})

		matched := false
		for _, word := range strings.Fields(strings.ToLower(skill)) {
			if strings.Contains(lower, word) {
				matched = true
				break
			}
		}

		chosen := levels[0]
		if matched {
			chosen = levels[len(levels)-1]
		}
		result[skill] = api.SkillScore{
			Level:       chosen.Level,
			Score:       chosen.Score,
			Description: chosen.Description,
		}
	}
	return result
}

// formatFeedback flattens a scored entry into the feedback text stored
// in the archived record format.
func formatFeedback(e api.EvaluationEntry) string {
	if e.Failed() {
		return ""
	}

	skills := make([]string, 0, len(e.Score))
	for skill := range e.Score {
		skills = append(skills, skill)
	}
	sort.Strings(skills)

	lines := make([]string, 0, len(skills))
	for _, skill := range skills {
		lines = append(lines, evaluation.FormatScoreLine(skill, e.Score[skill]))
	}
	return strings.Join(lines, "\n")
}
