// Package rubric parses the interviewer-supplied scoring rubric.
//
// A rubric is a CSV artifact whose header line is discarded and whose
// data lines each describe one skill level:
//
//	skill,level,score,description
//	Communication,Strong,9,Clear and concise
package rubric

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Row is one parsed rubric line.
type Row struct {
	Skill       string
	Level       string
	Score       float64
	Description string
}

// SkippedRow records a data line that could not be parsed. The row is
// the unit of failure; one bad line never blocks the rest of the file.
type SkippedRow struct {
	Line   int
	Reason string
}

// Definition is an ordered rubric plus the raw CSV it was parsed from.
// The raw text is kept because the evaluation endpoint accepts the whole
// artifact rather than parsed rows.
type Definition struct {
	Rows    []Row
	Skipped []SkippedRow
	Source  string
}

// Empty reports whether no usable rows survived parsing.
func (d Definition) Empty() bool {
	return len(d.Rows) == 0
}

// Skills returns the distinct skill names in first-seen order.
func (d Definition) Skills() []string {
	seen := make(map[string]bool, len(d.Rows))
	var skills []string
	for _, row := range d.Rows {
		if !seen[row.Skill] {
			seen[row.Skill] = true
			skills = append(skills, row.Skill)
		}
	}
	return skills
}

// Load reads and parses a rubric CSV file.
func Load(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("failed to read rubric file: %w", err)
	}
	return Parse(string(data))
}

// Parse parses rubric CSV text. The first record is a header and is
// discarded. Each remaining record must split into exactly four fields
// with a numeric score; records that do not are reported in Skipped
// with their physical input line. Parse fails only when the artifact
// yields no usable rows at all.
func Parse(raw string) (Definition, error) {
	def := Definition{Source: raw}

	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// The header is consumed explicitly so a malformed first record can
	// never promote the real header into data.
	if _, err := reader.Read(); err == io.EOF {
		return def, fmt.Errorf("rubric is empty")
	} else if err != nil {
		def.Skipped = append(def.Skipped, SkippedRow{Line: parseErrorLine(err, 1), Reason: err.Error()})
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			def.Skipped = append(def.Skipped, SkippedRow{Line: parseErrorLine(err, 0), Reason: err.Error()})
			continue
		}
		// Physical line the record started on; quoted fields may span
		// several lines, so records cannot be counted.
		line, _ := reader.FieldPos(0)

		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) != 4 {
			def.Skipped = append(def.Skipped, SkippedRow{
				Line:   line,
				Reason: fmt.Sprintf("expected 4 fields, got %d", len(record)),
			})
			continue
		}

		score, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			def.Skipped = append(def.Skipped, SkippedRow{
				Line:   line,
				Reason: fmt.Sprintf("score %q is not a number", record[2]),
			})
			continue
		}

		def.Rows = append(def.Rows, Row{
			Skill:       strings.TrimSpace(record[0]),
			Level:       strings.TrimSpace(record[1]),
			Score:       score,
			Description: strings.TrimSpace(record[3]),
		})
	}

	if def.Empty() {
		return def, fmt.Errorf("rubric has no usable rows (%d skipped)", len(def.Skipped))
	}
	return def, nil
}

func parseErrorLine(err error, fallback int) int {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.Line
	}
	return fallback
}
