// Package results loads and renders stored evaluation records: the
// line-delimited JSON files the server archives after each batch.
package results

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jweekley-ucsc/skillscope/internal/api"
)

// ParseRecords parses line-delimited JSON evaluation records. Malformed
// lines are skipped with a warning; one bad line never blocks the file.
func ParseRecords(data []byte) []api.EvaluationRecord {
	var records []api.EvaluationRecord

	scanner := bufio.NewScanner(bytes.NewReader(data))
	const maxCapacity = 10 * 1024 * 1024 // 10MB per line
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var record api.EvaluationRecord
		if err := json.Unmarshal(line, &record); err != nil {
			slog.Warn("Skipping malformed evaluation record", "line", lineNum, "err", err)
			continue
		}
		records = append(records, record)
	}
	return records
}

// Render formats evaluation records into feedback, file-metadata and
// error sections, matching the read-back view of the evaluation page.
func Render(records []api.EvaluationRecord) string {
	var feedback, fileInfo, errors []string

	for _, record := range records {
		switch {
		case record.Error != "":
			errors = append(errors, fmt.Sprintf("%s: %s", record.Email, record.Error))
		case record.Feedback != "":
			feedback = append(feedback, fmt.Sprintf("%s:\n%s", record.Email, record.Feedback))
		}

		if record.PromptPath != "" || record.RubricPath != "" {
			fileInfo = append(fileInfo, fmt.Sprintf("prompt: %s\nrubric: %s",
				orUnknown(record.PromptPath), orUnknown(record.RubricPath)))
		}
	}

	var b strings.Builder
	b.WriteString(strings.Join(feedback, "\n\n"))

	b.WriteString("\n\n--- Files ---\n")
	if len(fileInfo) > 0 {
		b.WriteString(strings.Join(fileInfo, "\n\n"))
	} else {
		b.WriteString("Prompt and rubric not recorded.")
	}

	b.WriteString("\n\n--- Errors ---\n")
	if len(errors) > 0 {
		b.WriteString(strings.Join(errors, "\n"))
	} else {
		b.WriteString("No errors reported.")
	}

	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
