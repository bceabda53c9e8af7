// Package export converts stored evaluation records to parquet for
// offline analysis.
package export

import (
	"fmt"
	"os"

	"github.com/jweekley-ucsc/skillscope/internal/api"
	"github.com/parquet-go/parquet-go"
)

// Record is one evaluation record flattened for the parquet schema,
// tagged with the file it came from.
type Record struct {
	SourceFile string `parquet:"source_file"`
	Email      string `parquet:"email"`
	Feedback   string `parquet:"feedback"`
	Error      string `parquet:"error"`
	PromptPath string `parquet:"prompt_path"`
	RubricPath string `parquet:"rubric_path"`
}

// FromEvaluationRecords converts wire records to export rows.
func FromEvaluationRecords(sourceFile string, records []api.EvaluationRecord) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		out = append(out, Record{
			SourceFile: sourceFile,
			Email:      r.Email,
			Feedback:   r.Feedback,
			Error:      r.Error,
			PromptPath: r.PromptPath,
			RubricPath: r.RubricPath,
		})
	}
	return out
}

// Write writes records to a parquet file at path.
func Write(path string, records []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[Record](file)
	if _, err := writer.Write(records); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// Read loads records back from a parquet file.
func Read(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Record](pf)
	defer reader.Close()

	var records []Record
	rows := make([]Record, 128)
	for {
		n, err := reader.Read(rows)
		if n > 0 {
			records = append(records, rows[:n]...)
		}
		if err != nil {
			break
		}
	}
	return records, nil
}
