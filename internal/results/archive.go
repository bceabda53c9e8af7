package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jweekley-ucsc/skillscope/internal/api"
	"gopkg.in/yaml.v3"
)

// ArchiveConfig records the conditions of one batch run.
type ArchiveConfig struct {
	Server     string `yaml:"server"`
	RubricPath string `yaml:"rubricpath"`
	Selected   int    `yaml:"selected"`
	Timestamp  string `yaml:"timestamp"`
}

// ArchiveEntry is one transcript's outcome in the archive.
type ArchiveEntry struct {
	Name   string                    `yaml:"name"`
	Email  string                    `yaml:"email"`
	Error  string                    `yaml:"error,omitempty"`
	Scores map[string]api.SkillScore `yaml:"scores,omitempty"`
}

// Archive is the complete YAML document for one batch.
type Archive struct {
	Config  ArchiveConfig  `yaml:"config"`
	Entries []ArchiveEntry `yaml:"entries"`
}

// SaveToYAML archives a batch outcome to a timestamped YAML file under
// dir (created if missing) and returns the written path.
func SaveToYAML(dir, server, rubricPath string, entries []api.EvaluationEntry) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")

	archive := Archive{
		Config: ArchiveConfig{
			Server:     server,
			RubricPath: rubricPath,
			Selected:   len(entries),
			Timestamp:  timestamp,
		},
		Entries: make([]ArchiveEntry, 0, len(entries)),
	}

	for _, e := range entries {
		archive.Entries = append(archive.Entries, ArchiveEntry{
			Name:   e.Name,
			Email:  e.Email,
			Error:  e.Error,
			Scores: e.Score,
		})
	}

	filename := filepath.Join(dir, fmt.Sprintf("batch-%s.yaml", timestamp))

	data, err := yaml.Marshal(&archive)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}
	return filename, nil
}
