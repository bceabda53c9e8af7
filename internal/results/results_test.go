package results

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jweekley-ucsc/skillscope/internal/api"
	"gopkg.in/yaml.v3"
)

func TestParseRecords(t *testing.T) {
	data := []byte(`{"email":"a@b.com","feedback":"Communication: Strong (9)"}
{"email":"c@d.com","error":"transcript is empty"}

{"email":"e@f.com","feedback":"ok","prompt_path":"prompts/p1.txt","rubric_path":"rubric.csv"}
`)
	records := ParseRecords(data)
	if len(records) != 3 {
		t.Fatalf("ParseRecords() = %d records, want 3", len(records))
	}
	if records[0].Email != "a@b.com" || records[1].Error != "transcript is empty" {
		t.Errorf("ParseRecords() = %+v", records)
	}
	if records[2].RubricPath != "rubric.csv" {
		t.Errorf("rubric path = %q", records[2].RubricPath)
	}
}

func TestParseRecordsSkipsMalformedLines(t *testing.T) {
	data := []byte(`{"email":"a@b.com","feedback":"ok"}
not json at all
{"email":"c@d.com","feedback":"also ok"}
`)
	records := ParseRecords(data)
	if len(records) != 2 {
		t.Fatalf("ParseRecords() = %d records, want 2 (bad line skipped)", len(records))
	}
}

func TestRender(t *testing.T) {
	records := []api.EvaluationRecord{
		{Email: "a@b.com", Feedback: "Communication: Strong (9) – Clear and concise"},
		{Email: "c@d.com", Error: "transcript is empty"},
		{Email: "e@f.com", Feedback: "fine", PromptPath: "prompts/p1.txt", RubricPath: "rubric.csv"},
	}

	out := Render(records)
	if !strings.Contains(out, "a@b.com:\nCommunication: Strong (9) – Clear and concise") {
		t.Errorf("Render() missing feedback section:\n%s", out)
	}
	if !strings.Contains(out, "--- Files ---") || !strings.Contains(out, "rubric: rubric.csv") {
		t.Errorf("Render() missing file section:\n%s", out)
	}
	if !strings.Contains(out, "--- Errors ---") || !strings.Contains(out, "c@d.com: transcript is empty") {
		t.Errorf("Render() missing error section:\n%s", out)
	}
}

func TestRenderNoErrors(t *testing.T) {
	out := Render([]api.EvaluationRecord{{Email: "a@b.com", Feedback: "ok"}})
	if !strings.Contains(out, "No errors reported.") {
		t.Errorf("Render() missing no-errors fallback:\n%s", out)
	}
}

func TestSaveToYAML(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "batches")

	entries := []api.EvaluationEntry{
		{Name: "Ada", Email: "ada@example.com", Score: map[string]api.SkillScore{
			"Communication": {Level: "Strong", Score: 9, Description: "Clear and concise"},
		}},
		{Name: "Cam", Email: "cam@example.com", Error: "transcript is empty"},
	}

	path, err := SaveToYAML(dir, "http://localhost:8888", "rubric.csv", entries)
	if err != nil {
		t.Fatalf("SaveToYAML() error = %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("archive written outside dir: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var archive Archive
	if err := yaml.Unmarshal(data, &archive); err != nil {
		t.Fatalf("archive is not valid YAML: %v", err)
	}

	if archive.Config.Server != "http://localhost:8888" || archive.Config.RubricPath != "rubric.csv" {
		t.Errorf("archive config = %+v", archive.Config)
	}
	if archive.Config.Selected != 2 || len(archive.Entries) != 2 {
		t.Fatalf("archive entries = %d, want 2", len(archive.Entries))
	}
	if archive.Entries[0].Scores["Communication"].Score != 9 {
		t.Errorf("archive scores = %+v", archive.Entries[0].Scores)
	}
	if archive.Entries[1].Error != "transcript is empty" {
		t.Errorf("archive error = %q", archive.Entries[1].Error)
	}
}
