// Package review is the interviewer-side TUI: it loads a rubric, lists
// submitted transcripts, and submits selected transcripts for batch
// evaluation. Selection and submission rules live in
// internal/evaluation; this model performs the I/O and rendering.
package review

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jweekley-ucsc/skillscope/internal/api"
	"github.com/jweekley-ucsc/skillscope/internal/evaluation"
	"github.com/jweekley-ucsc/skillscope/internal/results"
	"github.com/jweekley-ucsc/skillscope/internal/rubric"
	"github.com/jweekley-ucsc/skillscope/internal/ui"
)

// Config wires the review model's collaborators.
type Config struct {
	Client     *api.Client
	RubricPath string
	ArchiveDir string
}

// Model is the bubbletea model for the evaluation batch screen.
type Model struct {
	cfg Config
	wf  *evaluation.Workflow

	cursor  int
	loading bool

	rubricErr    string
	errorMessage string
	summary      string
	archivePath  string

	width  int
	height int
}

// New creates the model with an empty workflow.
func New(cfg Config) Model {
	return Model{
		cfg:     cfg,
		wf:      evaluation.NewWorkflow(),
		loading: true,
	}
}

// Workflow exposes the underlying workflow, mainly for tests.
func (m Model) Workflow() *evaluation.Workflow {
	return m.wf
}

// Init loads the rubric and the transcript list concurrently.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadRubricCmd(), m.loadTranscriptsCmd())
}

func (m Model) loadRubricCmd() tea.Cmd {
	path := m.cfg.RubricPath
	return func() tea.Msg {
		def, err := rubric.Load(path)
		return rubricLoadedMsg{def: def, err: err}
	}
}

func (m Model) loadTranscriptsCmd() tea.Cmd {
	return func() tea.Msg {
		records, err := m.cfg.Client.ListTranscripts(context.Background())
		return transcriptsMsg{records: records, err: err}
	}
}

func (m Model) submitCmd(records []api.TranscriptRecord) tea.Cmd {
	rubricCSV := m.wf.Rubric().Source
	return func() tea.Msg {
		entries, err := m.cfg.Client.EvaluateTranscripts(context.Background(), rubricCSV, records)
		return evalDoneMsg{entries: entries, err: err}
	}
}

func (m Model) archiveCmd(entries []api.EvaluationEntry) tea.Cmd {
	dir, server, rubricPath := m.cfg.ArchiveDir, m.cfg.Client.BaseURL, m.cfg.RubricPath
	return func() tea.Msg {
		path, err := results.SaveToYAML(dir, server, rubricPath, entries)
		return archivedMsg{path: path, err: err}
	}
}

// Update processes messages and returns the updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case rubricLoadedMsg:
		if msg.err != nil {
			m.rubricErr = msg.err.Error()
			return m, nil
		}
		m.rubricErr = ""
		m.wf.SetRubric(msg.def)
		return m, nil

	case transcriptsMsg:
		m.loading = false
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			return m, nil
		}
		m.errorMessage = ""
		m.wf.SetTranscripts(msg.records)
		if m.cursor >= len(msg.records) {
			m.cursor = 0
		}
		return m, nil

	case evalDoneMsg:
		if msg.err != nil {
			// The whole batch failed: nothing was evaluated.
			m.wf.FinishSubmit(false)
			m.errorMessage = "Evaluation failed: " + msg.err.Error()
			return m, nil
		}
		m.wf.FinishSubmit(true)
		m.errorMessage = ""
		m.summary = evaluation.Summarize(msg.entries)
		return m, tea.Batch(m.archiveCmd(msg.entries), m.loadTranscriptsCmd())

	case archivedMsg:
		if msg.err != nil {
			m.errorMessage = "Archive failed: " + msg.err.Error()
			return m, nil
		}
		m.archivePath = msg.path
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.wf.Transcripts())-1 {
			m.cursor++
		}
		return m, nil

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case " ":
		records := m.wf.Transcripts()
		if m.cursor < len(records) {
			m.wf.Toggle(records[m.cursor].ID)
		}
		return m, nil

	case "a":
		m.wf.SelectAll()
		return m, nil

	case "c":
		m.wf.ClearSelection()
		return m, nil

	case "r":
		m.loading = true
		return m, m.loadTranscriptsCmd()

	case "enter":
		records, err := m.wf.BeginSubmit()
		if err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.errorMessage = ""
		m.summary = ""
		m.archivePath = ""
		return m, m.submitCmd(records)
	}

	return m, nil
}

// View renders the batch evaluation screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(ui.TitleStyle.Render("SKILLSCOPE REVIEW"))
	b.WriteString("\n\n")

	b.WriteString(m.renderRubric())
	b.WriteString("\n")
	b.WriteString(m.renderTranscripts())

	if m.summary != "" {
		b.WriteString("\n" + ui.PanelTitleStyle.Render("RESULTS") + "\n")
		b.WriteString(m.summary)
		if m.archivePath != "" {
			b.WriteString("\n" + ui.DimStyle.Render("Archived to "+m.archivePath) + "\n")
		}
	}

	if m.errorMessage != "" {
		b.WriteString("\n" + ui.ErrorStyle.Render("Error: ") + ui.ErrorTextStyle.Render(m.errorMessage) + "\n")
	}

	b.WriteString("\n" + m.renderFooter())
	return b.String()
}

func (m Model) renderRubric() string {
	var b strings.Builder
	b.WriteString(ui.PanelTitleStyle.Render("RUBRIC") + "\n")

	if m.rubricErr != "" {
		b.WriteString(ui.ErrorTextStyle.Render(m.rubricErr) + "\n")
		return b.String()
	}

	def := m.wf.Rubric()
	if def.Empty() {
		b.WriteString(ui.DimStyle.Render("Loading rubric...") + "\n")
		return b.String()
	}

	skills := def.Skills()
	b.WriteString(fmt.Sprintf("%s (%d skills, %d rows)\n",
		m.cfg.RubricPath, len(skills), len(def.Rows)))
	if n := len(def.Skipped); n > 0 {
		b.WriteString(ui.DimStyle.Render(fmt.Sprintf("%d row(s) skipped:", n)) + "\n")
		for _, s := range def.Skipped {
			b.WriteString(ui.DimStyle.Render(fmt.Sprintf("  line %d: %s", s.Line, s.Reason)) + "\n")
		}
	}
	return b.String()
}

func (m Model) renderTranscripts() string {
	var b strings.Builder
	b.WriteString(ui.PanelTitleStyle.Render("TRANSCRIPTS") + "\n")

	if m.loading {
		b.WriteString(ui.DimStyle.Render("Loading transcripts...") + "\n")
		return b.String()
	}

	records := m.wf.Transcripts()
	if len(records) == 0 {
		b.WriteString(ui.DimStyle.Render("No transcripts available.") + "\n")
		return b.String()
	}

	for i, r := range records {
		marker := "[ ]"
		if m.wf.IsSelected(r.ID) {
			marker = "[x]"
		}

		name := r.Name
		if name == "" {
			name = "No Name"
		}
		line := fmt.Sprintf("%s %s <%s> %s", marker, name, r.Email, submittedLabel(r))

		if i == m.cursor {
			b.WriteString(ui.SelectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	b.WriteString(ui.DimStyle.Render(fmt.Sprintf("%d of %d selected", m.wf.SelectionSize(), len(records))) + "\n")
	return b.String()
}

// submittedLabel renders the submission time for humans, falling back
// to the raw server string when it does not parse.
func submittedLabel(r api.TranscriptRecord) string {
	t := r.SubmittedTime()
	if t.IsZero() {
		return r.SubmittedAt
	}
	return t.Local().Format("Jan 2 15:04")
}

func (m Model) renderFooter() string {
	key := func(k, desc string) string {
		return ui.FooterKeyStyle.Render(k) + ui.FooterDescStyle.Render(" "+desc)
	}

	parts := []string{
		key("j/k", "Move"),
		key("space", "Toggle"),
		key("a", "All"),
		key("c", "Clear"),
		key("r", "Refresh"),
	}
	if !m.wf.InFlight() {
		parts = append(parts, key("enter", "Evaluate"))
	} else {
		parts = append(parts, ui.DimStyle.Render("evaluating..."))
	}
	parts = append(parts, key("q", "Quit"))

	return strings.Join(parts, "  ")
}
