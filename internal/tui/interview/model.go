// Package interview is the candidate-side TUI: it drives one recording
// session from start through upload, transcription, review and
// submission. All session sequencing lives in internal/session; this
// model only performs I/O at the suspension points and re-renders.
package interview

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jweekley-ucsc/skillscope/internal/api"
	"github.com/jweekley-ucsc/skillscope/internal/capture"
	"github.com/jweekley-ucsc/skillscope/internal/localstate"
	"github.com/jweekley-ucsc/skillscope/internal/session"
	"github.com/jweekley-ucsc/skillscope/internal/ui"
)

// Config wires the interview model's collaborators.
type Config struct {
	Client           *api.Client
	Recorder         capture.Recorder
	State            *localstate.Store
	Email            string
	Name             string
	BudgetSeconds    int
	ManualTranscribe bool
}

// Model is the bubbletea model for the capture session.
type Model struct {
	cfg  Config
	sess *session.Session

	chunks chan []byte

	reflection        []rune
	editingReflection bool

	errorMessage  string
	duplicateWarn bool
	width         int
	height        int
}

// New creates the model, resuming a persisted session id when one
// survives from a previous run.
func New(cfg Config) Model {
	var persisted string
	if cfg.State != nil {
		persisted, _ = cfg.State.SessionID()
	}
	return Model{
		cfg:    cfg,
		sess:   session.New(cfg.BudgetSeconds, persisted),
		chunks: make(chan []byte, 64),
	}
}

// Session exposes the underlying state machine, mainly for tests.
func (m Model) Session() *session.Session {
	return m.sess
}

// Init checks the advisory duplicate-submission list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.duplicateCheckCmd(),
		tea.SetWindowTitle("Time Left: "+m.sess.CountdownLabel()),
	)
}

func (m Model) duplicateCheckCmd() tea.Cmd {
	return func() tea.Msg {
		if m.cfg.State == nil || m.cfg.Email == "" {
			return duplicateWarnMsg{}
		}
		dup, _ := m.cfg.State.HasSubmittedEmail(m.cfg.Email)
		return duplicateWarnMsg{dup: dup}
	}
}

func (m Model) acquireCmd() tea.Cmd {
	return func() tea.Msg {
		ch := m.chunks
		err := m.cfg.Recorder.Start(context.Background(), func(data []byte) {
			buf := make([]byte, len(data))
			copy(buf, data)
			select {
			case ch <- buf:
			default: // drop rather than block the device callback
			}
		})
		if err != nil {
			return deviceErrMsg{err: err}
		}
		return deviceAcquiredMsg{}
	}
}

func (m Model) waitChunkCmd() tea.Cmd {
	return func() tea.Msg {
		return chunkMsg{data: <-m.chunks}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m Model) uploadCmd() tea.Cmd {
	filename, artifact := m.sess.Filename(), m.sess.Artifact()
	return func() tea.Msg {
		return uploadDoneMsg{err: m.cfg.Client.UploadAudio(context.Background(), filename, artifact)}
	}
}

func (m Model) transcribeCmd() tea.Cmd {
	filename := m.sess.Filename()
	return func() tea.Msg {
		text, err := m.cfg.Client.Transcribe(context.Background(), filename)
		return transcriptDoneMsg{text: text, err: err}
	}
}

func (m Model) submitCmd() tea.Cmd {
	sub := api.Submission{
		Email:      m.cfg.Email,
		Name:       m.cfg.Name,
		Transcript: m.sess.Transcript(),
		Reflection: string(m.reflection),
	}
	return func() tea.Msg {
		return submitDoneMsg{err: m.cfg.Client.SubmitTranscript(context.Background(), sub)}
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

	case duplicateWarnMsg:
		m.duplicateWarn = msg.dup
		return m, nil

	case deviceAcquiredMsg:
		m.sess.DeviceAcquired()
		m.errorMessage = ""
		if m.cfg.State != nil {
			_ = m.cfg.State.SetSessionID(m.sess.ID())
		}
		return m, tea.Batch(tickCmd(), m.waitChunkCmd())

	case deviceErrMsg:
		m.sess.DeviceDenied(msg.err)
		m.errorMessage = m.sess.Failure()
		return m, nil

	case chunkMsg:
		m.sess.AddChunk(msg.data)
		return m, m.waitChunkCmd()

	case tickMsg:
		expired := m.sess.Tick()
		title := tea.SetWindowTitle("Time Left: " + m.sess.CountdownLabel())
		if expired {
			// Budget exhaustion triggers the stop action itself.
			return m, tea.Batch(title, m.stopRecording())
		}
		if m.sess.State() == session.Recording {
			return m, tea.Batch(title, tickCmd())
		}
		// Not recording anymore: the recurring tick is not rescheduled.
		return m, title

	case uploadDoneMsg:
		if msg.err != nil {
			m.sess.UploadFailed(msg.err)
			m.errorMessage = m.sess.Failure()
			return m, nil
		}
		m.sess.UploadSucceeded(!m.cfg.ManualTranscribe)
		if m.sess.State() == session.Transcribing {
			return m, m.transcribeCmd()
		}
		return m, nil

	case transcriptDoneMsg:
		if msg.err != nil {
			m.sess.TranscribeFailed(msg.err)
			m.errorMessage = m.sess.Failure()
			return m, nil
		}
		m.sess.TranscriptReceived(msg.text)
		if m.sess.State() == session.Failed {
			m.errorMessage = m.sess.Failure()
		}
		return m, nil

	case submitDoneMsg:
		if msg.err != nil {
			m.sess.SubmitFailed(msg.err)
			m.errorMessage = m.sess.Failure()
			return m, nil
		}
		m.sess.SubmitSucceeded()
		m.errorMessage = ""
		if m.cfg.State != nil {
			_ = m.cfg.State.ClearSessionID()
			_ = m.cfg.State.RecordSubmittedEmail(m.cfg.Email)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editingReflection {
		return m.handleReflectionKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		_ = m.cfg.Recorder.Stop()
		return m, tea.Quit

	case "s":
		if err := m.sess.StartRequested(); err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.errorMessage = ""
		return m, m.acquireCmd()

	case "x":
		return m, m.stopRecording()

	case "t":
		if m.sess.TranscribeRequested() {
			return m, m.transcribeCmd()
		}
		return m, nil

	case "r":
		if m.sess.RetryUpload() {
			m.errorMessage = ""
			return m, m.uploadCmd()
		}
		return m, nil

	case "e":
		if m.sess.State() == session.Reviewable {
			m.editingReflection = true
		}
		return m, nil

	case "enter":
		if err := m.sess.SubmitRequested(m.cfg.Email); err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.errorMessage = ""
		return m, m.submitCmd()
	}

	return m, nil
}

func (m Model) handleReflectionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editingReflection = false
	case "enter":
		m.reflection = append(m.reflection, '\n')
	case "backspace":
		if len(m.reflection) > 0 {
			m.reflection = m.reflection[:len(m.reflection)-1]
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.reflection = append(m.reflection, msg.Runes...)
		} else if msg.Type == tea.KeySpace {
			m.reflection = append(m.reflection, ' ')
		}
	}
	return m, nil
}

// stopRecording releases the device and, when a recording was actually
// in progress, kicks off the upload. Idempotent like the stop it wraps.
// A capture with no buffered audio fails here instead of uploading.
func (m *Model) stopRecording() tea.Cmd {
	_ = m.cfg.Recorder.Stop()
	if !m.sess.StopRequested() {
		if m.sess.State() == session.Failed {
			m.errorMessage = m.sess.Failure()
		}
		return nil
	}
	return m.uploadCmd()
}

// View renders the capture screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(ui.TitleStyle.Render("SKILLSCOPE INTERVIEW"))
	b.WriteString("\n\n")

	var dot string
	if m.sess.State() == session.Recording {
		dot = ui.RecordingDotStyle.Render("● REC")
	} else {
		dot = ui.IdleDotStyle.Render("○ " + strings.ToUpper(m.sess.State().String()))
	}
	b.WriteString(fmt.Sprintf("%s  %s\n\n", dot, ui.TimerStyle.Render(m.sess.CountdownLabel())))

	if m.duplicateWarn {
		b.WriteString(ui.DimStyle.Render("Note: a submission for this email was already sent from this machine.") + "\n\n")
	}

	switch m.sess.State() {
	case session.Idle:
		b.WriteString(ui.DimStyle.Render("Press s to start recording.") + "\n")
	case session.Recording:
		b.WriteString(ui.DimStyle.Render("Recording... press x to stop.") + "\n")
	case session.Uploading:
		b.WriteString(ui.DimStyle.Render("Uploading recording...") + "\n")
	case session.Uploaded:
		b.WriteString(ui.DimStyle.Render("Upload stored. Press t to transcribe.") + "\n")
	case session.Transcribing:
		b.WriteString(ui.DimStyle.Render("Transcribing...") + "\n")
	case session.Reviewable:
		b.WriteString(ui.PanelTitleStyle.Render("TRANSCRIPT") + "\n")
		b.WriteString(m.sess.Transcript() + "\n\n")
		b.WriteString(ui.PanelTitleStyle.Render("REFLECTION"))
		if m.editingReflection {
			b.WriteString(ui.SelectedStyle.Render(" (editing, esc to finish)"))
		}
		b.WriteString("\n" + string(m.reflection) + "\n")
	case session.Submitted:
		b.WriteString(ui.SuccessStyle.Render("Transcript submitted. Thank you!") + "\n")
	case session.Failed:
		b.WriteString(ui.ErrorTextStyle.Render(m.sess.Failure()) + "\n")
		if len(m.sess.Artifact()) > 0 {
			b.WriteString(ui.DimStyle.Render("Recording preserved. Press r to retry.") + "\n")
		}
	}

	if m.errorMessage != "" {
		b.WriteString("\n" + ui.ErrorStyle.Render("Error: ") + ui.ErrorTextStyle.Render(m.errorMessage) + "\n")
	}

	b.WriteString("\n" + m.renderFooter())
	return b.String()
}

func (m Model) renderFooter() string {
	key := func(k, desc string) string {
		return ui.FooterKeyStyle.Render(k) + ui.FooterDescStyle.Render(" "+desc)
	}

	var parts []string
	switch m.sess.State() {
	case session.Idle:
		parts = append(parts, key("s", "Record"))
	case session.Recording:
		parts = append(parts, key("x", "Stop"))
	case session.Uploaded:
		parts = append(parts, key("t", "Transcribe"))
	case session.Reviewable:
		if !m.sess.SubmitInFlight() {
			parts = append(parts, key("enter", "Submit"))
		}
		parts = append(parts, key("e", "Reflection"))
	case session.Failed:
		parts = append(parts, key("r", "Retry"))
	}
	parts = append(parts, key("q", "Quit"))

	return strings.Join(parts, "  ")
}
