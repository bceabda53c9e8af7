package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jweekley-ucsc/skillscope/internal/api"
	"github.com/jweekley-ucsc/skillscope/internal/capture"
	"github.com/jweekley-ucsc/skillscope/internal/localstate"
	"github.com/jweekley-ucsc/skillscope/internal/session"
	"github.com/jweekley-ucsc/skillscope/internal/tui/interview"
	"github.com/spf13/cobra"
)

func newInterviewCmd() *cobra.Command {
	var (
		email            string
		name             string
		budget           int
		manualTranscribe bool
		fakeAudio        bool
		statePath        string
	)

	cmd := &cobra.Command{
		Use:   "interview",
		Short: "Record, review and submit one interview answer",
		Long: `Opens the candidate screen: record an answer against a countdown,
upload the recording, transcribe it, review the transcript alongside an
optional written reflection, and submit.

A session that is interrupted before submission keeps its id; rerunning
the command resumes under the same recording filename.`,
		Example: `  # Record with a 10 minute budget
  skillscope interview --email jdoe@example.com --name "J. Doe" --budget 600

  # Keep transcription as a manual step after upload
  skillscope interview --email jdoe@example.com --manual-transcribe`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}

			// The TUI owns the terminal; route slog to a file instead.
			cleanup, err := redirectLogs("interview.log")
			if err != nil {
				return err
			}
			defer cleanup()

			if statePath == "" {
				statePath, err = localstate.DefaultPath()
				if err != nil {
					return fmt.Errorf("failed to resolve state path: %w", err)
				}
			}
			store, err := localstate.Open(statePath)
			if err != nil {
				return fmt.Errorf("failed to open local state: %w", err)
			}

			var recorder capture.Recorder
			if fakeAudio {
				recorder = &capture.FakeRecorder{Chunks: [][]byte{[]byte("fake audio")}}
			} else {
				recorder = capture.NewDeviceRecorder(0, 0)
			}

			model := interview.New(interview.Config{
				Client:           api.NewClient(serverURL(cmd)),
				Recorder:         recorder,
				State:            store,
				Email:            email,
				Name:             name,
				BudgetSeconds:    budget,
				ManualTranscribe: manualTranscribe,
			})

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Candidate email (required)")
	cmd.Flags().StringVar(&name, "name", "", "Candidate display name")
	cmd.Flags().IntVar(&budget, "budget", session.DefaultBudgetSeconds, "Recording time budget in seconds")
	cmd.Flags().BoolVar(&manualTranscribe, "manual-transcribe", false, "Require a keypress to transcribe after upload")
	cmd.Flags().BoolVar(&fakeAudio, "fake-audio", false, "Use a synthetic recorder instead of a capture device")
	cmd.Flags().StringVar(&statePath, "state", "", "Path to the local state file")

	return cmd
}

// redirectLogs points the default slog logger at a file under the user
// cache dir so log lines never corrupt the TUI's terminal output.
func redirectLogs(name string) (func(), error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	dir = filepath.Join(dir, "skillscope")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, nil)))
	return func() { _ = f.Close() }, nil
}
