package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jweekley-ucsc/skillscope/internal/api"
	"github.com/jweekley-ucsc/skillscope/internal/tui/review"
	"github.com/spf13/cobra"
)

func newReviewCmd() *cobra.Command {
	var (
		rubricPath string
		archiveDir string
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Select submitted transcripts and evaluate them against a rubric",
		Long: `Opens the interviewer screen: loads the rubric CSV, lists every
submitted transcript, and submits the selected transcripts for batch
evaluation. Per-transcript results and errors are rendered together,
and each completed batch is archived as a YAML file.`,
		Example: `  # Evaluate against a rubric, archiving batches under ./batches
  skillscope review --rubric rubric.csv --archive-dir evals`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rubricPath == "" {
				return fmt.Errorf("--rubric is required")
			}

			cleanup, err := redirectLogs("review.log")
			if err != nil {
				return err
			}
			defer cleanup()

			model := review.New(review.Config{
				Client:     api.NewClient(serverURL(cmd)),
				RubricPath: rubricPath,
				ArchiveDir: archiveDir,
			})

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&rubricPath, "rubric", "", "Path to the rubric CSV file (required)")
	cmd.Flags().StringVar(&archiveDir, "archive-dir", "evals", "Directory for batch result archives")

	return cmd
}
