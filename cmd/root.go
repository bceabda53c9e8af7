package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "skillscope",
		Short: "Interview capture and rubric-based evaluation tool",
		Long: `SkillScope records interview answers, transcribes them, and evaluates
the submitted transcripts against an interviewer-supplied rubric.

Candidates run the interview screen to record, review and submit a
transcript. Interviewers run the review screen to select transcripts
and score them as a batch.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	defaultServer := os.Getenv("SKILLSCOPE_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8888"
	}
	cmd.PersistentFlags().StringVar(&server, "server", defaultServer, "Base URL of the SkillScope server")

	// Add subcommands
	cmd.AddCommand(newInterviewCmd())
	cmd.AddCommand(newReviewCmd())
	cmd.AddCommand(newResultsCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newDevicesCmd())

	return cmd
}

func serverURL(cmd *cobra.Command) string {
	url, _ := cmd.Flags().GetString("server")
	return url
}
