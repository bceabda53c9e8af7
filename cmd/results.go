package cmd

import (
	"fmt"

	"github.com/jweekley-ucsc/skillscope/internal/api"
	"github.com/jweekley-ucsc/skillscope/internal/results"
	"github.com/spf13/cobra"
)

func newResultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Browse stored evaluation result files",
	}

	cmd.AddCommand(newResultsListCmd())
	cmd.AddCommand(newResultsShowCmd())

	return cmd
}

func newResultsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the evaluation result files stored on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(serverURL(cmd))

			files, err := client.ListEvaluationFiles(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list evaluation files: %w", err)
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No evaluation files stored.")
				return nil
			}
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
}

func newResultsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <filename>",
		Short: "Render one stored evaluation result file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(serverURL(cmd))

			data, err := client.GetEvaluationFile(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch evaluation file: %w", err)
			}

			records := results.ParseRecords(data)
			if len(records) == 0 {
				return fmt.Errorf("%s contains no readable evaluation records", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), results.Render(records))
			return nil
		},
	}
}
