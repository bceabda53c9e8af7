package cmd

import (
	"fmt"
	"log/slog"

	"github.com/jweekley-ucsc/skillscope/internal/api"
	"github.com/jweekley-ucsc/skillscope/internal/export"
	"github.com/jweekley-ucsc/skillscope/internal/results"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all stored evaluation records to a parquet file",
		Long: `Fetches every evaluation result file from the server, parses the
records, and writes them as one parquet dataset for offline analysis.`,
		Example: `  skillscope export --output evaluations.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(serverURL(cmd))

			files, err := client.ListEvaluationFiles(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list evaluation files: %w", err)
			}
			if len(files) == 0 {
				return fmt.Errorf("no evaluation files stored on the server")
			}

			var rows []export.Record
			for _, f := range files {
				data, err := client.GetEvaluationFile(cmd.Context(), f)
				if err != nil {
					slog.Warn("Skipping unreadable evaluation file", "file", f, "err", err)
					continue
				}
				rows = append(rows, export.FromEvaluationRecords(f, results.ParseRecords(data))...)
			}
			if len(rows) == 0 {
				return fmt.Errorf("no readable evaluation records in %d file(s)", len(files))
			}

			if err := export.Write(output, rows); err != nil {
				return err
			}
			slog.Info("Exported evaluation records", "rows", len(rows), "files", len(files), "output", output)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s\n", len(rows), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "evaluations.parquet", "Output parquet file")

	return cmd
}
