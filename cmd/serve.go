package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jweekley-ucsc/skillscope/internal/devserver"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		port    string
		dataDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start a local SkillScope server",
		Long: `Starts a local server implementing the full SkillScope API: audio
upload, transcription, transcript submission and listing, batch rubric
evaluation, and evaluation-file read-back.

Transcription and scoring are stubbed with deterministic local logic so
the interview and review screens can be exercised end to end. Drop a
<filename>.txt file into the transcripts/ directory to supply a real
transcript for an uploaded recording.`,
		Example: `  # Start server on default port 8888
  skillscope serve

  # Store server data under a custom directory
  skillscope serve --port 3000 --data ./instance`,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := devserver.New(dataDir)
			if err != nil {
				return err
			}

			addr := ":" + port
			server := &http.Server{
				Addr:    addr,
				Handler: srv.Handler(),
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("SkillScope server available", "addr", addr, "data", dataDir, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().StringVar(&dataDir, "data", "instance", "Directory for server data")

	return cmd
}
