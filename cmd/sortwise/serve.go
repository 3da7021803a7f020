package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sortwise/sortwise/internal/mover"
	"github.com/sortwise/sortwise/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the analysis pipeline over HTTP: streaming analysis progress
as newline-delimited JSON, executing move batches, and reporting
inference backend health.`,
		RunE: runServe,
	}

	// Flags
	cmd.Flags().String("addr", "", "Listen address (default from config, :8000)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(true)
	if err != nil {
		return err
	}
	defer rt.Close()

	logger := slog.Default()
	srv := server.New(rt.pipeline, mover.NewExecutor(logger), rt.client, rt.store, logger)

	return srv.ListenAndServe(cmd.Context(), rt.cfg.Server.Addr)
}
