package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sortwise/sortwise/internal/cli"
	"github.com/sortwise/sortwise/internal/common"
)

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the AI backend",
		Long: `Verify that the configured inference endpoint is reachable and the
model is installed, pulling the model when absent.`,
		RunE: runHealth,
	}
}

func runHealth(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(false)
	if err != nil {
		return err
	}
	defer rt.Close()

	if !rt.client.HealthCheck(cmd.Context()) {
		fmt.Println(cli.SubtleStyle.Render("Scans still work; files receive default suggestions."))
		return common.NewUserError(
			fmt.Sprintf("Inference backend unavailable (%s, model %s)", rt.cfg.Ollama.BaseURL, rt.client.Model()),
			common.ErrInferenceUnavailable,
		)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Inference backend ready (model %s)", rt.client.Model())))
	return nil
}
