package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/sortwise/sortwise/internal/cli"
	"github.com/sortwise/sortwise/internal/model"
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Analyze files and suggest names and categories",
		Long: `Scan a directory, classify each file, and ask the AI model for a
suggested name, category, and tags. Results print as a table; when the
model is unreachable, defaults based on the file's content type are
shown instead.`,
		Args: cobra.ExactArgs(1),
		RunE: runScan,
	}

	// Flags
	cmd.Flags().BoolP("recursive", "r", true, "Descend into subdirectories")
	cmd.Flags().Bool("groups", false, "Also cluster related files into suggested folders")
	cmd.Flags().Bool("save", false, "Persist results to the analysis database")
	cmd.Flags().Bool("json", false, "Emit results as JSON instead of a table")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	recursive, _ := cmd.Flags().GetBool("recursive")
	groups, _ := cmd.Flags().GetBool("groups")
	save, _ := cmd.Flags().GetBool("save")
	asJSON, _ := cmd.Flags().GetBool("json")

	rt, err := newRuntime(save)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	var (
		bar      *progressbar.ProgressBar
		analyses []model.Analysis
		runErr   error
	)

	for event := range rt.pipeline.Run(ctx, args[0], recursive) {
		switch event.Type {
		case model.ProgressStarted:
			bar = newScanBar(event.Total)
		case model.ProgressUpdate:
			if bar != nil {
				_ = bar.Add(1)
			}
		case model.ProgressCompleted:
			analyses = event.Files
		case model.ProgressError:
			runErr = fmt.Errorf("scan failed: %s", event.Message)
		}
	}
	if runErr != nil {
		return runErr
	}

	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(analyses)
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Analyzed %d files", len(analyses))))
	fmt.Println(cli.RenderAnalyses(analyses))

	if groups && len(analyses) > 0 {
		files := make([]model.FileRecord, len(analyses))
		for i, a := range analyses {
			files[i] = a.File
		}
		result := rt.suggester.AnalyzeGroups(ctx, files)
		fmt.Println()
		fmt.Println(cli.FormatTitle("Related file groups"))
		fmt.Println(cli.RenderGroups(result))
	}

	if save {
		slog.Info("Analysis results saved", "count", len(analyses), "database", rt.cfg.Storage.DatabasePath)
	}

	return nil
}

func newScanBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Analyzing files...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}
