package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sortwise/sortwise/internal/cli"
	"github.com/sortwise/sortwise/internal/common"
	"github.com/sortwise/sortwise/internal/model"
	"github.com/sortwise/sortwise/internal/mover"
)

func organizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organize [path]",
		Short: "Move files into category folders",
		Long: `Analyze files under a path and move each into a category subfolder
of the destination. Without --apply this is a dry run that prints the
move plan; name collisions at the destination resolve by numeric
suffix, never by overwrite.

A previously exported plan can be replayed with --plan instead of
scanning.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runOrganize,
	}

	// Flags
	cmd.Flags().StringP("dest", "d", "", "Destination base path for category folders (required)")
	cmd.Flags().BoolP("recursive", "r", true, "Descend into subdirectories")
	cmd.Flags().Bool("apply", false, "Execute the moves instead of printing the plan")
	cmd.Flags().String("plan", "", "JSON file with a move plan to replay (skips scanning)")
	_ = cmd.MarkFlagRequired("dest")

	return cmd
}

func runOrganize(cmd *cobra.Command, args []string) error {
	dest, _ := cmd.Flags().GetString("dest")
	recursive, _ := cmd.Flags().GetBool("recursive")
	apply, _ := cmd.Flags().GetBool("apply")
	planPath, _ := cmd.Flags().GetString("plan")

	rt, err := newRuntime(apply)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()

	var requests []model.MoveRequest
	if planPath != "" {
		requests, err = loadPlan(planPath, dest)
		if err != nil {
			return err
		}
	} else {
		if len(args) == 0 {
			return fmt.Errorf("a path to scan or a --plan file is required")
		}
		requests, err = scanForPlan(ctx, rt, args[0], dest, recursive)
		if err != nil {
			return err
		}
	}

	if len(requests) == 0 {
		fmt.Println(cli.SubtleStyle.Render("Nothing to organize."))
		return nil
	}

	if !apply {
		fmt.Println(cli.FormatTitle(fmt.Sprintf("Move plan (%d files, dry run)", len(requests))))
		for _, req := range requests {
			fmt.Printf("  %s → %s/%s/\n", req.SourcePath, req.BasePath, req.Category)
		}
		fmt.Println()
		fmt.Println(cli.SubtleStyle.Render("Re-run with --apply to execute."))
		return nil
	}

	executor := mover.NewExecutor(nil)
	results := executor.Move(requests)
	recordResults(ctx, rt, results)

	fmt.Println(cli.RenderMoveResults(results))

	failed := 0
	for _, res := range results {
		if !res.Moved {
			failed++
		}
	}
	if failed > 0 {
		return common.NewUserError(fmt.Sprintf("%d of %d moves failed", failed, len(results)), nil)
	}
	return nil
}

// scanForPlan runs the analysis pipeline and turns each suggestion into
// a move request against the destination base path.
func scanForPlan(ctx context.Context, rt *runtime, root, dest string, recursive bool) ([]model.MoveRequest, error) {
	var analyses []model.Analysis
	for event := range rt.pipeline.Run(ctx, root, recursive) {
		switch event.Type {
		case model.ProgressCompleted:
			analyses = event.Files
		case model.ProgressError:
			return nil, fmt.Errorf("scan failed: %s", event.Message)
		}
	}

	requests := make([]model.MoveRequest, 0, len(analyses))
	for _, a := range analyses {
		requests = append(requests, model.MoveRequest{
			SourcePath: a.File.Path,
			Category:   a.Suggestion.NormalizedCategory,
			BasePath:   dest,
		})
	}
	return requests, nil
}

// loadPlan reads a JSON move plan. Entries without a base path inherit
// the --dest flag.
func loadPlan(path, dest string) ([]model.MoveRequest, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied plan file
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}

	var requests []model.MoveRequest
	if err := json.Unmarshal(data, &requests); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}
	for i := range requests {
		if requests[i].BasePath == "" {
			requests[i].BasePath = dest
		}
	}
	return requests, nil
}

func recordResults(ctx context.Context, rt *runtime, results []model.MoveResult) {
	if rt.store == nil {
		return
	}
	for _, res := range results {
		op := model.Operation{
			Type:            "move",
			SourcePath:      res.SourcePath,
			DestinationPath: res.Destination,
			Status:          model.OperationStatusSuccess,
			ErrorMessage:    res.Error,
		}
		if !res.Moved {
			op.Status = model.OperationStatusFailed
		}
		_ = rt.store.RecordOperation(ctx, &op)
	}
}
