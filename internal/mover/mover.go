// Package mover executes caller-approved file moves into category
// folders with conflict-safe naming.
package mover

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sortwise/sortwise/internal/model"
)

// Executor performs move batches. A single executor serializes its
// batches, which makes collision resolution safe within one process;
// callers running multiple processes against the same base path must
// serialize externally.
type Executor struct {
	logger *slog.Logger
	mu     sync.Mutex
}

// NewExecutor creates a move executor.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{logger: logger}
}

// Move processes the requests independently: no request's failure
// aborts the others, and results are returned in request order.
func (e *Executor) Move(requests []model.MoveRequest) []model.MoveResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	results := make([]model.MoveResult, 0, len(requests))
	for _, req := range requests {
		results = append(results, e.moveOne(req))
	}
	return results
}

func (e *Executor) moveOne(req model.MoveRequest) model.MoveResult {
	result := model.MoveResult{SourcePath: req.SourcePath}

	info, err := os.Stat(req.SourcePath)
	if err != nil {
		result.Error = fmt.Sprintf("source not found: %v", err)
		return result
	}
	if info.IsDir() {
		result.Error = "source is a directory"
		return result
	}

	destDir := filepath.Join(req.BasePath, req.Category)
	if err := os.MkdirAll(destDir, 0o750); err != nil {
		result.Error = fmt.Sprintf("failed to create destination directory: %v", err)
		return result
	}

	dest, err := resolveCollision(filepath.Join(destDir, filepath.Base(req.SourcePath)))
	if err != nil {
		result.Error = fmt.Sprintf("failed to probe destination: %v", err)
		return result
	}

	if err := moveFile(req.SourcePath, dest); err != nil {
		result.Error = fmt.Sprintf("move failed: %v", err)
		return result
	}

	e.logger.Info("Moved file", "source", req.SourcePath, "destination", dest)
	result.Moved = true
	result.Destination = dest
	return result
}

// resolveCollision appends an incrementing numeric suffix to the
// filename stem until the destination is free. A stat failure that is
// not "does not exist" means the destination cannot be probed at all,
// so it propagates instead of being treated as a taken name.
func resolveCollision(dest string) (string, error) {
	free, err := destinationFree(dest)
	if err != nil {
		return "", err
	}
	if free {
		return dest, nil
	}

	dir := filepath.Dir(dest)
	ext := filepath.Ext(dest)
	stem := strings.TrimSuffix(filepath.Base(dest), ext)

	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		free, err := destinationFree(candidate)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}
}

func destinationFree(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return false, nil
	case os.IsNotExist(err):
		return true, nil
	default:
		return false, err
	}
}

// moveFile renames, falling back to copy-and-remove when the rename
// crosses filesystems. Best effort, not atomic across devices.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return err
	}

	return os.Remove(src)
}
