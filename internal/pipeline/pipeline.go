// Package pipeline drives the scan-and-suggest run and streams ordered
// progress events to the caller.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/sortwise/sortwise/internal/classify"
	"github.com/sortwise/sortwise/internal/common"
	"github.com/sortwise/sortwise/internal/engine"
	"github.com/sortwise/sortwise/internal/model"
	"github.com/sortwise/sortwise/internal/service"
	"github.com/sortwise/sortwise/internal/summary"
	"github.com/sortwise/sortwise/internal/walker"
)

// Config holds the validated settings a pipeline run needs. The caller
// (CLI or server) resolves these from its configuration source.
type Config struct {
	SupportedExtensions []string // empty means every extension
	MaxFileSize         int64    // bytes; 0 means unlimited
	EnableHashing       bool
}

// Pipeline runs file discovery, classification, summarization, and
// suggestion over a root path, emitting one ordered event stream per
// run. Runs are independent: concurrent pipelines share only the
// read-only configuration and the inference endpoint.
type Pipeline struct {
	suggester *engine.Suggester
	store     service.Storage
	logger    *slog.Logger
	cfg       Config
}

// New creates a pipeline. store may be nil; when present, finished
// results are handed to it after the run completes.
func New(suggester *engine.Suggester, store service.Storage, cfg Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		suggester: suggester,
		store:     store,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run starts a scan-and-suggest run and returns its event stream. The
// stream always begins with a started event and ends with exactly one
// completed or error event; per-file problems degrade to default
// suggestions and never halt the run. Canceling ctx aborts the run and
// the in-flight inference request.
func (p *Pipeline) Run(ctx context.Context, root string, recursive bool) <-chan model.ProgressEvent {
	events := make(chan model.ProgressEvent)

	go func() {
		defer close(events)
		p.run(ctx, root, recursive, events)
	}()

	return events
}

func (p *Pipeline) run(ctx context.Context, root string, recursive bool, events chan<- model.ProgressEvent) {
	emit := func(ev model.ProgressEvent) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	// A run-level setup problem ends the stream with a single error
	// event; this is the only non-degradable failure.
	info, err := os.Stat(root)
	if err != nil {
		rootErr := fmt.Errorf("%w %s: %v", common.ErrInvalidRoot, root, err)
		emit(model.ProgressEvent{Type: model.ProgressError, Message: rootErr.Error()})
		return
	}
	if !info.IsDir() {
		rootErr := fmt.Errorf("%w %s: not a directory", common.ErrInvalidRoot, root)
		emit(model.ProgressEvent{Type: model.ProgressError, Message: rootErr.Error()})
		return
	}

	files := p.filterSupported(walker.Scan(root, recursive))
	total := len(files)

	p.logger.Info("Starting analysis run", "root", root, "recursive", recursive, "files", total)

	if !emit(model.ProgressEvent{Type: model.ProgressStarted, Total: total}) {
		return
	}

	results := make([]model.Analysis, 0, total)
	for i, path := range files {
		if ctx.Err() != nil {
			p.abort(events, ctx.Err())
			return
		}

		analysis, skipped := p.processFile(ctx, path)

		category := ""
		if skipped {
			p.logger.Warn("File skipped before suggestion", "path", path)
		} else {
			results = append(results, analysis)
			category = analysis.Suggestion.NormalizedCategory
		}

		processed := i + 1
		ok := emit(model.ProgressEvent{
			Type:        model.ProgressUpdate,
			Processed:   processed,
			Total:       total,
			Percent:     percentOf(processed, total),
			CurrentFile: path,
			Category:    category,
		})
		if !ok {
			p.abort(events, ctx.Err())
			return
		}
	}

	if p.store != nil && len(results) > 0 {
		if err := p.store.SaveAnalyses(ctx, results); err != nil {
			p.logger.Warn("Failed to persist analysis results", "error", err)
		}
	}

	emit(model.ProgressEvent{Type: model.ProgressCompleted, Files: results, Total: total})
}

// abort sends a best-effort terminal error; the consumer may already
// have gone away, so the send must not block.
func (p *Pipeline) abort(events chan<- model.ProgressEvent, cause error) {
	msg := "run canceled"
	if cause != nil {
		msg = fmt.Sprintf("run canceled: %v", cause)
	}
	select {
	case events <- model.ProgressEvent{Type: model.ProgressError, Message: msg}:
	default:
	}
}

// processFile builds the FileRecord and its Suggestion for one path.
// The bool result marks files skipped before suggestion (oversized);
// everything else yields exactly one Analysis, degraded if need be.
func (p *Pipeline) processFile(ctx context.Context, path string) (model.Analysis, bool) {
	contentType, mimeType := classify.Classify(path)

	record := model.FileRecord{
		Path:        path,
		Filename:    filepath.Base(path),
		FileType:    strings.ToLower(filepath.Ext(path)),
		MimeType:    mimeType,
		ContentType: contentType,
	}

	info, err := os.Stat(path)
	if err != nil {
		// The file disappeared or became unreadable after the walk.
		// It was counted, so it still gets its degraded suggestion.
		p.logger.Warn("Could not stat file, degrading", "path", path, "error", err)
		record.ContentSummary = "File: " + record.Filename
		return model.Analysis{File: record, Suggestion: engine.DefaultSuggestion(record)}, false
	}

	record.Size = info.Size()
	record.ModifiedAt = info.ModTime()
	record.CreatedAt = info.ModTime()

	if p.cfg.MaxFileSize > 0 && record.Size > p.cfg.MaxFileSize {
		p.logger.Warn("File too large, skipping", "path", path, "size", record.Size)
		return model.Analysis{}, true
	}

	if p.cfg.EnableHashing {
		if hash, hashErr := record.ComputeHash(); hashErr != nil {
			p.logger.Warn("Could not hash file", "path", path, "error", hashErr)
		} else {
			record.Hash = hash
		}
	}

	record.ContentSummary = summary.Summarize(path, contentType)

	return model.Analysis{File: record, Suggestion: p.suggester.Suggest(ctx, record)}, false
}

func (p *Pipeline) filterSupported(files []string) []string {
	if len(p.cfg.SupportedExtensions) == 0 {
		return files
	}

	supported := make(map[string]struct{}, len(p.cfg.SupportedExtensions))
	for _, ext := range p.cfg.SupportedExtensions {
		supported[strings.ToLower(strings.TrimSpace(ext))] = struct{}{}
	}

	var kept []string
	for _, f := range files {
		if _, ok := supported[strings.ToLower(filepath.Ext(f))]; ok {
			kept = append(kept, f)
		}
	}
	return kept
}

// percentOf returns cumulative progress rounded to one decimal place.
func percentOf(processed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(processed)/float64(total)*1000) / 10
}
