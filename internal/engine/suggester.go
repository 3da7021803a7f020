// Package engine produces per-file organization suggestions by
// combining file metadata, content summaries, and inference output.
package engine

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/sortwise/sortwise/internal/category"
	"github.com/sortwise/sortwise/internal/model"
	"github.com/sortwise/sortwise/internal/ollama"
)

// Suggester turns a scanned FileRecord into a Suggestion. It never
// fails: every inference or parsing problem degrades to the documented
// default suggestion.
type Suggester struct {
	client ollama.Client
	logger *slog.Logger
}

// NewSuggester creates a suggestion engine backed by the given
// inference client.
func NewSuggester(client ollama.Client, logger *slog.Logger) *Suggester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Suggester{client: client, logger: logger}
}

// suggestionPayload is the JSON shape the model is instructed to emit.
type suggestionPayload struct {
	SuggestedName     string   `json:"suggested_name"`
	SuggestedCategory string   `json:"suggested_category"`
	Reasoning         string   `json:"reasoning"`
	SuggestedTags     []string `json:"suggested_tags"`
	Confidence        float64  `json:"confidence"`
}

// Suggest returns the organization suggestion for one file. Transport
// failures (after the client's retry budget) and unparseable responses
// both yield the default suggestion, so a scanned file always gets
// exactly one Suggestion.
func (s *Suggester) Suggest(ctx context.Context, file model.FileRecord) model.Suggestion {
	raw, err := s.client.Generate(ctx, buildSuggestionPrompt(file), buildSystemPrompt(file.ContentType))
	if err != nil {
		s.logger.Warn("Inference request failed, using default suggestion",
			"file", file.Filename,
			"error", err)
		return DefaultSuggestion(file)
	}

	span, ok := extractJSONObject(raw)
	if !ok {
		s.logger.Warn("No JSON object in inference response, using default suggestion",
			"file", file.Filename)
		return DefaultSuggestion(file)
	}

	var payload suggestionPayload
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		s.logger.Warn("Could not decode inference response, using default suggestion",
			"file", file.Filename,
			"error", err)
		return DefaultSuggestion(file)
	}

	if payload.SuggestedName == "" {
		payload.SuggestedName = file.Filename
	}
	if payload.SuggestedTags == nil {
		payload.SuggestedTags = []string{}
	}

	suggestion := model.Suggestion{
		SuggestedName:      payload.SuggestedName,
		SuggestedCategory:  payload.SuggestedCategory,
		NormalizedCategory: category.Normalize(payload.SuggestedCategory),
		SuggestedTags:      payload.SuggestedTags,
		Confidence:         clampConfidence(payload.Confidence),
		Reasoning:          payload.Reasoning,
	}

	s.logger.Debug("File classified",
		"file", file.Filename,
		"category", suggestion.NormalizedCategory,
		"confidence", suggestion.Confidence)

	return suggestion
}

// defaultCategories is the fixed per-bucket category used by the
// degradation path.
var defaultCategories = map[model.ContentType]string{
	model.ContentTypeImage:    "Images",
	model.ContentTypeDocument: "Documents",
	model.ContentTypeMedia:    "Media",
	model.ContentTypeArchive:  "Archives",
	model.ContentTypeCode:     "Code",
	model.ContentTypeText:     "Documents",
}

// DefaultSuggestion is the sole fallback path: name keeps the original
// filename, the category comes from the fixed per-bucket map, and the
// confidence and reasoning are the documented constants.
func DefaultSuggestion(file model.FileRecord) model.Suggestion {
	cat, ok := defaultCategories[file.ContentType]
	if !ok {
		cat = "Misc"
	}

	return model.Suggestion{
		SuggestedName:      file.Filename,
		SuggestedCategory:  cat,
		NormalizedCategory: category.Normalize(cat),
		SuggestedTags:      []string{string(file.ContentType)},
		Confidence:         model.DefaultConfidence,
		Reasoning:          model.DefaultReasoning,
	}
}
