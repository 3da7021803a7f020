package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sortwise/sortwise/internal/model"
)

// batchLimit caps how many files one grouping request carries.
const batchLimit = 20

// FileGroup is a cluster of related files sharing a destination folder.
type FileGroup struct {
	Name            string   `json:"name"`
	SuggestedFolder string   `json:"suggested_folder"`
	Reasoning       string   `json:"reasoning"`
	Files           []string `json:"files"`
}

// FileRelationship links two files the model considers related.
type FileRelationship struct {
	File1        string  `json:"file1"`
	File2        string  `json:"file2"`
	Relationship string  `json:"relationship"`
	Confidence   float64 `json:"confidence"`
}

// GroupAnalysis is the result of a batch relationship request.
type GroupAnalysis struct {
	Groups        []FileGroup        `json:"groups"`
	Relationships []FileRelationship `json:"relationships"`
}

// AnalyzeGroups asks the inference backend to cluster related files and
// name a shared destination folder for each cluster. Any failure
// returns an empty result rather than an error; grouping is advisory.
func (s *Suggester) AnalyzeGroups(ctx context.Context, files []model.FileRecord) GroupAnalysis {
	empty := GroupAnalysis{Groups: []FileGroup{}, Relationships: []FileRelationship{}}
	if len(files) == 0 {
		return empty
	}
	if len(files) > batchLimit {
		files = files[:batchLimit]
	}

	var lines []string
	for _, f := range files {
		lines = append(lines, fmt.Sprintf("- %s (%s): %s", f.Filename, f.ContentType, truncate(f.ContentSummary, 100)))
	}

	prompt := fmt.Sprintf(`Analyze these files and group related ones together:

FILES:
%s

Respond in JSON format:
{
  "groups": [
    {
      "name": "group_name",
      "files": ["filename1", "filename2"],
      "suggested_folder": "folder_name",
      "reasoning": "why grouped"
    }
  ],
  "relationships": [
    {
      "file1": "filename1",
      "file2": "filename2",
      "relationship": "related_type",
      "confidence": 0.8
    }
  ]
}`, strings.Join(lines, "\n"))

	raw, err := s.client.Generate(ctx, prompt, "")
	if err != nil {
		s.logger.Warn("Batch group analysis failed", "files", len(files), "error", err)
		return empty
	}

	span, ok := extractJSONObject(raw)
	if !ok {
		s.logger.Warn("No JSON object in batch group response")
		return empty
	}

	var result GroupAnalysis
	if err := json.Unmarshal([]byte(span), &result); err != nil {
		s.logger.Warn("Could not decode batch group response", "error", err)
		return empty
	}

	if result.Groups == nil {
		result.Groups = []FileGroup{}
	}
	if result.Relationships == nil {
		result.Relationships = []FileRelationship{}
	}
	return result
}

// truncate limits s to limit runes, never splitting a multi-byte rune.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
