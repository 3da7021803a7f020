package cli

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sortwise/sortwise/internal/engine"
	"github.com/sortwise/sortwise/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestRenderAnalysesEmpty(t *testing.T) {
	out := RenderAnalyses(nil)
	assert.Contains(t, out, "No files analyzed")
}

func TestRenderAnalysesShowsRowsAndDegradedCount(t *testing.T) {
	analyses := []model.Analysis{
		{
			File: model.FileRecord{Filename: "report.txt"},
			Suggestion: model.Suggestion{
				SuggestedName:      "q3_report.txt",
				NormalizedCategory: "Documents",
				Confidence:         0.9,
			},
		},
		{
			File: model.FileRecord{Filename: "cat.jpg"},
			Suggestion: model.Suggestion{
				SuggestedName:      "cat.jpg",
				NormalizedCategory: "Images",
				Confidence:         model.DefaultConfidence,
				Reasoning:          model.DefaultReasoning,
			},
		},
	}

	out := RenderAnalyses(analyses)
	assert.Contains(t, out, "report.txt")
	assert.Contains(t, out, "q3_report.txt")
	assert.Contains(t, out, "Documents")
	assert.Contains(t, out, "1 of 2 suggestions are defaults")
}

func TestRenderAnalysesTruncatesOnRuneBoundaries(t *testing.T) {
	analyses := []model.Analysis{
		{
			File: model.FileRecord{Filename: strings.Repeat("файл", 20) + ".txt"},
			Suggestion: model.Suggestion{
				SuggestedName:      strings.Repeat("整理", 30) + ".txt",
				NormalizedCategory: "Documents",
				Confidence:         0.7,
			},
		},
	}

	out := RenderAnalyses(analyses)
	assert.True(t, utf8.ValidString(out), "truncation must not split multi-byte runes")
	assert.Contains(t, out, "…")
}

func TestRenderMoveResults(t *testing.T) {
	results := []model.MoveResult{
		{SourcePath: "/in/a.txt", Destination: "/out/Documents/a.txt", Moved: true},
		{SourcePath: "/in/b.txt", Error: "source not found: /in/b.txt"},
	}

	out := RenderMoveResults(results)
	assert.Contains(t, out, "/out/Documents/a.txt")
	assert.Contains(t, out, "source not found")
	assert.Contains(t, out, "Moved 1 of 2 files")
}

func TestRenderGroups(t *testing.T) {
	out := RenderGroups(engine.GroupAnalysis{
		Groups: []engine.FileGroup{
			{
				Name:            "tax documents",
				SuggestedFolder: "Taxes2025",
				Files:           []string{"w2.pdf", "1099.pdf"},
				Reasoning:       "same tax year",
			},
		},
	})
	assert.Contains(t, out, "tax documents")
	assert.Contains(t, out, "Taxes2025/")
	assert.Contains(t, out, "w2.pdf")

	empty := RenderGroups(engine.GroupAnalysis{})
	assert.Contains(t, empty, "No related file groups")
}
