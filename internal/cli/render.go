package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sortwise/sortwise/internal/engine"
	"github.com/sortwise/sortwise/internal/model"
)

// RenderAnalyses renders scan results as a table of suggestions, one
// row per file, grouped visually by the confidence styling.
func RenderAnalyses(analyses []model.Analysis) string {
	if len(analyses) == 0 {
		return SubtleStyle.Render("No files analyzed.")
	}

	var b strings.Builder
	b.WriteString(renderRow(TableHeaderStyle, "FILE", "SUGGESTED NAME", "CATEGORY", "CONF"))
	b.WriteString("\n")

	for _, a := range analyses {
		conf := fmt.Sprintf("%.0f%%", a.Suggestion.Confidence*100)
		row := renderRow(TableCellStyle,
			a.File.Filename,
			a.Suggestion.SuggestedName,
			a.Suggestion.NormalizedCategory,
			conf,
		)
		if a.Suggestion.IsDegraded() {
			row = WarningStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	degraded := 0
	for _, a := range analyses {
		if a.Suggestion.IsDegraded() {
			degraded++
		}
	}
	if degraded > 0 {
		b.WriteString("\n")
		b.WriteString(FormatWarning(fmt.Sprintf("%d of %d suggestions are defaults (AI unavailable)", degraded, len(analyses))))
	}

	return b.String()
}

// RenderMoveResults renders the outcome of a move batch.
func RenderMoveResults(results []model.MoveResult) string {
	var b strings.Builder
	moved := 0
	for _, res := range results {
		if res.Moved {
			moved++
			b.WriteString(FormatSuccess(fmt.Sprintf("%s → %s", res.SourcePath, res.Destination)))
		} else {
			b.WriteString(FormatError(fmt.Sprintf("%s: %s", res.SourcePath, res.Error)))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(BoldStyle.Render(fmt.Sprintf("Moved %d of %d files", moved, len(results))))
	return b.String()
}

// RenderGroups renders batch relationship analysis results.
func RenderGroups(analysis engine.GroupAnalysis) string {
	if len(analysis.Groups) == 0 {
		return SubtleStyle.Render("No related file groups found.")
	}

	var b strings.Builder
	for _, group := range analysis.Groups {
		b.WriteString(TitleStyle.UnsetMargins().Render(group.Name))
		b.WriteString(SubtleStyle.Render(fmt.Sprintf("  → %s/", group.SuggestedFolder)))
		b.WriteString("\n")
		for _, file := range group.Files {
			b.WriteString("  " + file + "\n")
		}
		if group.Reasoning != "" {
			b.WriteString(SubtleStyle.Render("  " + group.Reasoning))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderRow(style lipgloss.Style, cols ...string) string {
	widths := []int{28, 32, 16, 5}
	parts := make([]string, len(cols))
	for i, col := range cols {
		w := widths[i%len(widths)]
		// Truncate on rune boundaries so multi-byte names stay valid.
		if runes := []rune(col); len(runes) > w {
			col = string(runes[:w-1]) + "…"
		}
		parts[i] = style.Width(w).Render(col)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
