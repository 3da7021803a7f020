package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty input", raw: "", want: "Other"},
		{name: "blank input", raw: "   ", want: "Other"},
		{name: "photo keyword", raw: "Photo of cat", want: "Images"},
		{name: "report keyword", raw: "quarterly report.docx", want: "Documents"},
		{name: "screenshot", raw: "Screenshots", want: "Images"},
		{name: "video clip", raw: "family movie night", want: "Videos"},
		{name: "music", raw: "Music Collection", want: "Audio"},
		{name: "source code", raw: "python source files", want: "Code"},
		{name: "compressed", raw: "compressed backups", want: "Archives"},
		{name: "logs", raw: "application logs", want: "Logs & Configs"},
		{name: "dataset", raw: "ML datasets", want: "Data"},
		{name: "case insensitive", raw: "PHOTOS", want: "Images"},
		{name: "surrounding whitespace", raw: "  invoices 2024  ", want: "Documents"},
		{name: "short unmatched passes through", raw: "RandomWeirdLabel", want: "RandomWeirdLabel"},
		{name: "short unmatched is trimmed", raw: "  Taxes  ", want: "Taxes"},
		{name: "long unmatched maps to Other", raw: "an unusually verbose category name here", want: "Other"},
		{name: "too many words maps to Other", raw: "one two three four", want: "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

// Overlapping keywords must resolve by bucket order, not map order.
func TestNormalizePriorityOrder(t *testing.T) {
	// "text" (Documents) appears before any Data keyword is consulted.
	assert.Equal(t, "Documents", Normalize("text data"))
}

func TestNormalizeIsPure(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, "Images", Normalize("holiday photos"))
	}
}
