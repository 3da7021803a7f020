package engine

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/sortwise/sortwise/internal/common"
	"github.com/sortwise/sortwise/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFile(name string, contentType model.ContentType) model.FileRecord {
	return model.FileRecord{
		Path:           "/tmp/" + name,
		Filename:       name,
		FileType:       ".txt",
		MimeType:       "text/plain",
		ContentType:    contentType,
		ContentSummary: "Text file: sample",
		ModifiedAt:     time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		Size:           42,
	}
}

func TestSuggestParsesWellFormedResponse(t *testing.T) {
	client := NewMockClient(`{
		"suggested_name": "meeting_notes_2026-01.txt",
		"suggested_category": "work documents",
		"suggested_tags": ["meeting", "notes"],
		"confidence": 0.92,
		"reasoning": "Content describes a team meeting"
	}`)
	s := NewSuggester(client, nil)

	got := s.Suggest(context.Background(), testFile("notes.txt", model.ContentTypeText))

	assert.Equal(t, "meeting_notes_2026-01.txt", got.SuggestedName)
	assert.Equal(t, "work documents", got.SuggestedCategory)
	assert.Equal(t, "Documents", got.NormalizedCategory)
	assert.Equal(t, []string{"meeting", "notes"}, got.SuggestedTags)
	assert.InDelta(t, 0.92, got.Confidence, 0.0001)
	assert.False(t, got.IsDegraded())
}

func TestSuggestExtractsJSONFromProse(t *testing.T) {
	client := NewMockClient("Sure! Here is my suggestion:\n```json\n" +
		`{"suggested_name":"cat.jpg","suggested_category":"photos","suggested_tags":["pets"],"confidence":0.8,"reasoning":"a cat"}` +
		"\n```\nLet me know if you need more.")
	s := NewSuggester(client, nil)

	got := s.Suggest(context.Background(), testFile("img01.jpg", model.ContentTypeImage))

	assert.Equal(t, "cat.jpg", got.SuggestedName)
	assert.Equal(t, "Images", got.NormalizedCategory)
}

func TestSuggestHandlesNestedBraces(t *testing.T) {
	client := NewMockClient(`{"suggested_name":"a{b}.txt","suggested_category":"notes {draft}","suggested_tags":[],"confidence":0.5,"reasoning":"has {braces} in strings"}`)
	s := NewSuggester(client, nil)

	got := s.Suggest(context.Background(), testFile("a.txt", model.ContentTypeText))

	assert.Equal(t, "a{b}.txt", got.SuggestedName)
	assert.Equal(t, "has {braces} in strings", got.Reasoning)
}

func TestSuggestDefaultsWhenNoJSON(t *testing.T) {
	client := NewMockClient("I cannot help with that.")
	s := NewSuggester(client, nil)

	file := testFile("report.pdf", model.ContentTypeDocument)
	got := s.Suggest(context.Background(), file)

	assert.Equal(t, DefaultSuggestion(file), got)
	assert.Equal(t, 1, client.Calls(), "unparseable content must not be retried by the engine")
}

func TestSuggestDefaultsWhenClientFails(t *testing.T) {
	client := NewMockClient()
	client.Err = common.ErrMaxRetries
	s := NewSuggester(client, nil)

	got := s.Suggest(context.Background(), testFile("song.mp3", model.ContentTypeMedia))

	assert.Equal(t, "song.mp3", got.SuggestedName)
	assert.Equal(t, "Media", got.SuggestedCategory)
	assert.InDelta(t, model.DefaultConfidence, got.Confidence, 0.0001)
	assert.Equal(t, model.DefaultReasoning, got.Reasoning)
	assert.True(t, got.IsDegraded())
}

func TestDefaultSuggestionPerBucket(t *testing.T) {
	tests := []struct {
		contentType model.ContentType
		wantCat     string
	}{
		{model.ContentTypeImage, "Images"},
		{model.ContentTypeDocument, "Documents"},
		{model.ContentTypeMedia, "Media"},
		{model.ContentTypeArchive, "Archives"},
		{model.ContentTypeCode, "Code"},
		{model.ContentTypeText, "Documents"},
		{model.ContentTypeUnknown, "Misc"},
	}

	for _, tt := range tests {
		t.Run(string(tt.contentType), func(t *testing.T) {
			file := testFile("file.bin", tt.contentType)
			got := DefaultSuggestion(file)

			assert.Equal(t, "file.bin", got.SuggestedName)
			assert.Equal(t, tt.wantCat, got.SuggestedCategory)
			assert.Equal(t, []string{string(tt.contentType)}, got.SuggestedTags)
			assert.InDelta(t, 0.3, got.Confidence, 0.0001)
			assert.Equal(t, "Default suggestion (AI unavailable)", got.Reasoning)
		})
	}
}

func TestSuggestClampsConfidence(t *testing.T) {
	client := NewMockClient(`{"suggested_name":"x.txt","suggested_category":"notes","suggested_tags":[],"confidence":3.7,"reasoning":"overconfident"}`)
	s := NewSuggester(client, nil)

	got := s.Suggest(context.Background(), testFile("x.txt", model.ContentTypeText))

	assert.InDelta(t, 1.0, got.Confidence, 0.0001)
}

func TestSuggestFillsMissingName(t *testing.T) {
	client := NewMockClient(`{"suggested_category":"photos","confidence":0.6,"reasoning":"partial"}`)
	s := NewSuggester(client, nil)

	got := s.Suggest(context.Background(), testFile("holiday.png", model.ContentTypeImage))

	assert.Equal(t, "holiday.png", got.SuggestedName)
	assert.NotNil(t, got.SuggestedTags)
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		ok      bool
	}{
		{name: "bare object", content: `{"a":1}`, want: `{"a":1}`, ok: true},
		{name: "leading prose", content: `here you go {"a":1} thanks`, want: `{"a":1}`, ok: true},
		{name: "nested", content: `{"a":{"b":2}}`, want: `{"a":{"b":2}}`, ok: true},
		{name: "brace in string", content: `{"a":"}"}`, want: `{"a":"}"}`, ok: true},
		{name: "escaped quote", content: `{"a":"say \"hi\" {"}`, want: `{"a":"say \"hi\" {"}`, ok: true},
		{name: "no object", content: "nothing here", ok: false},
		{name: "unbalanced", content: `{"a":1`, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSONObject(tt.content)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestAnalyzeGroups(t *testing.T) {
	client := NewMockClient(`{
		"groups": [{"name":"trip","files":["a.jpg","b.jpg"],"suggested_folder":"Trips/2026","reasoning":"same trip"}],
		"relationships": [{"file1":"a.jpg","file2":"b.jpg","relationship":"same_event","confidence":0.8}]
	}`)
	s := NewSuggester(client, nil)

	files := []model.FileRecord{
		testFile("a.jpg", model.ContentTypeImage),
		testFile("b.jpg", model.ContentTypeImage),
	}
	got := s.AnalyzeGroups(context.Background(), files)

	require.Len(t, got.Groups, 1)
	assert.Equal(t, "Trips/2026", got.Groups[0].SuggestedFolder)
	require.Len(t, got.Relationships, 1)
	assert.Equal(t, "same_event", got.Relationships[0].Relationship)
}

func TestAnalyzeGroupsFailureIsEmpty(t *testing.T) {
	client := NewMockClient()
	client.Err = common.ErrMaxRetries
	s := NewSuggester(client, nil)

	got := s.AnalyzeGroups(context.Background(), []model.FileRecord{testFile("a.txt", model.ContentTypeText)})

	assert.Empty(t, got.Groups)
	assert.Empty(t, got.Relationships)
	assert.NotNil(t, got.Groups)
}

func TestAnalyzeGroupsCapsBatchSize(t *testing.T) {
	client := NewMockClient(`{"groups":[],"relationships":[]}`)
	s := NewSuggester(client, nil)

	files := make([]model.FileRecord, 30)
	for i := range files {
		files[i] = testFile("file.txt", model.ContentTypeText)
	}
	s.AnalyzeGroups(context.Background(), files)

	require.Len(t, client.Prompts, 1)
	// 20 file lines at most in the prompt.
	assert.Equal(t, 20, strings.Count(client.Prompts[0], "- file.txt"))
}

func TestAnalyzeGroupsTruncatesSummariesOnRuneBoundaries(t *testing.T) {
	client := NewMockClient(`{"groups":[],"relationships":[]}`)
	s := NewSuggester(client, nil)

	file := testFile("отчёт.txt", model.ContentTypeText)
	file.ContentSummary = strings.Repeat("отчёт ", 40)
	s.AnalyzeGroups(context.Background(), []model.FileRecord{file})

	require.Len(t, client.Prompts, 1)
	assert.True(t, utf8.ValidString(client.Prompts[0]), "summary truncation must not split multi-byte runes")
}
