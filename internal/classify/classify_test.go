package classify

import (
	"testing"

	"github.com/sortwise/sortwise/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantBucket model.ContentType
	}{
		{name: "plain text", path: "/tmp/notes.txt", wantBucket: model.ContentTypeText},
		{name: "markdown", path: "readme.MD", wantBucket: model.ContentTypeText},
		{name: "csv", path: "data/export.csv", wantBucket: model.ContentTypeText},
		{name: "pdf document", path: "report.pdf", wantBucket: model.ContentTypeDocument},
		{name: "word document", path: "letter.docx", wantBucket: model.ContentTypeDocument},
		{name: "spreadsheet", path: "budget.xlsx", wantBucket: model.ContentTypeDocument},
		{name: "jpeg image", path: "photo.JPG", wantBucket: model.ContentTypeImage},
		{name: "png image", path: "screenshot.png", wantBucket: model.ContentTypeImage},
		{name: "video", path: "clip.mp4", wantBucket: model.ContentTypeMedia},
		{name: "audio", path: "song.mp3", wantBucket: model.ContentTypeMedia},
		{name: "archive", path: "backup.zip", wantBucket: model.ContentTypeArchive},
		{name: "tarball", path: "release.tar", wantBucket: model.ContentTypeArchive},
		{name: "go source", path: "main.go", wantBucket: model.ContentTypeCode},
		{name: "python source", path: "script.py", wantBucket: model.ContentTypeCode},
		{name: "html falls back to mime text", path: "index.html", wantBucket: model.ContentTypeText},
		{name: "no extension", path: "Makefile", wantBucket: model.ContentTypeUnknown},
		{name: "unmapped binary", path: "app.exe", wantBucket: model.ContentTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, mimeType := Classify(tt.path)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.NotEmpty(t, mimeType)
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	first, firstMime := Classify("vacation.jpeg")
	second, secondMime := Classify("vacation.jpeg")
	assert.Equal(t, first, second)
	assert.Equal(t, firstMime, secondMime)
}

func TestMimeTypeFallback(t *testing.T) {
	assert.Equal(t, "application/octet-stream", MimeType("mystery.qqq"))
	assert.Equal(t, "application/pdf", MimeType("doc.pdf"))
	// Charset parameters are stripped.
	assert.Equal(t, "text/plain", MimeType("notes.txt"))
}
