package model

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"time"
)

// ContentType is the coarse bucket a file is routed through for
// summarization and default categorization.
type ContentType string

const (
	// ContentTypeText covers plain text formats (txt, md, csv, ...).
	ContentTypeText ContentType = "text"
	// ContentTypeDocument covers office and PDF documents.
	ContentTypeDocument ContentType = "document"
	// ContentTypeImage covers raster and vector images.
	ContentTypeImage ContentType = "image"
	// ContentTypeMedia covers video and audio files.
	ContentTypeMedia ContentType = "media"
	// ContentTypeArchive covers compressed archives.
	ContentTypeArchive ContentType = "archive"
	// ContentTypeCode covers source code files.
	ContentTypeCode ContentType = "code"
	// ContentTypeUnknown is the fallback bucket for everything else.
	ContentTypeUnknown ContentType = "unknown"
)

// FileRecord captures the metadata gathered for a single scanned file.
// A record is immutable once the scan step has produced it.
type FileRecord struct {
	ModifiedAt     time.Time   `json:"modified_at"`
	CreatedAt      time.Time   `json:"created_at"`
	Path           string      `json:"path"`
	Filename       string      `json:"filename"`
	FileType       string      `json:"file_type"` // lower-cased extension, including the dot
	MimeType       string      `json:"mime_type"`
	ContentType    ContentType `json:"content_type"`
	ContentSummary string      `json:"content_summary"`
	Hash           string      `json:"hash,omitempty"`
	Size           int64       `json:"size"`
}

// ComputeHash returns the sha256 hex digest of the file's content.
// Used for duplicate detection when hashing is enabled.
func (f *FileRecord) ComputeHash() (string, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for hashing: %w", err)
	}
	defer func() { _ = file.Close() }()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}
	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// Analysis pairs a scanned file with the suggestion produced for it.
// Exactly one Analysis exists per file counted in a pipeline run.
type Analysis struct {
	File       FileRecord `json:"file"`
	Suggestion Suggestion `json:"suggestion"`
}
