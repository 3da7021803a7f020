// Package classify maps file paths to coarse content-type buckets and
// MIME types. Classification is a pure, total function: every input
// produces exactly one bucket.
package classify

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/sortwise/sortwise/internal/model"
)

// extensionBuckets is the static extension-to-bucket table. Extensions
// not listed here fall back to a MIME substring test.
var extensionBuckets = map[string]model.ContentType{
	// Text
	".txt":  model.ContentTypeText,
	".md":   model.ContentTypeText,
	".csv":  model.ContentTypeText,
	".json": model.ContentTypeText,
	".xml":  model.ContentTypeText,
	".yaml": model.ContentTypeText,
	".yml":  model.ContentTypeText,

	// Documents
	".pdf":  model.ContentTypeDocument,
	".docx": model.ContentTypeDocument,
	".doc":  model.ContentTypeDocument,
	".xlsx": model.ContentTypeDocument,
	".pptx": model.ContentTypeDocument,

	// Images
	".jpg":  model.ContentTypeImage,
	".jpeg": model.ContentTypeImage,
	".png":  model.ContentTypeImage,
	".gif":  model.ContentTypeImage,
	".bmp":  model.ContentTypeImage,
	".svg":  model.ContentTypeImage,
	".webp": model.ContentTypeImage,

	// Video and audio
	".mp4":  model.ContentTypeMedia,
	".avi":  model.ContentTypeMedia,
	".mkv":  model.ContentTypeMedia,
	".mov":  model.ContentTypeMedia,
	".webm": model.ContentTypeMedia,
	".mp3":  model.ContentTypeMedia,
	".wav":  model.ContentTypeMedia,
	".flac": model.ContentTypeMedia,
	".aac":  model.ContentTypeMedia,
	".m4a":  model.ContentTypeMedia,

	// Archives
	".zip": model.ContentTypeArchive,
	".rar": model.ContentTypeArchive,
	".7z":  model.ContentTypeArchive,
	".tar": model.ContentTypeArchive,
	".gz":  model.ContentTypeArchive,

	// Code
	".py":   model.ContentTypeCode,
	".js":   model.ContentTypeCode,
	".ts":   model.ContentTypeCode,
	".java": model.ContentTypeCode,
	".cpp":  model.ContentTypeCode,
	".c":    model.ContentTypeCode,
	".go":   model.ContentTypeCode,
	".rs":   model.ContentTypeCode,
}

// Classify resolves the coarse content-type bucket and MIME type for a
// file path. The extension table wins; unmapped extensions fall back to
// a MIME substring test, then to the unknown bucket.
func Classify(path string) (model.ContentType, string) {
	ext := strings.ToLower(filepath.Ext(path))
	mimeType := MimeType(path)

	if bucket, ok := extensionBuckets[ext]; ok {
		return bucket, mimeType
	}

	switch {
	case strings.Contains(mimeType, "text"):
		return model.ContentTypeText, mimeType
	case strings.Contains(mimeType, "image"):
		return model.ContentTypeImage, mimeType
	case strings.Contains(mimeType, "video"), strings.Contains(mimeType, "audio"):
		return model.ContentTypeMedia, mimeType
	}

	return model.ContentTypeUnknown, mimeType
}

// MimeType resolves the MIME type for a path from its extension.
func MimeType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		return "application/octet-stream"
	}
	// Strip optional parameters such as "; charset=utf-8".
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	return mimeType
}
