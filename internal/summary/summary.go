// Package summary produces short, type-specific descriptions of file
// content used as inference-prompt context. Summarization never fails:
// every extraction problem degrades to a generic descriptor.
package summary

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	// Image header decoders for dimension extraction.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/ledongthuc/pdf"
	"github.com/sortwise/sortwise/internal/model"
)

const (
	// textReadLimit bounds how much of a text file is read.
	textReadLimit = 1000
	// textExcerptLen bounds the excerpt included in the summary.
	textExcerptLen = 200
	// pdfMaxPages bounds PDF text extraction.
	pdfMaxPages = 2
	// pdfTextLimit bounds the extracted PDF text.
	pdfTextLimit = 500
)

// Summarize returns a short descriptive string for the file, routed by
// its coarse content type.
func Summarize(path string, contentType model.ContentType) string {
	switch contentType {
	case model.ContentTypeText:
		return summarizeText(path)
	case model.ContentTypeDocument:
		return summarizeDocument(path)
	case model.ContentTypeImage:
		return summarizeImage(path)
	case model.ContentTypeMedia:
		return "Media file: " + extension(path)
	case model.ContentTypeArchive:
		return "Archive: " + extension(path)
	case model.ContentTypeCode, model.ContentTypeUnknown:
		return "File type: " + extension(path)
	default:
		return "File type: " + extension(path)
	}
}

func summarizeText(path string) string {
	file, err := os.Open(path)
	if err != nil {
		slog.Warn("Could not read text file for summary", "path", path, "error", err)
		return "File: " + filepath.Base(path)
	}
	defer func() { _ = file.Close() }()

	buf := make([]byte, textReadLimit)
	n, _ := file.Read(buf)

	content := strings.ToValidUTF8(string(buf[:n]), "�")
	return "Text file: " + truncateRunes(content, textExcerptLen)
}

func summarizeDocument(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return extractPDFText(path)
	}
	return "Document file"
}

// extractPDFText pulls text from the first pages of a PDF. The pdf
// reader panics on some malformed inputs, so the recover here is part
// of the never-fail contract.
func extractPDFText(path string) (result string) {
	result = "PDF file"
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("PDF text extraction panicked", "path", path, "panic", r)
		}
	}()

	file, reader, err := pdf.Open(path)
	if err != nil {
		slog.Warn("Could not open PDF for summary", "path", path, "error", err)
		return result
	}
	defer func() { _ = file.Close() }()

	pages := reader.NumPage()
	if pages > pdfMaxPages {
		pages = pdfMaxPages
	}

	var parts []string
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			slog.Warn("Could not extract PDF page text", "path", path, "page", i, "error", pageErr)
			continue
		}
		parts = append(parts, text)
	}

	joined := strings.TrimSpace(strings.Join(parts, " "))
	if joined == "" {
		return result
	}
	return truncateRunes(joined, pdfTextLimit)
}

func summarizeImage(path string) string {
	file, err := os.Open(path)
	if err != nil {
		slog.Warn("Could not open image for summary", "path", path, "error", err)
		return "Image file"
	}
	defer func() { _ = file.Close() }()

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		slog.Warn("Could not decode image header", "path", path, "error", err)
		return "Image file"
	}

	return fmt.Sprintf("Image: %dx%d, %s", cfg.Width, cfg.Height, strings.ToUpper(format))
}

func extension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "(none)"
	}
	return ext
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
