package engine

import (
	"fmt"
	"time"

	"github.com/sortwise/sortwise/internal/model"
)

const baseSystemPrompt = `You are an expert file organization assistant.
Your job is to suggest optimal file naming and organization strategies.
Focus on clarity, discoverability, and following industry conventions.
Always respond with valid JSON.`

// typeSpecificHints extends the system prompt with per-bucket guidance.
var typeSpecificHints = map[model.ContentType]string{
	model.ContentTypeImage:    "For images, include relevant metadata like date, subject, resolution in the name.",
	model.ContentTypeDocument: "For documents, include version, date, and document type.",
	model.ContentTypeMedia:    "For media files, include format, duration, and content type when relevant.",
	model.ContentTypeArchive:  "For archives, include version and content type indicators.",
	model.ContentTypeCode:     "For code files, include language and module/purpose.",
	model.ContentTypeText:     "For text files, include topic and date if relevant.",
}

// buildSystemPrompt assembles the bucket-aware system prompt.
func buildSystemPrompt(contentType model.ContentType) string {
	prompt := baseSystemPrompt
	if hint, ok := typeSpecificHints[contentType]; ok {
		prompt += "\n" + hint
	}
	return prompt
}

// buildSuggestionPrompt renders the per-file instruction requiring JSON
// output with the suggestion fields.
func buildSuggestionPrompt(file model.FileRecord) string {
	return fmt.Sprintf(`Analyze this file and suggest how to organize it.

FILE DETAILS:
- Filename: %s
- Type: %s
- MIME Type: %s
- Size: %d bytes
- Last Modified: %s
- Content: %s

Respond in JSON format with:
{
  "suggested_name": "descriptive_filename.ext",
  "suggested_category": "category_name",
  "suggested_tags": ["tag1", "tag2", "tag3"],
  "confidence": 0.95,
  "reasoning": "brief explanation"
}

Ensure the suggested name is:
- Descriptive but concise
- Following naming conventions for the file type
- Including relevant metadata (date, version, etc. if applicable)`,
		file.Filename,
		file.ContentType,
		file.MimeType,
		file.Size,
		file.ModifiedAt.Format(time.RFC3339),
		file.ContentSummary,
	)
}
