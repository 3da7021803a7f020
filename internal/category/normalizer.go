// Package category maps free-text category suggestions onto the fixed
// vocabulary of destination folder names.
package category

import "strings"

// FallbackCategory is used when no bucket matches and the input is too
// long or wordy to pass through verbatim.
const FallbackCategory = "Other"

// bucket pairs a destination folder name with the keywords that map
// onto it. Buckets are checked in order, so overlapping keywords
// resolve deterministically.
type bucket struct {
	name     string
	keywords []string
}

// buckets is the fixed, ordered destination vocabulary.
var buckets = []bucket{
	{name: "Documents", keywords: []string{"doc", "pdf", "report", "paper", "text", "letter", "invoice", "spreadsheet", "presentation", "word", "excel", "receipt"}},
	{name: "Images", keywords: []string{"image", "photo", "picture", "screenshot", "graphic", "wallpaper", "img", "scan"}},
	{name: "Videos", keywords: []string{"video", "movie", "film", "clip", "recording"}},
	{name: "Audio", keywords: []string{"audio", "music", "song", "sound", "podcast", "voice"}},
	{name: "Code", keywords: []string{"code", "script", "source", "program", "software", "dev"}},
	{name: "Archives", keywords: []string{"archive", "zip", "compressed", "backup"}},
	{name: "Logs & Configs", keywords: []string{"log", "config", "setting"}},
	{name: "Data", keywords: []string{"data", "dataset", "csv", "json", "database", "export"}},
}

// passThroughMaxLen is the longest trimmed input that may pass through
// verbatim when no bucket matches.
const passThroughMaxLen = 30

// passThroughMaxWords bounds the word count of verbatim pass-through.
const passThroughMaxWords = 3

// Normalize maps arbitrary category text onto the fixed destination
// vocabulary. It is pure: same input always yields same output, and it
// never returns an empty string. Blank input maps to Other; unmatched
// input passes through verbatim only when it is short and low on words.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return FallbackCategory
	}

	lowered := strings.ToLower(trimmed)
	for _, b := range buckets {
		for _, kw := range b.keywords {
			if strings.Contains(lowered, kw) {
				return b.name
			}
		}
	}

	if len(trimmed) < passThroughMaxLen && len(strings.Fields(trimmed)) < passThroughMaxWords {
		return trimmed
	}

	return FallbackCategory
}
