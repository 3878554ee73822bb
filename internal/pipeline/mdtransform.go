package pipeline

import (
	"regexp"
	"strings"
)

// Alert placeholders use Unicode Private Use Area characters.
// They survive HTML-to-Markdown conversion untouched, so the converter
// never escapes the ">>>" marker of a serialized alert block.
const (
	AlertStartPlaceholder = "\uE002" // U+E002: Private Use Area
	AlertEndPlaceholder   = "\uE003" // U+E003: Private Use Area
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to max 2
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
)

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to 2 maximum.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// splitLines normalizes line endings and splits content on \n.
func splitLines(content string) []string {
	return strings.Split(normalizeLineEndings(content), "\n")
}
