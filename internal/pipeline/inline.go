package pipeline

import (
	"regexp"
	"strings"
)

// InlineRules selects which inline markup rules StyleInline applies.
// Bold and italic are always applied.
type InlineRules struct {
	Strikethrough bool // ~~text~~
	Code          bool // `text`
	Links         bool // [text](url)
	Superscript   bool // <sup>...</sup> gets a styling class
}

// Inline rule sets used by the two dialects.
var (
	ArticleInline = InlineRules{Strikethrough: true, Code: true, Links: true}
	CourseInline  = InlineRules{Superscript: true}
)

var (
	boldPattern        = regexp.MustCompile(`\*\*(.+?)\*\*`)
	strikePattern      = regexp.MustCompile(`~~(.+?)~~`)
	codePattern        = regexp.MustCompile("`([^`]+)`")
	linkPattern        = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	superscriptPattern = regexp.MustCompile(`<sup>(.*?)</sup>`)
)

// StyleInline converts inline markup in a single line to HTML.
// Rules run in a fixed order so later patterns never re-match tags
// inserted by earlier ones. Unmatched markup is left as literal text.
func StyleInline(line string, rules InlineRules) string {
	if line == "" {
		return ""
	}

	line = boldPattern.ReplaceAllString(line, "<strong>$1</strong>")
	line = replaceItalic(line)

	if rules.Strikethrough {
		line = strikePattern.ReplaceAllString(line, "<del>$1</del>")
	}
	if rules.Code {
		line = codePattern.ReplaceAllString(line, "<code>$1</code>")
	}
	if rules.Links {
		line = linkPattern.ReplaceAllString(line,
			`<a href="$2" target="_blank" rel="noopener noreferrer">$1</a>`)
	}
	if rules.Superscript {
		line = superscriptPattern.ReplaceAllString(line, `<sup class="content-sup">$1</sup>`)
	}
	return line
}

// replaceItalic wraps *text* in <em>. An opening or closing asterisk must
// not touch another asterisk, and must not touch a word character on its
// outer side. RE2 has no lookaround, so the scan is done by hand.
func replaceItalic(s string) string {
	if !strings.Contains(s, "*") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 16)

	i := 0
	for i < len(s) {
		if s[i] != '*' || !italicOpens(s, i) {
			b.WriteByte(s[i])
			i++
			continue
		}

		end := italicCloser(s, i)
		if end < 0 {
			b.WriteByte(s[i])
			i++
			continue
		}

		b.WriteString("<em>")
		b.WriteString(s[i+1 : end])
		b.WriteString("</em>")
		i = end + 1
	}
	return b.String()
}

// italicOpens reports whether the asterisk at i can open an italic span.
func italicOpens(s string, i int) bool {
	if i > 0 && (s[i-1] == '*' || isWordByte(s[i-1])) {
		return false
	}
	return i+1 < len(s) && s[i+1] != '*'
}

// italicCloser returns the index of the asterisk closing the span opened at
// open, or -1. The content between them contains no asterisk.
func italicCloser(s string, open int) int {
	end := strings.IndexByte(s[open+1:], '*')
	if end < 0 {
		return -1
	}
	end += open + 1
	if end+1 < len(s) && (s[end+1] == '*' || isWordByte(s[end+1])) {
		return -1
	}
	return end
}

// isWordByte matches the ASCII word class [A-Za-z0-9_].
func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
