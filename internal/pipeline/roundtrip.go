package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// editorAlertPattern matches an alert marker as the editor integration sees
// it: only the four known types, case-insensitive.
var editorAlertPattern = regexp.MustCompile(`(?i)^>>>\s*(INFO|TIP|NOTE|WARNING):\s?(.*)$`)

// alertBlockSelector selects alert containers produced by PreparseAlertBlocks.
const alertBlockSelector = "div[data-alert-block][data-alert-type]"

// PreparseAlertBlocks rewrites ">>> TYPE: content" blocks into alert divs a
// rich-text editor can load. Content runs until a blank line, another alert
// marker, or the end of input. Each non-blank content line becomes one <p>
// with < and > escaped. All other lines pass through unchanged.
func PreparseAlertBlocks(markdown string) string {
	if markdown == "" {
		return ""
	}

	lines := splitLines(markdown)
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); {
		m := editorAlertPattern.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if m == nil {
			out = append(out, lines[i])
			i++
			continue
		}

		content := []string{m[2]}
		i++
		for i < len(lines) {
			next := strings.TrimSpace(lines[i])
			if next == "" || editorAlertPattern.MatchString(next) {
				break
			}
			content = append(content, lines[i])
			i++
		}
		out = append(out, editorAlertDiv(strings.ToLower(m[1]), content))
	}
	return strings.Join(out, "\n")
}

func editorAlertDiv(alertType string, content []string) string {
	var b strings.Builder
	b.WriteString(`<div data-alert-block data-alert-type="`)
	b.WriteString(alertType)
	b.WriteString(`">`)
	for _, line := range content {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(escapeAngles(line))
		b.WriteString("</p>")
	}
	b.WriteString("</div>")
	return b.String()
}

func escapeAngles(s string) string {
	return strings.NewReplacer("<", "&lt;", ">", "&gt;").Replace(s)
}

// DOMParser parses an HTML document into a queryable DOM.
type DOMParser interface {
	Parse(htmlContent string) (*goquery.Document, error)
}

// GoqueryParser is a headless DOMParser built on golang.org/x/net/html.
type GoqueryParser struct{}

// Parse implements DOMParser.
func (GoqueryParser) Parse(htmlContent string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
}

// Compile-time interface check.
var _ DOMParser = GoqueryParser{}

// MarkdownConverter converts an HTML fragment to Markdown.
type MarkdownConverter func(htmlContent string) (string, error)

// DefaultMarkdownConverter uses html-to-markdown with its default plugins.
func DefaultMarkdownConverter(htmlContent string) (string, error) {
	return htmltomarkdown.ConvertString(htmlContent)
}

// PostserializeAlertBlocks converts edited HTML back to content markup.
// Each alert div becomes "\n\n>>> TYPE: markdown\n\n"; the remaining body
// is converted with toMarkdown. A nil parser is a passthrough, as is
// any DOM or conversion failure; the error reports why.
//
// The two directions are not inverses: everything outside alert divs goes
// through generic HTML-to-Markdown conversion here but was never touched by
// PreparseAlertBlocks.
func PostserializeAlertBlocks(htmlContent string, parser DOMParser, toMarkdown MarkdownConverter) (string, error) {
	if parser == nil {
		return htmlContent, nil
	}
	if toMarkdown == nil {
		toMarkdown = DefaultMarkdownConverter
	}

	doc, err := parser.Parse(htmlContent)
	if err != nil {
		return htmlContent, fmt.Errorf("parsing HTML: %w", err)
	}

	var (
		alerts  []string
		convErr error
	)
	doc.Find(alertBlockSelector).Each(func(_ int, sel *goquery.Selection) {
		if convErr != nil {
			return
		}
		inner, err := sel.Html()
		if err != nil {
			convErr = err
			return
		}
		md, err := toMarkdown(inner)
		if err != nil {
			convErr = err
			return
		}

		alertType := strings.ToUpper(sel.AttrOr("data-alert-type", ""))
		alerts = append(alerts, "\n\n>>> "+alertType+": "+strings.TrimSpace(md)+"\n\n")

		sel.ReplaceWithNodes(&html.Node{
			Type: html.TextNode,
			Data: alertPlaceholder(len(alerts) - 1),
		})
	})
	if convErr != nil {
		return htmlContent, fmt.Errorf("converting alert block: %w", convErr)
	}

	body, err := doc.Find("body").Html()
	if err != nil {
		return htmlContent, fmt.Errorf("rendering body: %w", err)
	}
	md, err := toMarkdown(body)
	if err != nil {
		return htmlContent, fmt.Errorf("converting body: %w", err)
	}

	for i, alert := range alerts {
		md = spliceAlert(md, alertPlaceholder(i), alert)
	}
	return strings.TrimSpace(compressBlankLines(md)), nil
}

// spliceAlert replaces placeholder with alert and drops the spaces and tabs
// around it, so inline neighbors do not start or end a line with a space.
func spliceAlert(md, placeholder, alert string) string {
	before, after, found := strings.Cut(md, placeholder)
	if !found {
		return md
	}
	return strings.TrimRight(before, " \t") + alert + strings.TrimLeft(after, " \t")
}

func alertPlaceholder(i int) string {
	return AlertStartPlaceholder + strconv.Itoa(i) + AlertEndPlaceholder
}
