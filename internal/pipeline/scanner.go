package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Dialect selects the block and inline grammar of a content variant.
type Dialect struct {
	Name   string
	Inline InlineRules
	Tables bool // recognize table blocks
}

// Content dialects.
var (
	ArticleDialect = Dialect{Name: "article", Inline: ArticleInline, Tables: true}
	CourseDialect  = Dialect{Name: "course", Inline: CourseInline}
)

// blockKind classifies a single trimmed line.
type blockKind int

const (
	kindBlank blockKind = iota
	kindAlert
	kindTable
	kindHeading
	kindRule
	kindUnordered
	kindOrdered
	kindQuote
	kindParagraph
)

var (
	headingPattern   = regexp.MustCompile(`^(#{1,4})\s+(.*)$`)
	unorderedPattern = regexp.MustCompile(`^[*-]\s+(.*)$`)
	orderedPattern   = regexp.MustCompile(`^(\d+)\.\s+(.*)$`)
	quotePattern     = regexp.MustCompile(`^>\s+(.*)$`)
)

// lineCursor walks trimmed source lines. Block readers consume lines only
// through advance.
type lineCursor struct {
	lines []string
	pos   int
}

func newLineCursor(content string) *lineCursor {
	lines := splitLines(content)
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return &lineCursor{lines: lines}
}

func (c *lineCursor) done() bool { return c.pos >= len(c.lines) }

func (c *lineCursor) peek() string {
	if c.done() {
		return ""
	}
	return c.lines[c.pos]
}

func (c *lineCursor) advance() string {
	line := c.peek()
	if !c.done() {
		c.pos++
	}
	return line
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithTableRegistry sets the table schemas and markers.
func WithTableRegistry(r *TableRegistry) ScannerOption {
	return func(s *Scanner) {
		if r != nil {
			s.tables = r
		}
	}
}

// WithScannerLogger sets the logger used to report silent fallbacks.
func WithScannerLogger(l zerolog.Logger) ScannerOption {
	return func(s *Scanner) {
		s.log = l
	}
}

// Scanner converts line-oriented content markup into HTML blocks.
// A Scanner holds no per-call state and is safe for concurrent use.
type Scanner struct {
	dialect Dialect
	tables  *TableRegistry
	log     zerolog.Logger
}

// NewScanner creates a Scanner for the given dialect.
func NewScanner(d Dialect, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		dialect: d,
		tables:  DefaultTableRegistry(),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dialect returns the scanner's dialect.
func (s *Scanner) Dialect() Dialect { return s.dialect }

// Render converts content to HTML. Blocks appear in source order, joined
// by newlines. Empty or whitespace-only content yields "".
func (s *Scanner) Render(content string) string {
	return strings.Join(s.Blocks(content), "\n")
}

// Blocks converts content to a sequence of HTML blocks.
func (s *Scanner) Blocks(content string) []string {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	c := newLineCursor(content)
	var blocks []string

	for !c.done() {
		switch s.classify(c.peek()) {
		case kindBlank:
			c.advance()
		case kindAlert:
			blocks = append(blocks, s.readAlert(c))
		case kindTable:
			blocks = append(blocks, s.readTable(c, content))
		case kindHeading:
			blocks = append(blocks, s.readHeading(c))
		case kindRule:
			c.advance()
			blocks = append(blocks, "<hr />")
		case kindUnordered:
			blocks = append(blocks, s.readUnordered(c))
		case kindOrdered:
			blocks = append(blocks, s.readOrdered(c))
		case kindQuote:
			blocks = append(blocks, s.readQuote(c))
		default:
			blocks = append(blocks, s.readParagraph(c))
		}
	}
	return blocks
}

// classify checks block-start patterns in fixed priority order.
func (s *Scanner) classify(line string) blockKind {
	switch {
	case line == "":
		return kindBlank
	case alertStartPattern.MatchString(line):
		return kindAlert
	case s.dialect.Tables && s.startsTable(line):
		return kindTable
	case headingPattern.MatchString(line):
		return kindHeading
	case line == "---" || line == "***" || line == "___":
		return kindRule
	case unorderedPattern.MatchString(line):
		return kindUnordered
	case orderedPattern.MatchString(line):
		return kindOrdered
	case quotePattern.MatchString(line):
		return kindQuote
	}
	return kindParagraph
}

func (s *Scanner) startsTable(line string) bool {
	_, _, ok := s.tables.MatchStart(line)
	return ok
}

// endsAlert reports whether line terminates an alert body.
func (s *Scanner) endsAlert(line string) bool {
	switch s.classify(line) {
	case kindBlank, kindAlert, kindTable, kindHeading, kindRule, kindUnordered, kindOrdered:
		return true
	}
	return false
}

func (s *Scanner) readAlert(c *lineCursor) string {
	token, text, _ := matchAlertStart(c.advance())

	alertType, known := ParseAlertType(token)
	if !known {
		s.log.Debug().Str("dialect", s.dialect.Name).Str("type", token).
			Msg("unknown alert type rendered as NOTE")
	}

	block := AlertBlock{Type: alertType, BodyLines: []string{text}}
	for !c.done() && !s.endsAlert(c.peek()) {
		block.BodyLines = append(block.BodyLines, c.advance())
	}
	return renderAlert(block, s.dialect.Inline)
}

func (s *Scanner) readTable(c *lineCursor, source string) string {
	label, caption, _ := s.tables.MatchStart(c.advance())
	table := TableBlock{Label: label, Caption: caption}

	for !c.done() && c.peek() == "" {
		c.advance()
	}
	if c.done() {
		return renderTable(table, s.dialect.Inline)
	}

	header := c.advance()
	schema, known := s.tables.Lookup(header, source)
	if known {
		table.Columns = schema.Columns
	} else {
		table.Columns = splitDelimited(header)
	}

	for !c.done() && s.classify(c.peek()) == kindParagraph {
		row := c.advance()
		table.Rows = append(table.Rows, s.tableRow(schema, row, len(table.Columns)))
	}
	return renderTable(table, s.dialect.Inline)
}

func (s *Scanner) tableRow(schema *TableSchema, row string, columns int) []TableCell {
	if schema != nil {
		if cells, ok := schema.SplitRow(row); ok {
			return cells
		}
		s.log.Debug().Str("table", schema.Name).Str("row", row).
			Msg("table row without known key rendered as wide cell")
		return wideRow(row, columns)
	}

	parts := splitDelimited(row)
	if len(parts) != columns {
		s.log.Debug().Int("columns", columns).Int("cells", len(parts)).Str("row", row).
			Msg("table row cell count mismatch rendered as wide cell")
		return wideRow(row, columns)
	}
	cells := make([]TableCell, len(parts))
	for i, p := range parts {
		cells[i] = TableCell{Text: p}
	}
	return cells
}

// readHeading renders "#".."####" as <h2>..<h5>; the hosting page owns <h1>.
func (s *Scanner) readHeading(c *lineCursor) string {
	m := headingPattern.FindStringSubmatch(c.advance())
	tag := "h" + strconv.Itoa(len(m[1])+1)
	return "<" + tag + ">" + StyleInline(m[2], s.dialect.Inline) + "</" + tag + ">"
}

func (s *Scanner) readUnordered(c *lineCursor) string {
	var b strings.Builder
	b.WriteString("<ul>")
	for !c.done() && s.classify(c.peek()) == kindUnordered {
		m := unorderedPattern.FindStringSubmatch(c.advance())
		b.WriteString("<li>")
		b.WriteString(StyleInline(m[1], s.dialect.Inline))
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}

// readOrdered keeps the first item's number as the start attribute.
// Items are not renumbered.
func (s *Scanner) readOrdered(c *lineCursor) string {
	first := orderedPattern.FindStringSubmatch(c.peek())

	var b strings.Builder
	b.WriteString(`<ol start="`)
	b.WriteString(first[1])
	b.WriteString(`">`)
	for !c.done() && s.classify(c.peek()) == kindOrdered {
		m := orderedPattern.FindStringSubmatch(c.advance())
		b.WriteString("<li>")
		b.WriteString(StyleInline(m[2], s.dialect.Inline))
		b.WriteString("</li>")
	}
	b.WriteString("</ol>")
	return b.String()
}

func (s *Scanner) readQuote(c *lineCursor) string {
	var lines []string
	for !c.done() && s.classify(c.peek()) == kindQuote {
		m := quotePattern.FindStringSubmatch(c.advance())
		lines = append(lines, StyleInline(m[1], s.dialect.Inline))
	}
	return "<blockquote><p>" + strings.Join(lines, "<br />") + "</p></blockquote>"
}

// readParagraph soft-wraps consecutive text lines with a single space.
func (s *Scanner) readParagraph(c *lineCursor) string {
	var lines []string
	for !c.done() && s.classify(c.peek()) == kindParagraph {
		lines = append(lines, c.advance())
	}
	return "<p>" + StyleInline(strings.Join(lines, " "), s.dialect.Inline) + "</p>"
}
