package pipeline

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// TableSchema declares the layout of one known table. Headers of known
// tables are single undelimited strings, so the schema supplies the columns
// and the row labels used to split each data row into cells.
type TableSchema struct {
	Name      string   // identifier used in logs and config
	Header    string   // exact header line that selects this schema
	Columns   []string // 2 or 3 column titles
	Keys      []string // known row labels
	SplitKeys []string // labels whose value may fill two cells in a 3-column table
	Context   string   // if set, schema applies only when the source contains it
}

// TableRegistry holds the table markers and the known table schemas.
// Schemas are tried in order; the first match wins.
type TableRegistry struct {
	markers []string
	schemas []TableSchema
}

// DefaultTableMarkers returns the tokens that open a table line.
// The second spelling appears in imported legacy content.
func DefaultTableMarkers() []string {
	return []string{"טבלה", "טbלה"}
}

// DefaultTableSchemas returns the schemas of the tables used in course and
// article content. Context-specific schemas come before the general one that
// shares their header.
func DefaultTableSchemas() []TableSchema {
	tools := []string{"ChatGPT", "Claude", "Gemini", "Midjourney", "Perplexity"}
	return []TableSchema{
		{
			Name:    "glossary",
			Header:  "מונחהסבר",
			Columns: []string{"מונח", "הסבר"},
			Keys:    []string{"בינה מלאכותית", "למידת מכונה", "למידה עמוקה", "מודל שפה גדול", "הנדסת פרומפטים"},
		},
		{
			Name:    "tools-free-track",
			Header:  "כלישימושמחיר",
			Columns: []string{"כלי", "שימוש"},
			Keys:    tools,
			Context: "מסלול חינמי",
		},
		{
			Name:      "tools-pricing",
			Header:    "כלישימושמחיר",
			Columns:   []string{"כלי", "שימוש", "מחיר"},
			Keys:      tools,
			SplitKeys: []string{"ChatGPT", "Claude", "Gemini", "Perplexity"},
		},
	}
}

// DefaultTableRegistry returns a registry with the default markers and schemas.
func DefaultTableRegistry() *TableRegistry {
	return NewTableRegistry(DefaultTableMarkers(), DefaultTableSchemas())
}

// NewTableRegistry creates a registry. Empty markers fall back to
// DefaultTableMarkers. Keys are sorted longest first so the longest
// matching label wins.
func NewTableRegistry(markers []string, schemas []TableSchema) *TableRegistry {
	if len(markers) == 0 {
		markers = DefaultTableMarkers()
	}

	r := &TableRegistry{
		markers: append([]string(nil), markers...),
		schemas: make([]TableSchema, len(schemas)),
	}
	for i, s := range schemas {
		s.Keys = sortedLongestFirst(s.Keys)
		r.schemas[i] = s
	}
	return r
}

// Schemas returns a copy of the registered schemas.
func (r *TableRegistry) Schemas() []TableSchema {
	return append([]TableSchema(nil), r.schemas...)
}

// MatchStart reports whether line opens a table. The label is the marker
// and its number ("טבלה 1"); the caption is the text after the colon.
func (r *TableRegistry) MatchStart(line string) (label, caption string, ok bool) {
	for _, marker := range r.markers {
		rest, found := strings.CutPrefix(line, marker+" ")
		if !found {
			continue
		}
		before, after, found := strings.Cut(rest, ":")
		if !found {
			continue
		}
		return strings.TrimSpace(marker + " " + before), strings.TrimSpace(after), true
	}
	return "", "", false
}

// Lookup returns the first schema whose header equals header and whose
// context, if any, occurs in source.
func (r *TableRegistry) Lookup(header, source string) (*TableSchema, bool) {
	header = strings.TrimSpace(header)
	for i := range r.schemas {
		s := &r.schemas[i]
		if s.Header != header {
			continue
		}
		if s.Context != "" && !strings.Contains(source, s.Context) {
			continue
		}
		return s, true
	}
	return nil, false
}

// SplitRow splits a data row into cells using the schema's known keys.
// Reports false when the row does not begin with a known key.
func (s *TableSchema) SplitRow(row string) ([]TableCell, bool) {
	key, ok := s.matchKey(row)
	if !ok {
		return nil, false
	}
	value := trimCellValue(row[len(key):])

	if len(s.Columns) >= 3 {
		parts := strings.Fields(value)
		if s.splits(key) && len(parts) >= 2 {
			return []TableCell{
				{Text: key},
				{Text: strings.Join(parts[:len(parts)-1], " ")},
				{Text: parts[len(parts)-1]},
			}, true
		}
		return []TableCell{
			{Text: key},
			{Text: value, Span: len(s.Columns) - 1},
		}, true
	}
	return []TableCell{{Text: key}, {Text: value}}, true
}

func (s *TableSchema) matchKey(row string) (string, bool) {
	for _, k := range s.Keys {
		if k != "" && strings.HasPrefix(row, k) {
			return k, true
		}
	}
	return "", false
}

func (s *TableSchema) splits(key string) bool {
	for _, k := range s.SplitKeys {
		if k == key {
			return true
		}
	}
	return false
}

// TableCell is one rendered cell. Span > 1 sets colspan.
type TableCell struct {
	Text string
	Span int
}

// TableBlock is a parsed table ready for rendering.
type TableBlock struct {
	Label   string
	Caption string
	Columns []string
	Rows    [][]TableCell
}

var multiSpace = regexp.MustCompile(`\s{2,}`)

// splitDelimited splits an unknown table line on "|", tab, or runs of two
// or more spaces, in that order of preference.
func splitDelimited(line string) []string {
	var parts []string
	switch {
	case strings.Contains(line, "|"):
		parts = strings.Split(strings.Trim(line, "|"), "|")
	case strings.Contains(line, "\t"):
		parts = strings.Split(line, "\t")
	default:
		parts = multiSpace.Split(line, -1)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// wideRow echoes a raw line as one cell spanning the whole table.
func wideRow(line string, columns int) []TableCell {
	if columns < 1 {
		columns = 1
	}
	return []TableCell{{Text: line, Span: columns}}
}

func trimCellValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, ":-–")
	return strings.TrimSpace(s)
}

func sortedLongestFirst(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i]) > len(out[j])
	})
	return out
}

// renderTable renders a table with caption, one header row, and body rows
// with alternating row classes.
func renderTable(t TableBlock, rules InlineRules) string {
	var b strings.Builder
	b.WriteString(`<div class="content-table-wrapper"><table class="content-table">`)

	if t.Label != "" || t.Caption != "" {
		b.WriteString(`<caption>`)
		if t.Label != "" {
			b.WriteString(`<span class="content-table__label">`)
			b.WriteString(t.Label)
			b.WriteString(`</span> `)
		}
		b.WriteString(StyleInline(t.Caption, rules))
		b.WriteString(`</caption>`)
	}

	if len(t.Columns) > 0 {
		b.WriteString(`<thead><tr>`)
		for _, col := range t.Columns {
			b.WriteString(`<th>`)
			b.WriteString(StyleInline(col, rules))
			b.WriteString(`</th>`)
		}
		b.WriteString(`</tr></thead>`)
	}

	b.WriteString(`<tbody>`)
	for i, row := range t.Rows {
		b.WriteString(`<tr class="content-table__row `)
		if i%2 == 0 {
			b.WriteString(`content-table__row--even`)
		} else {
			b.WriteString(`content-table__row--odd`)
		}
		b.WriteString(`">`)
		for _, cell := range row {
			if cell.Span > 1 {
				b.WriteString(`<td colspan="`)
				b.WriteString(strconv.Itoa(cell.Span))
				b.WriteString(`">`)
			} else {
				b.WriteString(`<td>`)
			}
			b.WriteString(StyleInline(cell.Text, rules))
			b.WriteString(`</td>`)
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table></div>`)
	return b.String()
}
