package coursemark

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-coursemark/internal/pipeline"
)

// Mode selects what Convert does with its input.
type Mode string

// Conversion modes.
const (
	ModeArticle       Mode = "article"       // article markup -> HTML
	ModeCourse        Mode = "course"        // course markup -> HTML and quiz items
	ModePreparse      Mode = "preparse"      // markup -> editor-ready markup
	ModePostserialize Mode = "postserialize" // editor HTML -> markup
	ModeEditor        Mode = "editor"        // markup -> editor preview HTML
)

// Modes returns all conversion modes in a stable order.
func Modes() []Mode {
	return []Mode{ModeArticle, ModeCourse, ModePreparse, ModePostserialize, ModeEditor}
}

// ParseMode resolves a mode name case-insensitively. Empty means article.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeArticle, nil
	}
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// ProducesHTML reports whether the mode's primary output is HTML.
func (m Mode) ProducesHTML() bool {
	switch m {
	case ModeArticle, ModeCourse, ModeEditor:
		return true
	default:
		return false
	}
}

// Quiz types decoded from QUIZ_JSON regions.
type (
	QuizSection  = pipeline.QuizSection
	QuizQuestion = pipeline.QuizQuestion
	QuizOption   = pipeline.QuizOption
	QuizID       = pipeline.QuizID
)

// Table schema types accepted by WithTableSchemas.
type TableSchema = pipeline.TableSchema

// ItemType discriminates ContentItem.
type ItemType string

// Content item types.
const (
	ItemHTML ItemType = "html"
	ItemQuiz ItemType = "quiz"
)

// ContentItem is one piece of a course page: rendered HTML or a quiz.
type ContentItem struct {
	Type ItemType
	HTML string       // set when Type is ItemHTML
	Quiz *QuizSection // set when Type is ItemQuiz
}

// MarshalJSON encodes the item as {"type": ..., "content": ...}.
func (c ContentItem) MarshalJSON() ([]byte, error) {
	var content any
	switch c.Type {
	case ItemHTML:
		content = c.HTML
	case ItemQuiz:
		content = c.Quiz
	default:
		return nil, fmt.Errorf("unknown content item type %q", c.Type)
	}

	// HTML is left unescaped here; json.Marshal still escapes it, an
	// Encoder with SetEscapeHTML(false) keeps it readable.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(struct {
		Type    ItemType `json:"type"`
		Content any      `json:"content"`
	}{Type: c.Type, Content: content})
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Input contains conversion parameters.
type Input struct {
	Content    string // markup, or editor HTML for ModePostserialize
	Mode       Mode   // empty means ModeArticle
	Title      string // document title when Standalone
	Standalone bool   // wrap HTML output in a full document
	CSS        string // extra CSS appended after the converter style
}

// Result holds conversion output. Which fields are set depends on the mode.
type Result struct {
	Mode     Mode
	HTML     string        // article, course, editor
	Markdown string        // preparse, postserialize
	Items    []ContentItem // course
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout       time.Duration
	styleInput    string // name, file path, or CSS content
	resolvedStyle string
	assetPath     string
	markers       []string
	schemas       []TableSchema
	schemasSet    bool // WithTableSchemas was applied, even with none
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the conversion timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("coursemark: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithTableSchemas replaces the known table schemas. An empty list disables
// schema matching, so every table is split on its delimiters. Without this
// option the default schemas apply.
func WithTableSchemas(schemas []TableSchema) Option {
	return func(c *Converter) {
		c.cfg.schemas = append([]TableSchema(nil), schemas...)
		c.cfg.schemasSet = true
	}
}

// WithTableMarkers replaces the words that open a table block.
func WithTableMarkers(markers ...string) Option {
	return func(c *Converter) {
		c.cfg.markers = append([]string(nil), markers...)
	}
}

// WithDOMParser sets the DOM capability used by PostserializeAlertBlocks.
// A nil parser makes postserialize a passthrough.
func WithDOMParser(p pipeline.DOMParser) Option {
	return func(c *Converter) {
		c.domParser = p
	}
}

// WithLogger sets the logger that receives fallback events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Converter) {
		c.logger = l
	}
}

// WithStyle sets the stylesheet for standalone documents.
// Accepts a style name ("default", "minimal"), a file path, or CSS content.
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = style
	}
}

// WithAssetPath sets a directory whose styles/ override the embedded ones.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}
