package coursemark

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/alnah/go-coursemark/internal/assets"
	"github.com/alnah/go-coursemark/internal/fileutil"
	"github.com/alnah/go-coursemark/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.DOMParser   = pipeline.GoqueryParser{}
	_ pipeline.CSSInjector = (*pipeline.CSSInjection)(nil)
)

// Converter renders content markup. It holds no per-call state and is safe
// for concurrent use.
type Converter struct {
	cfg         converterConfig
	logger      zerolog.Logger
	assetLoader assets.AssetLoader
	article     *pipeline.Scanner
	course      *pipeline.Scanner
	domParser   pipeline.DOMParser
	toMarkdown  pipeline.MarkdownConverter
	previewer   *pipeline.EditorPreviewer
	wrapper     *pipeline.DocumentWrapper
	cssInjector pipeline.CSSInjector
}

// NewConverter creates a Converter with default configuration.
// Returns error if the style cannot be resolved or the asset path is invalid.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:         converterConfig{timeout: defaultTimeout},
		logger:      zerolog.Nop(),
		assetLoader: assets.NewEmbeddedLoader(),
		domParser:   pipeline.GoqueryParser{},
		toMarkdown:  pipeline.DefaultMarkdownConverter,
		previewer:   pipeline.NewEditorPreviewer(),
		cssInjector: &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assetLoader = resolver
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	wrapper, err := pipeline.NewDocumentWrapper()
	if err != nil {
		return nil, fmt.Errorf("initializing document wrapper: %w", err)
	}
	c.wrapper = wrapper

	markers := c.cfg.markers
	if len(markers) == 0 {
		markers = pipeline.DefaultTableMarkers()
	}
	schemas := c.cfg.schemas
	if !c.cfg.schemasSet {
		schemas = pipeline.DefaultTableSchemas()
	}
	registry := pipeline.NewTableRegistry(markers, schemas)

	c.article = pipeline.NewScanner(pipeline.ArticleDialect,
		pipeline.WithTableRegistry(registry),
		pipeline.WithScannerLogger(c.logger.With().Str("dialect", "article").Logger()),
	)
	c.course = pipeline.NewScanner(pipeline.CourseDialect,
		pipeline.WithScannerLogger(c.logger.With().Str("dialect", "course").Logger()),
	)

	return c, nil
}

// FormatArticle renders article markup to HTML. Empty or whitespace-only
// content yields "".
func (c *Converter) FormatArticle(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	return c.article.Render(content)
}

// FormatCourse splits course markup into HTML and quiz items in source
// order. Empty or whitespace-only content yields an empty, non-nil slice.
func (c *Converter) FormatCourse(content string) []ContentItem {
	items := []ContentItem{}
	if strings.TrimSpace(content) == "" {
		return items
	}

	segments := pipeline.SplitQuizSegments(content, func(f pipeline.QuizFallback) {
		ev := c.logger.Debug().Int("offset", f.Offset)
		if f.Unterminated {
			ev.Msg("unterminated quiz block, rendering as text")
			return
		}
		ev.Err(f.Err).Msg("malformed quiz payload, rendering as text")
	})

	for _, seg := range segments {
		switch seg.Kind {
		case pipeline.SegmentQuiz:
			items = append(items, ContentItem{Type: ItemQuiz, Quiz: seg.Quiz})
		case pipeline.SegmentText:
			html := c.course.Render(seg.Text)
			if html == "" {
				continue
			}
			items = append(items, ContentItem{Type: ItemHTML, HTML: html})
		}
	}
	return items
}

// PreparseAlertBlocks rewrites alert markup into editor-safe divs.
func (c *Converter) PreparseAlertBlocks(markdown string) string {
	return pipeline.PreparseAlertBlocks(markdown)
}

// PostserializeAlertBlocks converts editor HTML back to markup. Without a DOM
// parser, or when conversion fails, the input is returned unchanged.
func (c *Converter) PostserializeAlertBlocks(htmlContent string) string {
	if c.domParser == nil {
		c.logger.Debug().Msg("no DOM parser configured, postserialize is a passthrough")
		return htmlContent
	}
	out, err := pipeline.PostserializeAlertBlocks(htmlContent, c.domParser, c.toMarkdown)
	if err != nil {
		c.logger.Debug().Err(err).Msg("postserialize failed, returning input unchanged")
	}
	return out
}

// Convert runs one mode over the input.
// The context is used for cancellation and timeout.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	mode, err := ParseMode(string(input.Mode))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Mode: mode}
	switch mode {
	case ModeArticle:
		res.HTML = c.FormatArticle(input.Content)
	case ModeCourse:
		res.Items = c.FormatCourse(input.Content)
		res.HTML = renderItems(res.Items)
	case ModePreparse:
		res.Markdown = c.PreparseAlertBlocks(input.Content)
	case ModePostserialize:
		res.Markdown = c.PostserializeAlertBlocks(input.Content)
	case ModeEditor:
		res.HTML, err = c.previewer.Preview(ctx, input.Content)
		if err != nil {
			return nil, fmt.Errorf("rendering editor preview: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if input.Standalone && mode.ProducesHTML() {
		res.HTML, err = c.standalone(ctx, res.HTML, input)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// StyleNames lists the style names this converter can load, including
// those under the configured asset path.
func (c *Converter) StyleNames() []string {
	return c.assetLoader.StyleNames()
}

// standalone wraps a fragment in a document and embeds the stylesheet.
// Order matters: converter style first (base), user CSS last (can override).
func (c *Converter) standalone(ctx context.Context, body string, input Input) (string, error) {
	doc, err := c.wrapper.Wrap(ctx, pipeline.DocumentData{Title: input.Title, Body: body})
	if err != nil {
		return "", fmt.Errorf("wrapping document: %w", err)
	}

	css := c.cfg.resolvedStyle
	if input.CSS != "" {
		css += "\n" + input.CSS
	}
	doc = c.cssInjector.InjectCSS(ctx, doc, css)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return doc, nil
}

// renderItems flattens course items into one HTML fragment, quizzes
// rendered statically.
func renderItems(items []ContentItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		switch item.Type {
		case ItemHTML:
			parts = append(parts, item.HTML)
		case ItemQuiz:
			parts = append(parts, pipeline.RenderQuizStatic(item.Quiz))
		}
	}
	return strings.Join(parts, "\n")
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS content.
// An empty input loads the default style.
func (c *Converter) resolveStyle() error {
	input := c.cfg.styleInput
	if input == "" {
		input = assets.DefaultStyleName
	}

	// File path? (contains / or \)
	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.cfg.resolvedStyle = string(content)
		return nil
	}

	// CSS content? (contains {)
	if fileutil.IsCSS(input) {
		c.cfg.resolvedStyle = input
		return nil
	}

	css, err := c.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, err)
	}
	c.cfg.resolvedStyle = css
	return nil
}
