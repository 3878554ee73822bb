package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrDocumentRender indicates the standalone document template failed.
var ErrDocumentRender = errors.New("document template rendering failed")

// documentTemplate wraps a rendered fragment in a complete HTML5 document.
// Content is right-to-left Hebrew by default.
const documentTemplate = `<!DOCTYPE html>
<html lang="{{.Lang}}" dir="{{.Dir}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body>
<article class="content-body">
{{.Body}}
</article>
</body>
</html>`

// DocumentData holds the fields of a standalone document.
type DocumentData struct {
	Title string
	Lang  string // default "he"
	Dir   string // default "rtl"
	Body  string // trusted HTML fragment
}

// DocumentWrapper renders fragments into standalone HTML documents.
type DocumentWrapper struct {
	tmpl *template.Template
}

// NewDocumentWrapper parses the document template.
func NewDocumentWrapper() (*DocumentWrapper, error) {
	tmpl, err := template.New("document").Parse(documentTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}
	return &DocumentWrapper{tmpl: tmpl}, nil
}

// Wrap renders data into a document. The body is trusted: it is the output
// of this package's renderers.
func (w *DocumentWrapper) Wrap(ctx context.Context, data DocumentData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if data.Lang == "" {
		data.Lang = "he"
	}
	if data.Dir == "" {
		data.Dir = "rtl"
	}
	if data.Title == "" {
		data.Title = "Document"
	}

	var buf bytes.Buffer
	err := w.tmpl.Execute(&buf, struct {
		Title, Lang, Dir string
		Body             template.HTML
	}{
		Title: data.Title,
		Lang:  data.Lang,
		Dir:   data.Dir,
		Body:  template.HTML(data.Body), // #nosec G203 -- renderer output
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}
	return buf.String(), nil
}

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// Compile-time interface check.
var _ CSSInjector = (*CSSInjection)(nil)
