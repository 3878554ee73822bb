package coursemark

import "sync"

var (
	defaultOnce      sync.Once
	defaultConverter *Converter
)

// Default returns the shared converter used by the package-level functions.
func Default() *Converter {
	defaultOnce.Do(func() {
		c, err := NewConverter()
		if err != nil {
			// Only embedded assets are involved; failure is a build defect.
			panic("coursemark: default converter: " + err.Error())
		}
		defaultConverter = c
	})
	return defaultConverter
}

// FormatArticleContentToHTML renders article markup with default settings.
func FormatArticleContentToHTML(content string) string {
	return Default().FormatArticle(content)
}

// FormatCourseDetailedContent splits course markup into HTML and quiz items
// with default settings.
func FormatCourseDetailedContent(content string) []ContentItem {
	return Default().FormatCourse(content)
}

// PreparseAlertBlocks rewrites alert markup into editor-safe divs.
func PreparseAlertBlocks(markdown string) string {
	return Default().PreparseAlertBlocks(markdown)
}

// PostserializeAlertBlocks converts editor HTML back to markup with the
// headless goquery parser.
func PostserializeAlertBlocks(htmlContent string) string {
	return Default().PostserializeAlertBlocks(htmlContent)
}
