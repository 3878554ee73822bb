// Package coursemark renders the lightweight content markup used by course
// and article pages into HTML, and moves alert blocks in and out of a
// rich-text editor.
//
// # Quick Start
//
// The package-level functions use a shared default converter:
//
//	html := coursemark.FormatArticleContentToHTML("## כותרת\nפסקה ראשונה.")
//
//	items := coursemark.FormatCourseDetailedContent(lesson)
//	for _, item := range items {
//	    switch item.Type {
//	    case coursemark.ItemHTML:
//	        render(item.HTML)
//	    case coursemark.ItemQuiz:
//	        mountQuiz(item.Quiz)
//	    }
//	}
//
// # Markup
//
// The grammar is line-oriented:
//
//	# .. ####            headings (rendered one level down, h2 .. h5)
//	---, ***, ___        horizontal rule
//	* item, - item       unordered list
//	5. item              ordered list, keeps its start number
//	> quote              blockquote
//	>>> TIP: text        alert block (INFO, TIP, NOTE, WARNING)
//	טבלה caption         table (articles only)
//	>>> QUIZ_JSON: ..    quiz payload, closed by <<< QUIZ_JSON_END (courses only)
//
// Parsing never fails. Unknown alert types render as NOTE, malformed quiz
// payloads stay in the text verbatim, and unknown table rows become a
// single full-width cell.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := coursemark.NewConverter(
//	    coursemark.WithTableSchemas(schemas),
//	    coursemark.WithLogger(logger),
//	    coursemark.WithStyle("minimal"),
//	)
//
// Convert runs one mode over an input and can wrap HTML output in a
// standalone document with an embedded stylesheet:
//
//	result, err := conv.Convert(ctx, coursemark.Input{
//	    Content:    lesson,
//	    Mode:       coursemark.ModeCourse,
//	    Title:      "שיעור 1",
//	    Standalone: true,
//	})
//
// # Editor Round Trip
//
// PreparseAlertBlocks turns alert markup into divs a rich-text editor keeps
// intact. PostserializeAlertBlocks turns the edited HTML back into markup.
// The two directions are not inverses.
package coursemark
