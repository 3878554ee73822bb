// Package pipeline implements the content markup conversion stages.
//
// This package handles the line-oriented markup used by articles and
// course pages:
//   - Inline styling (bold, italic, strikethrough, code, links, superscripts)
//   - Block scanning (alert blocks, tables, headings, rules, lists, quotes)
//   - Quiz segment splitting for course content
//   - Alert block round-tripping around a rich-text editor
//   - Editor previews via Goldmark
//   - Stylesheet injection for standalone documents
//
// All parsing functions are pure and total. Unrecognized input degrades to
// a literal rendering instead of an error.
package pipeline
