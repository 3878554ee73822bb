package pipeline

// Notes:
// - The two directions are tested independently. They are not inverses, so
//   no round-trip equality is asserted.
// - Algorithm tests use a stub Markdown converter so the expected output does
//   not depend on html-to-markdown's formatting choices.

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// ---------------------------------------------------------------------------
// TestPreparseAlertBlocks - Markdown to editor HTML
// ---------------------------------------------------------------------------

func TestPreparseAlertBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "no alerts pass through",
			input: "# Heading\n**text**",
			want:  "# Heading\n**text**",
		},
		{
			name:  "single line alert",
			input: ">>> TIP: use it",
			want:  `<div data-alert-block data-alert-type="tip"><p>use it</p></div>`,
		},
		{
			name:  "multi-line alert escapes angle brackets",
			input: ">>> WARNING: a <b>\nsecond > line\n\nafter",
			want:  `<div data-alert-block data-alert-type="warning"><p>a &lt;b&gt;</p><p>second &gt; line</p></div>` + "\n\nafter",
		},
		{
			name:  "consecutive alerts",
			input: ">>> INFO: a\n>>> note: b",
			want:  `<div data-alert-block data-alert-type="info"><p>a</p></div>` + "\n" + `<div data-alert-block data-alert-type="note"><p>b</p></div>`,
		},
		{
			name:  "empty first line is skipped",
			input: ">>> INFO:\nbody",
			want:  `<div data-alert-block data-alert-type="info"><p>body</p></div>`,
		},
		{
			name:  "surrounding text unchanged",
			input: "before\n>>> TIP: x\n\n- list",
			want:  "before\n" + `<div data-alert-block data-alert-type="tip"><p>x</p></div>` + "\n\n- list",
		},
		{
			name:  "unknown types are not alerts for the editor",
			input: ">>> DANGER: x",
			want:  ">>> DANGER: x",
		},
		{
			name:  "quiz marker untouched",
			input: ">>> QUIZ_JSON:\n{}\n<<< QUIZ_JSON_END",
			want:  ">>> QUIZ_JSON:\n{}\n<<< QUIZ_JSON_END",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := PreparseAlertBlocks(tt.input)
			if got != tt.want {
				t.Errorf("PreparseAlertBlocks(%q) =\n%q\nwant\n%q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPostserializeAlertBlocks - Editor HTML back to markup
// ---------------------------------------------------------------------------

// bracketMarkdown is a stub converter that tags its input.
func bracketMarkdown(h string) (string, error) {
	return "[md:" + h + "]", nil
}

func TestPostserializeAlertBlocks_Algorithm(t *testing.T) {
	t.Parallel()

	input := `<p>Before</p><div data-alert-block data-alert-type="tip"><p>x</p></div><p>After</p>`
	got, err := PostserializeAlertBlocks(input, GoqueryParser{}, bracketMarkdown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"[md:<p>Before</p>",
		">>> TIP: [md:<p>x</p>]",
		"<p>After</p>]",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q: %q", want, got)
		}
	}
	if strings.Contains(got, "data-alert-block") {
		t.Errorf("alert div not replaced: %q", got)
	}
	if strings.ContainsAny(got, AlertStartPlaceholder+AlertEndPlaceholder) {
		t.Errorf("placeholder left in output: %q", got)
	}
}

func TestPostserializeAlertBlocks_RequiresTypeAttribute(t *testing.T) {
	t.Parallel()

	input := `<div data-alert-block><p>x</p></div>`
	got, err := PostserializeAlertBlocks(input, GoqueryParser{}, bracketMarkdown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(got, ">>>") {
		t.Errorf("div without type serialized as alert: %q", got)
	}
}

func TestPostserializeAlertBlocks_DefaultConverter(t *testing.T) {
	t.Parallel()

	input := `<div data-alert-block data-alert-type="warning"><p>Hello <strong>world</strong></p></div><p>After</p>`
	got, err := PostserializeAlertBlocks(input, GoqueryParser{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(got, ">>> WARNING: Hello **world**") {
		t.Errorf("output = %q, want alert markup first", got)
	}
	if !strings.Contains(got, "After") {
		t.Errorf("output missing trailing paragraph: %q", got)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("output has more than one blank line in a row: %q", got)
	}
}

func TestPostserializeAlertBlocks_InlineAlertHasNoStraySpaces(t *testing.T) {
	t.Parallel()

	input := `<p>inline x <span data-alert-block data-alert-type="info">i</span> tail</p>`
	got, err := PostserializeAlertBlocks(input, GoqueryParser{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got, ">>> INFO: i") {
		t.Errorf("output = %q, want inline alert serialized", got)
	}
	for _, line := range strings.Split(got, "\n") {
		if line != strings.TrimSpace(line) {
			t.Errorf("line %q has leading or trailing spaces in %q", line, got)
		}
	}
}

func TestSpliceAlert(t *testing.T) {
	t.Parallel()

	const ph = AlertStartPlaceholder + "0" + AlertEndPlaceholder
	alert := "\n\n>>> TIP: x\n\n"

	tests := []struct {
		name string
		md   string
		want string
	}{
		{"spaces around", "a " + ph + " b", "a\n\n>>> TIP: x\n\nb"},
		{"tabs around", "a\t" + ph + "\tb", "a\n\n>>> TIP: x\n\nb"},
		{"no neighbors", ph, alert},
		{"newlines kept", "a\n" + ph + "\nb", "a\n" + alert + "\nb"},
		{"missing placeholder", "a b", "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := spliceAlert(tt.md, ph, alert); got != tt.want {
				t.Errorf("spliceAlert(%q) = %q, want %q", tt.md, got, tt.want)
			}
		})
	}
}

func TestPostserializeAlertBlocks_NilParserPassthrough(t *testing.T) {
	t.Parallel()

	input := `<div data-alert-block data-alert-type="tip"><p>x</p></div>`
	got, err := PostserializeAlertBlocks(input, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != input {
		t.Errorf("PostserializeAlertBlocks() = %q, want passthrough", got)
	}
}

type failingParser struct{}

func (failingParser) Parse(string) (*goquery.Document, error) {
	return nil, errors.New("boom")
}

func TestPostserializeAlertBlocks_FailuresPassThrough(t *testing.T) {
	t.Parallel()

	errConvert := errors.New("convert failed")

	tests := []struct {
		name       string
		parser     DOMParser
		toMarkdown MarkdownConverter
	}{
		{
			name:       "parser error",
			parser:     failingParser{},
			toMarkdown: bracketMarkdown,
		},
		{
			name:   "converter error",
			parser: GoqueryParser{},
			toMarkdown: func(string) (string, error) {
				return "", errConvert
			},
		},
	}

	input := `<div data-alert-block data-alert-type="tip"><p>x</p></div>`
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := PostserializeAlertBlocks(input, tt.parser, tt.toMarkdown)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got != input {
				t.Errorf("PostserializeAlertBlocks() = %q, want passthrough", got)
			}
		})
	}
}
