package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"html"
	"strconv"
	"strings"
)

// Quiz delimiters.
const (
	QuizStartMarker = ">>> QUIZ_JSON:"
	QuizEndMarker   = "<<< QUIZ_JSON_END"
)

// QuizID is a question or option identifier. Content authors write both
// "id": "q1" and "id": 1, so numbers are accepted and kept as text.
type QuizID string

// UnmarshalJSON accepts a JSON string or number. Any other value leaves the
// id empty so the rest of the section still decodes.
func (id *QuizID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = QuizID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*id = ""
		return nil
	}
	*id = QuizID(n.String())
	return nil
}

// QuizOption is one answer choice.
type QuizOption struct {
	ID   QuizID `json:"id"`
	Text string `json:"text"`
}

// QuizQuestion is one question of a quiz section.
type QuizQuestion struct {
	ID              QuizID       `json:"id"`
	QuestionText    string       `json:"questionText"`
	Options         []QuizOption `json:"options"`
	CorrectAnswerID QuizID       `json:"correctAnswerId"`
	Explanation     string       `json:"explanation,omitempty"`
}

// QuizSection is the payload of a QUIZ_JSON block.
//
// Raw holds the payload exactly as authored and is what MarshalJSON emits,
// so fields the typed view does not know survive. The typed fields are a
// best-effort view for static rendering.
type QuizSection struct {
	Title     string          `json:"title,omitempty"`
	Questions []QuizQuestion  `json:"questions"`
	Raw       json.RawMessage `json:"-"`
}

// MarshalJSON emits Raw when set and the typed fields otherwise.
func (q QuizSection) MarshalJSON() ([]byte, error) {
	if len(q.Raw) > 0 {
		return q.Raw, nil
	}

	type typed QuizSection
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(typed(q)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ParseQuizSection decodes a quiz payload. Only invalid JSON or a payload
// that is not a JSON object is an error. Values of the wrong type leave the
// matching typed fields empty.
func ParseQuizSection(payload string) (*QuizSection, error) {
	var raw json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &raw); err != nil {
		return nil, err
	}
	if raw[0] != '{' {
		return nil, errors.New("quiz payload is not a JSON object")
	}

	q := &QuizSection{Raw: raw}
	_ = json.Unmarshal(raw, q)
	return q, nil
}

// SegmentKind distinguishes text and quiz segments.
type SegmentKind int

// Segment kinds.
const (
	SegmentText SegmentKind = iota
	SegmentQuiz
)

// Segment is one region of course content: raw markup text to be scanned,
// or a decoded quiz.
type Segment struct {
	Kind SegmentKind
	Text string
	Quiz *QuizSection
}

// QuizFallback describes a delimited region that stayed literal text.
type QuizFallback struct {
	Offset       int
	Err          error
	Unterminated bool
}

// SplitQuizSegments splits content into text and quiz segments in source
// order. A region whose payload fails to decode stays in the surrounding
// text verbatim, delimiters included. So does an opening marker without a
// closing marker. Whitespace-only text segments are dropped.
// Fallbacks are reported through onFallback when it is non-nil.
func SplitQuizSegments(content string, onFallback func(QuizFallback)) []Segment {
	var (
		segments []Segment
		pending  strings.Builder
	)

	flush := func() {
		if strings.TrimSpace(pending.String()) != "" {
			segments = append(segments, Segment{Kind: SegmentText, Text: pending.String()})
		}
		pending.Reset()
	}

	pos := 0
	for pos < len(content) {
		start := strings.Index(content[pos:], QuizStartMarker)
		if start < 0 {
			break
		}
		start += pos
		payloadStart := start + len(QuizStartMarker)

		end := strings.Index(content[payloadStart:], QuizEndMarker)
		if end < 0 {
			if onFallback != nil {
				onFallback(QuizFallback{Offset: start, Unterminated: true})
			}
			break
		}
		end += payloadStart
		regionEnd := end + len(QuizEndMarker)

		pending.WriteString(content[pos:start])

		quiz, err := ParseQuizSection(content[payloadStart:end])
		if err != nil {
			if onFallback != nil {
				onFallback(QuizFallback{Offset: start, Err: err})
			}
			pending.WriteString(content[start:regionEnd])
			pos = regionEnd
			continue
		}

		flush()
		segments = append(segments, Segment{Kind: SegmentQuiz, Quiz: quiz})
		pos = regionEnd
	}

	pending.WriteString(content[pos:])
	flush()
	return segments
}

// RenderQuizStatic renders a quiz as static HTML for standalone documents.
// Interactive rendering belongs to the hosting UI.
func RenderQuizStatic(q *QuizSection) string {
	if q == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<section class="quiz-section">`)
	if q.Title != "" {
		b.WriteString(`<h3 class="quiz-section__title">`)
		b.WriteString(html.EscapeString(q.Title))
		b.WriteString(`</h3>`)
	}
	for i, question := range q.Questions {
		b.WriteString(`<div class="quiz-question" data-question-id="`)
		b.WriteString(html.EscapeString(string(question.ID)))
		b.WriteString(`"><p class="quiz-question__text">`)
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(html.EscapeString(question.QuestionText))
		b.WriteString(`</p><ul class="quiz-question__options">`)
		for _, opt := range question.Options {
			b.WriteString(`<li data-option-id="`)
			b.WriteString(html.EscapeString(string(opt.ID)))
			if opt.ID == question.CorrectAnswerID {
				b.WriteString(`" class="quiz-option--correct`)
			}
			b.WriteString(`">`)
			b.WriteString(html.EscapeString(opt.Text))
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul>`)
		if question.Explanation != "" {
			b.WriteString(`<p class="quiz-question__explanation">`)
			b.WriteString(html.EscapeString(question.Explanation))
			b.WriteString(`</p>`)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</section>`)
	return b.String()
}
