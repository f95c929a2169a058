// Package annotation models a document body as plain runs and
// non-nesting highlight spans, and answers the questions the rest of
// colorpad asks about it: which colors are in use and what text each
// color tags.
package annotation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/starford/colorpad/internal/apperr"
)

const nbsp = "\u00a0"

// Segment is one run of body text. ColorID 0 marks plain text; any other
// value is the id of the color the run is highlighted with.
type Segment struct {
	ColorID int    `json:"color_id,omitempty"`
	Text    string `json:"text"`
}

// Highlighted reports whether s is a highlight span.
func (s Segment) Highlighted() bool { return s.ColorID != 0 }

// Range addresses [Start, End) in rune offsets of the body's plain text.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Empty reports whether r selects nothing.
func (r Range) Empty() bool { return r.End <= r.Start }

// Body is an immutable sequence of segments. Adjacent plain runs are
// always merged and empty runs dropped; adjacent highlight spans stay
// distinct even when they share a color.
type Body struct {
	segs []Segment
}

// NewBody builds a normalized body from segs.
func NewBody(segs ...Segment) Body {
	return Body{segs: normalize(segs)}
}

// Plain returns a body holding text with no highlights.
func Plain(text string) Body {
	return NewBody(Segment{Text: text})
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NormalizeNewlines rewrites CRLF and lone CR line breaks as LF.
func NormalizeNewlines(s string) string {
	return newlines.Replace(s)
}

func normalize(in []Segment) []Segment {
	out := make([]Segment, 0, len(in))
	for _, s := range in {
		s.Text = NormalizeNewlines(s.Text)
		if s.Text == "" {
			continue
		}
		if n := len(out); n > 0 && !s.Highlighted() && !out[n-1].Highlighted() {
			out[n-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}
	return out
}

// Segments returns a copy of the body's runs.
func (b Body) Segments() []Segment {
	out := make([]Segment, len(b.segs))
	copy(out, b.segs)
	return out
}

// Text returns the plain text of the whole body.
func (b Body) Text() string {
	var sb strings.Builder
	for _, s := range b.segs {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Len returns the body length in runes.
func (b Body) Len() int {
	n := 0
	for _, s := range b.segs {
		n += utf8.RuneCountInString(s.Text)
	}
	return n
}

// Equal reports whether two bodies hold the same runs.
func (b Body) Equal(o Body) bool {
	if len(b.segs) != len(o.segs) {
		return false
	}
	for i := range b.segs {
		if b.segs[i] != o.segs[i] {
			return false
		}
	}
	return true
}

// Check validates r against the body bounds.
func (b Body) Check(r Range) error {
	if r.Start < 0 || r.End < r.Start || r.End > b.Len() {
		return fmt.Errorf("annotation: range [%d,%d) of %d: %w", r.Start, r.End, b.Len(), apperr.ErrInvalidRange)
	}
	return nil
}

// Slice returns the plain text inside r. r must be valid.
func (b Body) Slice(r Range) string {
	var sb strings.Builder
	for _, s := range b.cut(r.Start, r.End) {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// cut returns the runs overlapping [from, to), clipped to it.
func (b Body) cut(from, to int) []Segment {
	var out []Segment
	pos := 0
	for _, s := range b.segs {
		runes := []rune(s.Text)
		start, end := pos, pos+len(runes)
		pos = end
		if end <= from || start >= to {
			continue
		}
		lo := max(from, start) - start
		hi := min(to, end) - start
		out = append(out, Segment{ColorID: s.ColorID, Text: string(runes[lo:hi])})
	}
	return out
}

// ReplaceWith substitutes the runs in r with repl. Highlight spans that
// straddle a range edge are split; the parts outside r keep their color.
func (b Body) ReplaceWith(r Range, repl ...Segment) (Body, error) {
	if err := b.Check(r); err != nil {
		return b, err
	}
	n := b.Len()
	segs := b.cut(0, r.Start)
	segs = append(segs, repl...)
	segs = append(segs, b.cut(r.End, n)...)
	return NewBody(segs...), nil
}

// Apply wraps the text in r in a single span of colorID. Whatever
// structure r covered is discarded, not layered. A single leading and a
// single trailing space become non-breaking so they survive wrapping.
func (b Body) Apply(r Range, colorID int) (Body, error) {
	if colorID <= 0 {
		return b, fmt.Errorf("annotation: apply color %d: %w", colorID, apperr.ErrUnknownColor)
	}
	if err := b.Check(r); err != nil {
		return b, err
	}
	return b.ReplaceWith(r, Highlight(colorID, b.Slice(r)))
}

// Clear turns everything in r back into plain text.
func (b Body) Clear(r Range) (Body, error) {
	if err := b.Check(r); err != nil {
		return b, err
	}
	return b.ReplaceWith(r, Segment{Text: b.Slice(r)})
}

// Replace substitutes r with plain text.
func (b Body) Replace(r Range, text string) (Body, error) {
	return b.ReplaceWith(r, Segment{Text: text})
}

// Highlight builds the span segment for text, keeping edge spaces visible.
func Highlight(colorID int, text string) Segment {
	if strings.HasPrefix(text, " ") {
		text = nbsp + text[1:]
	}
	if strings.HasSuffix(text, " ") {
		text = text[:len(text)-1] + nbsp
	}
	return Segment{ColorID: colorID, Text: text}
}
