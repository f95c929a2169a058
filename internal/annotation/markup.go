package annotation

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ColorAttr is the markup attribute carrying a span's color id.
const ColorAttr = "data-color-id"

const spanClass = "highlighted"

var blockElements = map[atom.Atom]bool{
	atom.Div:        true,
	atom.P:          true,
	atom.Li:         true,
	atom.Blockquote: true,
	atom.Pre:        true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	nbsp, "&nbsp;",
	"\n", "<br>",
)

// Markup serializes the body the way an editable surface renders it.
func (b Body) Markup() string {
	var sb strings.Builder
	for _, s := range b.segs {
		if !s.Highlighted() {
			textEscaper.WriteString(&sb, s.Text)
			continue
		}
		fmt.Fprintf(&sb, `<span %s="%d" class="%s">`, ColorAttr, s.ColorID, spanClass)
		textEscaper.WriteString(&sb, s.Text)
		sb.WriteString("</span>")
	}
	return sb.String()
}

// Parse reads editor markup into a Body. Elements other than highlight
// spans are flattened to their text; <br> and block boundaries become
// newlines. Text inside nested spans belongs to the innermost one, so a
// run is never tagged twice.
func Parse(markup string) (Body, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return Body{}, fmt.Errorf("annotation: parse markup: %w", err)
	}
	var bl builder
	for _, n := range nodes {
		bl.walk(n, 0, 0)
	}
	return NewBody(bl.segs...), nil
}

// ColorsInUseMarkup is ColorsInUse over raw markup. Unparsable markup
// has no spans.
func ColorsInUseMarkup(markup string) ColorSet {
	b, err := Parse(markup)
	if err != nil {
		return ColorSet{}
	}
	return b.ColorsInUse()
}

// CitationsMarkup is Citations over raw markup. Unparsable markup has no
// spans.
func CitationsMarkup(markup string, colorID int) []string {
	b, err := Parse(markup)
	if err != nil {
		return []string{}
	}
	return b.Citations(colorID)
}

type builder struct {
	segs  []Segment
	spans []int // which span element produced each segment; 0 for plain
	seq   int
}

func (bl *builder) text(colorID, span int, s string) {
	if s == "" {
		return
	}
	if n := len(bl.segs); n > 0 && bl.segs[n-1].ColorID == colorID && bl.spans[n-1] == span {
		bl.segs[n-1].Text += s
		return
	}
	bl.segs = append(bl.segs, Segment{ColorID: colorID, Text: s})
	bl.spans = append(bl.spans, span)
}

func (bl *builder) atLineStart() bool {
	n := len(bl.segs)
	return n == 0 || strings.HasSuffix(bl.segs[n-1].Text, "\n")
}

func (bl *builder) walk(n *html.Node, colorID, span int) {
	switch n.Type {
	case html.TextNode:
		bl.text(colorID, span, n.Data)
		return
	case html.ElementNode:
	default:
		return
	}

	switch {
	case n.DataAtom == atom.Script || n.DataAtom == atom.Style || n.DataAtom == atom.Template:
		return
	case n.DataAtom == atom.Br:
		bl.text(colorID, span, "\n")
		return
	case blockElements[n.DataAtom]:
		if !bl.atLineStart() {
			bl.text(colorID, span, "\n")
		}
	case n.DataAtom == atom.Span:
		if id, ok := spanColor(n); ok {
			bl.seq++
			colorID, span = id, bl.seq
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		bl.walk(c, colorID, span)
	}
}

func spanColor(n *html.Node) (int, bool) {
	for _, a := range n.Attr {
		if a.Namespace != "" || a.Key != ColorAttr {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(a.Val))
		if err != nil || id <= 0 {
			return 0, false
		}
		return id, true
	}
	return 0, false
}
