// Package surface defines the live editing region the document is synced
// from, and an in-process implementation driven by the browser client.
package surface

import (
	"fmt"

	"github.com/starford/colorpad/internal/annotation"
)

// Surface is the editable rich-text region. Content is its serialized
// markup; the selection is a range over its plain text.
type Surface interface {
	Content() string
	SetContent(markup string) error
	Selection() (annotation.Range, string)
	Select(r annotation.Range) error
	ClearSelection()
	// ReplaceSelection swaps the selected content for seg and clears the
	// selection.
	ReplaceSelection(seg annotation.Segment) error
	// InsertText replaces the selection with plain text and leaves a caret
	// after it.
	InsertText(text string) error
}

// Buffer is a Surface held in memory. The browser reports its serialized
// content and selection offsets; Buffer applies structural edits to them.
// It is not safe for concurrent use.
type Buffer struct {
	body annotation.Body
	sel  annotation.Range
}

var _ Surface = (*Buffer)(nil)

// NewBuffer returns an empty surface.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Content returns the serialized markup.
func (b *Buffer) Content() string {
	return b.body.Markup()
}

// SetContent replaces the whole content. The selection is clamped to the
// new text.
func (b *Buffer) SetContent(markup string) error {
	body, err := annotation.Parse(markup)
	if err != nil {
		return fmt.Errorf("surface: set content: %w", err)
	}
	b.body = body
	n := body.Len()
	b.sel = annotation.Range{Start: min(b.sel.Start, n), End: min(b.sel.End, n)}
	return nil
}

// Selection returns the selected range and its plain text.
func (b *Buffer) Selection() (annotation.Range, string) {
	return b.sel, b.body.Slice(b.sel)
}

// Select sets the selection.
func (b *Buffer) Select(r annotation.Range) error {
	if err := b.body.Check(r); err != nil {
		return fmt.Errorf("surface: select: %w", err)
	}
	b.sel = r
	return nil
}

// ClearSelection collapses the selection to its start.
func (b *Buffer) ClearSelection() {
	b.sel = annotation.Range{Start: b.sel.Start, End: b.sel.Start}
}

// ReplaceSelection swaps the selection for seg.
func (b *Buffer) ReplaceSelection(seg annotation.Segment) error {
	body, err := b.body.ReplaceWith(b.sel, seg)
	if err != nil {
		return fmt.Errorf("surface: replace selection: %w", err)
	}
	b.body = body
	b.ClearSelection()
	return nil
}

// InsertText replaces the selection with text, caret after it.
func (b *Buffer) InsertText(text string) error {
	text = annotation.NormalizeNewlines(text)
	body, err := b.body.Replace(b.sel, text)
	if err != nil {
		return fmt.Errorf("surface: insert text: %w", err)
	}
	b.body = body
	caret := b.sel.Start + len([]rune(text))
	b.sel = annotation.Range{Start: caret, End: caret}
	return nil
}
