// Package palette keeps the ordered color collection and its
// most-recently-used ranking.
package palette

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/colorpad/internal/apperr"
	"github.com/starford/colorpad/internal/models"
)

var colorValueRe = regexp.MustCompile(`^(#[0-9A-Fa-f]{3,8}|[A-Za-z]+)$`)

// ValidateColor checks that c carries everything needed to add it to a palette.
func ValidateColor(c models.Color) error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Required, validation.Min(1)),
		validation.Field(&c.Name, validation.Required, validation.Length(1, 64)),
		validation.Field(&c.Value, validation.Required, validation.Match(colorValueRe)),
	)
}

// Palette is an ordered set of colors. Orders always form 1..N.
// A Palette is not safe for concurrent use.
type Palette struct {
	colors []models.Color
}

// New copies colors into a palette, renumbering orders densely by their
// current rank (ties broken by id).
func New(colors []models.Color) *Palette {
	p := &Palette{colors: make([]models.Color, len(colors))}
	copy(p.colors, colors)
	p.normalize()
	return p
}

func (p *Palette) normalize() {
	sort.SliceStable(p.colors, func(i, j int) bool {
		if p.colors[i].Order != p.colors[j].Order {
			return p.colors[i].Order < p.colors[j].Order
		}
		return p.colors[i].ID < p.colors[j].ID
	})
	for i := range p.colors {
		p.colors[i].Order = i + 1
	}
}

func (p *Palette) index(id int) int {
	for i, c := range p.colors {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Touch moves c to rank 1. A color whose id is not in the palette is
// appended first and must be complete (id, name and value).
// Colors ranked behind c's previous position keep their order.
func (p *Palette) Touch(c models.Color) error {
	i := p.index(c.ID)
	if i < 0 {
		if err := ValidateColor(c); err != nil {
			return fmt.Errorf("palette: touch %d: %w: %v", c.ID, apperr.ErrUnknownColor, err)
		}
		c.Order = len(p.colors) + 1
		p.colors = append(p.colors, c)
		i = len(p.colors) - 1
	}

	prev := p.colors[i].Order
	for j := range p.colors {
		switch {
		case j == i:
			p.colors[j].Order = 1
		case p.colors[j].Order < prev:
			p.colors[j].Order++
		}
	}
	sort.SliceStable(p.colors, func(a, b int) bool {
		return p.colors[a].Order < p.colors[b].Order
	})
	return nil
}

// TouchID is Touch for a color already in the palette.
func (p *Palette) TouchID(id int) error {
	c, ok := p.Get(id)
	if !ok {
		return fmt.Errorf("palette: touch %d: %w", id, apperr.ErrUnknownColor)
	}
	return p.Touch(c)
}

// Rename changes a color's display name without reordering.
func (p *Palette) Rename(id int, name string) error {
	name = strings.TrimSpace(name)
	if err := validation.Validate(name, validation.Required, validation.Length(1, 64)); err != nil {
		return fmt.Errorf("palette: rename %d: %w: %v", id, apperr.ErrInvalidName, err)
	}
	i := p.index(id)
	if i < 0 {
		return fmt.Errorf("palette: rename %d: %w", id, apperr.ErrUnknownColor)
	}
	p.colors[i].Name = name
	return nil
}

// Get returns the color with the given id.
func (p *Palette) Get(id int) (models.Color, bool) {
	if i := p.index(id); i >= 0 {
		return p.colors[i], true
	}
	return models.Color{}, false
}

// Colors returns a copy of the palette in rank order.
func (p *Palette) Colors() []models.Color {
	out := make([]models.Color, len(p.colors))
	copy(out, p.colors)
	return out
}

// Len returns the number of colors.
func (p *Palette) Len() int { return len(p.colors) }

// NextID returns an id no color has used yet in this palette.
func (p *Palette) NextID() int {
	top := 0
	for _, c := range p.colors {
		if c.ID > top {
			top = c.ID
		}
	}
	return top + 1
}
