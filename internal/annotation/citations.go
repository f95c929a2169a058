package annotation

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/starford/colorpad/internal/models"
)

// ColorSet is a set of color ids.
type ColorSet map[int]struct{}

// Has reports whether id is in the set.
func (s ColorSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members in ascending order.
func (s ColorSet) IDs() []int {
	out := make([]int, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// ColorsInUse returns the ids that tag at least one span.
func (b Body) ColorsInUse() ColorSet {
	set := make(ColorSet)
	for _, s := range b.segs {
		if s.Highlighted() {
			set[s.ColorID] = struct{}{}
		}
	}
	return set
}

// Citations returns, in document order, the text of every span tagged
// with colorID.
func (b Body) Citations(colorID int) []string {
	out := []string{}
	for _, s := range b.segs {
		if s.Highlighted() && s.ColorID == colorID {
			out = append(out, s.Text)
		}
	}
	return out
}

// ColorCitations is the citation list of one color.
type ColorCitations struct {
	ColorID   int      `json:"color_id"`
	Name      string   `json:"name"`
	Value     string   `json:"value"`
	Citations []string `json:"citations"`
}

// CitationSet is the export view of a body: one entry per color that has
// citations, in palette order. Externally it is keyed by color name.
type CitationSet []ColorCitations

// AllCitations collects the citations of every palette color, omitting
// colors with none. Two colors sharing a name collapse into one key; the
// later palette entry's citations win and the key keeps its first
// position.
func AllCitations(b Body, colors []models.Color) CitationSet {
	out := CitationSet{}
	byName := make(map[string]int)
	for _, c := range colors {
		cites := b.Citations(c.ID)
		if len(cites) == 0 {
			continue
		}
		entry := ColorCitations{ColorID: c.ID, Name: c.Name, Value: c.Value, Citations: cites}
		if i, ok := byName[c.Name]; ok {
			out[i] = entry
			continue
		}
		byName[c.Name] = len(out)
		out = append(out, entry)
	}
	return out
}

// Map returns the name-keyed form.
func (cs CitationSet) Map() map[string][]string {
	out := make(map[string][]string, len(cs))
	for _, c := range cs {
		out[c.Name] = c.Citations
	}
	return out
}

// MarshalJSON encodes the set as an object keyed by color name, keeping
// palette order.
func (cs CitationSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range cs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c.Citations)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
