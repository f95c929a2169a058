package palette

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/starford/colorpad/internal/apperr"
	"github.com/starford/colorpad/internal/models"
)

func starter() []models.Color {
	return []models.Color{
		{ID: 1, Value: "#FF0000", Name: "Red", Order: 1},
		{ID: 2, Value: "#00FF00", Name: "Green", Order: 2},
		{ID: 3, Value: "#FFFF00", Name: "Yellow", Order: 3},
	}
}

func assertDense(t *testing.T, p *Palette) {
	t.Helper()
	seen := make(map[int]bool)
	for i, c := range p.Colors() {
		if c.Order != i+1 {
			t.Fatalf("colors[%d].Order = %d, want %d (%+v)", i, c.Order, i+1, p.Colors())
		}
		if seen[c.Order] {
			t.Fatalf("duplicate order %d", c.Order)
		}
		seen[c.Order] = true
	}
}

func ids(p *Palette) []int {
	var out []int
	for _, c := range p.Colors() {
		out = append(out, c.ID)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTouchExistingMovesToFront(t *testing.T) {
	p := New(starter())
	if err := p.TouchID(3); err != nil {
		t.Fatalf("TouchID: %v", err)
	}
	if got := ids(p); !equalInts(got, []int{3, 1, 2}) {
		t.Errorf("order = %v, want [3 1 2]", got)
	}
	assertDense(t, p)
}

func TestTouchLeavesColorsBehindUntouched(t *testing.T) {
	p := New(starter())
	if err := p.TouchID(2); err != nil {
		t.Fatal(err)
	}
	c, _ := p.Get(3)
	if c.Order != 3 {
		t.Errorf("yellow order = %d, want 3", c.Order)
	}
	if got := ids(p); !equalInts(got, []int{2, 1, 3}) {
		t.Errorf("order = %v, want [2 1 3]", got)
	}
}

func TestTouchFrontIsNoop(t *testing.T) {
	p := New(starter())
	_ = p.TouchID(1)
	if got := ids(p); !equalInts(got, []int{1, 2, 3}) {
		t.Errorf("order = %v", got)
	}
}

func TestTouchNewColorAppendsThenFronts(t *testing.T) {
	p := New(starter())
	err := p.Touch(models.Color{ID: 7, Value: "#0000FF", Name: "Blue"})
	if err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if got := ids(p); !equalInts(got, []int{7, 1, 2, 3}) {
		t.Errorf("order = %v, want [7 1 2 3]", got)
	}
	assertDense(t, p)
}

func TestTouchIncompleteUnknownColor(t *testing.T) {
	p := New(starter())
	err := p.Touch(models.Color{ID: 9})
	if !errors.Is(err, apperr.ErrUnknownColor) {
		t.Fatalf("err = %v, want ErrUnknownColor", err)
	}
	if p.Len() != 3 {
		t.Errorf("palette grew to %d", p.Len())
	}
	if err := p.TouchID(42); !errors.Is(err, apperr.ErrUnknownColor) {
		t.Errorf("TouchID unknown = %v", err)
	}
}

func TestTouchExistingIgnoresSuppliedFields(t *testing.T) {
	p := New(starter())
	_ = p.Touch(models.Color{ID: 2, Value: "#123456", Name: "Other", Order: 99})
	c, _ := p.Get(2)
	if c.Name != "Green" || c.Value != "#00FF00" || c.Order != 1 {
		t.Errorf("color = %+v", c)
	}
}

func TestMRUInvariantRandomSequence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := New(starter())
	next := 4
	for i := 0; i < 500; i++ {
		var err error
		var touched int
		if rng.Intn(5) == 0 {
			touched = next
			err = p.Touch(models.Color{ID: next, Value: "#ABCDEF", Name: "c"})
			next++
		} else {
			cs := p.Colors()
			touched = cs[rng.Intn(len(cs))].ID
			err = p.TouchID(touched)
		}
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		assertDense(t, p)
		if first := p.Colors()[0]; first.ID != touched {
			t.Fatalf("step %d: front = %d, want %d", i, first.ID, touched)
		}
	}
}

func TestNewNormalizesGaps(t *testing.T) {
	p := New([]models.Color{
		{ID: 1, Value: "red", Name: "Red", Order: 5},
		{ID: 2, Value: "green", Name: "Green", Order: 2},
		{ID: 3, Value: "blue", Name: "Blue", Order: 2},
	})
	assertDense(t, p)
	if got := ids(p); !equalInts(got, []int{2, 3, 1}) {
		t.Errorf("order = %v, want [2 3 1]", got)
	}
}

func TestRename(t *testing.T) {
	p := New(starter())
	if err := p.Rename(2, "  Evidence "); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	c, _ := p.Get(2)
	if c.Name != "Evidence" || c.Order != 2 {
		t.Errorf("color = %+v", c)
	}
	if err := p.Rename(2, " "); !errors.Is(err, apperr.ErrInvalidName) {
		t.Errorf("blank name = %v", err)
	}
	if err := p.Rename(99, "x"); !errors.Is(err, apperr.ErrUnknownColor) {
		t.Errorf("unknown id = %v", err)
	}
}

func TestNextID(t *testing.T) {
	p := New(starter())
	if got := p.NextID(); got != 4 {
		t.Errorf("NextID = %d, want 4", got)
	}
}

func TestValidateColor(t *testing.T) {
	cases := []struct {
		c  models.Color
		ok bool
	}{
		{models.Color{ID: 1, Name: "Red", Value: "#F00"}, true},
		{models.Color{ID: 1, Name: "Red", Value: "rebeccapurple"}, true},
		{models.Color{ID: 0, Name: "Red", Value: "#F00"}, false},
		{models.Color{ID: 1, Name: "", Value: "#F00"}, false},
		{models.Color{ID: 1, Name: "Red", Value: "url(x)"}, false},
	}
	for _, tc := range cases {
		err := ValidateColor(tc.c)
		if (err == nil) != tc.ok {
			t.Errorf("ValidateColor(%+v) = %v, want ok=%v", tc.c, err, tc.ok)
		}
	}
}
