package annotation

import (
	"encoding/json"
	"testing"

	"github.com/starford/colorpad/internal/models"
)

var testColors = []models.Color{
	{ID: 2, Value: "#00FF00", Name: "Green", Order: 1},
	{ID: 1, Value: "#FF0000", Name: "Red", Order: 2},
	{ID: 3, Value: "#FFFF00", Name: "Yellow", Order: 3},
}

func sampleBody() Body {
	return NewBody(
		Segment{ColorID: 1, Text: "r1"},
		Segment{Text: " - "},
		Segment{ColorID: 2, Text: "g1"},
		Segment{Text: " - "},
		Segment{ColorID: 1, Text: "r2"},
	)
}

func TestColorsInUse(t *testing.T) {
	set := sampleBody().ColorsInUse()
	if !set.Has(1) || !set.Has(2) || set.Has(3) {
		t.Errorf("set = %v", set.IDs())
	}
}

func TestCitationsDocumentOrder(t *testing.T) {
	got := sampleBody().Citations(1)
	if len(got) != 2 || got[0] != "r1" || got[1] != "r2" {
		t.Errorf("citations = %q", got)
	}
	if got := sampleBody().Citations(3); got == nil || len(got) != 0 {
		t.Errorf("unused color = %#v, want empty slice", got)
	}
}

func TestAllCitationsPaletteOrderAndOmission(t *testing.T) {
	set := AllCitations(sampleBody(), testColors)
	if len(set) != 2 {
		t.Fatalf("len = %d, want 2", len(set))
	}
	if set[0].Name != "Green" || set[1].Name != "Red" {
		t.Errorf("order = %s, %s", set[0].Name, set[1].Name)
	}
	data, err := json.Marshal(set)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"Green":["g1"],"Red":["r1","r2"]}` {
		t.Errorf("json = %s", data)
	}
}

func TestAllCitationsKeyedByCurrentName(t *testing.T) {
	colors := append([]models.Color(nil), testColors...)
	before := AllCitations(sampleBody(), colors).Map()
	colors[1].Name = "Claims"
	after := AllCitations(sampleBody(), colors).Map()
	if _, ok := after["Red"]; ok {
		t.Error("old name still present")
	}
	got := after["Claims"]
	want := before["Red"]
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("renamed citations = %q, want %q", got, want)
	}
}

func TestAllCitationsDuplicateNames(t *testing.T) {
	colors := []models.Color{
		{ID: 1, Name: "Same", Value: "red", Order: 1},
		{ID: 2, Name: "Same", Value: "green", Order: 2},
	}
	set := AllCitations(sampleBody(), colors)
	if len(set) != 1 || set[0].ColorID != 2 {
		t.Errorf("set = %+v", set)
	}
}

func TestEmptyCitationSetJSON(t *testing.T) {
	data, _ := json.Marshal(AllCitations(Plain("x"), testColors))
	if string(data) != "{}" {
		t.Errorf("json = %s", data)
	}
}
