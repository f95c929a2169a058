package view

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/starford/colorpad/internal/annotation"
	"github.com/starford/colorpad/internal/models"
)

func sampleState() State {
	return State{
		Body: annotation.NewBody(
			annotation.Segment{Text: "intro "},
			annotation.Segment{ColorID: 3, Text: "yellow one"},
			annotation.Segment{Text: " and "},
			annotation.Segment{ColorID: 1, Text: "red"},
			annotation.Segment{ColorID: 3, Text: "yellow two"},
		),
		Colors: []models.Color{
			{ID: 1, Value: "#FF0000", Name: "Red", Order: 1},
			{ID: 2, Value: "#00FF00", Name: "Green", Order: 2},
			{ID: 3, Value: "#FFFF00", Name: "Yellow", Order: 3},
		},
		Settings: models.Settings{
			models.SettingTheme:      "dark",
			models.SettingFontSize:   14.0,
			models.SettingLineHeight: 1.5,
			models.PinnedTextSize:    true,
		},
	}
}

func TestTabsOnlyForColorsInUse(t *testing.T) {
	v := Recalculate(sampleState())
	if len(v.Tabs) != 2 {
		t.Fatalf("tabs = %+v", v.Tabs)
	}
	if v.Tabs[0].ColorID != 1 || v.Tabs[1].ColorID != 3 {
		t.Errorf("tab order = %d, %d", v.Tabs[0].ColorID, v.Tabs[1].ColorID)
	}
	if v.Tabs[1].Count != 2 {
		t.Errorf("yellow count = %d, want 2", v.Tabs[1].Count)
	}
}

func TestMenuHasFullPalette(t *testing.T) {
	v := Recalculate(sampleState())
	if len(v.Menu) != 3 || v.Menu[1].Name != "Green" {
		t.Errorf("menu = %+v", v.Menu)
	}
}

func TestControlsFollowPins(t *testing.T) {
	v := Recalculate(sampleState())
	byName := make(map[string]Control)
	for _, c := range v.Controls {
		byName[c.Name] = c
	}
	if !byName["theme"].Visible || byName["theme"].Value != "dark" {
		t.Errorf("theme = %+v", byName["theme"])
	}
	if !byName["textSize"].Visible || byName["textSize"].Value != 14.0 {
		t.Errorf("textSize = %+v", byName["textSize"])
	}
	if byName["lineSpacing"].Visible {
		t.Error("lineSpacing should be hidden when unpinned")
	}
	if byName["padding"].Value != nil {
		t.Errorf("missing margins should stay absent, got %v", byName["padding"].Value)
	}
	if byName["copyAllJson"].Visible {
		t.Error("copyAllJson should be hidden")
	}
}

func TestRecalculateIdempotent(t *testing.T) {
	s := sampleState()
	first, err := json.Marshal(Recalculate(s))
	if err != nil {
		t.Fatal(err)
	}
	second, _ := json.Marshal(Recalculate(s))
	if !bytes.Equal(first, second) {
		t.Errorf("views differ:\n%s\n%s", first, second)
	}
}

func TestStylesheet(t *testing.T) {
	css := Stylesheet([]models.Color{
		{ID: 1, Value: "#FF0000"},
		{ID: 2, Value: "red;} body{display:none"},
	})
	if !strings.Contains(css, "--color-1: #FF0000;") {
		t.Errorf("missing variable:\n%s", css)
	}
	if !strings.Contains(css, `[data-color-id="1"] { background-color: var(--color-1); }`) {
		t.Errorf("missing rule:\n%s", css)
	}
	if strings.Contains(css, "color-2") {
		t.Errorf("unsafe value rendered:\n%s", css)
	}
}

type countingPresenter struct{ calls []string }

func (c *countingPresenter) RenderTabs([]Tab)          { c.calls = append(c.calls, "tabs") }
func (c *countingPresenter) RenderMenu([]MenuEntry)    { c.calls = append(c.calls, "menu") }
func (c *countingPresenter) RenderSettings([]Control)  { c.calls = append(c.calls, "settings") }
func (c *countingPresenter) RenderStyles(string)       { c.calls = append(c.calls, "styles") }
func (c *countingPresenter) RenderCitations(Citations) { c.calls = append(c.calls, "citations") }
func (c *countingPresenter) CloseMenu()                { c.calls = append(c.calls, "close") }

func TestApply(t *testing.T) {
	p := &countingPresenter{}
	Apply(p, Recalculate(sampleState()))
	if strings.Join(p.calls, ",") != "styles,menu,tabs,settings" {
		t.Errorf("calls = %v", p.calls)
	}
	Apply(nil, View{})
}
