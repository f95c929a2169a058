// Package view derives the presentation state of the editor from the
// current document. Recalculate is pure: the same document always yields
// the same View.
package view

import (
	"fmt"
	"strings"

	"github.com/starford/colorpad/internal/annotation"
	"github.com/starford/colorpad/internal/models"
)

// State is the document content a view is derived from.
type State struct {
	Body     annotation.Body
	Colors   []models.Color
	Settings models.Settings
}

// Tab is one highlight tab; only colors in use get one.
type Tab struct {
	ColorID int    `json:"color_id"`
	Name    string `json:"name"`
	Value   string `json:"value"`
	Order   int    `json:"order"`
	Count   int    `json:"count"`
}

// MenuEntry is one color button of the highlight menu.
type MenuEntry struct {
	ColorID int    `json:"color_id"`
	Name    string `json:"name"`
	Value   string `json:"value"`
	Order   int    `json:"order"`
}

// Control is a settings control and whether it is shown.
type Control struct {
	Name    string `json:"name"`
	Setting string `json:"setting,omitempty"`
	Pin     string `json:"pin,omitempty"`
	Pinned  bool   `json:"pinned"`
	Visible bool   `json:"visible"`
	Value   any    `json:"value"`
}

// Citations is the citation list of one color, as the citation view shows it.
type Citations struct {
	ColorID   int      `json:"color_id"`
	Name      string   `json:"name"`
	Value     string   `json:"value"`
	Citations []string `json:"citations"`
}

// View is everything the presentation layer renders after a change.
type View struct {
	Tabs       []Tab       `json:"tabs"`
	Menu       []MenuEntry `json:"menu"`
	Controls   []Control   `json:"controls"`
	Stylesheet string      `json:"stylesheet"`
}

// controlSpecs lists the settings controls in display order. A control
// without a pin is always visible; the others show only when pinned.
var controlSpecs = []struct {
	name, setting, pin string
}{
	{"theme", models.SettingTheme, ""},
	{"textSize", models.SettingFontSize, models.PinnedTextSize},
	{"lineSpacing", models.SettingLineHeight, models.PinnedLineSpacing},
	{"padding", models.SettingMargins, models.PinnedPadding},
	{"copyAllJson", "", models.PinnedCopyAllJSON},
}

// Recalculate derives the view of s.
func Recalculate(s State) View {
	return View{
		Tabs:       tabs(s.Body, s.Colors),
		Menu:       menu(s.Colors),
		Controls:   controls(s.Settings),
		Stylesheet: Stylesheet(s.Colors),
	}
}

func tabs(body annotation.Body, colors []models.Color) []Tab {
	inUse := body.ColorsInUse()
	out := []Tab{}
	for _, c := range colors {
		if !inUse.Has(c.ID) {
			continue
		}
		out = append(out, Tab{
			ColorID: c.ID,
			Name:    c.Name,
			Value:   c.Value,
			Order:   c.Order,
			Count:   len(body.Citations(c.ID)),
		})
	}
	return out
}

func menu(colors []models.Color) []MenuEntry {
	out := make([]MenuEntry, 0, len(colors))
	for _, c := range colors {
		out = append(out, MenuEntry{ColorID: c.ID, Name: c.Name, Value: c.Value, Order: c.Order})
	}
	return out
}

func controls(settings models.Settings) []Control {
	out := make([]Control, 0, len(controlSpecs))
	for _, cs := range controlSpecs {
		c := Control{Name: cs.name, Setting: cs.setting, Pin: cs.pin, Visible: true}
		if cs.setting != "" {
			c.Value = settings[cs.setting]
		}
		if cs.pin != "" {
			pinned, _ := settings[cs.pin].(bool)
			c.Pinned = pinned
			c.Visible = pinned
		}
		out = append(out, c)
	}
	return out
}

// Stylesheet renders one CSS custom property per color plus the rule that
// paints spans of that color. Values that could break out of a declaration
// are skipped.
func Stylesheet(colors []models.Color) string {
	var sb strings.Builder
	sb.WriteString(":root {\n")
	for _, c := range colors {
		if unsafeCSS(c.Value) {
			continue
		}
		fmt.Fprintf(&sb, "    --color-%d: %s;\n", c.ID, c.Value)
	}
	sb.WriteString("}\n")
	for _, c := range colors {
		if unsafeCSS(c.Value) {
			continue
		}
		fmt.Fprintf(&sb, "[%s=\"%d\"] { background-color: var(--color-%d); }\n", annotation.ColorAttr, c.ID, c.ID)
	}
	return sb.String()
}

func unsafeCSS(v string) bool {
	return v == "" || strings.ContainsAny(v, ";{}<>\\\"'\n")
}
