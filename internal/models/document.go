// Package models defines the persisted domain types for colorpad.
package models

// DocumentKey is the fixed store key of the single Document record.
const DocumentKey = "colorpadDoc"

// Setting keys the core reads.
const (
	SettingTheme      = "theme"
	SettingFontSize   = "fontSize"
	SettingLineHeight = "lineHeight"
	SettingMargins    = "margins"

	PinnedLineSpacing = "pinnedLineSpacing"
	PinnedTextSize    = "pinnedTextSize"
	PinnedPadding     = "pinnedPadding"
	PinnedCopyAllJSON = "pinnedCopyAllJson"
)

// Color is one palette entry. ID is stable once assigned; Order is the
// 1-based recency rank and the only field the palette reshuffles.
type Color struct {
	ID    int    `json:"id"`
	Value string `json:"value"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// Settings maps a setting name to its value.
type Settings map[string]any

// Clone returns a shallow copy; setting values are scalars.
func (s Settings) Clone() Settings {
	if s == nil {
		return nil
	}
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Document is the unit of persistence.
type Document struct {
	Body     string   `json:"body"`
	Colors   []Color  `json:"colors"`
	Settings Settings `json:"settings"`
}

// Clone returns a copy that shares no mutable state with d.
func (d Document) Clone() Document {
	colors := make([]Color, len(d.Colors))
	copy(colors, d.Colors)
	return Document{
		Body:     d.Body,
		Colors:   colors,
		Settings: d.Settings.Clone(),
	}
}
