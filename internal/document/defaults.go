package document

import "github.com/starford/colorpad/internal/models"

// StarterBody is the body of a freshly initialized document.
const StarterBody = "paste text, begin transcribing, or begin typing notes here..."

// Initialize returns the first-run document.
func Initialize() models.Document {
	return models.Document{
		Body: StarterBody,
		Colors: []models.Color{
			{ID: 1, Value: "#FF0000", Name: "Red", Order: 1},
			{ID: 2, Value: "#00FF00", Name: "Green", Order: 2},
			{ID: 3, Value: "#FFFF00", Name: "Yellow", Order: 3},
		},
		Settings: models.Settings{
			models.SettingTheme:      "dark",
			models.SettingFontSize:   14.0,
			models.SettingLineHeight: 1.5,
			models.SettingMargins:    2.0,
			models.PinnedLineSpacing: false,
			models.PinnedTextSize:    false,
			models.PinnedPadding:     false,
			models.PinnedCopyAllJSON: false,
		},
	}
}
