package api

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/colorpad/internal/annotation"
	"github.com/starford/colorpad/internal/models"
)

// RangeRequest addresses a run of the body by rune offsets.
type RangeRequest struct {
	Start int `json:"start" example:"4"`
	End   int `json:"end" example:"9"`
}

// Range converts the request to an annotation range.
func (r RangeRequest) Range() annotation.Range {
	return annotation.Range{Start: r.Start, End: r.End}
}

// Validate checks the offsets are not negative.
func (r RangeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Start, validation.Min(0)),
		validation.Field(&r.End, validation.Min(0)),
	)
}

// BodyRequest replaces the surface content with typed markup.
type BodyRequest struct {
	Body string `json:"body" example:"hello <span data-color-id=\"1\" class=\"highlighted\">world</span>"`
}

// Validate is a no-op; any markup is accepted and parsed leniently.
func (r BodyRequest) Validate() error { return nil }

// PasteRequest inserts plain text over a range, or at the end with Append.
type PasteRequest struct {
	RangeRequest
	Text   string `json:"text" example:"pasted words" validate:"required"`
	Append bool   `json:"append"`
}

// Validate checks the range and requires text.
func (r PasteRequest) Validate() error {
	if err := r.RangeRequest.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required),
	)
}

// ColorInput identifies the color to apply. Name and value are only needed
// for a color the palette does not have yet.
type ColorInput struct {
	ID    int    `json:"id" example:"2" validate:"required"`
	Value string `json:"value,omitempty" example:"#00FF00"`
	Name  string `json:"name,omitempty" example:"Green"`
}

// Validate requires a positive id.
func (c ColorInput) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Required, validation.Min(1)),
		validation.Field(&c.Name, validation.Length(0, 64)),
	)
}

// Color converts the input to a palette color.
func (c ColorInput) Color() models.Color {
	return models.Color{ID: c.ID, Value: c.Value, Name: c.Name}
}

// HighlightRequest applies a color to a range.
type HighlightRequest struct {
	RangeRequest
	Color ColorInput `json:"color" validate:"required"`
}

// Validate checks the range and the color.
func (r HighlightRequest) Validate() error {
	if err := r.RangeRequest.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Color),
	)
}

// RenameRequest is the request body for renaming a color.
type RenameRequest struct {
	Name string `json:"name" example:"Key quotes" validate:"required"`
}

var nonBlank = regexp.MustCompile(`\S`)

// Validate requires a name with at least one visible character.
func (r RenameRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required,
			validation.Length(1, 64),
			validation.Match(nonBlank).Error("must not be blank"),
		),
	)
}

// SettingRequest carries a scalar setting value.
type SettingRequest struct {
	Value any `json:"value"`
}

// Validate is a no-op; the editor rejects unsupported values.
func (r SettingRequest) Validate() error { return nil }

// PinResponse reports a pin flag after toggling.
type PinResponse struct {
	Key    string `json:"key" example:"pinnedTextSize" validate:"required"`
	Pinned bool   `json:"pinned" validate:"required"`
}

// CitationsResponse lists one color's citations.
type CitationsResponse struct {
	ColorID   int      `json:"color_id" validate:"required"`
	Name      string   `json:"name" validate:"required"`
	Value     string   `json:"value" validate:"required"`
	Citations []string `json:"citations" validate:"required"`
}

// DocumentResponse is the live document plus its plain text.
type DocumentResponse struct {
	models.Document
	Text string `json:"text"`
}
