package view

// Presenter is the rendering capability set the host environment supplies.
type Presenter interface {
	RenderTabs(tabs []Tab)
	RenderMenu(menu []MenuEntry)
	RenderSettings(controls []Control)
	RenderStyles(css string)
	RenderCitations(c Citations)
	CloseMenu()
}

// Apply renders v through p. A nil presenter renders nothing.
func Apply(p Presenter, v View) {
	if p == nil {
		return
	}
	p.RenderStyles(v.Stylesheet)
	p.RenderMenu(v.Menu)
	p.RenderTabs(v.Tabs)
	p.RenderSettings(v.Controls)
}
