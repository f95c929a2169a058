package sse

import (
	"github.com/starford/colorpad/internal/document"
	"github.com/starford/colorpad/internal/view"
)

// Presenter renders editor views as broker events.
type Presenter struct {
	broker *Broker
}

var _ view.Presenter = (*Presenter)(nil)

// NewPresenter returns a presenter publishing to b.
func NewPresenter(b *Broker) *Presenter {
	return &Presenter{broker: b}
}

func (p *Presenter) RenderTabs(tabs []view.Tab) {
	p.broker.Publish(Event{Type: EventTabs, Data: tabs})
}

func (p *Presenter) RenderMenu(menu []view.MenuEntry) {
	p.broker.Publish(Event{Type: EventMenu, Data: menu})
}

func (p *Presenter) RenderSettings(controls []view.Control) {
	p.broker.Publish(Event{Type: EventSettings, Data: controls})
}

func (p *Presenter) RenderStyles(css string) {
	p.broker.Publish(Event{Type: EventStyles, Data: map[string]string{"css": css}})
}

func (p *Presenter) RenderCitations(c view.Citations) {
	p.broker.Publish(Event{Type: EventCitations, Data: c})
}

func (p *Presenter) CloseMenu() {
	p.broker.Publish(Event{Type: EventMenuClose, Data: map[string]string{}})
}

// Saved publishes a completed save. It fits document.WithSaveListener.
func (p *Presenter) Saved(s document.Saved) {
	p.broker.Publish(Event{Type: EventSaved, Data: s})
}
