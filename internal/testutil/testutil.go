// Package testutil provides shared test helpers for gateways and presenters.
package testutil

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/colorpad/internal/models"
	"github.com/starford/colorpad/internal/storage"
	"github.com/starford/colorpad/internal/view"
)

// TestSQLite opens a gateway on a temporary SQLite file that is cleaned up
// with the test.
func TestSQLite(t *testing.T) *storage.SQLite {
	t.Helper()
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "colorpad-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// Gateway wraps a storage.Gateway and records every Set call. GetErr and
// SetErr inject failures.
type Gateway struct {
	storage.Gateway

	mu     sync.Mutex
	sets   []models.Document
	GetErr error
	SetErr error
}

// NewGateway wraps an in-memory gateway.
func NewGateway() *Gateway {
	return &Gateway{Gateway: storage.NewMemory()}
}

// Seed stores doc directly, bypassing the recorder.
func (g *Gateway) Seed(t *testing.T, doc models.Document) {
	t.Helper()
	if err := g.Gateway.Set(context.Background(), models.DocumentKey, doc); err != nil {
		t.Fatal(err)
	}
}

func (g *Gateway) Get(ctx context.Context, key string) (*models.Document, error) {
	g.mu.Lock()
	err := g.GetErr
	g.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return g.Gateway.Get(ctx, key)
}

func (g *Gateway) Set(ctx context.Context, key string, doc models.Document) error {
	g.mu.Lock()
	g.sets = append(g.sets, doc.Clone())
	err := g.SetErr
	g.mu.Unlock()
	if err != nil {
		return err
	}
	return g.Gateway.Set(ctx, key, doc)
}

// Sets returns the number of Set calls so far.
func (g *Gateway) Sets() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sets)
}

// Last returns the document passed to the latest Set call.
func (g *Gateway) Last() (models.Document, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.sets) == 0 {
		return models.Document{}, false
	}
	return g.sets[len(g.sets)-1], true
}

// WaitFor polls cond until it holds or the deadline passes.
func WaitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// Recorder is a view.Presenter that keeps what it was asked to render.
type Recorder struct {
	mu        sync.Mutex
	tabs      []view.Tab
	menu      []view.MenuEntry
	controls  []view.Control
	css       string
	citations []view.Citations
	closed    int
	renders   int
}

var _ view.Presenter = (*Recorder)(nil)

func (r *Recorder) RenderTabs(tabs []view.Tab) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tabs = tabs
	r.renders++
}

func (r *Recorder) RenderMenu(menu []view.MenuEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.menu = menu
}

func (r *Recorder) RenderSettings(controls []view.Control) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.controls = controls
}

func (r *Recorder) RenderStyles(css string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.css = css
}

func (r *Recorder) RenderCitations(c view.Citations) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.citations = append(r.citations, c)
}

func (r *Recorder) CloseMenu() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed++
}

// Tabs returns the last rendered tabs.
func (r *Recorder) Tabs() []view.Tab {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tabs
}

// Menu returns the last rendered menu.
func (r *Recorder) Menu() []view.MenuEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.menu
}

// Controls returns the last rendered settings controls.
func (r *Recorder) Controls() []view.Control {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.controls
}

// Citations returns every rendered citation list.
func (r *Recorder) Citations() []view.Citations {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.citations
}

// MenuCloses returns how often CloseMenu was called.
func (r *Recorder) MenuCloses() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Renders returns how many full view renders happened.
func (r *Recorder) Renders() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renders
}
