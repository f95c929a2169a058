// Package document owns the single live Document and every operation that
// changes it.
package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/starford/colorpad/internal/annotation"
	"github.com/starford/colorpad/internal/apperr"
	"github.com/starford/colorpad/internal/models"
	"github.com/starford/colorpad/internal/palette"
	"github.com/starford/colorpad/internal/schedule"
	"github.com/starford/colorpad/internal/storage"
	"github.com/starford/colorpad/internal/surface"
	"github.com/starford/colorpad/internal/view"
)

// Saved describes a completed save.
type Saved struct {
	ID       string    `json:"save_id"`
	Checksum string    `json:"checksum"`
	At       time.Time `json:"at"`
}

// Editor holds the live Document.
//
// Concurrency model: a single internal event loop (goroutine) owns the body,
// palette, settings, surface and debounce timer. Public methods submit tasks
// to the loop and wait for them, so mutations never interleave and no
// mutexes guard the document. Gateway writes run on their own goroutines; their
// completion is posted back to the loop.
type Editor struct {
	gateway       storage.Gateway
	key           string
	logger        *slog.Logger
	presenter     view.Presenter
	onSaved       func(Saved)
	debounceDelay time.Duration
	saveTimeout   time.Duration

	tasks   chan func()
	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
	saves   sync.WaitGroup

	// writeMu orders gateway writes; a snapshot older than the last one
	// written is dropped.
	writeMu sync.Mutex
	written uint64
	seq     uint64 // owned by the loop

	// Owned by the loop.
	loaded   bool
	surface  surface.Surface
	body     annotation.Body
	palette  *palette.Palette
	settings models.Settings
	debounce *schedule.Debouncer
}

// New creates an editor over gw and starts its loop. Call Load before any
// other operation and Close when done.
func New(gw storage.Gateway, opts ...Option) *Editor {
	e := &Editor{
		gateway:       gw,
		key:           models.DocumentKey,
		logger:        slog.Default(),
		debounceDelay: DefaultSaveDebounce,
		saveTimeout:   DefaultSaveTimeout,
		tasks:         make(chan func(), 64),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
		surface:       surface.NewBuffer(),
		palette:       palette.New(nil),
		settings:      models.Settings{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.debounce = schedule.NewDebouncer(e.debounceDelay, e.post)

	go e.run()
	return e
}

func (e *Editor) run() {
	defer close(e.stopped)
	for {
		select {
		case <-e.stopCh:
			e.debounce.Cancel()
			return
		case fn := <-e.tasks:
			fn()
		}
	}
}

// post queues fn on the loop without waiting for it. It must not be called
// from the loop itself.
func (e *Editor) post(fn func()) {
	select {
	case e.tasks <- fn:
	case <-e.stopped:
	}
}

// do runs fn on the loop and returns its error.
func (e *Editor) do(ctx context.Context, fn func() error) error {
	_, err := query(ctx, e, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

func query[T any](ctx context.Context, e *Editor, fn func() (T, error)) (T, error) {
	var zero T
	if e.closed.Load() {
		return zero, apperr.ErrClosed
	}

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	task := func() {
		v, err := fn()
		done <- result{v, err}
	}

	select {
	case e.tasks <- task:
	case <-e.stopped:
		return zero, apperr.ErrClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-e.stopped:
		select {
		case r := <-done:
			return r.v, r.err
		default:
			return zero, apperr.ErrClosed
		}
	}
}

// Close stops the loop and waits for in-flight saves. A pending debounced
// save is dropped; call Flush first to keep it.
func (e *Editor) Close() {
	if e.closed.CompareAndSwap(false, true) {
		close(e.stopCh)
	}
	<-e.stopped
	e.saves.Wait()
}

func (e *Editor) ready() error {
	if !e.loaded {
		return apperr.ErrNotReady
	}
	return nil
}

// Load reads the stored document and makes it live. On first run the
// default document is persisted. A gateway failure is logged and the
// defaults are used in memory without saving.
func (e *Editor) Load(ctx context.Context) error {
	return e.do(ctx, func() error {
		doc, err := e.gateway.Get(ctx, e.key)
		switch {
		case err == nil:
			e.replace(*doc)
		case errors.Is(err, apperr.ErrNotFound):
			e.logger.Info("no stored document, initializing", slog.String("key", e.key))
			e.replace(Initialize())
			e.loaded = true
			e.save()
		default:
			e.logger.Error("load document failed",
				slog.String("key", e.key),
				slog.String("error", err.Error()))
			e.replace(Initialize())
		}
		e.loaded = true
		e.recalculate()
		return nil
	})
}

// replace swaps in doc wholesale.
func (e *Editor) replace(doc models.Document) {
	e.palette = palette.New(doc.Colors)
	e.settings = doc.Settings.Clone()
	if e.settings == nil {
		e.settings = models.Settings{}
	}
	if err := e.surface.SetContent(doc.Body); err != nil {
		e.logger.Warn("stored body is not valid markup, keeping text",
			slog.String("error", err.Error()))
		_ = e.surface.SetContent(annotation.Plain(doc.Body).Markup())
	}
	e.syncBody()
}

// syncBody reads the body back from the surface.
func (e *Editor) syncBody() {
	body, err := annotation.Parse(e.surface.Content())
	if err != nil {
		e.logger.Warn("surface content unreadable", slog.String("error", err.Error()))
		return
	}
	e.body = body
}

func (e *Editor) snapshot() models.Document {
	return models.Document{
		Body:     e.body.Markup(),
		Colors:   e.palette.Colors(),
		Settings: e.settings.Clone(),
	}
}

func (e *Editor) state() view.State {
	return view.State{Body: e.body, Colors: e.palette.Colors(), Settings: e.settings}
}

func (e *Editor) recalculate() {
	view.Apply(e.presenter, view.Recalculate(e.state()))
}

func (e *Editor) closeMenu() {
	if e.presenter != nil {
		e.presenter.CloseMenu()
	}
}

// scheduleSave arms the debounced save.
func (e *Editor) scheduleSave() {
	e.debounce.Schedule(e.save)
}

// saveNow supersedes any pending debounced save with an immediate one.
func (e *Editor) saveNow() {
	e.debounce.Cancel()
	e.save()
}

// write stores doc unless a newer snapshot has already been written.
func (e *Editor) write(ctx context.Context, seq uint64, doc models.Document) (bool, error) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	if seq <= e.written {
		return false, nil
	}
	if err := e.gateway.Set(ctx, e.key, doc); err != nil {
		return false, err
	}
	e.written = seq
	return true, nil
}

// save snapshots the document and writes it in the background. Failures are
// logged only. On success the view is recalculated.
func (e *Editor) save() {
	e.syncBody()
	doc := e.snapshot()
	id := uuid.NewString()
	e.seq++
	seq := e.seq

	e.saves.Add(1)
	go func() {
		defer e.saves.Done()

		ctx, cancel := context.WithTimeout(context.Background(), e.saveTimeout)
		defer cancel()

		start := time.Now()
		ok, err := e.write(ctx, seq, doc)
		if err != nil {
			e.logger.Error("save document failed",
				slog.String("save_id", id),
				slog.String("key", e.key),
				slog.String("error", err.Error()))
			return
		}
		if !ok {
			e.logger.Debug("stale save skipped", slog.String("save_id", id))
			return
		}

		saved := Saved{ID: id, At: time.Now()}
		if data, err := storage.Encode(doc); err == nil {
			saved.Checksum = storage.Checksum(data)
		}
		e.logger.Debug("document saved",
			slog.String("save_id", id),
			slog.String("checksum", saved.Checksum),
			slog.String("duration", time.Since(start).String()))

		e.post(func() {
			e.recalculate()
			if e.onSaved != nil {
				e.onSaved(saved)
			}
		})
	}()
}

// Flush writes a pending debounced save immediately and waits for it.
func (e *Editor) Flush(ctx context.Context) error {
	return e.do(ctx, func() error {
		if !e.debounce.Cancel() {
			return nil
		}
		e.syncBody()
		e.seq++
		if _, err := e.write(ctx, e.seq, e.snapshot()); err != nil {
			return fmt.Errorf("document: flush: %w", err)
		}
		e.logger.Info("pending save flushed", slog.String("key", e.key))
		return nil
	})
}

// Mutate applies fn to a copy of the document, makes the result live and
// schedules a debounced save. An error from fn leaves the document as it was.
func (e *Editor) Mutate(ctx context.Context, fn func(doc *models.Document) error) error {
	return e.do(ctx, func() error {
		if err := e.ready(); err != nil {
			return err
		}
		doc := e.snapshot()
		if err := fn(&doc); err != nil {
			return fmt.Errorf("document: mutate: %w", err)
		}
		e.replace(doc)
		e.scheduleSave()
		return nil
	})
}

// Input replaces the surface content with typed markup and schedules a
// debounced save.
func (e *Editor) Input(ctx context.Context, markup string) error {
	return e.do(ctx, func() error {
		if err := e.ready(); err != nil {
			return err
		}
		if err := e.surface.SetContent(markup); err != nil {
			return fmt.Errorf("document: input: %w", err)
		}
		e.syncBody()
		e.scheduleSave()
		return nil
	})
}

// Paste replaces r with plain text, leaves the caret after it and saves.
func (e *Editor) Paste(ctx context.Context, r annotation.Range, text string) error {
	return e.do(ctx, func() error {
		if err := e.ready(); err != nil {
			return err
		}
		return e.insert(r, text)
	})
}

// AppendText adds plain text at the end of the body on a new line and saves.
func (e *Editor) AppendText(ctx context.Context, text string) error {
	return e.do(ctx, func() error {
		if err := e.ready(); err != nil {
			return err
		}
		if text == "" {
			return nil
		}
		end := e.body.Len()
		if end > 0 && !strings.HasSuffix(e.body.Text(), "\n") {
			text = "\n" + text
		}
		return e.insert(annotation.Range{Start: end, End: end}, text)
	})
}

func (e *Editor) insert(r annotation.Range, text string) error {
	if err := e.surface.Select(r); err != nil {
		return fmt.Errorf("document: paste: %w", err)
	}
	if err := e.surface.InsertText(text); err != nil {
		return fmt.Errorf("document: paste: %w", err)
	}
	e.syncBody()
	e.saveNow()
	return nil
}

// ApplyHighlight wraps r in a highlight of color. A selection that is empty
// after trimming only closes the menu. Otherwise the color is moved to the
// front of the palette (appended first if new), the selection is wrapped,
// the menu closes and the document is saved.
func (e *Editor) ApplyHighlight(ctx context.Context, r annotation.Range, color models.Color) error {
	return e.do(ctx, func() error {
		if err := e.ready(); err != nil {
			return err
		}
		if err := e.surface.Select(r); err != nil {
			return fmt.Errorf("document: highlight: %w", err)
		}
		_, text := e.surface.Selection()
		if strings.TrimSpace(text) == "" {
			e.surface.ClearSelection()
			e.closeMenu()
			return nil
		}

		if err := e.palette.Touch(color); err != nil {
			return fmt.Errorf("document: highlight: %w", err)
		}
		if err := e.surface.ReplaceSelection(annotation.Highlight(color.ID, text)); err != nil {
			return fmt.Errorf("document: highlight: %w", err)
		}
		e.syncBody()
		e.closeMenu()
		e.saveNow()
		return nil
	})
}

// ClearHighlight turns r back into plain text and saves.
func (e *Editor) ClearHighlight(ctx context.Context, r annotation.Range) error {
	return e.do(ctx, func() error {
		if err := e.ready(); err != nil {
			return err
		}
		if err := e.surface.Select(r); err != nil {
			return fmt.Errorf("document: clear highlight: %w", err)
		}
		_, text := e.surface.Selection()
		if text == "" {
			e.closeMenu()
			return nil
		}
		if err := e.surface.ReplaceSelection(annotation.Segment{Text: text}); err != nil {
			return fmt.Errorf("document: clear highlight: %w", err)
		}
		e.syncBody()
		e.closeMenu()
		e.saveNow()
		return nil
	})
}

// RenameColor changes a color's display name in place.
func (e *Editor) RenameColor(ctx context.Context, id int, name string) error {
	return e.do(ctx, func() error {
		if err := e.ready(); err != nil {
			return err
		}
		if err := e.palette.Rename(id, name); err != nil {
			return fmt.Errorf("document: rename color: %w", err)
		}
		e.scheduleSave()
		return nil
	})
}

// SetSetting stores a scalar setting value.
func (e *Editor) SetSetting(ctx context.Context, key string, value any) error {
	return e.do(ctx, func() error {
		if err := e.ready(); err != nil {
			return err
		}
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("document: set setting: %w: empty key", apperr.ErrInvalidSetting)
		}
		switch value.(type) {
		case nil, string, bool, float64, int:
		default:
			return fmt.Errorf("document: set setting %q: %w: unsupported value %T", key, apperr.ErrInvalidSetting, value)
		}
		e.settings[key] = value
		e.scheduleSave()
		return nil
	})
}

// TogglePin flips a pinned* flag, saves and returns the new value. A missing
// or non-boolean flag counts as false.
func (e *Editor) TogglePin(ctx context.Context, key string) (bool, error) {
	return query(ctx, e, func() (bool, error) {
		if err := e.ready(); err != nil {
			return false, err
		}
		if !strings.HasPrefix(key, "pinned") {
			return false, fmt.Errorf("document: toggle pin %q: %w", key, apperr.ErrInvalidSetting)
		}
		cur, _ := e.settings[key].(bool)
		e.settings[key] = !cur
		e.saveNow()
		return !cur, nil
	})
}

// Document returns a copy of the live document.
func (e *Editor) Document(ctx context.Context) (models.Document, error) {
	return query(ctx, e, func() (models.Document, error) {
		if err := e.ready(); err != nil {
			return models.Document{}, err
		}
		return e.snapshot(), nil
	})
}

// Snapshot is the live document together with its plain text, read at
// the same instant.
type Snapshot struct {
	Document models.Document
	Text     string
}

// Snapshot returns the document and its plain text from one loop turn.
func (e *Editor) Snapshot(ctx context.Context) (Snapshot, error) {
	return query(ctx, e, func() (Snapshot, error) {
		if err := e.ready(); err != nil {
			return Snapshot{}, err
		}
		return Snapshot{Document: e.snapshot(), Text: e.body.Text()}, nil
	})
}

// Body returns the structured body.
func (e *Editor) Body(ctx context.Context) (annotation.Body, error) {
	return query(ctx, e, func() (annotation.Body, error) {
		if err := e.ready(); err != nil {
			return annotation.Body{}, err
		}
		return e.body, nil
	})
}

// View recalculates the derived view of the live document.
func (e *Editor) View(ctx context.Context) (view.View, error) {
	return query(ctx, e, func() (view.View, error) {
		if err := e.ready(); err != nil {
			return view.View{}, err
		}
		return view.Recalculate(e.state()), nil
	})
}

// Citations returns the citations of one color and renders them.
func (e *Editor) Citations(ctx context.Context, colorID int) (view.Citations, error) {
	return query(ctx, e, func() (view.Citations, error) {
		if err := e.ready(); err != nil {
			return view.Citations{}, err
		}
		c, ok := e.palette.Get(colorID)
		if !ok {
			return view.Citations{}, fmt.Errorf("document: citations %d: %w", colorID, apperr.ErrUnknownColor)
		}
		out := view.Citations{
			ColorID:   c.ID,
			Name:      c.Name,
			Value:     c.Value,
			Citations: e.body.Citations(c.ID),
		}
		if e.presenter != nil {
			e.presenter.RenderCitations(out)
		}
		return out, nil
	})
}

// CopyAllHighlights returns every color's citations keyed by color name.
func (e *Editor) CopyAllHighlights(ctx context.Context) (annotation.CitationSet, error) {
	return query(ctx, e, func() (annotation.CitationSet, error) {
		if err := e.ready(); err != nil {
			return nil, err
		}
		return annotation.AllCitations(e.body, e.palette.Colors()), nil
	})
}
