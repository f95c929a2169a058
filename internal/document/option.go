package document

import (
	"log/slog"
	"time"

	"github.com/starford/colorpad/internal/view"
)

const (
	// DefaultSaveDebounce is the quiet period before a debounced save.
	DefaultSaveDebounce = 200 * time.Millisecond
	// DefaultSaveTimeout bounds a single gateway write.
	DefaultSaveTimeout = 10 * time.Second
)

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = l
	}
}

// WithPresenter sets the presenter views are rendered through.
func WithPresenter(p view.Presenter) Option {
	return func(e *Editor) {
		e.presenter = p
	}
}

// WithSaveDebounce sets the debounced save quiet period.
func WithSaveDebounce(d time.Duration) Option {
	return func(e *Editor) {
		if d > 0 {
			e.debounceDelay = d
		}
	}
}

// WithSaveTimeout sets the per-save gateway timeout.
func WithSaveTimeout(d time.Duration) Option {
	return func(e *Editor) {
		if d > 0 {
			e.saveTimeout = d
		}
	}
}

// WithKey overrides the store key.
func WithKey(key string) Option {
	return func(e *Editor) {
		if key != "" {
			e.key = key
		}
	}
}

// WithSaveListener registers fn to run on the editor loop after every
// successful save.
func WithSaveListener(fn func(Saved)) Option {
	return func(e *Editor) {
		e.onSaved = fn
	}
}
