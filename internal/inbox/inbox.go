// Package inbox feeds text files dropped into a directory into the document.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/colorpad/internal/annotation"
)

const (
	// Settle is how long a file must stay unchanged before it is read.
	Settle = 200 * time.Millisecond
	// MaxFileSize caps a single dropped file.
	MaxFileSize = 1 << 20
)

// Sink receives the text of each dropped file.
type Sink interface {
	AppendText(ctx context.Context, text string) error
}

// Watch appends every .txt and .md file that appears in dir to sink and
// then removes it. Files already present when Watch starts are ingested
// first. It blocks until ctx is cancelled.
func Watch(ctx context.Context, dir string, sink Sink, logger *slog.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("inbox: create dir: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("inbox: watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("inbox: watch %s: %w", dir, err)
	}

	logger.Info("inbox: started", slog.String("dir", dir))

	existing, err := pending(dir)
	if err != nil {
		logger.Warn("inbox: initial scan failed", slog.String("error", err.Error()))
	}
	for _, path := range existing {
		ingest(ctx, path, sink, logger)
	}

	// Each path gets its own settle timer; a write resets it.
	timers := make(map[string]*time.Timer)
	ready := make(chan string, 16)

	schedule := func(path string) {
		if t, ok := timers[path]; ok {
			t.Reset(Settle)
			return
		}
		timers[path] = time.AfterFunc(Settle, func() {
			select {
			case ready <- path:
			case <-ctx.Done():
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			for _, t := range timers {
				t.Stop()
			}
			logger.Info("inbox: stopped")
			return nil

		case path := <-ready:
			delete(timers, path)
			ingest(ctx, path, sink, logger)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !accepted(ev.Name) {
				continue
			}
			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				schedule(ev.Name)
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				if t, ok := timers[ev.Name]; ok {
					t.Stop()
					delete(timers, ev.Name)
				}
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("inbox: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// accepted reports whether path names a file the inbox takes.
func accepted(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	return ext == ".txt" || ext == ".md"
}

// pending lists accepted files in dir by name.
func pending(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && accepted(e.Name()) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

func ingest(ctx context.Context, path string, sink Sink, logger *slog.Logger) {
	info, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("inbox: stat failed", slog.String("path", path), slog.String("error", err.Error()))
		}
		return
	}
	if !info.Mode().IsRegular() {
		return
	}
	if info.Size() > MaxFileSize {
		logger.Warn("inbox: file too large, skipped",
			slog.String("path", path),
			slog.Int64("size", info.Size()))
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("inbox: read failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	text := strings.TrimRight(annotation.NormalizeNewlines(string(data)), "\n")
	if strings.TrimSpace(text) != "" {
		if err := sink.AppendText(ctx, text); err != nil {
			logger.Warn("inbox: append failed, file kept",
				slog.String("path", path),
				slog.String("error", err.Error()))
			return
		}
	}
	if err := os.Remove(path); err != nil {
		logger.Warn("inbox: remove failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	logger.Debug("inbox: ingested", slog.String("path", path))
}
