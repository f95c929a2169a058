package inbox

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recordSink struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (s *recordSink) AppendText(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.texts = append(s.texts, text)
	return nil
}

func (s *recordSink) got() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func startWatch(t *testing.T, dir string, sink Sink) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = Watch(ctx, dir, sink, quietLogger())
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	time.Sleep(100 * time.Millisecond)
}

func TestInboxIngestsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, "a.txt"), []byte("first\r\n"), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "b.md"), []byte("second\n"), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "c.json"), []byte("{}"), 0o644)

	sink := &recordSink{}
	startWatch(t, dir, sink)

	eventually(t, 2*time.Second, 20*time.Millisecond, func() bool {
		return len(sink.got()) == 2
	}, "existing files not ingested")

	got := sink.got()
	if got[0] != "first" || got[1] != "second" {
		t.Errorf("texts = %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Error("ingested file not removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "c.json")); err != nil {
		t.Error("unrelated file touched")
	}
}

func TestInboxIngestsDroppedFile(t *testing.T) {
	dir := t.TempDir()
	sink := &recordSink{}
	startWatch(t, dir, sink)

	path := filepath.Join(dir, "transcript.txt")
	_ = os.WriteFile(path, []byte("part one"), 0o644)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = f.WriteString(" and two\n")
	f.Close()

	eventually(t, 3*time.Second, 20*time.Millisecond, func() bool {
		return len(sink.got()) == 1
	}, "dropped file not ingested")

	time.Sleep(2 * Settle)
	got := sink.got()
	if len(got) != 1 || got[0] != "part one and two" {
		t.Errorf("texts = %q", got)
	}
}

func TestInboxKeepsFileOnAppendFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")
	_ = os.WriteFile(path, []byte("keep me"), 0o644)

	sink := &recordSink{err: errors.New("not loaded")}
	startWatch(t, dir, sink)
	time.Sleep(2 * Settle)

	if _, err := os.Stat(path); err != nil {
		t.Errorf("file removed despite failure: %v", err)
	}
}

func TestAccepted(t *testing.T) {
	tests := map[string]bool{
		"a.txt":      true,
		"b.MD":       true,
		".hidden.md": false,
		"c.json":     false,
		"noext":      false,
	}
	for name, want := range tests {
		if got := accepted(name); got != want {
			t.Errorf("accepted(%q) = %v, want %v", name, got, want)
		}
	}
}
