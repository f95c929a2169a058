package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/colorpad/internal/apperr"
	"github.com/starford/colorpad/internal/models"
)

func tempFS(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestFSInvalidKeys(t *testing.T) {
	s := tempFS(t)
	ctx := context.Background()
	for _, key := range []string{"../escape", "a/b", "", "..", "/etc/passwd"} {
		if err := s.Set(ctx, key, models.Document{}); err == nil {
			t.Errorf("Set(%q) should fail", key)
		}
		if _, err := s.Get(ctx, key); err == nil || errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Get(%q) = %v, want key error", key, err)
		}
	}
}

func TestFSAtomicWriteLeavesNoTemp(t *testing.T) {
	s := tempFS(t)
	ctx := context.Background()
	_ = s.Set(ctx, "doc", models.Document{Body: "one"})
	if err := s.Set(ctx, "doc", models.Document{Body: "two"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(ctx, "doc")
	if err != nil {
		t.Fatal(err)
	}
	if got.Body != "two" {
		t.Errorf("body = %q", got.Body)
	}
	matches, _ := filepath.Glob(filepath.Join(s.root, ".colorpad-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
	if _, err := os.Stat(filepath.Join(s.root, "doc.json")); err != nil {
		t.Errorf("record file missing: %v", err)
	}
}

func TestFSCorruptRecord(t *testing.T) {
	s := tempFS(t)
	_ = os.WriteFile(filepath.Join(s.root, "bad.json"), []byte("{not json"), 0o644)
	if _, err := s.Get(context.Background(), "bad"); err == nil || errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("corrupt record err = %v", err)
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "colorpad-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	if _, err := NewFS(f.Name()); err == nil {
		t.Error("expected error when root is a file")
	}
}
