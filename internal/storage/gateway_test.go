package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/starford/colorpad/internal/apperr"
	"github.com/starford/colorpad/internal/models"
)

func gateways(t *testing.T) map[string]Gateway {
	t.Helper()

	fs := tempFS(t)

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "colorpad.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	rd, err := NewRedis("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	t.Cleanup(func() { rd.Close() })

	return map[string]Gateway{
		"memory": NewMemory(),
		"file":   fs,
		"sqlite": db,
		"redis":  rd,
	}
}

func sampleDoc() models.Document {
	return models.Document{
		Body: `a <span data-color-id="1" class="highlighted">b</span>`,
		Colors: []models.Color{
			{ID: 1, Value: "#FF0000", Name: "Red", Order: 1},
			{ID: 2, Value: "#00FF00", Name: "Green", Order: 2},
		},
		Settings: models.Settings{"theme": "dark", "fontSize": 14.0, "pinnedTextSize": true},
	}
}

func TestGatewayNotFound(t *testing.T) {
	for name, gw := range gateways(t) {
		t.Run(name, func(t *testing.T) {
			_, err := gw.Get(context.Background(), models.DocumentKey)
			if !errors.Is(err, apperr.ErrNotFound) {
				t.Errorf("err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestGatewaySetGet(t *testing.T) {
	for name, gw := range gateways(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := sampleDoc()
			if err := gw.Set(ctx, models.DocumentKey, want); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, err := gw.Get(ctx, models.DocumentKey)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.Body != want.Body {
				t.Errorf("body = %q", got.Body)
			}
			if len(got.Colors) != 2 || got.Colors[1] != want.Colors[1] {
				t.Errorf("colors = %+v", got.Colors)
			}
			if got.Settings["theme"] != "dark" || got.Settings["fontSize"] != 14.0 || got.Settings["pinnedTextSize"] != true {
				t.Errorf("settings = %+v", got.Settings)
			}
		})
	}
}

func TestGatewayLastWriterWins(t *testing.T) {
	for name, gw := range gateways(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			first := sampleDoc()
			second := sampleDoc()
			second.Body = "replaced"
			second.Settings = models.Settings{"theme": "light"}
			_ = gw.Set(ctx, models.DocumentKey, first)
			_ = gw.Set(ctx, models.DocumentKey, second)
			got, err := gw.Get(ctx, models.DocumentKey)
			if err != nil {
				t.Fatal(err)
			}
			if got.Body != "replaced" {
				t.Errorf("body = %q", got.Body)
			}
			if _, ok := got.Settings["fontSize"]; ok {
				t.Error("settings were merged, want wholesale replacement")
			}
		})
	}
}

func TestGatewayReturnsCopies(t *testing.T) {
	gw := NewMemory()
	ctx := context.Background()
	doc := sampleDoc()
	_ = gw.Set(ctx, "k", doc)
	doc.Colors[0].Name = "mutated"
	got, _ := gw.Get(ctx, "k")
	if got.Colors[0].Name != "Red" {
		t.Errorf("store shares caller state: %q", got.Colors[0].Name)
	}
}

func TestSQLiteStoredChecksum(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "cs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ctx := context.Background()
	if _, err := db.StoredChecksum(ctx, "k"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing checksum err = %v", err)
	}
	doc := sampleDoc()
	_ = db.Set(ctx, "k", doc)
	data, _ := Encode(doc)
	cs, err := db.StoredChecksum(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if cs != Checksum(data) {
		t.Errorf("checksum = %q, want %q", cs, Checksum(data))
	}
}

func TestOpenDrivers(t *testing.T) {
	dir := t.TempDir()
	for _, opts := range []Options{
		{Driver: DriverMemory},
		{Driver: DriverFile, Path: filepath.Join(dir, "docs")},
		{Driver: DriverSQLite, Path: filepath.Join(dir, "nested", "colorpad.db")},
	} {
		gw, err := Open(opts)
		if err != nil {
			t.Errorf("Open(%s): %v", opts.Driver, err)
			continue
		}
		_ = gw.Close()
	}
	if _, err := Open(Options{Driver: "etcd"}); err == nil {
		t.Error("unknown driver should fail")
	}
}
