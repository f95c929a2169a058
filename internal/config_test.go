package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/colorpad/internal/storage"
	pkgconfig "github.com/starford/colorpad/pkg/config"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Editor.SaveDebounce != 200*time.Millisecond {
		t.Errorf("save debounce = %v", cfg.Editor.SaveDebounce)
	}
	if cfg.Storage.Key != "colorpadDoc" {
		t.Errorf("key = %q", cfg.Storage.Key)
	}
}

func TestStorageConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StorageConfig
		wantErr bool
	}{
		{"memory", StorageConfig{Driver: storage.DriverMemory, Key: "k"}, false},
		{"file needs path", StorageConfig{Driver: storage.DriverFile, Key: "k"}, true},
		{"sqlite", StorageConfig{Driver: storage.DriverSQLite, Path: "x.db", Key: "k"}, false},
		{"redis needs url", StorageConfig{Driver: storage.DriverRedis, Key: "k"}, true},
		{"unknown driver", StorageConfig{Driver: "s3", Key: "k"}, true},
		{"bad key", StorageConfig{Driver: storage.DriverMemory, Key: "../x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEditorConfigBounds(t *testing.T) {
	cfg := EditorConfig{SaveDebounce: 2 * time.Minute, SaveTimeout: time.Second}
	if err := cfg.Validate(); err == nil {
		t.Error("debounce above a minute should fail")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestLoadYAMLOverDefaults(t *testing.T) {
	t.Setenv("COLORPAD_TEST_REDIS", "redis://localhost:6379/2")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `app:
  log_level: debug
  http:
    port: 9090
storage:
  driver: redis
  redis_url: ${COLORPAD_TEST_REDIS}
editor:
  save_debounce: 350ms
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.App.HTTP.Port != 9090 || cfg.App.LogLevel.String() != "DEBUG" {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Storage.RedisURL != "redis://localhost:6379/2" || cfg.Storage.Key != "colorpadDoc" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Editor.SaveDebounce != 350*time.Millisecond || cfg.Editor.SaveTimeout != 10*time.Second {
		t.Errorf("editor = %+v", cfg.Editor)
	}
}
