package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Drivers accepted by Open.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Options selects and configures a gateway driver.
type Options struct {
	Driver   string
	Path     string
	RedisURL string
}

// Open builds the gateway named by opts.Driver.
func Open(opts Options) (Gateway, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFile:
		return NewFS(opts.Path)
	case DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, fmt.Errorf("storage: mkdir for db: %w", err)
		}
		return OpenSQLite(opts.Path)
	case DriverRedis:
		return NewRedis(opts.RedisURL)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", opts.Driver)
	}
}
