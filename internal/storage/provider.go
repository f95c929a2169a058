// Package storage implements the persistence gateway for the colorpad
// Document: asynchronous load/save of one record under a fixed key.
package storage

import (
	"context"

	"github.com/starford/colorpad/internal/models"
)

// Gateway is the durable key-value store the Document is saved to.
// Writes are last-writer-wins; there is no conflict detection.
type Gateway interface {
	// Get returns the record stored under key, or apperr.ErrNotFound.
	Get(ctx context.Context, key string) (*models.Document, error)
	// Set replaces the record stored under key.
	Set(ctx context.Context, key string, doc models.Document) error
	// Close releases the backend.
	Close() error
}
