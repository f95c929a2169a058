package storage

import (
	"context"

	"github.com/patrickmn/go-cache"

	"github.com/starford/colorpad/internal/apperr"
	"github.com/starford/colorpad/internal/models"
)

// Memory is a process-local gateway. Records are stored encoded so callers
// never share state with the store.
type Memory struct {
	cache *cache.Cache
}

// NewMemory creates an empty in-memory gateway.
func NewMemory() *Memory {
	return &Memory{cache: cache.New(cache.NoExpiration, 0)}
}

// Get returns a decoded copy of the record for key.
func (m *Memory) Get(_ context.Context, key string) (*models.Document, error) {
	x, found := m.cache.Get(key)
	if !found {
		return nil, apperr.ErrNotFound
	}
	return Decode(x.([]byte))
}

// Set stores an encoded copy of doc.
func (m *Memory) Set(_ context.Context, key string, doc models.Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	m.cache.Set(key, data, cache.NoExpiration)
	return nil
}

// Close drops every record.
func (m *Memory) Close() error {
	m.cache.Flush()
	return nil
}
