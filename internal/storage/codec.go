package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/starford/colorpad/internal/models"
)

// Encode serializes a Document record.
func Encode(doc models.Document) ([]byte, error) {
	if doc.Colors == nil {
		doc.Colors = []models.Color{}
	}
	if doc.Settings == nil {
		doc.Settings = models.Settings{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("storage: encode: %w", err)
	}
	return data, nil
}

// Decode parses a stored record.
func Decode(data []byte) (*models.Document, error) {
	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("storage: decode: %w", err)
	}
	return &doc, nil
}

// Checksum returns the hex-encoded SHA-256 digest of an encoded record.
func Checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
