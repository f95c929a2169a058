// Package apperr holds the sentinel errors shared across colorpad packages.
package apperr

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrUnknownColor   = errors.New("unknown color")
	ErrInvalidRange   = errors.New("invalid range")
	ErrInvalidSetting = errors.New("invalid setting")
	ErrInvalidName    = errors.New("invalid name")
	ErrNotReady       = errors.New("document not loaded")
	ErrClosed         = errors.New("editor closed")
	ErrInvalidFormat  = errors.New("unsupported format")
)
