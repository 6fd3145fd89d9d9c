package config

import (
	"context"
	"errors"
)

var (
	// ErrUnsupportedExtension is returned when a description file does not
	// carry the extension the loader recognizes.
	ErrUnsupportedExtension = errors.New("unsupported description file extension")

	// ErrNotFound is returned when the description file does not exist.
	ErrNotFound = errors.New("description file not found")
)

// Loader is the interface for a format-specific description loader.
type Loader interface {
	// Load reads the description file at path and translates it into the
	// format-agnostic model.
	Load(ctx context.Context, path string) (*Model, error)
}
