// Package documentloaders provides implementations for loading documents
// from various sources as input for splitters.
package documentloaders

import (
	"context"

	"github.com/sevigo/splitframe/schema"
)

// Loader defines the interface for loading documents from various sources.
type Loader interface {
	// Load retrieves documents from the source. The context can be used for
	// cancellation during the loading process.
	Load(ctx context.Context) ([]schema.Document, error)
}

var (
	_ Loader = (*FileLoader)(nil)
	_ Loader = (*CLICommandLoader)(nil)
)
