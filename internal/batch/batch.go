// Package batch renders many barcodes from a manifest file with a worker
// pool and reports the outcome per item.
package batch

import (
	"context"
	"fmt"
)

// ProcessManifest loads the manifest at path and renders every item.
func ProcessManifest(ctx context.Context, path string, config *Config, progress ProgressCallback) (*Result, error) {
	items, err := LoadManifest(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	return Run(ctx, items, config, progress)
}
