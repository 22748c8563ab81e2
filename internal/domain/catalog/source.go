package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Source loads the full product list used to build a snapshot.
type Source interface {
	Load(ctx context.Context) ([]Product, error)
}

// StaticSource serves a fixed product list.
type StaticSource []Product

// Load implements Source.
func (s StaticSource) Load(_ context.Context) ([]Product, error) {
	out := make([]Product, len(s))
	copy(out, s)
	return out, nil
}

// FileSource reads a JSON array of products from disk on every Load.
type FileSource struct {
	Path string
}

// Load implements Source.
func (f FileSource) Load(_ context.Context) ([]Product, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode catalog file %s: %w", f.Path, err)
	}
	return products, nil
}
