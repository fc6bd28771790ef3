package cache

import (
	"context"
	"time"
)

// Cache stores JSON-encodable read results.
type Cache interface {
	// Get decodes the cached value into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// DeletePattern removes every key matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error
}

// Nop is a Cache that never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (Nop) Set(context.Context, string, any, time.Duration) error { return nil }
func (Nop) DeletePattern(context.Context, string) error           { return nil }

// CatalogPrefix namespaces every cached catalog read.
const CatalogPrefix = "catalog:"

// InvalidateCatalog drops every cached catalog read. Writes call it after
// the store commits.
func InvalidateCatalog(ctx context.Context, c Cache) error {
	return c.DeletePattern(ctx, CatalogPrefix+"*")
}
