// Package pipeline composes query and command handlers with cross-cutting decorators:
// caching, write invalidation, validation and logging.
package pipeline

import (
	"context"

	"go-aside-cache/internal/models"
)

// Handler handles one request type
type Handler[Req, Resp any] interface {
	Handle(ctx context.Context, req Req) (Resp, error)
}

// HandlerFunc adapts a function to Handler
type HandlerFunc[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

// Handle calls f(ctx, req)
func (f HandlerFunc[Req, Resp]) Handle(ctx context.Context, req Req) (Resp, error) {
	return f(ctx, req)
}

// Operation is a request whose response may be served from the cache
type Operation interface {
	CacheKey() string
	BypassCache() bool
	CachePolicy() models.CachePolicy
}

// Listing is an Operation over a collection. Its results are keyed by the collection
// generation and ListParams, so one invalidation of the collection key drops them all.
type Listing interface {
	CollectionKey() string
	ListParams() interface{}
}

// Written is the result of a write handler together with the cache keys it made stale.
// A write handler cannot be exposed as Handler[Req, T] without going through Invalidating.
type Written[T any] struct {
	Value T
	Stale []string
}

// Invalidator removes cache keys
type Invalidator interface {
	Invalidate(ctx context.Context, keys ...string) error
}
