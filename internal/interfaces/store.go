package interfaces

import (
	"context"

	"go-aside-cache/internal/models"
)

//go:generate mockgen -package=mock -source=store.go -destination=mock/store.go

// Store is a byte-oriented cache store. A missing or expired key is a miss, not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error) // returns value and found flag
	Set(ctx context.Context, key string, value []byte, policy models.CachePolicy) error
	Remove(ctx context.Context, key string) error  // removing an absent key succeeds
	Refresh(ctx context.Context, key string) error // extends the sliding window only
}
