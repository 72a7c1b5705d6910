package noop

import (
	"context"

	"go-aside-cache/internal/interfaces"
	"go-aside-cache/internal/models"
)

// Ensure NoOpStore implements interfaces.Store
var _ interfaces.Store = (*NoOpStore)(nil)

// NoOpStore is a no-operation store for disabled caches
type NoOpStore struct{}

// NewNoOpStore creates a new no-operation store instance
func NewNoOpStore() interfaces.Store {
	return &NoOpStore{}
}

// Get always returns cache miss
func (n *NoOpStore) Get(_ context.Context, _ string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set does nothing
func (n *NoOpStore) Set(_ context.Context, _ string, _ []byte, _ models.CachePolicy) error {
	return nil
}

// Remove does nothing
func (n *NoOpStore) Remove(_ context.Context, _ string) error {
	return nil
}

// Refresh does nothing
func (n *NoOpStore) Refresh(_ context.Context, _ string) error {
	return nil
}
