package cache

import (
	"fmt"

	"github.com/jmgilman/go/errors"
)

// CodeCapacityExceeded marks a local write that could not fit without evicting never_remove entries
const CodeCapacityExceeded errors.ErrorCode = "CACHE_CAPACITY_EXCEEDED"

var (
	// ErrCacheUnavailable is returned when the backing store cannot be reached
	ErrCacheUnavailable = errors.New(errors.CodeUnavailable, "cache store unavailable")

	// ErrCapacityExceeded is returned when an entry cannot be admitted
	ErrCapacityExceeded = errors.New(CodeCapacityExceeded, "cache capacity exceeded")

	// ErrSerialization is returned when a value cannot be encoded or decoded
	ErrSerialization = errors.New(errors.CodeInternal, "cache serialization failed")
)

// Unavailable wraps a transport failure so that errors.Is(err, ErrCacheUnavailable) holds
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrCacheUnavailable, op, err)
}
