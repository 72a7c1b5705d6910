package pipeline

import (
	"context"

	"go.uber.org/zap"
)

// Invalidating runs a write and then removes the keys it reported stale. An invalidation
// failure is logged and swallowed: the write already committed and its result stands.
func Invalidating[Req, Resp any](inv Invalidator, logger *zap.Logger, next Handler[Req, Written[Resp]]) Handler[Req, Resp] {
	return HandlerFunc[Req, Resp](func(ctx context.Context, req Req) (Resp, error) {
		written, err := next.Handle(ctx, req)
		if err != nil {
			return written.Value, err
		}

		if len(written.Stale) > 0 {
			if err := inv.Invalidate(ctx, written.Stale...); err != nil {
				logger.Warn("Failed to invalidate stale cache keys",
					zap.Strings("keys", written.Stale),
					zap.Error(err))
			}
		}
		return written.Value, nil
	})
}
