package pipeline

import (
	"context"

	"go.uber.org/zap"

	"go-aside-cache/internal/cache/service"
)

// Cached serves Operation requests through the coordinator. Bypass requests and
// listings whose key cannot be resolved go straight to next.
func Cached[Req Operation, Resp any](coord *service.Coordinator, logger *zap.Logger, next Handler[Req, Resp]) Handler[Req, Resp] {
	return HandlerFunc[Req, Resp](func(ctx context.Context, req Req) (Resp, error) {
		policy := req.CachePolicy()
		if req.BypassCache() {
			policy.Bypass = true
		}

		key := req.CacheKey()
		if listing, ok := any(req).(Listing); ok && !policy.Bypass {
			listKey, err := coord.ListKey(ctx, listing.CollectionKey(), listing.ListParams(), policy)
			if err != nil {
				logger.Warn("Failed to resolve list cache key, serving uncached",
					zap.String("collection", listing.CollectionKey()),
					zap.Error(err))
				return next.Handle(ctx, req)
			}
			key = listKey
		}

		return service.GetOrCompute(ctx, coord, key, policy, func(ctx context.Context) (Resp, error) {
			return next.Handle(ctx, req)
		})
	})
}
