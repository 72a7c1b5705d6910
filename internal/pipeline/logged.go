package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmgilman/go/errors"
	"go.uber.org/zap"

	"go-aside-cache/internal/metrics"
)

// Logged logs every request with a correlation id and its duration
func Logged[Req, Resp any](logger *zap.Logger, name string, next Handler[Req, Resp]) Handler[Req, Resp] {
	return HandlerFunc[Req, Resp](func(ctx context.Context, req Req) (Resp, error) {
		correlationID := uuid.NewString()
		log := logger.With(
			zap.String("handler", name),
			zap.String("correlation_id", correlationID))

		log.Debug("Handling request", zap.Any("request", req))
		observe := metrics.TimeHandler(name)
		start := time.Now()

		resp, err := next.Handle(ctx, req)
		duration := time.Since(start)

		if err != nil {
			code := errors.GetCode(err)
			observe(string(code))
			log.Warn("Request failed",
				zap.String("code", string(code)),
				zap.Duration("duration", duration),
				zap.Error(err))
			return resp, err
		}

		observe("ok")
		log.Info("Request handled", zap.Duration("duration", duration))
		return resp, nil
	})
}
