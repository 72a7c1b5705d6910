package main

import (
	"go.uber.org/zap"

	"go-aside-cache/internal/interfaces"
	"go-aside-cache/internal/metrics"
	"go-aside-cache/internal/models"
)

// ZapEventSink writes coordinator events to the application log
type ZapEventSink struct {
	logger *zap.Logger
}

// NewZapEventSink creates a new ZapEventSink adapter
func NewZapEventSink(logger *zap.Logger) interfaces.EventSink {
	return &ZapEventSink{logger: logger}
}

// Record logs hits, misses and writes at debug level and errors at warn level
func (z *ZapEventSink) Record(event models.Event) {
	fields := []zap.Field{
		zap.String("event", string(event.Kind)),
		zap.String("key", event.Key),
		zap.String("store", event.Store),
		zap.Duration("duration", event.Duration),
	}

	if event.Kind == models.EventError {
		fields = append(fields, zap.String("stage", event.Stage), zap.Error(event.Err))
		z.logger.Warn("Cache operation failed", fields...)
		return
	}
	z.logger.Debug("Cache event", fields...)
}

// PrometheusEventSink adapts coordinator events to the metrics package
type PrometheusEventSink struct{}

// NewPrometheusEventSink creates a new PrometheusEventSink adapter
func NewPrometheusEventSink() interfaces.EventSink {
	return &PrometheusEventSink{}
}

// Record updates the counter and latency matching the event kind
func (p *PrometheusEventSink) Record(event models.Event) {
	switch event.Kind {
	case models.EventHit:
		metrics.RecordCacheRequest(event.Store)
		metrics.RecordCacheHit(event.Store)
	case models.EventMiss:
		metrics.RecordCacheRequest(event.Store)
		metrics.RecordCacheMiss(event.Store)
	case models.EventSet:
		metrics.RecordCacheSet(event.Store)
	case models.EventInvalidate:
		metrics.RecordCacheInvalidation(event.Store, 1)
	case models.EventBypass:
		metrics.RecordCacheBypass(event.Store)
	case models.EventError:
		metrics.RecordCacheError(event.Store, event.Stage)
	}

	if event.Duration > 0 {
		metrics.ObserveCacheOperation(string(event.Kind), event.Store, event.Duration)
	}
}
