package service

import (
	"context"
	"errors"
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"go-aside-cache/internal/cache"
	"go-aside-cache/internal/interfaces"
	"go-aside-cache/internal/models"
)

// Coordinator implements cache-aside reads over a single Store.
// It never spawns goroutines; expiration is passive or delegated to the store.
type Coordinator struct {
	store         interfaces.Store
	storeName     string
	slidesOnGet   bool
	defaultPolicy models.CachePolicy
	coalesce      bool
	group         singleflight.Group // data keys
	generations   singleflight.Group // collection generation tokens
	sinks         []interfaces.EventSink
	logger        *zap.Logger
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithDefaultPolicy sets the policy whose fields fill in zero request fields
func WithDefaultPolicy(policy models.CachePolicy) Option {
	return func(c *Coordinator) {
		c.defaultPolicy = policy
	}
}

// WithCoalescing toggles sharing one computation between concurrent misses on a key
func WithCoalescing(enabled bool) Option {
	return func(c *Coordinator) {
		c.coalesce = enabled
	}
}

// WithEventSinks registers observers of every cache operation
func WithEventSinks(sinks ...interfaces.EventSink) Option {
	return func(c *Coordinator) {
		c.sinks = append(c.sinks, sinks...)
	}
}

// WithStoreName labels events with the store kind
func WithStoreName(name string) Option {
	return func(c *Coordinator) {
		c.storeName = name
	}
}

// NewCoordinator creates a new coordinator over store
func NewCoordinator(store interfaces.Store, logger *zap.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:         store,
		storeName:     "unknown",
		defaultPolicy: models.DefaultPolicy(),
		coalesce:      true,
		logger:        logger,
	}

	// Stores that slide the window on read need no explicit refresh
	if r, ok := store.(interface{ RefreshesOnGet() bool }); ok {
		c.slidesOnGet = r.RefreshesOnGet()
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrCompute returns the cached value for key, or computes, caches and returns it.
// Errors from compute are returned unchanged and never cached, and absent values
// (nil pointers, maps or interfaces) are returned without being cached. Store failures
// only cost the cache benefit; the computed value is still returned.
func GetOrCompute[T any](ctx context.Context, c *Coordinator, key string, policy models.CachePolicy, compute func(context.Context) (T, error)) (T, error) {
	policy = c.resolve(policy)

	if policy.Bypass {
		c.emit(models.Event{Kind: models.EventBypass, Key: key, Policy: policy})
		return compute(ctx)
	}

	if value, ok := lookup[T](ctx, c, key, policy); ok {
		return value, nil
	}

	if !c.coalesce {
		return populate(ctx, c, key, policy, compute)
	}

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		return populate(ctx, c, key, policy, compute)
	})
	if err != nil && shared && ctx.Err() == nil && isCancellation(err) {
		// The leader's own request went away; this caller is still live
		return populate(ctx, c, key, policy, compute)
	}

	value, _ := v.(T)
	return value, err
}

// Invalidate removes every key. Absent keys are not an error. Removal runs even if ctx
// is cancelled, since it follows a committed write.
func (c *Coordinator) Invalidate(ctx context.Context, keys ...string) error {
	ctx = context.WithoutCancel(ctx)

	var errs []error
	for _, key := range keys {
		start := time.Now()
		if err := c.store.Remove(ctx, key); err != nil {
			c.fail(key, models.CachePolicy{}, "remove", err, time.Since(start))
			errs = append(errs, err)
			continue
		}
		c.emit(models.Event{Kind: models.EventInvalidate, Key: key, Duration: time.Since(start)})
	}
	return errors.Join(errs...)
}

// ListKey resolves the key of one parameterized list result under collectionKey.
// The collection key holds a generation token; invalidating it rotates the generation
// so that every cached page, filter and sort of the collection becomes unreachable.
func (c *Coordinator) ListKey(ctx context.Context, collectionKey string, params interface{}, policy models.CachePolicy) (string, error) {
	policy = c.resolve(policy)

	generation, err := c.generation(ctx, collectionKey, policy)
	if err != nil {
		return "", err
	}
	return cache.BuildListKey(collectionKey, generation, params)
}

// DefaultPolicy returns the policy used to fill unset request fields
func (c *Coordinator) DefaultPolicy() models.CachePolicy {
	return c.defaultPolicy
}

func (c *Coordinator) generation(ctx context.Context, collectionKey string, policy models.CachePolicy) (string, error) {
	data, found, err := c.store.Get(ctx, collectionKey)
	if err != nil {
		return "", err
	}
	if found {
		if generation, err := cache.Decode[string](data); err == nil && generation != "" {
			return generation, nil
		}
	}

	// Outlives the pages it guards
	tokenPolicy := models.CachePolicy{
		Absolute: 2 * policy.Absolute,
		Priority: models.PriorityNeverRemove,
	}

	v, err, _ := c.generations.Do(collectionKey, func() (interface{}, error) {
		generation := uuid.NewString()
		encoded, err := cache.Encode(generation)
		if err != nil {
			return "", err
		}
		if err := c.store.Set(ctx, collectionKey, encoded, tokenPolicy); err != nil {
			return "", err
		}
		return generation, nil
	})
	if err != nil {
		c.fail(collectionKey, tokenPolicy, "generation", err, 0)
		return "", err
	}
	return v.(string), nil
}

func lookup[T any](ctx context.Context, c *Coordinator, key string, policy models.CachePolicy) (T, bool) {
	var zero T

	start := time.Now()
	data, found, err := c.store.Get(ctx, key)
	elapsed := time.Since(start)
	if err != nil {
		c.fail(key, policy, "get", err, elapsed)
		c.emit(models.Event{Kind: models.EventMiss, Key: key, Policy: policy, Duration: elapsed})
		return zero, false
	}
	if !found {
		c.emit(models.Event{Kind: models.EventMiss, Key: key, Policy: policy, Duration: elapsed})
		return zero, false
	}

	value, err := cache.Decode[T](data)
	if err != nil {
		c.fail(key, policy, "decode", err, elapsed)
		if err := c.store.Remove(ctx, key); err != nil {
			c.logger.Warn("Failed to remove corrupt cache entry", zap.String("key", key), zap.Error(err))
		}
		c.emit(models.Event{Kind: models.EventMiss, Key: key, Policy: policy, Duration: elapsed})
		return zero, false
	}

	if !c.slidesOnGet {
		if err := c.store.Refresh(ctx, key); err != nil {
			c.fail(key, policy, "refresh", err, 0)
		}
	}

	c.emit(models.Event{Kind: models.EventHit, Key: key, Policy: policy, Duration: elapsed})
	return value, true
}

func populate[T any](ctx context.Context, c *Coordinator, key string, policy models.CachePolicy, compute func(context.Context) (T, error)) (T, error) {
	value, err := compute(ctx)
	if err != nil {
		return value, err
	}
	if isAbsent(value) {
		return value, nil
	}

	data, err := cache.Encode(value)
	if err != nil {
		c.fail(key, policy, "encode", err, 0)
		return value, nil
	}

	// The value is already paid for, keep it even if the caller has gone away
	start := time.Now()
	if err := c.store.Set(context.WithoutCancel(ctx), key, data, policy); err != nil {
		c.fail(key, policy, "set", err, time.Since(start))
		return value, nil
	}

	c.emit(models.Event{Kind: models.EventSet, Key: key, Policy: policy, Duration: time.Since(start)})
	return value, nil
}

// resolve fills unset fields from the default policy and enforces absolute > sliding
func (c *Coordinator) resolve(policy models.CachePolicy) models.CachePolicy {
	return policy.WithDefaults(c.defaultPolicy).Normalize()
}

// fail reports a store failure as an error event; sinks decide how it is logged
func (c *Coordinator) fail(key string, policy models.CachePolicy, stage string, err error, d time.Duration) {
	c.emit(models.Event{Kind: models.EventError, Key: key, Policy: policy, Stage: stage, Err: err, Duration: d})
}

func (c *Coordinator) emit(event models.Event) {
	event.Store = c.storeName
	for _, sink := range c.sinks {
		sink.Record(event)
	}
}

// isAbsent reports whether v carries no value worth caching
func isAbsent(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
