package remote

import (
	"context"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"go-aside-cache/internal/cache"
	"go-aside-cache/internal/config"
	"go-aside-cache/internal/interfaces"
	"go-aside-cache/internal/models"
)

// Ensure KeyDBStore implements interfaces.Store
var _ interfaces.Store = (*KeyDBStore)(nil)

// Hash fields of a stored entry
const (
	fieldAbsolute = "absexp" // unix milliseconds of the hard deadline, -1 when unset
	fieldSliding  = "sldexp" // sliding window in milliseconds, -1 when unset
	fieldData     = "data"

	notPresent = -1
)

// setScript writes every field and the key TTL in one step, so a failed write never leaves a partial entry.
// ARGV: absexp, sldexp, ttl ms, data
const setScript = `redis.call('DEL', KEYS[1])
redis.call('HSET', KEYS[1], 'absexp', ARGV[1], 'sldexp', ARGV[2], 'data', ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1`

// KeyDBStore stores entries as Redis/KeyDB hashes. Expiration is delegated to the server TTL;
// the absolute deadline is also checked on read.
type KeyDBStore struct {
	client interfaces.KeyDbClient
	config *config.RemoteConfig
	clock  clock.Clock
	logger *zap.Logger
}

// Option configures a KeyDBStore
type Option func(*KeyDBStore)

// WithClock replaces the wall clock
func WithClock(c clock.Clock) Option {
	return func(kc *KeyDBStore) {
		kc.clock = c
	}
}

// NewKeyDBStore creates a new KeyDBStore instance with provided client
func NewKeyDBStore(cfg *config.RemoteConfig, client interfaces.KeyDbClient, logger *zap.Logger, opts ...Option) interfaces.Store {
	kc := &KeyDBStore{
		client: client,
		config: cfg,
		clock:  clock.New(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(kc)
	}
	return kc
}

// Get retrieves the payload of a live entry
func (kc *KeyDBStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, kc.config.GetReadTimeout())
	defer cancel()

	fullKey := kc.key(key)
	vals, err := kc.client.HMGet(ctx, fullKey, fieldAbsolute, fieldSliding, fieldData).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, cache.Unavailable("get", err)
	}
	if len(vals) != 3 || vals[2] == nil {
		return nil, false, nil
	}

	absexp := parseMillis(vals[0])
	if absexp != notPresent && kc.nowMillis() >= absexp {
		// The server TTL lags the absolute deadline by at most the sliding remainder
		kc.delete(ctx, fullKey)
		return nil, false, nil
	}

	data, ok := vals[2].(string)
	if !ok {
		return nil, false, nil
	}
	return []byte(data), true, nil
}

// Set stores value with its expiration metadata
func (kc *KeyDBStore) Set(ctx context.Context, key string, value []byte, policy models.CachePolicy) error {
	policy = policy.Normalize()
	if policy.Absolute <= 0 {
		return kc.Remove(ctx, key)
	}

	ctx, cancel := context.WithTimeout(ctx, kc.config.GetSendTimeout())
	defer cancel()

	absexp := kc.nowMillis() + policy.Absolute.Milliseconds()
	sliding := int64(notPresent)
	ttl := policy.Absolute
	if policy.Sliding > 0 {
		sliding = policy.Sliding.Milliseconds()
		ttl = policy.Sliding
	}

	err := kc.client.Eval(ctx, setScript, []string{kc.key(key)},
		absexp, sliding, ttl.Milliseconds(), value).Err()
	if err != nil && err != redis.Nil {
		kc.logger.Error("Failed to set KeyDB cache entry", zap.String("key", key), zap.Error(err))
		return cache.Unavailable("set", err)
	}
	return nil
}

// Remove deletes key. Removing an absent key succeeds.
func (kc *KeyDBStore) Remove(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, kc.config.GetSendTimeout())
	defer cancel()

	if err := kc.client.Del(ctx, kc.key(key)).Err(); err != nil && err != redis.Nil {
		kc.logger.Error("Failed to delete KeyDB cache entry", zap.String("key", key), zap.Error(err))
		return cache.Unavailable("remove", err)
	}
	return nil
}

// Refresh slides the key TTL without transferring the payload.
// The new TTL never reaches past the absolute deadline.
func (kc *KeyDBStore) Refresh(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, kc.config.GetReadTimeout())
	defer cancel()

	fullKey := kc.key(key)
	vals, err := kc.client.HMGet(ctx, fullKey, fieldAbsolute, fieldSliding).Result()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return cache.Unavailable("refresh", err)
	}
	if len(vals) != 2 {
		return nil
	}

	sliding := parseMillis(vals[1])
	if sliding == notPresent || sliding <= 0 {
		// Absolute-only entries keep the TTL set on write
		return nil
	}

	ttl := time.Duration(sliding) * time.Millisecond
	if absexp := parseMillis(vals[0]); absexp != notPresent {
		remaining := time.Duration(absexp-kc.nowMillis()) * time.Millisecond
		if remaining <= 0 {
			kc.delete(ctx, fullKey)
			return nil
		}
		if remaining < ttl {
			ttl = remaining
		}
	}

	if err := kc.client.PExpire(ctx, fullKey, ttl).Err(); err != nil && err != redis.Nil {
		return cache.Unavailable("refresh", err)
	}
	return nil
}

// Close closes the KeyDB connection
func (kc *KeyDBStore) Close() error {
	return kc.client.Close()
}

func (kc *KeyDBStore) key(key string) string {
	return kc.config.KeyPrefix + key
}

func (kc *KeyDBStore) nowMillis() int64 {
	return kc.clock.Now().UnixMilli()
}

// delete removes an expired entry, failures only delay cleanup to the server TTL
func (kc *KeyDBStore) delete(ctx context.Context, fullKey string) {
	if err := kc.client.Del(ctx, fullKey).Err(); err != nil && err != redis.Nil {
		kc.logger.Debug("Failed to delete expired KeyDB entry", zap.String("key", fullKey), zap.Error(err))
	}
}

// parseMillis reads a numeric hash field, returning notPresent for missing or malformed values
func parseMillis(v interface{}) int64 {
	s, ok := v.(string)
	if !ok {
		return notPresent
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return notPresent
	}
	return n
}
