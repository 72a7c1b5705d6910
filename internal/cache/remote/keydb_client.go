package remote

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"go-aside-cache/internal/config"
	"go-aside-cache/internal/interfaces"
)

// Ensure RedisKeyDbClient implements interfaces.KeyDbClient
var _ interfaces.KeyDbClient = (*RedisKeyDbClient)(nil)

// RedisKeyDbClient wraps redis.Client to implement KeyDbClient interface
type RedisKeyDbClient struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisKeyDbClient creates a new RedisKeyDbClient instance
func NewRedisKeyDbClient(remoteCfg *config.RemoteConfig, keydbURL string, logger *zap.Logger) (interfaces.KeyDbClient, error) {
	opts, err := ParseOptions(remoteCfg, keydbURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), remoteCfg.GetConnectTimeout())
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close() // Clean up the client
		return nil, fmt.Errorf("failed to connect to KeyDB at %s: %w", opts.Addr, err)
	}

	logger.Info("Connected to KeyDB",
		zap.String("address", opts.Addr),
		zap.Int("db", opts.DB),
		zap.Duration("connect_timeout", remoteCfg.GetConnectTimeout()),
		zap.Int("pool_size", remoteCfg.Keepalive.PoolSize))

	return &RedisKeyDbClient{
		client: client,
		logger: logger,
	}, nil
}

// ParseOptions builds client options from a redis://[:password@]host[:port][/db] URL
func ParseOptions(remoteCfg *config.RemoteConfig, keydbURL string) (*redis.Options, error) {
	parsedURL, err := url.Parse(keydbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse KeyDB URL: %w", err)
	}
	if parsedURL.Scheme != "redis" && parsedURL.Scheme != "keydb" {
		return nil, fmt.Errorf("unsupported KeyDB URL scheme %q", parsedURL.Scheme)
	}

	// Extract host and port
	host := parsedURL.Hostname()
	if host == "" {
		return nil, fmt.Errorf("KeyDB URL has no host")
	}
	port := parsedURL.Port()
	if port == "" {
		port = "6379" // Default Redis port
	}

	opts := &redis.Options{
		Addr:         fmt.Sprintf("%s:%s", host, port),
		DialTimeout:  remoteCfg.GetConnectTimeout(),
		ReadTimeout:  remoteCfg.GetReadTimeout(),
		WriteTimeout: remoteCfg.GetSendTimeout(),
		PoolSize:     remoteCfg.Keepalive.PoolSize,
		IdleTimeout:  remoteCfg.GetMaxIdleTimeout(),
	}

	// Handle password if present in URL
	if parsedURL.User != nil {
		if password, ok := parsedURL.User.Password(); ok {
			opts.Password = password
		}
	}

	// Handle database number if present in URL path
	if len(parsedURL.Path) > 1 {
		db, err := strconv.Atoi(parsedURL.Path[1:])
		if err != nil {
			return nil, fmt.Errorf("invalid KeyDB database %q: %w", parsedURL.Path[1:], err)
		}
		opts.DB = db
	}

	return opts, nil
}

// HMGet reads the given fields of a hash
func (r *RedisKeyDbClient) HMGet(ctx context.Context, key string, fields ...string) *redis.SliceCmd {
	return r.client.HMGet(ctx, key, fields...)
}

// Eval runs a Lua script atomically on the server
func (r *RedisKeyDbClient) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	return r.client.Eval(ctx, script, keys, args...)
}

// PExpire sets a key timeout with millisecond precision
func (r *RedisKeyDbClient) PExpire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	return r.client.PExpire(ctx, key, expiration)
}

// Del deletes one or more keys
func (r *RedisKeyDbClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return r.client.Del(ctx, keys...)
}

// Ping tests connectivity
func (r *RedisKeyDbClient) Ping(ctx context.Context) *redis.StatusCmd {
	return r.client.Ping(ctx)
}

// Close closes the client connection
func (r *RedisKeyDbClient) Close() error {
	return r.client.Close()
}
