package interfaces

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:generate mockgen -source=keydb_client.go -destination=mock/keydb_client.go -package=mock

// KeyDbClient defines the interface for KeyDB/Redis client operations
type KeyDbClient interface {
	// HMGet reads the given fields of a hash
	HMGet(ctx context.Context, key string, fields ...string) *redis.SliceCmd

	// Eval runs a Lua script atomically on the server
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd

	// PExpire sets a key timeout with millisecond precision
	PExpire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd

	// Del deletes one or more keys
	Del(ctx context.Context, keys ...string) *redis.IntCmd

	// Ping tests connectivity
	Ping(ctx context.Context) *redis.StatusCmd

	// Close closes the client connection
	Close() error
}
