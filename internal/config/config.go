package config

import (
	"math/bits"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmgilman/go/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Store kinds selectable with cache.store
const (
	StoreLocal  = "local"
	StoreRemote = "remote"
	StoreNone   = "none"
)

// Config represents the main configuration structure
type Config struct {
	Server ServerConfig `yaml:"server"`
	Cache  CacheConfig  `yaml:"cache"`
	Local  LocalConfig  `yaml:"local"`
	Remote RemoteConfig `yaml:"remote"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Port            int `yaml:"port" validate:"gte=1,lte=65535"`
	ShutdownTimeout int `yaml:"shutdown_timeout" validate:"gte=0"` // milliseconds
}

// CacheConfig selects the cache tier
type CacheConfig struct {
	Store          string `yaml:"store" validate:"oneof=local remote none"`
	CoalesceMisses *bool  `yaml:"coalesce_misses"` // share one computation between concurrent misses, default true
}

// LocalConfig configures the in-process store
type LocalConfig struct {
	Capacity      int64 `yaml:"capacity" validate:"gte=1"`                 // total weight units, bytes unless policies set a weight
	Shards        int   `yaml:"shards" validate:"gte=1,power_of_two"`      // index shards
	MaxLifetime   int   `yaml:"max_lifetime" validate:"gte=1"`             // seconds, upper bound of any absolute window
	SweepInterval *int  `yaml:"sweep_interval" validate:"omitempty,gte=0"` // seconds between background sweeps, 0 disables, default 60
}

// RemoteConfig configures the Redis/KeyDB store
type RemoteConfig struct {
	KeyPrefix  string           `yaml:"key_prefix" validate:"max=64"`
	Connection ConnectionConfig `yaml:"connection"`
	Keepalive  KeepaliveConfig  `yaml:"keepalive"`
}

// ConnectionConfig holds timeouts in milliseconds
type ConnectionConfig struct {
	ConnectTimeout int `yaml:"connect_timeout" validate:"gte=0"`
	SendTimeout    int `yaml:"send_timeout" validate:"gte=0"`
	ReadTimeout    int `yaml:"read_timeout" validate:"gte=0"`
}

// KeepaliveConfig configures the connection pool
type KeepaliveConfig struct {
	PoolSize       int `yaml:"pool_size" validate:"gte=0"`
	MaxIdleTimeout int `yaml:"max_idle_timeout" validate:"gte=0"` // milliseconds
}

// LoadConfig loads configuration from file path
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	logger.Info("Loading configuration", zap.String("path", configPath))

	file, err := os.Open(configPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to open config file")
	}
	defer func() { _ = file.Close() }()

	var config Config
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to decode YAML config")
	}

	// Apply defaults
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

// Validate checks value ranges after defaults are applied
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.RegisterValidation("power_of_two", isPowerOfTwo); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to register validation")
	}
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, errors.CodeInvalidConfig, "invalid configuration")
	}
	return nil
}

func isPowerOfTwo(fl validator.FieldLevel) bool {
	v := fl.Field().Int()
	return v > 0 && bits.OnesCount64(uint64(v)) == 1
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 30000
	}

	if c.Cache.Store == "" {
		c.Cache.Store = StoreLocal
	}
	if c.Cache.CoalesceMisses == nil {
		coalesce := true
		c.Cache.CoalesceMisses = &coalesce
	}

	if c.Local.Capacity == 0 {
		c.Local.Capacity = 64 * 1024 * 1024
	}
	if c.Local.Shards == 0 {
		c.Local.Shards = 64
	}
	if c.Local.MaxLifetime == 0 {
		c.Local.MaxLifetime = 86400
	}
	if c.Local.SweepInterval == nil {
		sweep := 60
		c.Local.SweepInterval = &sweep
	}

	if c.Remote.Connection.ConnectTimeout == 0 {
		c.Remote.Connection.ConnectTimeout = 1000
	}
	if c.Remote.Connection.SendTimeout == 0 {
		c.Remote.Connection.SendTimeout = 1000
	}
	if c.Remote.Connection.ReadTimeout == 0 {
		c.Remote.Connection.ReadTimeout = 1000
	}
	if c.Remote.Keepalive.PoolSize == 0 {
		c.Remote.Keepalive.PoolSize = 10
	}
	if c.Remote.Keepalive.MaxIdleTimeout == 0 {
		c.Remote.Keepalive.MaxIdleTimeout = 10000
	}
}

// ShouldCoalesceMisses reports whether concurrent misses share one computation
func (c *Config) ShouldCoalesceMisses() bool {
	return c.Cache.CoalesceMisses == nil || *c.Cache.CoalesceMisses
}

// GetShutdownTimeout returns the graceful shutdown deadline
func (c *Config) GetShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeout) * time.Millisecond
}

// GetMaxLifetime returns the longest absolute window the local store keeps payloads for
func (c *LocalConfig) GetMaxLifetime() time.Duration {
	return time.Duration(c.MaxLifetime) * time.Second
}

// GetSweepInterval returns how often expired entries are purged, 0 disables the sweep
func (c *LocalConfig) GetSweepInterval() time.Duration {
	if c.SweepInterval == nil {
		return 0
	}
	return time.Duration(*c.SweepInterval) * time.Second
}

// GetConnectTimeout returns connect timeout as time.Duration
func (c *RemoteConfig) GetConnectTimeout() time.Duration {
	return time.Duration(c.Connection.ConnectTimeout) * time.Millisecond
}

// GetSendTimeout returns send timeout as time.Duration
func (c *RemoteConfig) GetSendTimeout() time.Duration {
	return time.Duration(c.Connection.SendTimeout) * time.Millisecond
}

// GetReadTimeout returns read timeout as time.Duration
func (c *RemoteConfig) GetReadTimeout() time.Duration {
	return time.Duration(c.Connection.ReadTimeout) * time.Millisecond
}

// GetMaxIdleTimeout returns max idle timeout as time.Duration
func (c *RemoteConfig) GetMaxIdleTimeout() time.Duration {
	return time.Duration(c.Keepalive.MaxIdleTimeout) * time.Millisecond
}
