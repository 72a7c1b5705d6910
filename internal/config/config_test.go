package config

import (
	"os"
	"testing"
	"time"

	"github.com/jmgilman/go/errors"
	"go.uber.org/zap/zaptest"
)

func createTestConfigFile(t *testing.T, content string) string {
	tmpFile, err := os.CreateTemp("", "cache_config_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}

	if err := tmpFile.Close(); err != nil {
		t.Fatalf("Failed to close temp file: %v", err)
	}

	return tmpFile.Name()
}

func TestLoadConfig(t *testing.T) {
	logger := zaptest.NewLogger(t)

	validConfig := `
server:
  port: 9090

cache:
  store: remote
  coalesce_misses: false

local:
  capacity: 1048576
  shards: 16
  max_lifetime: 7200
  sweep_interval: 0

remote:
  key_prefix: "catalog:"
  connection:
    connect_timeout: 2000
    send_timeout: 2000
    read_timeout: 2000
  keepalive:
    pool_size: 20
    max_idle_timeout: 20000
`

	configFile := createTestConfigFile(t, validConfig)
	defer os.Remove(configFile)

	config, err := LoadConfig(configFile, logger)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Server.Port != 9090 {
		t.Errorf("LoadConfig() Server.Port = %v, want 9090", config.Server.Port)
	}
	if config.Cache.Store != StoreRemote {
		t.Errorf("LoadConfig() Cache.Store = %v, want remote", config.Cache.Store)
	}
	if config.ShouldCoalesceMisses() {
		t.Errorf("LoadConfig() ShouldCoalesceMisses() = true, want false")
	}
	if config.Local.Capacity != 1048576 {
		t.Errorf("LoadConfig() Local.Capacity = %v, want 1048576", config.Local.Capacity)
	}
	if config.Local.Shards != 16 {
		t.Errorf("LoadConfig() Local.Shards = %v, want 16", config.Local.Shards)
	}
	if config.Local.GetSweepInterval() != 0 {
		t.Errorf("LoadConfig() Local.GetSweepInterval() = %v, want 0 (explicitly disabled)", config.Local.GetSweepInterval())
	}
	if config.Remote.KeyPrefix != "catalog:" {
		t.Errorf("LoadConfig() Remote.KeyPrefix = %v, want catalog:", config.Remote.KeyPrefix)
	}
	if config.Remote.Connection.ConnectTimeout != 2000 {
		t.Errorf("LoadConfig() Remote.Connection.ConnectTimeout = %v, want 2000", config.Remote.Connection.ConnectTimeout)
	}
	if config.Remote.Keepalive.PoolSize != 20 {
		t.Errorf("LoadConfig() Remote.Keepalive.PoolSize = %v, want 20", config.Remote.Keepalive.PoolSize)
	}
}

func TestLoadConfig_WithDefaults(t *testing.T) {
	logger := zaptest.NewLogger(t)

	minimalConfig := `
cache:
  store: local
`

	configFile := createTestConfigFile(t, minimalConfig)
	defer os.Remove(configFile)

	config, err := LoadConfig(configFile, logger)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Server.Port != 8080 {
		t.Errorf("LoadConfig() Server.Port = %v, want 8080 (default)", config.Server.Port)
	}
	if !config.ShouldCoalesceMisses() {
		t.Errorf("LoadConfig() ShouldCoalesceMisses() = false, want true (default)")
	}
	if config.Local.Capacity != 64*1024*1024 {
		t.Errorf("LoadConfig() Local.Capacity = %v, want 64MiB (default)", config.Local.Capacity)
	}
	if config.Local.GetSweepInterval() != time.Minute {
		t.Errorf("LoadConfig() Local.GetSweepInterval() = %v, want 1m (default)", config.Local.GetSweepInterval())
	}
	if config.Remote.Connection.ConnectTimeout != 1000 {
		t.Errorf("LoadConfig() Remote.Connection.ConnectTimeout = %v, want 1000 (default)", config.Remote.Connection.ConnectTimeout)
	}
	if config.Remote.Keepalive.PoolSize != 10 {
		t.Errorf("LoadConfig() Remote.Keepalive.PoolSize = %v, want 10 (default)", config.Remote.Keepalive.PoolSize)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	logger := zaptest.NewLogger(t)

	_, err := LoadConfig("/nonexistent/file.yaml", logger)
	if err == nil {
		t.Fatal("LoadConfig() should return error for nonexistent file")
	}
	if errors.GetCode(err) != errors.CodeInvalidConfig {
		t.Errorf("LoadConfig() error code = %v, want %v", errors.GetCode(err), errors.CodeInvalidConfig)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	logger := zaptest.NewLogger(t)

	invalidConfig := `
cache:
  store: local
  invalid yaml syntax [
`

	configFile := createTestConfigFile(t, invalidConfig)
	defer os.Remove(configFile)

	_, err := LoadConfig(configFile, logger)
	if err == nil {
		t.Fatal("LoadConfig() should return error for invalid YAML")
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	logger := zaptest.NewLogger(t)

	tests := []struct {
		name    string
		content string
	}{
		{
			name: "unknown store",
			content: `
cache:
  store: memcached
`,
		},
		{
			name: "shards not a power of two",
			content: `
local:
  shards: 12
`,
		},
		{
			name: "port out of range",
			content: `
server:
  port: 70000
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := createTestConfigFile(t, tt.content)
			defer os.Remove(configFile)

			_, err := LoadConfig(configFile, logger)
			if err == nil {
				t.Fatal("LoadConfig() should return error for invalid values")
			}
			if errors.GetCode(err) != errors.CodeInvalidConfig {
				t.Errorf("LoadConfig() error code = %v, want %v", errors.GetCode(err), errors.CodeInvalidConfig)
			}
		})
	}
}

func TestConfig_TimeoutMethods(t *testing.T) {
	sweep := 30
	config := &Config{
		Server: ServerConfig{ShutdownTimeout: 5000},
		Local:  LocalConfig{MaxLifetime: 3600, SweepInterval: &sweep},
		Remote: RemoteConfig{
			Connection: ConnectionConfig{
				ConnectTimeout: 1500,
				SendTimeout:    2500,
				ReadTimeout:    3500,
			},
			Keepalive: KeepaliveConfig{
				MaxIdleTimeout: 15000,
			},
		},
	}

	tests := []struct {
		name     string
		method   func() time.Duration
		expected time.Duration
	}{
		{name: "GetShutdownTimeout", method: config.GetShutdownTimeout, expected: 5 * time.Second},
		{name: "GetMaxLifetime", method: config.Local.GetMaxLifetime, expected: time.Hour},
		{name: "GetSweepInterval", method: config.Local.GetSweepInterval, expected: 30 * time.Second},
		{name: "GetConnectTimeout", method: config.Remote.GetConnectTimeout, expected: 1500 * time.Millisecond},
		{name: "GetSendTimeout", method: config.Remote.GetSendTimeout, expected: 2500 * time.Millisecond},
		{name: "GetReadTimeout", method: config.Remote.GetReadTimeout, expected: 3500 * time.Millisecond},
		{name: "GetMaxIdleTimeout", method: config.Remote.GetMaxIdleTimeout, expected: 15000 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.method()
			if result != tt.expected {
				t.Errorf("%s() = %v, want %v", tt.name, result, tt.expected)
			}
		})
	}
}

func TestConfig_PartialDefaults(t *testing.T) {
	config := &Config{
		Local: LocalConfig{
			Capacity: 2048, // Custom value
		},
		Remote: RemoteConfig{
			Connection: ConnectionConfig{
				ConnectTimeout: 2000, // Custom value
			},
		},
	}

	config.applyDefaults()

	// Custom values should be preserved
	if config.Local.Capacity != 2048 {
		t.Errorf("applyDefaults() should preserve custom Local.Capacity = %v", config.Local.Capacity)
	}
	if config.Remote.Connection.ConnectTimeout != 2000 {
		t.Errorf("applyDefaults() should preserve custom Remote.Connection.ConnectTimeout = %v", config.Remote.Connection.ConnectTimeout)
	}

	// Missing values should get defaults
	if config.Local.Shards != 64 {
		t.Errorf("applyDefaults() Local.Shards = %v, want 64 (default)", config.Local.Shards)
	}
	if config.Remote.Connection.ReadTimeout != 1000 {
		t.Errorf("applyDefaults() Remote.Connection.ReadTimeout = %v, want 1000 (default)", config.Remote.Connection.ReadTimeout)
	}
}

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
}
