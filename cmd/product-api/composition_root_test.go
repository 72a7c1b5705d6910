package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-aside-cache/internal/cache/local"
	"go-aside-cache/internal/cache/noop"
	"go-aside-cache/internal/cache_rules"
	"go-aside-cache/internal/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNewCompositionRoot(t *testing.T) {
	tests := []struct {
		name      string
		config    string
		storeName string
		check     func(t *testing.T, root *CompositionRoot)
	}{
		{
			name:      "local store",
			config:    "cache:\n  store: local\nlocal:\n  capacity: 4096\n  shards: 4\n",
			storeName: config.StoreLocal,
			check: func(t *testing.T, root *CompositionRoot) {
				assert.IsType(t, &local.LocalStore{}, root.Store)
			},
		},
		{
			name:      "cache disabled",
			config:    "cache:\n  store: none\n",
			storeName: config.StoreNone,
			check: func(t *testing.T, root *CompositionRoot) {
				assert.IsType(t, &noop.NoOpStore{}, root.Store)
			},
		},
		{
			name:      "unreachable remote falls back to no cache",
			config:    "cache:\n  store: remote\nremote:\n  connection:\n    connect_timeout: 200\n",
			storeName: config.StoreNone,
			check: func(t *testing.T, root *CompositionRoot) {
				assert.IsType(t, &noop.NoOpStore{}, root.Store)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CACHE_CONFIG_FILE", writeFile(t, "cache_config.yaml", tt.config))
			t.Setenv("CACHE_RULES_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
			t.Setenv("REDIS_URL", "redis://127.0.0.1:1")

			root, err := NewCompositionRoot()
			require.NoError(t, err)
			defer func() { _ = root.Cleanup() }()

			assert.Equal(t, tt.storeName, root.StoreName)
			assert.NotNil(t, root.Coordinator)
			assert.NotNil(t, root.Catalog)
			assert.NotNil(t, root.HTTPServer)
			assert.Equal(t, []string{cache_rules.PolicyProduct, cache_rules.PolicyProductList}, root.CacheRules.GetAllPolicies())
			tt.check(t, root)
		})
	}
}

func TestNewCompositionRoot_LoadsRulesFile(t *testing.T) {
	t.Setenv("CACHE_CONFIG_FILE", writeFile(t, "cache_config.yaml", "cache:\n  store: none\n"))
	t.Setenv("CACHE_RULES_FILE", writeFile(t, "cache_rules.yaml", "policies:\n  product:\n    absolute: 10m\n"))

	root, err := NewCompositionRoot()
	require.NoError(t, err)
	defer func() { _ = root.Cleanup() }()

	assert.Equal(t, []string{cache_rules.PolicyProduct}, root.CacheRules.GetAllPolicies())
}

func TestNewCompositionRoot_Errors(t *testing.T) {
	t.Run("missing config", func(t *testing.T) {
		t.Setenv("CACHE_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

		root, err := NewCompositionRoot()
		assert.Nil(t, root)
		assert.ErrorContains(t, err, "failed to initialize configuration")
	})

	t.Run("invalid rules", func(t *testing.T) {
		t.Setenv("CACHE_CONFIG_FILE", writeFile(t, "cache_config.yaml", "cache:\n  store: none\n"))
		t.Setenv("CACHE_RULES_FILE", writeFile(t, "cache_rules.yaml", "policies: {}\n"))

		root, err := NewCompositionRoot()
		assert.Nil(t, root)
		assert.ErrorContains(t, err, "failed to initialize cache rules")
	})
}
