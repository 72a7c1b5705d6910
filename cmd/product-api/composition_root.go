package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"go-aside-cache/internal/cache/local"
	"go-aside-cache/internal/cache/noop"
	"go-aside-cache/internal/cache/remote"
	"go-aside-cache/internal/cache/service"
	"go-aside-cache/internal/cache_rules"
	"go-aside-cache/internal/config"
	"go-aside-cache/internal/httpserver"
	"go-aside-cache/internal/interfaces"
	"go-aside-cache/internal/persistence/memory"
	"go-aside-cache/internal/product"
)

// CompositionRoot holds all application dependencies and provides a centralized
// place for dependency injection and service initialization.
type CompositionRoot struct {
	// Configuration
	Config     *config.Config
	Logger     *zap.Logger
	CacheRules interfaces.CacheRulesConfig

	// Cache components
	Store       interfaces.Store
	StoreName   string
	Coordinator *service.Coordinator

	// Services
	Repository interfaces.ProductRepository
	Catalog    *product.Catalog
	HTTPServer *httpserver.Server
}

// NewCompositionRoot creates and initializes all application dependencies.
//
// Initialization order:
// 1. Logger (needed by all other components)
// 2. Configuration (defines how components should be configured)
// 3. Cache rules (named cache policies)
// 4. Store (local, remote or none)
// 5. Coordinator (uses the store and the default policy)
// 6. Repository and product handlers
// 7. HTTP Server (uses all above components)
func NewCompositionRoot() (*CompositionRoot, error) {
	root := &CompositionRoot{}

	steps := []struct {
		name string
		init func() error
	}{
		{name: "logger", init: root.initLogger},
		{name: "configuration", init: root.loadConfig},
		{name: "cache rules", init: root.loadCacheRules},
		{name: "cache store", init: root.initStore},
		{name: "cache coordinator", init: root.initCoordinator},
		{name: "product handlers", init: root.initProducts},
		{name: "HTTP server", init: root.initHTTPServer},
	}

	for _, step := range steps {
		if err := step.init(); err != nil {
			_ = root.Cleanup()
			return nil, fmt.Errorf("failed to initialize %s: %w", step.name, err)
		}
	}

	return root, nil
}

// initLogger initializes the application logger
func (r *CompositionRoot) initLogger() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	r.Logger = logger
	return nil
}

// loadConfig loads the application configuration
func (r *CompositionRoot) loadConfig() error {
	configPath := os.Getenv("CACHE_CONFIG_FILE")
	if configPath == "" {
		configPath = "/app/cache_config.yaml"
	}

	cfg, err := config.LoadConfig(configPath, r.Logger)
	if err != nil {
		return err
	}

	r.Config = cfg
	return nil
}

// loadCacheRules loads named cache policies. The built-in rules apply when the file is absent.
func (r *CompositionRoot) loadCacheRules() error {
	rulesPath := os.Getenv("CACHE_RULES_FILE")
	if rulesPath == "" {
		rulesPath = "/app/cache_rules.yaml"
	}

	if _, err := os.Stat(rulesPath); errors.Is(err, os.ErrNotExist) {
		r.Logger.Warn("Cache rules file not found, using built-in rules", zap.String("path", rulesPath))
		r.CacheRules = cache_rules.NewCacheConfig(cache_rules.DefaultRules(), r.Logger)
		return nil
	}

	cacheRules, err := cache_rules.LoadCacheRulesConfig(rulesPath, r.Logger)
	if err != nil {
		return err
	}

	r.CacheRules = cacheRules
	return nil
}

// initStore creates the configured cache tier
func (r *CompositionRoot) initStore() error {
	switch r.Config.Cache.Store {
	case config.StoreLocal:
		store, err := local.NewLocalStore(&r.Config.Local, r.Logger)
		if err != nil {
			return err
		}
		r.Store = store
		r.StoreName = config.StoreLocal
		r.Logger.Info("Local cache store initialized",
			zap.Int64("capacity", r.Config.Local.Capacity),
			zap.Int("shards", r.Config.Local.Shards))
	case config.StoreRemote:
		redisURL := GetRedisURL(r.Logger)

		client, err := remote.NewRedisKeyDbClient(&r.Config.Remote, redisURL, r.Logger)
		if err != nil {
			r.Logger.Warn("Failed to connect to remote cache, falling back to no cache",
				zap.String("redis_url", redactURL(redisURL)),
				zap.Error(err))
			r.Store = noop.NewNoOpStore()
			r.StoreName = config.StoreNone
			return nil
		}

		r.Store = remote.NewKeyDBStore(&r.Config.Remote, client, r.Logger)
		r.StoreName = config.StoreRemote
		r.Logger.Info("Remote cache store initialized", zap.String("redis_url", redactURL(redisURL)))
	default:
		r.Store = noop.NewNoOpStore()
		r.StoreName = config.StoreNone
		r.Logger.Info("Cache disabled")
	}
	return nil
}

// initCoordinator wires the store to the cache-aside coordinator
func (r *CompositionRoot) initCoordinator() error {
	r.Coordinator = service.NewCoordinator(r.Store, r.Logger,
		service.WithStoreName(r.StoreName),
		service.WithDefaultPolicy(r.CacheRules.GetDefaultPolicy()),
		service.WithCoalescing(r.Config.ShouldCoalesceMisses()),
		service.WithEventSinks(NewZapEventSink(r.Logger), NewPrometheusEventSink()),
	)
	return nil
}

// initProducts creates the repository and the decorated product handlers
func (r *CompositionRoot) initProducts() error {
	r.Repository = memory.NewProductRepository(r.Logger)

	publisher := product.NewPublisher(r.Logger)
	publisher.Subscribe(product.AssignStockHandler(r.Logger))

	r.Catalog = product.NewCatalog(
		r.Repository,
		r.Coordinator,
		r.CacheRules,
		validator.New(),
		publisher,
		r.Logger,
	)
	return nil
}

// initHTTPServer initializes the HTTP server
func (r *CompositionRoot) initHTTPServer() error {
	r.HTTPServer = httpserver.NewServer(r.Catalog, r.Logger)
	return nil
}

// Cleanup performs cleanup of all resources
func (r *CompositionRoot) Cleanup() error {
	var errs []error

	// Close the store
	switch store := r.Store.(type) {
	case *local.LocalStore:
		if err := store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close local store: %w", err))
		}
	case *remote.KeyDBStore:
		if err := store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close remote store: %w", err))
		}
	}

	// Sync logger
	if r.Logger != nil {
		if err := r.Logger.Sync(); err != nil {
			errs = append(errs, fmt.Errorf("failed to sync logger: %w", err))
		}
	}

	return errors.Join(errs...)
}
