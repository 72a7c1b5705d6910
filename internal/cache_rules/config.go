package cache_rules

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"go-aside-cache/internal/interfaces"
	"go-aside-cache/internal/models"
)

// Policy names used by the product handlers
const (
	PolicyProduct     = "product"
	PolicyProductList = "product_list"
)

// CacheConfig implements the CacheRulesConfig interface
type CacheConfig struct {
	config *CacheRulesConfig
	logger *zap.Logger
}

// Ensure CacheConfig implements the CacheRulesConfig interface
var _ interfaces.CacheRulesConfig = (*CacheConfig)(nil)

// NewCacheConfig creates a new CacheConfig instance
func NewCacheConfig(config *CacheRulesConfig, logger *zap.Logger) *CacheConfig {
	if config == nil {
		panic("config cannot be nil")
	}
	return &CacheConfig{
		config: config,
		logger: logger,
	}
}

// DefaultRules returns the rules used when no rules file is available
func DefaultRules() *CacheRulesConfig {
	return &CacheRulesConfig{
		Defaults: models.DefaultPolicy(),
		Policies: map[string]models.CachePolicy{
			PolicyProduct: {
				Sliding:  5 * time.Minute,
				Absolute: 50 * time.Minute,
				Priority: models.PriorityNormal,
			},
			PolicyProductList: {
				Sliding:  2 * time.Minute,
				Absolute: 20 * time.Minute,
				Priority: models.PriorityNeverRemove,
				Weight:   2048,
			},
		},
	}
}

// GetDefaultPolicy implements CacheRulesConfig interface
func (cr *CacheConfig) GetDefaultPolicy() models.CachePolicy {
	return cr.config.Defaults.WithDefaults(models.DefaultPolicy())
}

// GetPolicy implements CacheRulesConfig interface
func (cr *CacheConfig) GetPolicy(name string) models.CachePolicy {
	if policy, ok := cr.config.Policies[name]; ok {
		return policy.WithDefaults(cr.GetDefaultPolicy())
	}

	if cr.logger != nil {
		cr.logger.Debug("Policy not found in cache rules, using defaults", zap.String("policy", name))
	}
	return cr.GetDefaultPolicy()
}

// GetAllPolicies returns the configured policy names in sorted order
func (cr *CacheConfig) GetAllPolicies() []string {
	names := make([]string, 0, len(cr.config.Policies))
	for name := range cr.config.Policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
