package cache_rules

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"go-aside-cache/internal/interfaces"
	"go-aside-cache/internal/models"
)

// LoadCacheRulesConfig loads cache rules from a YAML file and returns a config reader
func LoadCacheRulesConfig(rulesPath string, logger *zap.Logger) (interfaces.CacheRulesConfig, error) {
	logger.Info("Loading cache rules config", zap.String("path", rulesPath))

	file, err := os.Open(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache rules file: %w", err)
	}
	defer file.Close()

	var config CacheRulesConfig
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML cache rules: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("cache rules validation failed: %w", err)
	}

	logger.Info("Cache rules config loaded successfully", zap.Int("policies", len(config.Policies)))

	return NewCacheConfig(&config, logger), nil
}

// validateConfig validates the cache rules configuration structure
func validateConfig(config *CacheRulesConfig) error {
	if len(config.Policies) == 0 {
		return fmt.Errorf("missing policies section")
	}

	if err := validatePolicy("defaults", config.Defaults); err != nil {
		return err
	}
	for name, policy := range config.Policies {
		if name == "" {
			return fmt.Errorf("policy with empty name")
		}
		if err := validatePolicy(name, policy); err != nil {
			return err
		}
	}
	return nil
}

func validatePolicy(name string, policy models.CachePolicy) error {
	if policy.Sliding < 0 || policy.Absolute < 0 {
		return fmt.Errorf("policy '%s': expiration windows must not be negative", name)
	}
	if policy.Weight < 0 {
		return fmt.Errorf("policy '%s': weight must not be negative", name)
	}
	if policy.Sliding > 0 && policy.Absolute > 0 && policy.Sliding >= policy.Absolute {
		return fmt.Errorf("policy '%s': sliding window %s must be shorter than absolute %s",
			name, policy.Sliding, policy.Absolute)
	}
	return nil
}
