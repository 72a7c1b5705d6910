package cache_rules

import (
	"go-aside-cache/internal/models"
)

// CacheRulesConfig represents the cache rules configuration
type CacheRulesConfig struct {
	Defaults models.CachePolicy            `yaml:"defaults"`
	Policies map[string]models.CachePolicy `yaml:"policies"`
}
