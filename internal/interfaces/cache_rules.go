package interfaces

import "go-aside-cache/internal/models"

// CacheRulesConfig resolves named cache policies
type CacheRulesConfig interface {
	// GetPolicy returns the named policy with unset fields taken from the defaults.
	// Unknown names resolve to the defaults.
	GetPolicy(name string) models.CachePolicy
	GetDefaultPolicy() models.CachePolicy
	GetAllPolicies() []string
}
