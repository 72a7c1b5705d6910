package models

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Priority orders entries for capacity-pressure eviction. Lower priorities are evicted first.
// The zero value is PriorityNormal.
type Priority int

const (
	PriorityLow         Priority = -1
	PriorityNormal      Priority = 0
	PriorityHigh        Priority = 1
	PriorityNeverRemove Priority = 2
)

var priorityNames = map[Priority]string{
	PriorityLow:         "low",
	PriorityNormal:      "normal",
	PriorityHigh:        "high",
	PriorityNeverRemove: "never_remove",
}

// String returns the configuration name of the priority
func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// ParsePriority converts a configuration name into a Priority
func ParsePriority(name string) (Priority, error) {
	for p, n := range priorityNames {
		if n == name {
			return p, nil
		}
	}
	return PriorityNormal, fmt.Errorf("invalid priority '%s': must be one of 'low', 'normal', 'high', 'never_remove'", name)
}

// UnmarshalYAML implements custom YAML unmarshaling for Priority
func (p *Priority) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	parsed, err := ParsePriority(str)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalYAML writes the priority by name
func (p Priority) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// Default expiration windows applied when a policy leaves them unset.
const (
	DefaultSliding  = 30 * time.Minute
	DefaultAbsolute = 60 * time.Minute
)

// CachePolicy controls how a computed value is stored
type CachePolicy struct {
	Sliding  time.Duration `yaml:"sliding"`  // Expire if not accessed for this long
	Absolute time.Duration `yaml:"absolute"` // Hard cap measured from the write
	Priority Priority      `yaml:"priority"`
	Weight   int64         `yaml:"weight"` // Size units charged against local capacity, 0 = encoded size
	Bypass   bool          `yaml:"bypass"` // Skip lookup and population entirely
}

// DefaultPolicy returns the policy used when nothing else is configured
func DefaultPolicy() CachePolicy {
	return CachePolicy{
		Sliding:  DefaultSliding,
		Absolute: DefaultAbsolute,
		Priority: PriorityNormal,
	}
}

// WithDefaults fills zero fields from def. Bypass is never inherited.
func (p CachePolicy) WithDefaults(def CachePolicy) CachePolicy {
	if p.Sliding == 0 {
		p.Sliding = def.Sliding
	}
	if p.Absolute == 0 {
		p.Absolute = def.Absolute
	}
	if p.Priority == PriorityNormal {
		p.Priority = def.Priority
	}
	if p.Weight == 0 {
		p.Weight = def.Weight
	}
	return p
}

// Normalize guarantees the absolute deadline is strictly later than the sliding window.
// A sliding window that would reach the hard cap is dropped, leaving absolute-only expiration.
func (p CachePolicy) Normalize() CachePolicy {
	if p.Sliding < 0 {
		p.Sliding = 0
	}
	if p.Sliding > 0 && p.Sliding >= p.Absolute {
		p.Sliding = 0
	}
	return p
}

// CacheEntry is the unit kept by a store
type CacheEntry struct {
	Key               string
	Value             []byte
	AbsoluteExpiresAt time.Time
	LastAccessedAt    time.Time
	Sliding           time.Duration
	Priority          Priority
	Weight            int64
}

// NewCacheEntry builds an entry written at now under the given policy
func NewCacheEntry(key string, value []byte, policy CachePolicy, weight int64, now time.Time) *CacheEntry {
	return &CacheEntry{
		Key:               key,
		Value:             value,
		AbsoluteExpiresAt: now.Add(policy.Absolute),
		LastAccessedAt:    now,
		Sliding:           policy.Sliding,
		Priority:          policy.Priority,
		Weight:            weight,
	}
}

// ExpiresAt returns the earlier of the absolute deadline and the end of the sliding window
func (e *CacheEntry) ExpiresAt() time.Time {
	if e.Sliding <= 0 {
		return e.AbsoluteExpiresAt
	}
	slidingEnd := e.LastAccessedAt.Add(e.Sliding)
	if slidingEnd.Before(e.AbsoluteExpiresAt) {
		return slidingEnd
	}
	return e.AbsoluteExpiresAt
}

// IsExpired checks whether either timer has elapsed at now
func (e *CacheEntry) IsExpired(now time.Time) bool {
	return !now.Before(e.ExpiresAt())
}

// Touch extends the sliding window from now
func (e *CacheEntry) Touch(now time.Time) {
	e.LastAccessedAt = now
}
