package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPriority_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		input   string
		want    Priority
		wantErr bool
	}{
		{input: "low", want: PriorityLow},
		{input: "normal", want: PriorityNormal},
		{input: "high", want: PriorityHigh},
		{input: "never_remove", want: PriorityNeverRemove},
		{input: "urgent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var p Priority
			err := yaml.Unmarshal([]byte(tt.input), &p)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
			assert.Equal(t, tt.input, p.String())
		})
	}
}

func TestPriority_Ordering(t *testing.T) {
	assert.Less(t, int(PriorityLow), int(PriorityNormal))
	assert.Less(t, int(PriorityNormal), int(PriorityHigh))
	assert.Less(t, int(PriorityHigh), int(PriorityNeverRemove))

	var zero Priority
	assert.Equal(t, PriorityNormal, zero)
}

func TestCachePolicy_WithDefaults(t *testing.T) {
	def := CachePolicy{Sliding: 5 * time.Minute, Absolute: 50 * time.Minute, Priority: PriorityHigh, Weight: 10}

	got := CachePolicy{}.WithDefaults(def)
	assert.Equal(t, def, got)

	got = CachePolicy{Sliding: time.Minute, Priority: PriorityLow, Bypass: true}.WithDefaults(def)
	assert.Equal(t, time.Minute, got.Sliding)
	assert.Equal(t, 50*time.Minute, got.Absolute)
	assert.Equal(t, PriorityLow, got.Priority)
	assert.True(t, got.Bypass)

	got = CachePolicy{}.WithDefaults(DefaultPolicy())
	assert.Equal(t, 30*time.Minute, got.Sliding)
	assert.Equal(t, 60*time.Minute, got.Absolute)
	assert.False(t, got.Bypass)
}

func TestCachePolicy_Normalize(t *testing.T) {
	tests := []struct {
		name        string
		policy      CachePolicy
		wantSliding time.Duration
	}{
		{name: "valid", policy: CachePolicy{Sliding: 5 * time.Minute, Absolute: 50 * time.Minute}, wantSliding: 5 * time.Minute},
		{name: "equal windows", policy: CachePolicy{Sliding: time.Hour, Absolute: time.Hour}, wantSliding: 0},
		{name: "sliding longer", policy: CachePolicy{Sliding: 2 * time.Hour, Absolute: time.Hour}, wantSliding: 0},
		{name: "negative sliding", policy: CachePolicy{Sliding: -time.Second, Absolute: time.Hour}, wantSliding: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.policy.Normalize()
			assert.Equal(t, tt.wantSliding, got.Sliding)
			assert.Equal(t, tt.policy.Absolute, got.Absolute)
		})
	}
}

func TestCacheEntry_Expiration(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	policy := CachePolicy{Sliding: 5 * time.Minute, Absolute: 20 * time.Minute}
	entry := NewCacheEntry("product:1", nil, policy, 1, now)

	assert.Equal(t, now.Add(5*time.Minute), entry.ExpiresAt())
	assert.False(t, entry.IsExpired(now.Add(4*time.Minute)))
	assert.True(t, entry.IsExpired(now.Add(5*time.Minute)))

	// Access keeps it alive but never past the absolute deadline
	entry.Touch(now.Add(4 * time.Minute))
	entry.Touch(now.Add(8 * time.Minute))
	entry.Touch(now.Add(12 * time.Minute))
	entry.Touch(now.Add(16 * time.Minute))
	assert.Equal(t, now.Add(20*time.Minute), entry.ExpiresAt())
	assert.False(t, entry.IsExpired(now.Add(19*time.Minute)))
	assert.True(t, entry.IsExpired(now.Add(20*time.Minute)))
}

func TestCacheEntry_ZeroAbsoluteIsExpired(t *testing.T) {
	now := time.Now()
	entry := NewCacheEntry("k", nil, CachePolicy{}, 1, now)

	assert.True(t, entry.IsExpired(now))
}
