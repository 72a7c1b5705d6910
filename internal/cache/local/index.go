package local

import (
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"go-aside-cache/internal/models"
)

// shard owns the metadata of a subset of keys. Same-key operations serialize on mu.
type shard struct {
	mu    sync.Mutex
	items map[string]*models.CacheEntry
}

type index struct {
	shards []*shard
	mask   uint64
}

// newIndex creates an index with n shards, n must be a power of two
func newIndex(n int) *index {
	idx := &index{
		shards: make([]*shard, n),
		mask:   uint64(n - 1),
	}
	for i := range idx.shards {
		idx.shards[i] = &shard{items: make(map[string]*models.CacheEntry)}
	}
	return idx
}

func (idx *index) shardFor(key string) *shard {
	return idx.shards[xxhash.Sum64String(key)&idx.mask]
}

// candidate is a point-in-time view of an evictable entry
type candidate struct {
	key       string
	entry     *models.CacheEntry
	priority  models.Priority
	expiresAt time.Time
	weight    int64
}

// snapshot collects eviction candidates ordered by priority ascending, then soonest expiry.
// never_remove entries are skipped unless they belong to the key being overwritten.
func (idx *index) snapshot(replacing string) []candidate {
	var out []candidate
	for _, s := range idx.shards {
		s.mu.Lock()
		for key, e := range s.items {
			if e.Priority == models.PriorityNeverRemove && key != replacing {
				continue
			}
			out = append(out, candidate{
				key:       key,
				entry:     e,
				priority:  e.Priority,
				expiresAt: e.ExpiresAt(),
				weight:    e.Weight,
			})
		}
		s.mu.Unlock()
	}

	sort.Slice(out, func(i, j int) bool {
		// The key being overwritten goes first, its weight is released anyway
		if out[i].key == replacing || out[j].key == replacing {
			return out[i].key == replacing
		}
		if out[i].priority != out[j].priority {
			return out[i].priority < out[j].priority
		}
		return out[i].expiresAt.Before(out[j].expiresAt)
	})
	return out
}
