package local

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/jmgilman/go/errors"
	"go.uber.org/zap"

	"go-aside-cache/internal/cache"
	"go-aside-cache/internal/config"
	"go-aside-cache/internal/interfaces"
	"go-aside-cache/internal/metrics"
	"go-aside-cache/internal/models"
	"go-aside-cache/internal/periodictask"
)

// Ensure LocalStore implements interfaces.Store
var _ interfaces.Store = (*LocalStore)(nil)

// Stats is a point-in-time view of local capacity usage
type Stats struct {
	Capacity int64
	Used     int64
	Entries  int64
}

// LocalStore is a bounded in-process store. Entries and their payloads live in a sharded
// index, so dropping an entry releases its bytes along with its weight.
type LocalStore struct {
	index       *index
	capacity    int64
	used        atomic.Int64
	entries     atomic.Int64
	evictMu     sync.Mutex
	maxLifetime time.Duration
	sweeper     *periodictask.PeriodicTask
	clock       clock.Clock
	logger      *zap.Logger
}

// Option configures a LocalStore
type Option func(*LocalStore)

// WithClock replaces the wall clock, used by tests to control expiration
func WithClock(c clock.Clock) Option {
	return func(s *LocalStore) {
		s.clock = c
	}
}

// NewLocalStore creates a new LocalStore instance
func NewLocalStore(localCfg *config.LocalConfig, logger *zap.Logger, opts ...Option) (interfaces.Store, error) {
	if localCfg.Capacity <= 0 {
		return nil, errors.New(errors.CodeInvalidConfig, "local capacity must be positive")
	}
	if localCfg.Shards <= 0 || localCfg.Shards&(localCfg.Shards-1) != 0 {
		return nil, errors.WithContext(
			errors.New(errors.CodeInvalidConfig, "local shards must be a power of two"), "shards", localCfg.Shards)
	}

	s := &LocalStore{
		index:       newIndex(localCfg.Shards),
		capacity:    localCfg.Capacity,
		maxLifetime: localCfg.GetMaxLifetime(),
		clock:       clock.New(),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.sweeper = periodictask.New(s.clock, localCfg.GetSweepInterval(), s.sweep)
	s.sweeper.Start()

	s.publishStats()
	return s, nil
}

// Get returns the payload of a live entry and slides its window
func (s *LocalStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	sh := s.index.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	e, ok := sh.items[key]
	if !ok {
		return nil, false, nil
	}

	now := s.clock.Now()
	if e.IsExpired(now) {
		s.dropLocked(sh, key, e)
		metrics.RecordEviction("expired", 1)
		s.publishStats()
		return nil, false, nil
	}

	e.Touch(now)
	return e.Value, true, nil
}

// Set stores a copy of value under key, evicting lower-priority entries when capacity is short
func (s *LocalStore) Set(ctx context.Context, key string, value []byte, policy models.CachePolicy) error {
	policy = policy.Normalize()
	if policy.Absolute <= 0 {
		// Already expired: nothing to keep
		return s.Remove(ctx, key)
	}
	if policy.Absolute > s.maxLifetime {
		policy.Absolute = s.maxLifetime
		policy = policy.Normalize()
	}

	weight := policy.Weight
	if weight <= 0 {
		weight = int64(len(value))
	}
	if weight > s.capacity {
		metrics.RecordCapacityRejection()
		return cache.ErrCapacityExceeded
	}

	if err := s.reserve(key, weight); err != nil {
		metrics.RecordCapacityRejection()
		return err
	}

	entry := models.NewCacheEntry(key, bytes.Clone(value), policy, weight, s.clock.Now())

	sh := s.index.shardFor(key)
	sh.mu.Lock()
	if old, ok := sh.items[key]; ok {
		s.used.Add(-old.Weight)
		s.entries.Add(-1)
	}
	sh.items[key] = entry
	s.entries.Add(1)
	sh.mu.Unlock()

	s.publishStats()
	return nil
}

// Remove drops key. Removing an absent key succeeds.
func (s *LocalStore) Remove(_ context.Context, key string) error {
	sh := s.index.shardFor(key)
	sh.mu.Lock()
	e, ok := sh.items[key]
	if ok {
		s.dropLocked(sh, key, e)
	}
	sh.mu.Unlock()

	if ok {
		s.publishStats()
	}
	return nil
}

// Refresh slides the window of a live entry without reading its payload
func (s *LocalStore) Refresh(_ context.Context, key string) error {
	sh := s.index.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	e, ok := sh.items[key]
	if !ok {
		return nil
	}

	now := s.clock.Now()
	if e.IsExpired(now) {
		s.dropLocked(sh, key, e)
		metrics.RecordEviction("expired", 1)
		return nil
	}
	e.Touch(now)
	return nil
}

// RefreshesOnGet reports that Get already slides the window
func (s *LocalStore) RefreshesOnGet() bool {
	return true
}

// Stats returns current capacity usage
func (s *LocalStore) Stats() Stats {
	return Stats{
		Capacity: s.capacity,
		Used:     s.used.Load(),
		Entries:  s.entries.Load(),
	}
}

// Close stops the sweeper and drops every entry
func (s *LocalStore) Close() error {
	s.sweeper.Stop()
	for _, sh := range s.index.shards {
		sh.mu.Lock()
		for key, e := range sh.items {
			s.dropLocked(sh, key, e)
		}
		sh.mu.Unlock()
	}
	s.publishStats()
	return nil
}

// sweep purges expired entries in the background so idle keys release capacity
func (s *LocalStore) sweep(_ context.Context) {
	purged := s.purgeExpired()
	if purged == 0 {
		return
	}
	metrics.RecordEviction("expired", purged)
	s.publishStats()
	s.logger.Debug("Swept expired local entries", zap.Int("purged", purged))
}

// reserve claims weight units. The fast path is a CAS on the used counter;
// only a short capacity takes evictMu and makes room.
func (s *LocalStore) reserve(key string, weight int64) error {
	if s.tryReserve(weight) {
		return nil
	}

	s.evictMu.Lock()
	defer s.evictMu.Unlock()

	// Two rounds cover writers that consumed the freed space between eviction and reservation
	for attempt := 0; attempt < 2; attempt++ {
		if s.tryReserve(weight) {
			return nil
		}
		if err := s.makeRoom(key, weight); err != nil {
			return err
		}
	}
	if s.tryReserve(weight) {
		return nil
	}
	return cache.ErrCapacityExceeded
}

func (s *LocalStore) tryReserve(weight int64) bool {
	for {
		used := s.used.Load()
		if used+weight > s.capacity {
			return false
		}
		if s.used.CompareAndSwap(used, used+weight) {
			return true
		}
	}
}

// makeRoom purges expired entries, then evicts by priority until weight fits.
// Nothing live is evicted when the evictable entries could not free enough. Caller holds evictMu.
func (s *LocalStore) makeRoom(replacing string, weight int64) error {
	if purged := s.purgeExpired(); purged > 0 {
		metrics.RecordEviction("expired", purged)
	}

	need := s.used.Load() + weight - s.capacity
	if need <= 0 {
		return nil
	}

	candidates := s.index.snapshot(replacing)
	var freeable int64
	for _, c := range candidates {
		freeable += c.weight
	}
	if freeable < need {
		s.logger.Debug("Local capacity exhausted by never_remove entries",
			zap.Int64("need", need),
			zap.Int64("freeable", freeable))
		return cache.ErrCapacityExceeded
	}

	var freed int64
	evicted := 0
	for _, c := range candidates {
		if freed >= need {
			break
		}
		sh := s.index.shardFor(c.key)
		sh.mu.Lock()
		// Skip entries replaced or removed since the snapshot
		if current, ok := sh.items[c.key]; ok && current == c.entry {
			s.dropLocked(sh, c.key, current)
			freed += c.weight
			evicted++
		}
		sh.mu.Unlock()
	}

	if evicted > 0 {
		metrics.RecordEviction("capacity", evicted)
		s.publishStats()
	}
	return nil
}

// purgeExpired drops every expired entry and returns how many were dropped
func (s *LocalStore) purgeExpired() int {
	now := s.clock.Now()
	purged := 0
	for _, sh := range s.index.shards {
		sh.mu.Lock()
		for key, e := range sh.items {
			if e.IsExpired(now) {
				s.dropLocked(sh, key, e)
				purged++
			}
		}
		sh.mu.Unlock()
	}
	return purged
}

// dropLocked removes an entry and releases its weight. Caller holds sh.mu.
func (s *LocalStore) dropLocked(sh *shard, key string, e *models.CacheEntry) {
	delete(sh.items, key)
	s.used.Add(-e.Weight)
	s.entries.Add(-1)
}

// payloadBytes sums the payload sizes currently held
func (s *LocalStore) payloadBytes() int64 {
	var total int64
	for _, sh := range s.index.shards {
		sh.mu.Lock()
		for _, e := range sh.items {
			total += int64(len(e.Value))
		}
		sh.mu.Unlock()
	}
	return total
}

// publishStats updates local capacity gauges
func (s *LocalStore) publishStats() {
	stats := s.Stats()
	metrics.UpdateLocalCacheCapacity(stats.Capacity, stats.Used, stats.Entries)
}
