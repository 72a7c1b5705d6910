package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"go-aside-cache/internal/cache"
	"go-aside-cache/internal/cache/local"
	"go-aside-cache/internal/config"
	"go-aside-cache/internal/interfaces/mock"
	"go-aside-cache/internal/models"
)

var productPolicy = models.CachePolicy{Sliding: 5 * time.Minute, Absolute: 50 * time.Minute}

func newLocalCoordinator(t *testing.T, opts ...Option) *Coordinator {
	t.Helper()

	store, err := local.NewLocalStore(&config.LocalConfig{Capacity: 1 << 20, Shards: 4, MaxLifetime: 86400}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.(*local.LocalStore).Close() })

	return NewCoordinator(store, zap.NewNop(), opts...)
}

// countingCompute returns a compute function and the number of times it ran
func countingCompute[T any](value T, err error) (func(context.Context) (T, error), *atomic.Int32) {
	calls := &atomic.Int32{}
	return func(context.Context) (T, error) {
		calls.Add(1)
		return value, err
	}, calls
}

func TestGetOrCompute_ReadThrough(t *testing.T) {
	ctx := context.Background()
	c := newLocalCoordinator(t)

	product := models.Product{ID: uuid.New(), Name: "P1", Price: 10}
	compute, calls := countingCompute(product, nil)

	first, err := GetOrCompute(ctx, c, "product:1", productPolicy, compute)
	require.NoError(t, err)
	second, err := GetOrCompute(ctx, c, "product:1", productPolicy, compute)
	require.NoError(t, err)

	assert.Equal(t, product, first)
	assert.Equal(t, product, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetOrCompute_Bypass(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl) // No store calls are expected
	c := NewCoordinator(store, zap.NewNop())

	compute, calls := countingCompute("fresh", nil)
	policy := productPolicy
	policy.Bypass = true

	for i := 0; i < 2; i++ {
		value, err := GetOrCompute(context.Background(), c, "k", policy, compute)
		require.NoError(t, err)
		assert.Equal(t, "fresh", value)
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetOrCompute_Invalidate(t *testing.T) {
	ctx := context.Background()
	c := newLocalCoordinator(t)

	price := 10.0
	compute := func(context.Context) (models.Product, error) {
		return models.Product{Name: "P1", Price: price}, nil
	}

	got, err := GetOrCompute(ctx, c, "product:1", productPolicy, compute)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.Price)

	price = 12
	got, err = GetOrCompute(ctx, c, "product:1", productPolicy, compute)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.Price, "served from cache until invalidated")

	require.NoError(t, c.Invalidate(ctx, "product:1", "never-cached"))

	got, err = GetOrCompute(ctx, c, "product:1", productPolicy, compute)
	require.NoError(t, err)
	assert.Equal(t, 12.0, got.Price)
}

func TestGetOrCompute_AbsenceNotCached(t *testing.T) {
	ctx := context.Background()
	c := newLocalCoordinator(t)

	compute, calls := countingCompute[*models.Product](nil, nil)

	for i := 0; i < 2; i++ {
		got, err := GetOrCompute(ctx, c, "product:missing", productPolicy, compute)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetOrCompute_ErrorNotCached(t *testing.T) {
	ctx := context.Background()
	c := newLocalCoordinator(t)

	notFound := errors.New("product not found")
	compute, calls := countingCompute(models.Product{}, notFound)

	for i := 0; i < 2; i++ {
		_, err := GetOrCompute(ctx, c, "product:1", productPolicy, compute)
		assert.Same(t, notFound, err)
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetOrCompute_StoreUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	sink := mock.NewMockEventSink(ctrl)
	core, logs := observer.New(zapcore.DebugLevel)
	c := NewCoordinator(store, zap.New(core), WithEventSinks(sink), WithStoreName("remote"))

	store.EXPECT().Get(gomock.Any(), "k").Return(nil, false, cache.ErrCacheUnavailable)
	store.EXPECT().Set(gomock.Any(), "k", gomock.Any(), gomock.Any()).Return(cache.ErrCacheUnavailable)

	var kinds []models.EventKind
	sink.EXPECT().Record(gomock.Any()).Do(func(e models.Event) {
		assert.Equal(t, "remote", e.Store)
		kinds = append(kinds, e.Kind)
	}).AnyTimes()

	value, err := GetOrCompute(context.Background(), c, "k", productPolicy, func(context.Context) (string, error) {
		return "computed", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "computed", value)
	assert.Equal(t, []models.EventKind{models.EventError, models.EventMiss, models.EventError}, kinds)
	// Failures reach the log through the sinks only
	assert.Zero(t, logs.Len())
}

func TestGetOrCompute_CorruptEntryRemoved(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	c := NewCoordinator(store, zap.NewNop())

	gomock.InOrder(
		store.EXPECT().Get(gomock.Any(), "k").Return([]byte("{not json"), true, nil),
		store.EXPECT().Remove(gomock.Any(), "k").Return(nil),
		store.EXPECT().Set(gomock.Any(), "k", gomock.Any(), gomock.Any()).Return(nil),
	)

	value, err := GetOrCompute(context.Background(), c, "k", productPolicy, func(context.Context) (models.Product, error) {
		return models.Product{Name: "P1"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "P1", value.Name)
}

func TestGetOrCompute_RefreshOnHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	c := NewCoordinator(store, zap.NewNop())

	data, err := cache.Encode(models.Product{Name: "P1"})
	require.NoError(t, err)

	gomock.InOrder(
		store.EXPECT().Get(gomock.Any(), "k").Return(data, true, nil),
		store.EXPECT().Refresh(gomock.Any(), "k").Return(errors.New("refresh failed")),
	)

	value, err := GetOrCompute(context.Background(), c, "k", productPolicy, func(context.Context) (models.Product, error) {
		t.Fatal("compute must not run on a hit")
		return models.Product{}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "P1", value.Name)
}

func TestGetOrCompute_PolicyDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	defaults := models.CachePolicy{Sliding: time.Minute, Absolute: 10 * time.Minute, Priority: models.PriorityHigh}
	c := NewCoordinator(store, zap.NewNop(), WithDefaultPolicy(defaults))

	store.EXPECT().Get(gomock.Any(), "k").Return(nil, false, nil)
	store.EXPECT().Set(gomock.Any(), "k", []byte(`"v"`), defaults).Return(nil)

	_, err := GetOrCompute(context.Background(), c, "k", models.CachePolicy{}, func(context.Context) (string, error) {
		return "v", nil
	})
	require.NoError(t, err)
	assert.Equal(t, defaults, c.DefaultPolicy())
}

func TestGetOrCompute_ConcurrentMissesComputeOnce(t *testing.T) {
	c := newLocalCoordinator(t)

	var calls atomic.Int32
	release := make(chan struct{})
	compute := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "value", nil
	}

	const callers = 10
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := GetOrCompute(context.Background(), c, "hot", productPolicy, compute)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond) // let the remaining callers queue behind the leader
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, "value", v)
	}
}

func TestGetOrCompute_CoalescingDisabled(t *testing.T) {
	c := newLocalCoordinator(t, WithCoalescing(false))

	var calls atomic.Int32
	release := make(chan struct{})
	compute := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "value", nil
	}

	const callers = 3
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = GetOrCompute(context.Background(), c, "hot", productPolicy, compute)
		}()
	}

	require.Eventually(t, func() bool { return calls.Load() == callers }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()
}

func TestGetOrCompute_FollowerSurvivesLeaderCancellation(t *testing.T) {
	c := newLocalCoordinator(t)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderStarted := make(chan struct{})

	leaderDone := make(chan error, 1)
	go func() {
		_, err := GetOrCompute(leaderCtx, c, "k", productPolicy, func(ctx context.Context) (string, error) {
			close(leaderStarted)
			<-ctx.Done()
			return "", ctx.Err()
		})
		leaderDone <- err
	}()
	<-leaderStarted

	followerDone := make(chan string, 1)
	go func() {
		v, err := GetOrCompute(context.Background(), c, "k", productPolicy, func(context.Context) (string, error) {
			return "follower", nil
		})
		assert.NoError(t, err)
		followerDone <- v
	}()

	time.Sleep(20 * time.Millisecond)
	cancelLeader()

	assert.ErrorIs(t, <-leaderDone, context.Canceled)
	assert.Equal(t, "follower", <-followerDone)
}

func TestListKey_GenerationRotation(t *testing.T) {
	ctx := context.Background()
	c := newLocalCoordinator(t)
	listPolicy := models.CachePolicy{Sliding: 2 * time.Minute, Absolute: 20 * time.Minute, Priority: models.PriorityNeverRemove}
	filter := models.ProductFilter{Search: "phone", Page: 1, PageSize: 10}

	key1, err := c.ListKey(ctx, "product-collection", filter, listPolicy)
	require.NoError(t, err)
	key2, err := c.ListKey(ctx, "product-collection", filter, listPolicy)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)

	page2, err := c.ListKey(ctx, "product-collection", models.ProductFilter{Search: "phone", Page: 2, PageSize: 10}, listPolicy)
	require.NoError(t, err)
	assert.NotEqual(t, key1, page2)

	calls := 0
	compute := func(context.Context) ([]string, error) {
		calls++
		return []string{"P1"}, nil
	}
	_, err = GetOrCompute(ctx, c, key1, listPolicy, compute)
	require.NoError(t, err)

	require.NoError(t, c.Invalidate(ctx, "product-collection"))

	rotated, err := c.ListKey(ctx, "product-collection", filter, listPolicy)
	require.NoError(t, err)
	assert.NotEqual(t, key1, rotated)

	_, err = GetOrCompute(ctx, c, rotated, listPolicy, compute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestListKey_IndependentOfDataKeys(t *testing.T) {
	ctx := context.Background()
	c := newLocalCoordinator(t)

	started := make(chan struct{})
	release := make(chan struct{})
	computed := make(chan error, 1)
	go func() {
		// A data key that looks like a generation token
		_, err := GetOrCompute(ctx, c, "generation:product-collection", productPolicy, func(context.Context) (int, error) {
			close(started)
			<-release
			return 7, nil
		})
		computed <- err
	}()
	<-started

	type result struct {
		key string
		err error
	}
	listed := make(chan result, 1)
	go func() {
		key, err := c.ListKey(ctx, "product-collection", nil, productPolicy)
		listed <- result{key: key, err: err}
	}()

	select {
	case r := <-listed:
		require.NoError(t, r.err)
		assert.True(t, strings.HasPrefix(r.key, "product-collection:"))
	case <-time.After(time.Second):
		close(release)
		t.Fatal("ListKey waited on an unrelated data key computation")
	}

	close(release)
	require.NoError(t, <-computed)
}

func TestListKey_StoreUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	c := NewCoordinator(store, zap.NewNop())

	store.EXPECT().Get(gomock.Any(), "product-collection").Return(nil, false, cache.ErrCacheUnavailable)

	_, err := c.ListKey(context.Background(), "product-collection", nil, productPolicy)
	assert.ErrorIs(t, err, cache.ErrCacheUnavailable)
}

func TestInvalidate_JoinsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	c := NewCoordinator(store, zap.NewNop())

	store.EXPECT().Remove(gomock.Any(), "a").Return(cache.ErrCacheUnavailable)
	store.EXPECT().Remove(gomock.Any(), "b").Return(nil)

	err := c.Invalidate(context.Background(), "a", "b")
	assert.ErrorIs(t, err, cache.ErrCacheUnavailable)
}

func TestInvalidate_IgnoresCancellation(t *testing.T) {
	c := newLocalCoordinator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, c.Invalidate(ctx, "k"))
}

func TestIsAbsent(t *testing.T) {
	var nilProduct *models.Product
	var nilMap map[string]int
	var nilSlice []models.Product

	assert.True(t, isAbsent(nil))
	assert.True(t, isAbsent(nilProduct))
	assert.True(t, isAbsent(nilMap))
	assert.False(t, isAbsent(nilSlice))
	assert.False(t, isAbsent(models.Product{}))
	assert.False(t, isAbsent(0))
}
