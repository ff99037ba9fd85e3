// Command segdemo exercises the segmented container end to end: read-through
// loading and singleflight collapsing (intentionally built at this layer,
// not inside the container — loaders are outside the container's
// collaborator set), TTL expiration, write-back passivation, bounded
// eviction, and weakly-consistent iteration.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nordcache/segcontainer/activation"
	"github.com/nordcache/segcontainer/container"
	"github.com/nordcache/segcontainer/entry"
	"github.com/nordcache/segcontainer/observability"
	"github.com/nordcache/segcontainer/partition"
	"github.com/nordcache/segcontainer/passivation"
	"github.com/nordcache/segcontainer/storage"
)

// backingStore is the demo's DB/API stand-in. It satisfies passivation.Store
// (Put), activation.Purger (Delete), and a Load method the read-through
// layer calls directly on a miss.
type backingStore struct {
	mu   sync.RWMutex
	data map[string]any
}

func newBackingStore() *backingStore {
	return &backingStore{data: make(map[string]any)}
}

func (s *backingStore) Load(ctx context.Context, key string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !strings.HasPrefix(key, "k") {
		fmt.Println("STORE  -> load:", key)
	}
	return s.data[key], nil
}

func (s *backingStore) Put(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !strings.HasPrefix(key, "k") {
		fmt.Println("STORE  -> put:", key)
	}
	s.data[key] = value
	return nil
}

func (s *backingStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// demoMetrics counts cache events and prints a summary, generalized from the
// teacher's cmd/main.go demo metrics struct.
type demoMetrics struct {
	mu                                      sync.Mutex
	hits, misses, evictions, expires, refrs int
}

func (m *demoMetrics) Hit()      { m.mu.Lock(); m.hits++; m.mu.Unlock() }
func (m *demoMetrics) Miss()     { m.mu.Lock(); m.misses++; m.mu.Unlock() }
func (m *demoMetrics) Eviction() { m.mu.Lock(); m.evictions++; m.mu.Unlock() }
func (m *demoMetrics) Expire()   { m.mu.Lock(); m.expires++; m.mu.Unlock() }
func (m *demoMetrics) Refresh()  { m.mu.Lock(); m.refrs++; m.mu.Unlock() }

func (m *demoMetrics) Print() {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Println("\n==================== METRICS ====================")
	fmt.Printf("HITS      : %d\n", m.hits)
	fmt.Printf("MISSES    : %d\n", m.misses)
	fmt.Printf("EVICTIONS : %d\n", m.evictions)
	fmt.Printf("EXPIRED   : %d\n", m.expires)
}

// readThroughCache layers loader + singleflight collapsing on top of a
// Container, exactly the part the container's collaborator set (§6)
// deliberately excludes.
type readThroughCache struct {
	c     *container.Container[string, any]
	store *backingStore
	sf    singleflight.Group
}

func (r *readThroughCache) Get(ctx context.Context, key string) (any, error) {
	if v, ok, err := r.c.Get(ctx, key); err != nil {
		return nil, err
	} else if ok {
		return v, nil
	}

	val, err, _ := r.sf.Do(key, func() (any, error) {
		return r.store.Load(ctx, key)
	})
	if err != nil || val == nil {
		return val, err
	}

	if _, err := r.c.Put(ctx, key, val, entry.Metadata{LifespanMillis: -1, MaxIdleMillis: -1}); err != nil {
		return nil, err
	}
	return val, nil
}

func main() {
	ctx := context.Background()

	fmt.Println("\n==================== SYSTEM BOOT ====================")
	fmt.Println("STORAGE         : object")
	fmt.Println("EVICTION POLICY : LRU")
	fmt.Println("SEGMENTS        : 4")
	fmt.Println("CAPACITY        : 20 keys")
	fmt.Println("PASSIVATION     : async (write-back)")

	store := newBackingStore()
	_ = store.Put(ctx, "a", "alpha")
	_ = store.Put(ctx, "b", "beta")

	metrics := &demoMetrics{}
	observer := observability.NewSlogObserver(slog.New(slog.NewTextHandler(os.Stdout, nil)), true)
	passivator := passivation.NewAsyncPassivator[string, any](store, 1024)
	activator := activation.NewStorePurger[string](store)

	cfg := container.Config{
		SegmentCount:       4,
		Storage:            storage.Object,
		MaxEntries:         20,
		PassivationEnabled: true,
		EvictionPolicyName: "LRU",
	}

	c := container.New[string, any](
		cfg,
		partition.NewFNV1a[string](cfg.SegmentCount),
		container.WithMetrics[string, any](metrics),
		container.WithObserver[string, any](observer),
		container.WithPassivation[string, any](passivator),
		container.WithActivation[string, any](activator),
	)

	if err := c.Start(ctx); err != nil {
		panic(err)
	}

	cache := &readThroughCache{c: c, store: store}

	fmt.Println("\n==================== 1) CACHE MISS ====================")
	v, _ := cache.Get(ctx, "a")
	fmt.Println("CACHE  -> GET a =", v)

	fmt.Println("\n==================== 2) CACHE HIT ====================")
	v, _ = cache.Get(ctx, "a")
	fmt.Println("CACHE  -> GET a =", v)

	fmt.Println("\n==================== 3) TTL EXPIRATION ====================")
	_, _ = c.Put(ctx, "x", "temp-value", entry.Metadata{LifespanMillis: (1 * time.Second).Milliseconds(), MaxIdleMillis: -1})
	fmt.Println("CACHE  -> PUT x (lifespan = 1s)")
	time.Sleep(2 * time.Second)
	v2, ok, _ := c.Get(ctx, "x")
	fmt.Println("CACHE  -> GET x after TTL =", v2, "present =", ok)

	fmt.Println("\n==================== 4) SINGLEFLIGHT ====================")
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			val, _ := cache.Get(ctx, "b")
			fmt.Printf("GOROUTINE-%d -> GET b = %v\n", id, val)
		}(i)
	}
	wg.Wait()

	fmt.Println("\n==================== 5) EVICTION ====================")
	for i := 0; i < 50; i++ {
		_, _ = c.Put(ctx, fmt.Sprintf("k%d", i), i, entry.Metadata{LifespanMillis: -1, MaxIdleMillis: -1})
	}
	_, ok, _ = c.Get(ctx, "a")
	fmt.Println("CACHE  -> GET a after eviction, present =", ok)

	fmt.Println("\n==================== 6) REMOVE ====================")
	_ = c.Remove(ctx, "b")
	fmt.Println("CACHE  -> REMOVE b")
	_, ok, _ = c.Get(ctx, "b")
	fmt.Println("CACHE  -> GET b after remove, present =", ok)

	fmt.Println("\n==================== 7) ITERATION ====================")
	count := 0
	for key, e := range c.Iterator(ctx).Seq2() {
		_ = e
		count++
		_ = key
	}
	fmt.Println("CACHE  -> live entries seen while iterating =", count)

	metrics.Print()

	fmt.Println("\n==================== SHUTDOWN ====================")
	if err := c.Stop(ctx); err != nil {
		panic(err)
	}
	fmt.Println("SYSTEM -> container stopped cleanly")
}
