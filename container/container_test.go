package container

import (
	"context"
	"errors"
	"testing"

	"github.com/nordcache/segcontainer/clock"
	"github.com/nordcache/segcontainer/entry"
	"github.com/nordcache/segcontainer/eviction"
	"github.com/nordcache/segcontainer/partition"
)

func newTestContainer(t *testing.T, cfg Config, mc *clock.Manual) *Container[string, int] {
	t.Helper()
	c := New[string, int](cfg, partition.NewFNV1a[string](cfg.SegmentCount), WithClock[string, int](mc))
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return c
}

func immortal() entry.Metadata {
	return entry.Metadata{LifespanMillis: -1, MaxIdleMillis: -1}
}

func TestStartRejectsZeroSegmentCount(t *testing.T) {
	c := New[string, int](Config{SegmentCount: 0}, partition.Func[string](func(string) int { return 0 }))
	err := c.Start(context.Background())
	if err == nil {
		t.Fatal("expected Start to reject SegmentCount <= 0")
	}
	var pe *ProgrammerError
	if !errors.As(err, &pe) {
		t.Fatalf("expected a ProgrammerError, got %T: %v", err, err)
	}
}

func TestStartTwiceIsProgrammerError(t *testing.T) {
	c := newTestContainer(t, Config{SegmentCount: 4}, clock.NewManual(0))
	err := c.Start(context.Background())
	var pe *ProgrammerError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProgrammerError on double Start, got %v", err)
	}
}

func TestPutThenGetRoundTrip(t *testing.T) {
	c := newTestContainer(t, Config{SegmentCount: 4}, clock.NewManual(0))

	if _, err := c.Put(context.Background(), "a", 1, immortal()); err != nil {
		t.Fatal(err)
	}
	v, ok, err := c.Get(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || v != 1 {
		t.Fatalf("expected a=1, got v=%d ok=%v", v, ok)
	}
}

func TestGetOnMissingKeyIsNotAnError(t *testing.T) {
	c := newTestContainer(t, Config{SegmentCount: 4}, clock.NewManual(0))

	v, ok, err := c.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("expected a miss to never be an error, got %v", err)
	}
	if ok || v != 0 {
		t.Fatalf("expected zero value and ok=false, got v=%d ok=%v", v, ok)
	}
}

func TestGetRemovesExpiredEntryAndReportsMiss(t *testing.T) {
	mc := clock.NewManual(0)
	c := newTestContainer(t, Config{SegmentCount: 1}, mc)

	if _, err := c.Put(context.Background(), "a", 1, entry.Metadata{LifespanMillis: 100, MaxIdleMillis: -1}); err != nil {
		t.Fatal(err)
	}

	mc.Set(200)
	v, ok, err := c.Get(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}
	if ok || v != 0 {
		t.Fatalf("expected expired entry to report a miss, got v=%d ok=%v", v, ok)
	}

	// The expired entry must actually be gone, not just filtered on read.
	if c.SizeIncludingExpired() != 0 {
		t.Fatalf("expected expired entry to be purged on Get, size=%d", c.SizeIncludingExpired())
	}
}

func TestPeekDoesNotConsultExpiration(t *testing.T) {
	mc := clock.NewManual(0)
	c := newTestContainer(t, Config{SegmentCount: 1}, mc)

	if _, err := c.Put(context.Background(), "a", 1, entry.Metadata{LifespanMillis: 100, MaxIdleMillis: -1}); err != nil {
		t.Fatal(err)
	}
	mc.Set(200)

	v, ok := c.Peek("a")
	if !ok || v != 1 {
		t.Fatalf("expected Peek to ignore expiration and still find a=1, got v=%d ok=%v", v, ok)
	}
}

func TestContainsKeyReflectsExpiration(t *testing.T) {
	mc := clock.NewManual(0)
	c := newTestContainer(t, Config{SegmentCount: 1}, mc)

	if _, err := c.Put(context.Background(), "a", 1, entry.Metadata{LifespanMillis: 100, MaxIdleMillis: -1}); err != nil {
		t.Fatal(err)
	}
	if !c.ContainsKey(context.Background(), "a") {
		t.Fatal("expected key to be present before expiry")
	}
	mc.Set(200)
	if c.ContainsKey(context.Background(), "a") {
		t.Fatal("expected key to be reported absent once expired")
	}
}

func TestRemoveDropsKey(t *testing.T) {
	c := newTestContainer(t, Config{SegmentCount: 4}, clock.NewManual(0))
	if _, err := c.Put(context.Background(), "a", 1, immortal()); err != nil {
		t.Fatal(err)
	}
	if err := c.Remove(context.Background(), "a"); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Peek("a"); ok {
		t.Fatal("expected key gone after Remove")
	}
}

func TestEvictBehavesLikeRemove(t *testing.T) {
	c := newTestContainer(t, Config{SegmentCount: 4}, clock.NewManual(0))
	if _, err := c.Put(context.Background(), "a", 1, immortal()); err != nil {
		t.Fatal(err)
	}
	if err := c.Evict(context.Background(), "a"); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Peek("a"); ok {
		t.Fatal("expected key gone after Evict")
	}
}

func TestComputeCreatesUpdatesAndRemoves(t *testing.T) {
	c := newTestContainer(t, Config{SegmentCount: 1}, clock.NewManual(0))

	v, present, err := c.Compute(context.Background(), "a", func(value int, present bool) (int, bool) {
		if present {
			t.Fatal("expected key to be absent on first Compute")
		}
		return 10, true
	})
	if err != nil || !present || v != 10 {
		t.Fatalf("expected create to yield 10/true, got v=%d present=%v err=%v", v, present, err)
	}

	v, present, err = c.Compute(context.Background(), "a", func(value int, present bool) (int, bool) {
		if !present || value != 10 {
			t.Fatalf("expected update to see previous value 10, got %d present=%v", value, present)
		}
		return value + 5, true
	})
	if err != nil || !present || v != 15 {
		t.Fatalf("expected update to yield 15/true, got v=%d present=%v err=%v", v, present, err)
	}

	_, present, err = c.Compute(context.Background(), "a", func(value int, present bool) (int, bool) {
		return 0, false
	})
	if err != nil {
		t.Fatal(err)
	}
	if present {
		t.Fatal("expected keep=false to report absent")
	}
	if _, ok := c.Peek("a"); ok {
		t.Fatal("expected key removed after keep=false Compute")
	}
}

func TestPutL1TagsEntryAsL1(t *testing.T) {
	c := newTestContainer(t, Config{SegmentCount: 1}, clock.NewManual(0))

	e, err := c.PutL1(context.Background(), "a", 1, entry.L1Metadata{Inner: immortal()})
	if err != nil {
		t.Fatal(err)
	}
	if !e.L1 {
		t.Fatal("expected PutL1 to tag the stored entry as L1")
	}
}

func TestSizeIncludingExpiredCountsPhysicalEntries(t *testing.T) {
	mc := clock.NewManual(0)
	c := newTestContainer(t, Config{SegmentCount: 2}, mc)

	if _, err := c.Put(context.Background(), "a", 1, entry.Metadata{LifespanMillis: 50, MaxIdleMillis: -1}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Put(context.Background(), "b", 2, immortal()); err != nil {
		t.Fatal(err)
	}

	mc.Set(100)
	// a is logically expired but still physically present until touched.
	if got := c.SizeIncludingExpired(); got != 2 {
		t.Fatalf("expected 2 physical entries pre-purge, got %d", got)
	}
}

func TestClearRemovesEverySegment(t *testing.T) {
	c := newTestContainer(t, Config{SegmentCount: 4}, clock.NewManual(0))
	for _, k := range []string{"a", "b", "c", "d"} {
		if _, err := c.Put(context.Background(), k, 1, immortal()); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Clear(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := c.SizeIncludingExpired(); got != 0 {
		t.Fatalf("expected 0 entries after Clear, got %d", got)
	}
}

func TestIteratorFiltersExpiredEntries(t *testing.T) {
	mc := clock.NewManual(0)
	c := newTestContainer(t, Config{SegmentCount: 2}, mc)

	if _, err := c.Put(context.Background(), "live", 1, immortal()); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Put(context.Background(), "dead", 2, entry.Metadata{LifespanMillis: 10, MaxIdleMillis: -1}); err != nil {
		t.Fatal(err)
	}
	mc.Set(100)

	seen := map[string]bool{}
	for k := range c.Iterator(context.Background()).Seq2() {
		seen[k] = true
	}
	if seen["dead"] {
		t.Fatal("expected expired entry excluded from Iterator")
	}
	if !seen["live"] {
		t.Fatal("expected live entry included in Iterator")
	}
}

func TestIteratorIncludingExpiredSeesEverything(t *testing.T) {
	mc := clock.NewManual(0)
	c := newTestContainer(t, Config{SegmentCount: 2}, mc)

	if _, err := c.Put(context.Background(), "dead", 2, entry.Metadata{LifespanMillis: 10, MaxIdleMillis: -1}); err != nil {
		t.Fatal(err)
	}
	mc.Set(100)

	seen := map[string]bool{}
	for k := range c.IteratorIncludingExpired(context.Background()).Seq2() {
		seen[k] = true
	}
	if !seen["dead"] {
		t.Fatal("expected IteratorIncludingExpired to still surface the expired entry")
	}
}

func TestStopDrainsAndClearsSegments(t *testing.T) {
	c := newTestContainer(t, Config{SegmentCount: 2}, clock.NewManual(0))
	if _, err := c.Put(context.Background(), "a", 1, immortal()); err != nil {
		t.Fatal(err)
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := c.SizeIncludingExpired(); got != 0 {
		t.Fatalf("expected Stop to clear all segments, got size=%d", got)
	}
}

func TestStopWithoutStartIsProgrammerError(t *testing.T) {
	c := New[string, int](Config{SegmentCount: 2}, partition.NewFNV1a[string](2))
	err := c.Stop(context.Background())
	var pe *ProgrammerError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProgrammerError, got %v", err)
	}
}

func TestBoundedConfigEvictsUnderCapacity(t *testing.T) {
	c := newTestContainer(t, Config{SegmentCount: 1, MaxEntries: 2}, clock.NewManual(0))

	var evicted map[string]int
	var cause eviction.RemovalCause
	c.RegisterListener(func(ctx context.Context, removed map[string]int, c eviction.RemovalCause) {
		evicted = removed
		cause = c
	})

	for _, k := range []string{"a", "b", "c"} {
		if _, err := c.Put(context.Background(), k, 1, immortal()); err != nil {
			t.Fatal(err)
		}
	}
	if got := c.SizeIncludingExpired(); got > 2 {
		t.Fatalf("expected bounded segment to stay at or under capacity, got %d", got)
	}
	if cause != eviction.Size {
		t.Fatalf("expected the size overflow to fire onEntryEviction with RemovalCause Size, got %v", cause)
	}
	if len(evicted) != 1 {
		t.Fatalf("expected exactly one evicted entry in the batched map, got %v", evicted)
	}
}

func TestGetDoesNotTouchAnIdleExpiredEntry(t *testing.T) {
	mc := clock.NewManual(0)
	c := newTestContainer(t, Config{SegmentCount: 1}, mc)

	if _, err := c.Put(context.Background(), "a", 1, entry.Metadata{LifespanMillis: -1, MaxIdleMillis: 100}); err != nil {
		t.Fatal(err)
	}

	mc.Set(200)
	v, ok, err := c.Get(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}
	if ok || v != 0 {
		t.Fatalf("expected an idle-expired entry to report a miss on Get, got v=%d ok=%v", v, ok)
	}

	// If Get had touched LastUsedAt before deciding expiry, the idle window
	// would reset on every read and the entry would never be reported expired.
	if c.SizeIncludingExpired() != 0 {
		t.Fatalf("expected the idle-expired entry purged, not touched-then-kept, size=%d", c.SizeIncludingExpired())
	}
}

func TestGetTouchesALiveIdleBoundEntry(t *testing.T) {
	mc := clock.NewManual(0)
	c := newTestContainer(t, Config{SegmentCount: 1}, mc)

	if _, err := c.Put(context.Background(), "a", 1, entry.Metadata{LifespanMillis: -1, MaxIdleMillis: 100}); err != nil {
		t.Fatal(err)
	}

	mc.Set(50)
	if _, ok, err := c.Get(context.Background(), "a"); err != nil || !ok {
		t.Fatalf("expected a live read at t=50, got ok=%v err=%v", ok, err)
	}

	// A Get at t=50 must have touched LastUsedAt to 50, so the idle window
	// is measured from there: t=140 is only 90ms past the touch and must
	// still be live even though it is 140ms past creation.
	mc.Set(140)
	v, ok, err := c.Get(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || v != 1 {
		t.Fatalf("expected the earlier touch to have reset the idle window, got v=%d ok=%v", v, ok)
	}
}

func TestRegisteredListenerObservesExplicitRemoveAcrossSegments(t *testing.T) {
	c := newTestContainer(t, Config{SegmentCount: 4}, clock.NewManual(0))

	var calls int
	id := c.RegisterListener(func(ctx context.Context, removed map[string]int, cause eviction.RemovalCause) {
		calls++
		if cause != eviction.Explicit {
			t.Fatalf("expected RemovalCause Explicit, got %v", cause)
		}
	})

	if _, err := c.Put(context.Background(), "a", 1, immortal()); err != nil {
		t.Fatal(err)
	}
	if err := c.Remove(context.Background(), "a"); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("expected one listener call for the explicit remove, got %d", calls)
	}

	c.UnregisterListener(id)
	if _, err := c.Put(context.Background(), "b", 2, immortal()); err != nil {
		t.Fatal(err)
	}
	if err := c.Remove(context.Background(), "b"); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("expected no further calls after UnregisterListener, got %d", calls)
	}
}
