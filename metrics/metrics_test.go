package metrics

import "testing"

func TestNoopDiscardsAllEvents(t *testing.T) {
	var m Metrics = Noop{}
	// None of these should panic; Noop has nothing to assert on beyond that.
	m.Hit()
	m.Miss()
	m.Eviction()
	m.Expire()
	m.Refresh()
}

func TestPrometheusAdapterIncrementsCounters(t *testing.T) {
	reg := newTestRegistry(t)
	a := NewPrometheusAdapter(reg, "segcontainer_test", "cache")

	a.Hit()
	a.Hit()
	a.Miss()
	a.Eviction()
	a.Expire()
	a.Refresh()

	if got := counterValue(t, a.hits); got != 2 {
		t.Fatalf("expected 2 hits, got %v", got)
	}
	if got := counterValue(t, a.misses); got != 1 {
		t.Fatalf("expected 1 miss, got %v", got)
	}
	if got := counterValue(t, a.evictions); got != 1 {
		t.Fatalf("expected 1 eviction, got %v", got)
	}
	if got := counterValue(t, a.expires); got != 1 {
		t.Fatalf("expected 1 expire, got %v", got)
	}
	if got := counterValue(t, a.refreshes); got != 1 {
		t.Fatalf("expected 1 refresh, got %v", got)
	}
}
