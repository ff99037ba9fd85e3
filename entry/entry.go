// Package entry implements the immutable-on-write entry model (C1): the
// key/value/metadata wrapper the container stores per segment.
package entry

import "github.com/google/uuid"

// Entry is a key, value, and metadata triple. Callers must treat a returned
// Entry as logically immutable: Touch is the only in-place mutation, and it
// only advances LastUsedAt monotonically.
type Entry[K comparable, V any] struct {
	Key   K
	Value V

	CreatedAt      int64
	LastUsedAt     int64
	LifespanMillis int64
	MaxIdleMillis  int64
	Version        string

	// L1 marks this entry as a short-lived copy owned primarily by another
	// node, per the L1 handling in §4.4 of the container spec.
	L1 bool
}

// CanExpire reports whether this entry is subject to any time bound.
func (e Entry[K, V]) CanExpire() bool {
	return e.LifespanMillis >= 0 || e.MaxIdleMillis >= 0
}

// IsExpired reports whether this entry is expired at time now (epoch ms).
// Callers must not treat this as authoritative on its own: per §4.4 the
// container always delegates the final decision to the expiration hook.
func (e Entry[K, V]) IsExpired(now int64) bool {
	if e.LifespanMillis >= 0 && now-e.CreatedAt >= e.LifespanMillis {
		return true
	}
	if e.MaxIdleMillis >= 0 && now-e.LastUsedAt >= e.MaxIdleMillis {
		return true
	}
	return false
}

// Touch advances LastUsedAt to max(LastUsedAt, now). It is the only mutation
// permitted on an entry after it has been stored.
func (e *Entry[K, V]) Touch(now int64) {
	if now > e.LastUsedAt {
		e.LastUsedAt = now
	}
}

// Factory is the EntryFactory collaborator (§6): it is the only place new
// Entry values are minted, so version stamping and timestamp rules live in
// one spot.
type Factory[K comparable, V any] struct {
	// Now supplies "now" in epoch milliseconds. It has no default: NewFactory
	// takes it explicitly, and Create or Update on a Factory whose Now is nil
	// panics.
	Now func() int64
}

func NewFactory[K comparable, V any](now func() int64) Factory[K, V] {
	return Factory[K, V]{Now: now}
}

// Create builds a brand-new entry: createdAt = lastUsedAt = now.
func (f Factory[K, V]) Create(key K, value V, meta Metadata) Entry[K, V] {
	now := f.Now()
	return Entry[K, V]{
		Key:            key,
		Value:          value,
		CreatedAt:      now,
		LastUsedAt:     now,
		LifespanMillis: meta.LifespanMillis,
		MaxIdleMillis:  meta.MaxIdleMillis,
		Version:        stampVersion(meta.Version),
	}
}

// Update builds a replacement for prev: createdAt is preserved unless meta
// explicitly sets CreatedAt, and lastUsedAt advances to now.
func (f Factory[K, V]) Update(prev Entry[K, V], value V, meta Metadata) Entry[K, V] {
	now := f.Now()
	createdAt := prev.CreatedAt
	if meta.CreatedAt != 0 {
		createdAt = meta.CreatedAt
	}
	return Entry[K, V]{
		Key:            prev.Key,
		Value:          value,
		CreatedAt:      createdAt,
		LastUsedAt:     now,
		LifespanMillis: meta.LifespanMillis,
		MaxIdleMillis:  meta.MaxIdleMillis,
		Version:        stampVersion(meta.Version),
		L1:             prev.L1,
	}
}

// CreateL1 builds an entry tagged as an L1 copy. meta is already the
// unwrapped inner metadata; the container performs the unwrap (§4.4).
func (f Factory[K, V]) CreateL1(key K, value V, meta Metadata) Entry[K, V] {
	e := f.Create(key, value, meta)
	e.L1 = true
	return e
}

// stampVersion returns v unchanged if non-empty, otherwise mints a
// time-ordered UUIDv7 so version tokens stay monotonically sortable without
// cross-node coordination.
func stampVersion(v string) string {
	if v != "" {
		return v
	}
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
