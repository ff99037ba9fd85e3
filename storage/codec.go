// Package storage provides value codecs for the "storage" configuration
// option (§6). The container does not apply them: segments always hold
// native Go values whatever Config.Storage says.
package storage

import (
	"bytes"
	"encoding/gob"
	"fmt"

	bufferpool "github.com/datnguyenzzz/nogodb/lib/go-bytesbufferpool"
)

// Kind names a value representation; NewCodec maps it to a Codec.
type Kind string

const (
	// Object keeps values as native Go values (the teacher's default).
	Object Kind = "object"
	// Binary marshals values to a pooled byte buffer via encoding/gob.
	Binary Kind = "binary"
	// OffHeap is accounted separately from Binary but shares its wire
	// representation; see DESIGN.md for why a true off-heap allocation
	// path is not attempted.
	OffHeap Kind = "off-heap"
)

// Codec converts values of type V to and from a segment's storage
// representation. The Object codec is the identity; Binary/OffHeap
// round-trip through encoding/gob.
type Codec[V any] interface {
	Encode(v V) (Representation, error)
	Decode(r Representation) (V, error)
}

// Representation is the stored form of a value. For the object codec it
// simply wraps the original value; for binary/off-heap it holds a
// pool-sourced byte slice that must be released with Recycle.
type Representation struct {
	native  any
	bytes   []byte
	pooled  bool
	isBytes bool
}

// Recycle returns a pooled byte buffer to the pool. Safe to call on a
// representation that never pooled a buffer.
func (r Representation) Recycle() {
	if r.pooled {
		bufferpool.Put(r.bytes)
	}
}

// ObjectCodec is the identity codec: no copying, no allocation.
type ObjectCodec[V any] struct{}

func (ObjectCodec[V]) Encode(v V) (Representation, error) {
	return Representation{native: v}, nil
}

func (ObjectCodec[V]) Decode(r Representation) (V, error) {
	v, ok := r.native.(V)
	if !ok {
		var zero V
		return zero, fmt.Errorf("storage: representation does not hold a native value of the expected type")
	}
	return v, nil
}

// BinaryCodec gob-encodes values into pooled byte buffers. gob is used
// rather than a third-party wire format because it needs no per-type
// codegen and works against the fully generic V the container is built on;
// see DESIGN.md for why no library serializer is used instead.
type BinaryCodec[V any] struct{}

func (BinaryCodec[V]) Encode(v V) (Representation, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return Representation{}, fmt.Errorf("storage: encode: %w", err)
	}

	payload := bufferpool.Get(buf.Len())
	payload = append(payload[:0], buf.Bytes()...)
	return Representation{bytes: payload, pooled: true, isBytes: true}, nil
}

func (BinaryCodec[V]) Decode(r Representation) (V, error) {
	var v V
	if !r.isBytes {
		return v, fmt.Errorf("storage: representation does not hold a binary payload")
	}
	if err := gob.NewDecoder(bytes.NewReader(r.bytes)).Decode(&v); err != nil {
		return v, fmt.Errorf("storage: decode: %w", err)
	}
	return v, nil
}

// NewCodec selects a Codec implementation for the given storage kind.
func NewCodec[V any](kind Kind) Codec[V] {
	switch kind {
	case Binary, OffHeap:
		return BinaryCodec[V]{}
	default:
		return ObjectCodec[V]{}
	}
}
