package structure

import (
	"iter"

	"dsbench/pkg/common"
	"dsbench/pkg/core/arena"
)

// DefaultHashBits gives the 16 buckets of the correctness dataset.
const DefaultHashBits = 4

// MaxHashBits bounds the bucket array at 1M buckets.
const MaxHashBits = 20

type bucket struct {
	head, tail arena.Handle
}

// HashTable is a fixed-size array of bucket chains. Chains are threaded
// through the HashPrev/HashNext fields of arena records.
//
// Enumeration order is bucket index ascending, then chain order. It depends
// on the hash function and is not part of the contract.
type HashTable struct {
	a       *arena.Arena
	buckets []bucket
	mask    uint32
	n       int
}

// NewHashTable creates a table with 1<<bits buckets.
func NewHashTable(a *arena.Arena, bits uint) *HashTable {
	if bits == 0 || bits > MaxHashBits {
		bits = DefaultHashBits
	}
	size := 1 << bits
	return &HashTable{
		a:       a,
		buckets: make([]bucket, size),
		mask:    uint32(size - 1),
	}
}

func (t *HashTable) bucketOf(v common.ValueType) *bucket {
	return &t.buckets[hashValue(v)&t.mask]
}

// Add appends h to the tail of its bucket chain.
func (t *HashTable) Add(h arena.Handle) {
	r := t.a.Get(h)
	b := t.bucketOf(r.Value)
	r.HashPrev = b.tail
	r.HashNext = arena.Nil
	if b.tail == arena.Nil {
		b.head = h
	} else {
		t.a.Get(b.tail).HashNext = h
	}
	b.tail = h
	t.n++
}

// Remove unlinks h from its chain.
func (t *HashTable) Remove(h arena.Handle) {
	r := t.a.Get(h)
	b := t.bucketOf(r.Value)
	if r.HashPrev == arena.Nil {
		b.head = r.HashNext
	} else {
		t.a.Get(r.HashPrev).HashNext = r.HashNext
	}
	if r.HashNext == arena.Nil {
		b.tail = r.HashPrev
	} else {
		t.a.Get(r.HashNext).HashPrev = r.HashPrev
	}
	r.HashPrev, r.HashNext = arena.Nil, arena.Nil
	t.n--
}

// Lookup scans the chain of v's bucket.
func (t *HashTable) Lookup(v common.ValueType) (arena.Handle, bool) {
	for h := t.bucketOf(v).head; h != arena.Nil; {
		r := t.a.Get(h)
		if r.Value == v {
			return h, true
		}
		h = r.HashNext
	}
	return arena.Nil, false
}

func (t *HashTable) Len() int { return t.n }

func (t *HashTable) Buckets() int { return len(t.buckets) }

// ChainLen returns the length of bucket i, for load diagnostics.
func (t *HashTable) ChainLen(i int) int {
	n := 0
	for h := t.buckets[i].head; h != arena.Nil; h = t.a.Get(h).HashNext {
		n++
	}
	return n
}

// All yields every handle, bucket by bucket.
func (t *HashTable) All() iter.Seq[arena.Handle] {
	return func(yield func(arena.Handle) bool) {
		for i := range t.buckets {
			for h := t.buckets[i].head; h != arena.Nil; {
				next := t.a.Get(h).HashNext
				if !yield(h) {
					return
				}
				h = next
			}
		}
	}
}

// Drain unlinks every record and hands it to fn, which may free it.
func (t *HashTable) Drain(fn func(arena.Handle)) {
	for i := range t.buckets {
		for t.buckets[i].head != arena.Nil {
			h := t.buckets[i].head
			t.Remove(h)
			fn(h)
		}
	}
}

// FNV-1a constants for 32-bit hash.
const (
	fnvBasis32 uint32 = 2166136261
	fnvPrime32 uint32 = 16777619
)

// hashValue is FNV-1a over the little-endian bytes of v, inlined so the
// lookup path does not allocate a hash.Hash32.
func hashValue(v common.ValueType) uint32 {
	u := uint64(v)
	h := fnvBasis32
	for i := 0; i < 8; i++ {
		h ^= uint32(byte(u >> (8 * i)))
		h *= fnvPrime32
	}
	return h
}
