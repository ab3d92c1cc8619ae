package structure

import (
	"iter"

	"dsbench/pkg/core/arena"
)

const (
	// chunkBits determines the size of each chunk.
	// 12 bits = 4096 handles (16KB) per chunk.
	chunkBits = 12
	chunkSize = 1 << chunkBits
	chunkMask = chunkSize - 1
)

type chunk struct {
	slots [chunkSize]arena.Handle
	used  int
}

// SparseMap maps monotonically assigned keys to non-owning record handles.
// Storage grows one chunk at a time, so memory follows the number of
// entries stored rather than the largest key.
type SparseMap struct {
	chunks []*chunk
	next   uint64
	n      int
}

func NewSparseMap() *SparseMap {
	return &SparseMap{
		chunks: make([]*chunk, 0, 16),
	}
}

// Append stores h under the next unused key and returns that key.
func (m *SparseMap) Append(h arena.Handle) uint64 {
	key := m.next
	ci := int(key >> chunkBits)
	for ci >= len(m.chunks) {
		m.chunks = append(m.chunks, nil)
	}
	c := m.chunks[ci]
	if c == nil {
		c = &chunk{}
		m.chunks[ci] = c
	}
	c.slots[key&chunkMask] = h
	c.used++
	m.next++
	m.n++
	return key
}

// Load returns the handle stored under key.
func (m *SparseMap) Load(key uint64) (arena.Handle, bool) {
	ci := key >> chunkBits
	if ci >= uint64(len(m.chunks)) {
		return arena.Nil, false
	}
	c := m.chunks[ci]
	if c == nil {
		return arena.Nil, false
	}
	h := c.slots[key&chunkMask]
	return h, h != arena.Nil
}

// Erase removes key. Its key is never handed out again. A chunk is released
// as soon as its last entry is erased.
func (m *SparseMap) Erase(key uint64) (arena.Handle, bool) {
	ci := key >> chunkBits
	if ci >= uint64(len(m.chunks)) || m.chunks[ci] == nil {
		return arena.Nil, false
	}
	c := m.chunks[ci]
	h := c.slots[key&chunkMask]
	if h == arena.Nil {
		return arena.Nil, false
	}
	c.slots[key&chunkMask] = arena.Nil
	c.used--
	m.n--
	if c.used == 0 {
		m.chunks[ci] = nil
	}
	return h, true
}

func (m *SparseMap) Len() int { return m.n }

// NextKey is the key the next Append will assign.
func (m *SparseMap) NextKey() uint64 { return m.next }

// Chunks is the number of chunks currently allocated.
func (m *SparseMap) Chunks() int {
	n := 0
	for _, c := range m.chunks {
		if c != nil {
			n++
		}
	}
	return n
}

// All yields (key, handle) pairs in ascending key order.
func (m *SparseMap) All() iter.Seq2[uint64, arena.Handle] {
	return func(yield func(uint64, arena.Handle) bool) {
		for ci, c := range m.chunks {
			if c == nil {
				continue
			}
			base := uint64(ci) << chunkBits
			for i, h := range c.slots {
				if h == arena.Nil {
					continue
				}
				if !yield(base+uint64(i), h) {
					return
				}
			}
		}
	}
}

// Drain erases every entry in ascending key order and hands it to fn. Each
// chunk is released as soon as its last entry is erased.
func (m *SparseMap) Drain(fn func(key uint64, h arena.Handle)) {
	for ci, c := range m.chunks {
		if c == nil {
			continue
		}
		base := uint64(ci) << chunkBits
		for i := range c.slots {
			key := base + uint64(i)
			if h, ok := m.Erase(key); ok {
				fn(key, h)
			}
			if m.chunks[ci] == nil {
				break
			}
		}
	}
	m.chunks = m.chunks[:0]
}
