package core

import (
	"dsbench/pkg/common"
	"dsbench/pkg/core/arena"
	"dsbench/pkg/core/structure"
)

// Index 抽象接口，屏蔽四种结构的差异
//
// Lookup takes both the position of the probe in its workload and the value
// being searched. The sequence, hash and tree kinds search by value; the
// sparse kind loads by position, which measures positional access rather
// than value search.
type Index interface {
	Kind() common.Kind
	Link(h arena.Handle)
	Lookup(pos int, v common.ValueType) (arena.Handle, bool)
	Drain(fn func(arena.Handle))
	Len() int
}

// IndexOptions sizes the hash and tree structures.
type IndexOptions struct {
	HashBits   uint
	TreeDegree int
}

// NewIndex creates an empty structure of the given kind over a.
func NewIndex(kind common.Kind, a *arena.Arena, opts IndexOptions) Index {
	switch kind {
	case common.KindSequence:
		return sequenceIndex{structure.NewSequence(a)}
	case common.KindHash:
		return hashIndex{structure.NewHashTable(a, opts.HashBits)}
	case common.KindTree:
		return treeIndex{structure.NewOrderedIndex(a, opts.TreeDegree)}
	case common.KindSparse:
		return sparseIndex{structure.NewSparseMap()}
	default:
		panic("core: unknown index kind " + kind.String())
	}
}

type sequenceIndex struct{ *structure.Sequence }

func (sequenceIndex) Kind() common.Kind { return common.KindSequence }
func (i sequenceIndex) Link(h arena.Handle) { i.PushBack(h) }
func (i sequenceIndex) Lookup(_ int, v common.ValueType) (arena.Handle, bool) {
	return i.Find(v)
}

type hashIndex struct{ *structure.HashTable }

func (hashIndex) Kind() common.Kind { return common.KindHash }
func (i hashIndex) Link(h arena.Handle) { i.Add(h) }
func (i hashIndex) Lookup(_ int, v common.ValueType) (arena.Handle, bool) {
	return i.HashTable.Lookup(v)
}

type treeIndex struct{ *structure.OrderedIndex }

func (treeIndex) Kind() common.Kind { return common.KindTree }
func (i treeIndex) Link(h arena.Handle) { i.Insert(h) }
func (i treeIndex) Lookup(_ int, v common.ValueType) (arena.Handle, bool) {
	return i.OrderedIndex.Lookup(v)
}

type sparseIndex struct{ *structure.SparseMap }

func (sparseIndex) Kind() common.Kind { return common.KindSparse }
func (i sparseIndex) Link(h arena.Handle) { i.Append(h) }
func (i sparseIndex) Lookup(pos int, _ common.ValueType) (arena.Handle, bool) {
	return i.Load(uint64(pos))
}
func (i sparseIndex) Drain(fn func(arena.Handle)) {
	i.SparseMap.Drain(func(_ uint64, h arena.Handle) { fn(h) })
}
