package structure

import (
	"iter"

	"dsbench/pkg/common"
	"dsbench/pkg/core/arena"

	"github.com/google/btree"
)

// DefaultDegree is the btree degree used by both datasets.
const DefaultDegree = 32

// treeItem is what the btree stores. seq breaks ties between equal values:
// a later insert always has a larger seq, so it lands to the right of every
// existing equal entry and duplicates are never merged.
type treeItem struct {
	value common.ValueType
	seq   uint64
	h     arena.Handle
}

func lessItem(a, b treeItem) bool {
	if a.value != b.value {
		return a.value < b.value
	}
	return a.seq < b.seq
}

// OrderedIndex keeps records in ascending value order on a balanced btree.
type OrderedIndex struct {
	a       *arena.Arena
	tree    *btree.BTreeG[treeItem]
	nextSeq uint64
}

func NewOrderedIndex(a *arena.Arena, degree int) *OrderedIndex {
	if degree < 2 {
		degree = DefaultDegree
	}
	return &OrderedIndex{
		a:    a,
		tree: btree.NewG(degree, lessItem),
	}
}

// Insert links h. The record's TreeSeq is assigned here.
func (o *OrderedIndex) Insert(h arena.Handle) {
	r := o.a.Get(h)
	o.nextSeq++
	r.TreeSeq = o.nextSeq
	o.tree.ReplaceOrInsert(treeItem{value: r.Value, seq: r.TreeSeq, h: h})
}

// Delete unlinks h, rebalancing the remaining tree.
func (o *OrderedIndex) Delete(h arena.Handle) bool {
	r := o.a.Get(h)
	_, ok := o.tree.Delete(treeItem{value: r.Value, seq: r.TreeSeq, h: h})
	if ok {
		r.TreeSeq = 0
	}
	return ok
}

// Lookup descends to the leftmost entry holding v. Every seq is at least 1,
// so the pivot (v, 0) sorts before all of them and the walk stops at the
// first item visited: the cost is bounded by the tree height.
func (o *OrderedIndex) Lookup(v common.ValueType) (arena.Handle, bool) {
	found := arena.Nil
	o.tree.AscendGreaterOrEqual(treeItem{value: v}, func(it treeItem) bool {
		if it.value == v {
			found = it.h
		}
		return false
	})
	return found, found != arena.Nil
}

func (o *OrderedIndex) Len() int { return o.tree.Len() }

// All yields handles in ascending value order.
func (o *OrderedIndex) All() iter.Seq[arena.Handle] {
	return func(yield func(arena.Handle) bool) {
		o.tree.Ascend(func(it treeItem) bool {
			return yield(it.h)
		})
	}
}

// Drain removes the minimum entry until the tree is empty, handing each
// record to fn, which may free it.
func (o *OrderedIndex) Drain(fn func(arena.Handle)) {
	for {
		it, ok := o.tree.DeleteMin()
		if !ok {
			return
		}
		o.a.Get(it.h).TreeSeq = 0
		fn(it.h)
	}
}
