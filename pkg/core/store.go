package core

import (
	"errors"
	"fmt"
	"iter"
	"log"

	"dsbench/pkg/common"
	"dsbench/pkg/core/arena"
	"dsbench/pkg/core/structure"
)

// StoreOptions configures a Store.
type StoreOptions struct {
	// HashBits sizes the hash index at 1<<HashBits buckets (default 4, i.e. 16).
	HashBits uint
	// TreeDegree is the btree degree of the ordered index.
	TreeDegree int
	// Memory accounts every record allocation. nil means unaccounted.
	Memory arena.MemoryAcquirer
}

// Store owns one dataset. Each value becomes one arena record that is
// linked into all four structures at once.
//
// A Store has a single writer while it is loaded. Once loading is done it
// is read-only and safe for concurrent readers until TeardownAll.
type Store struct {
	arena  *arena.Arena
	seq    *structure.Sequence
	hash   *structure.HashTable
	tree   *structure.OrderedIndex
	sparse *structure.SparseMap
}

func NewStore(opts StoreOptions) *Store {
	if opts.HashBits == 0 {
		opts.HashBits = structure.DefaultHashBits
	}
	a := arena.New(opts.Memory)
	return &Store{
		arena:  a,
		seq:    structure.NewSequence(a),
		hash:   structure.NewHashTable(a, opts.HashBits),
		tree:   structure.NewOrderedIndex(a, opts.TreeDegree),
		sparse: structure.NewSparseMap(),
	}
}

// Insert allocates one record for v and links it into every structure.
// If the allocation is refused no structure is touched.
func (s *Store) Insert(v common.ValueType) error {
	h, err := s.arena.Alloc(v)
	if err != nil {
		return err
	}
	s.seq.PushBack(h)
	s.hash.Add(h)
	s.tree.Insert(h)
	s.sparse.Append(h)
	return nil
}

// Load inserts every value produced by values. On the first error, from the
// source or from Insert, everything inserted so far is torn down and the
// error is returned: a failed load leaves the store empty.
func (s *Store) Load(values iter.Seq2[common.ValueType, error]) error {
	n := 0
	for v, err := range values {
		if err == nil {
			err = s.Insert(v)
		}
		if err != nil {
			if terr := s.TeardownAll(); terr != nil {
				err = errors.Join(err, terr)
			}
			log.Printf("[Store] Load aborted after %d records: %v", n, err)
			return err
		}
		n++
	}
	return nil
}

// TeardownAll reclaims every record exactly once. The sparse map is walked
// in key order; each record is unlinked from the sequence, hash and tree
// before it is freed. Calling it on an empty store is a no-op.
func (s *Store) TeardownAll() error {
	if s.arena.Live() == 0 && s.sparse.Len() == 0 {
		return nil
	}

	var errs []error
	s.sparse.Drain(func(_ uint64, h arena.Handle) {
		s.seq.Remove(h)
		s.hash.Remove(h)
		s.tree.Delete(h)
		if err := s.arena.Free(h); err != nil {
			errs = append(errs, err)
		}
	})

	if n := s.seq.Len() + s.hash.Len() + s.tree.Len(); n != 0 {
		errs = append(errs, fmt.Errorf("core: %d index entries left after teardown", n))
	}
	if err := s.arena.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Len is the number of live records.
func (s *Store) Len() int {
	return s.arena.Live()
}

// Counts returns the entry count of each structure, indexed by kind.
func (s *Store) Counts() [common.NumKinds]int {
	return [common.NumKinds]int{
		common.KindSequence: s.seq.Len(),
		common.KindHash:     s.hash.Len(),
		common.KindTree:     s.tree.Len(),
		common.KindSparse:   s.sparse.Len(),
	}
}

// Reclaimed is the number of records freed over the store's life.
func (s *Store) Reclaimed() uint64 {
	return s.arena.Reclaimed()
}

// Allocated is the number of records created over the store's life.
func (s *Store) Allocated() uint64 {
	return s.arena.Allocated()
}

// Contains searches for v by value in the sequence, hash or tree structure.
func (s *Store) Contains(kind common.Kind, v common.ValueType) (bool, error) {
	var ok bool
	switch kind {
	case common.KindSequence:
		_, ok = s.seq.Find(v)
	case common.KindHash:
		_, ok = s.hash.Lookup(v)
	case common.KindTree:
		_, ok = s.tree.Lookup(v)
	default:
		return false, fmt.Errorf("core: %s does not support lookup by value", kind)
	}
	return ok, nil
}

// At loads the value stored under a sparse-map key.
func (s *Store) At(key uint64) (common.ValueType, bool) {
	h, ok := s.sparse.Load(key)
	if !ok {
		return 0, false
	}
	return s.arena.Value(h), true
}

func (s *Store) values(handles iter.Seq[arena.Handle]) iter.Seq[common.ValueType] {
	return func(yield func(common.ValueType) bool) {
		for h := range handles {
			if !yield(s.arena.Value(h)) {
				return
			}
		}
	}
}

// ExportInsertionOrder yields values in the order they were inserted.
func (s *Store) ExportInsertionOrder() iter.Seq[common.ValueType] {
	return s.values(s.seq.All())
}

// ExportAscending yields values in ascending order.
func (s *Store) ExportAscending() iter.Seq[common.ValueType] {
	return s.values(s.tree.All())
}

// ExportHashOrder yields values bucket by bucket. The order is an artifact
// of the hash function and must not be relied on.
func (s *Store) ExportHashOrder() iter.Seq[common.ValueType] {
	return s.values(s.hash.All())
}

// ExportBySparseIndex yields values in ascending sparse-key order, which is
// insertion order for this store.
func (s *Store) ExportBySparseIndex() iter.Seq[common.ValueType] {
	return func(yield func(common.ValueType) bool) {
		for _, h := range s.sparse.All() {
			if !yield(s.arena.Value(h)) {
				return
			}
		}
	}
}

// Export returns the export of one structure kind.
func (s *Store) Export(kind common.Kind) iter.Seq[common.ValueType] {
	switch kind {
	case common.KindSequence:
		return s.ExportInsertionOrder()
	case common.KindHash:
		return s.ExportHashOrder()
	case common.KindTree:
		return s.ExportAscending()
	default:
		return s.ExportBySparseIndex()
	}
}

// Snapshot holds all four exports materialized.
type Snapshot struct {
	InsertionOrder []common.ValueType `json:"insertion_order"`
	HashOrder      []common.ValueType `json:"hash_order"`
	Ascending      []common.ValueType `json:"ascending"`
	BySparseIndex  []common.ValueType `json:"by_sparse_index"`
}

// ByKind returns the export of one kind from the snapshot.
func (sn Snapshot) ByKind(kind common.Kind) []common.ValueType {
	switch kind {
	case common.KindSequence:
		return sn.InsertionOrder
	case common.KindHash:
		return sn.HashOrder
	case common.KindTree:
		return sn.Ascending
	default:
		return sn.BySparseIndex
	}
}

func (s *Store) Snapshot() Snapshot {
	collect := func(seq iter.Seq[common.ValueType]) []common.ValueType {
		out := make([]common.ValueType, 0, s.Len())
		for v := range seq {
			out = append(out, v)
		}
		return out
	}
	return Snapshot{
		InsertionOrder: collect(s.ExportInsertionOrder()),
		HashOrder:      collect(s.ExportHashOrder()),
		Ascending:      collect(s.ExportAscending()),
		BySparseIndex:  collect(s.ExportBySparseIndex()),
	}
}

func (s *Store) Stats() map[string]interface{} {
	counts := s.Counts()
	maxChain := 0
	for i := range s.hash.Buckets() {
		maxChain = max(maxChain, s.hash.ChainLen(i))
	}
	return map[string]interface{}{
		"records":          s.Len(),
		"allocated":        s.Allocated(),
		"reclaimed":        s.Reclaimed(),
		"sequence_entries": counts[common.KindSequence],
		"hash_entries":     counts[common.KindHash],
		"hash_buckets":     s.hash.Buckets(),
		"hash_max_chain":   maxChain,
		"tree_entries":     counts[common.KindTree],
		"sparse_entries":   counts[common.KindSparse],
		"sparse_next_key":  s.sparse.NextKey(),
		"sparse_chunks":    s.sparse.Chunks(),
	}
}
