// Package arena owns the records of one dataset.
//
// Every record is allocated exactly once and addressed by a Handle. Index
// structures link records together through handle fields stored inside the
// record, so a record reachable from four structures is still owned by one
// arena and released by exactly one call to Free.
//
// An arena is not safe for concurrent mutation. Concurrent reads of a
// fully-built arena are safe.
package arena

import (
	"errors"
	"fmt"
	"math"
	"unsafe"

	"dsbench/pkg/common"

	"github.com/RoaringBitmap/roaring/v2"
)

var (
	// ErrDoubleFree is returned when a handle that is not live is released.
	ErrDoubleFree = errors.New("arena: handle is not live")
	// ErrNotEmpty is returned by Close while records are still live.
	ErrNotEmpty = errors.New("arena: records still live")
)

// Handle addresses a record inside its arena. The zero Handle is Nil.
type Handle uint32

// Nil is the handle that never refers to a record.
const Nil Handle = 0

// Record is the single allocation behind one stored value.
type Record struct {
	Value common.ValueType

	// insertion-ordered sequence links
	SeqPrev, SeqNext Handle

	// hash bucket chain links
	HashPrev, HashNext Handle

	// TreeSeq orders equal values inside the ordered index.
	TreeSeq uint64
}

// RecordSize is the number of bytes accounted for every record.
var RecordSize = int64(unsafe.Sizeof(Record{}))

// maxRecords bounds the handle space; Handle is 32 bits and 0 is Nil.
var maxRecords int64 = math.MaxUint32

// MemoryAcquirer is implemented by resource.Controller.
type MemoryAcquirer interface {
	TryAcquireMemory(bytes int64) bool
	ReleaseMemory(bytes int64)
}

// Arena stores records by value and hands out handles to them.
type Arena struct {
	mem     MemoryAcquirer
	records []Record
	free    []Handle
	live    *roaring.Bitmap

	allocated uint64
	reclaimed uint64
}

// New creates an empty arena. A nil acquirer means allocations are never refused.
func New(mem MemoryAcquirer) *Arena {
	return &Arena{
		mem:  mem,
		live: roaring.New(),
	}
}

// Alloc reserves memory for one record and stores v in it. If the memory
// cannot be reserved nothing is created and the error wraps common.ErrOutOfMemory.
func (a *Arena) Alloc(v common.ValueType) (Handle, error) {
	if a.mem != nil && !a.mem.TryAcquireMemory(RecordSize) {
		return Nil, fmt.Errorf("%w: record of %d bytes", common.ErrOutOfMemory, RecordSize)
	}

	var h Handle
	if n := len(a.free); n > 0 {
		h = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		if int64(len(a.records)) >= maxRecords {
			if a.mem != nil {
				a.mem.ReleaseMemory(RecordSize)
			}
			return Nil, fmt.Errorf("%w: handle space exhausted at %d records", common.ErrOutOfMemory, len(a.records))
		}
		a.records = append(a.records, Record{})
		h = Handle(len(a.records))
	}
	a.records[h-1] = Record{Value: v}
	a.live.Add(uint32(h))
	a.allocated++
	return h, nil
}

// Free reclaims the record behind h. The caller must have unlinked it from
// every structure first. Releasing the same handle twice returns ErrDoubleFree.
func (a *Arena) Free(h Handle) error {
	if h == Nil || !a.live.CheckedRemove(uint32(h)) {
		return fmt.Errorf("%w: %d", ErrDoubleFree, h)
	}
	a.records[h-1] = Record{}
	a.free = append(a.free, h)
	a.reclaimed++
	if a.mem != nil {
		a.mem.ReleaseMemory(RecordSize)
	}

	// last record gone: drop the backing storage
	if a.live.IsEmpty() {
		a.records = nil
		a.free = nil
	}
	return nil
}

// Get returns the record behind a live handle. The pointer is only valid
// until the next Alloc.
func (a *Arena) Get(h Handle) *Record {
	return &a.records[h-1]
}

// Value returns the value stored behind h.
func (a *Arena) Value(h Handle) common.ValueType {
	return a.records[h-1].Value
}

// Contains reports whether h is live.
func (a *Arena) Contains(h Handle) bool {
	return h != Nil && a.live.Contains(uint32(h))
}

// Live is the number of records currently allocated.
func (a *Arena) Live() int {
	return int(a.live.GetCardinality())
}

// Allocated is the number of successful Alloc calls over the arena's life.
func (a *Arena) Allocated() uint64 { return a.allocated }

// Reclaimed is the number of successful Free calls over the arena's life.
func (a *Arena) Reclaimed() uint64 { return a.reclaimed }

// Close fails with ErrNotEmpty if any record is still live.
func (a *Arena) Close() error {
	if n := a.Live(); n > 0 {
		return fmt.Errorf("%w: %d", ErrNotEmpty, n)
	}
	a.records = nil
	a.free = nil
	return nil
}
