package structure

import (
	"iter"

	"dsbench/pkg/common"
	"dsbench/pkg/core/arena"
)

// Sequence is an intrusive doubly linked list threaded through the
// SeqPrev/SeqNext fields of arena records. It keeps insertion order.
type Sequence struct {
	a          *arena.Arena
	head, tail arena.Handle
	n          int
}

func NewSequence(a *arena.Arena) *Sequence {
	return &Sequence{a: a}
}

// PushBack links h at the tail.
func (s *Sequence) PushBack(h arena.Handle) {
	r := s.a.Get(h)
	r.SeqPrev = s.tail
	r.SeqNext = arena.Nil
	if s.tail == arena.Nil {
		s.head = h
	} else {
		s.a.Get(s.tail).SeqNext = h
	}
	s.tail = h
	s.n++
}

// Remove unlinks h. h must be linked in this sequence.
func (s *Sequence) Remove(h arena.Handle) {
	r := s.a.Get(h)
	if r.SeqPrev == arena.Nil {
		s.head = r.SeqNext
	} else {
		s.a.Get(r.SeqPrev).SeqNext = r.SeqNext
	}
	if r.SeqNext == arena.Nil {
		s.tail = r.SeqPrev
	} else {
		s.a.Get(r.SeqNext).SeqPrev = r.SeqPrev
	}
	r.SeqPrev, r.SeqNext = arena.Nil, arena.Nil
	s.n--
}

func (s *Sequence) Len() int { return s.n }

// Find walks the list from the head and returns the first record holding v.
func (s *Sequence) Find(v common.ValueType) (arena.Handle, bool) {
	for h := s.head; h != arena.Nil; {
		r := s.a.Get(h)
		if r.Value == v {
			return h, true
		}
		h = r.SeqNext
	}
	return arena.Nil, false
}

// All yields handles from head to tail.
func (s *Sequence) All() iter.Seq[arena.Handle] {
	return func(yield func(arena.Handle) bool) {
		for h := s.head; h != arena.Nil; {
			next := s.a.Get(h).SeqNext
			if !yield(h) {
				return
			}
			h = next
		}
	}
}

// Drain unlinks every record from the head onwards and hands it to fn.
// fn may free the record.
func (s *Sequence) Drain(fn func(arena.Handle)) {
	for s.head != arena.Nil {
		h := s.head
		s.Remove(h)
		fn(h)
	}
}
