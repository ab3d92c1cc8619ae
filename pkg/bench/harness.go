// Package bench times bulk insert and bulk lookup on the four index
// structures using an isolated dataset.
//
// A Harness runs once. It generates N pseudo-random values, then for each
// structure kind in order (sequence, hash, tree, sparse) builds a fresh
// structure over its own N records and times the inserts. It then replays
// the same N values as lookups. The sequence, hash and tree kinds search by
// value. The sparse kind loads by position i, so its lookup column measures
// positional access, not value search.
//
// Whatever happens, every record and the value buffer are released before
// Run returns.
package bench

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"dsbench/pkg/common"
	"dsbench/pkg/core"
	"dsbench/pkg/core/arena"
)

// ValueRange bounds the generated values to [0, ValueRange).
const ValueRange = 1_000_000

// ErrAlreadyRun is returned when Run is called on a harness that has left Idle.
var ErrAlreadyRun = errors.New("bench: harness already run")

// State is a phase of a benchmark run.
type State int

const (
	StateIdle State = iota
	StateGenerating
	StateInserting
	StateLookingUp
	StateReclaiming
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StateInserting:
		return "inserting"
	case StateLookingUp:
		return "looking-up"
	case StateReclaiming:
		return "reclaiming"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Config struct {
	Size       int
	HashBits   uint
	TreeDegree int
	// Seed for the value generator. 0 seeds from the clock.
	Seed uint64
	// Memory accounts the value buffer and every benchmark record.
	Memory arena.MemoryAcquirer
}

// Results of one run. Durations are per operation.
type Results struct {
	N    int    `json:"n"`
	Seed uint64 `json:"seed"`

	Insert [common.NumKinds]time.Duration `json:"insert_ns"`
	Lookup [common.NumKinds]time.Duration `json:"lookup_ns"`

	Inserted [common.NumKinds]int `json:"inserted"`
	LookedUp [common.NumKinds]int `json:"looked_up"`
	Found    [common.NumKinds]int `json:"found"`

	Elapsed time.Duration `json:"elapsed_ns"`
}

type Harness struct {
	cfg   Config
	state State

	arena   *arena.Arena
	indexes [common.NumKinds]core.Index
	values  []common.ValueType
	bufSize int64

	results Results

	// onState observes phase transitions (tests).
	onState func(State)
}

func New(cfg Config) *Harness {
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	return &Harness{
		cfg:   cfg,
		arena: arena.New(cfg.Memory),
	}
}

func (h *Harness) State() State { return h.state }

func (h *Harness) setState(s State) {
	h.state = s
	if h.onState != nil {
		h.onState(s)
	}
}

// Run executes the benchmark to completion. It is not re-entrant and not
// cancellable. On failure the returned error wraps the cause (for example
// common.ErrOutOfMemory) and every benchmark allocation has been released.
func (h *Harness) Run() (res Results, err error) {
	if h.state != StateIdle {
		return Results{}, ErrAlreadyRun
	}
	if h.cfg.Size < 0 {
		return Results{}, fmt.Errorf("%w: bench size %d", common.ErrInvalidConfiguration, h.cfg.Size)
	}
	start := time.Now()
	h.results = Results{N: h.cfg.Size, Seed: h.cfg.Seed}

	defer func() {
		if rerr := h.reclaim(); rerr != nil {
			log.Printf("[Bench] Reclaim failed: %v", rerr)
			err = errors.Join(err, rerr)
		}
		if err != nil {
			res = Results{}
			return
		}
		res.Elapsed = time.Since(start)
	}()

	h.setState(StateGenerating)
	if err := h.generate(); err != nil {
		return Results{}, err
	}

	h.setState(StateInserting)
	for _, kind := range common.Kinds {
		if err := h.insert(kind); err != nil {
			return Results{}, fmt.Errorf("bench: insert into %s after %d records: %w",
				kind, h.results.Inserted[kind], err)
		}
	}

	h.setState(StateLookingUp)
	for _, kind := range common.Kinds {
		h.lookup(kind)
	}

	return h.results, nil
}

func (h *Harness) generate() error {
	n := h.cfg.Size
	if n == 0 {
		return nil
	}
	size := int64(n) * 8
	if h.cfg.Memory != nil && !h.cfg.Memory.TryAcquireMemory(size) {
		return fmt.Errorf("bench: value buffer of %d bytes: %w", size, common.ErrOutOfMemory)
	}
	h.bufSize = size

	rng := rand.New(rand.NewPCG(h.cfg.Seed, h.cfg.Seed^0x9e3779b97f4a7c15))
	h.values = make([]common.ValueType, n)
	for i := range h.values {
		h.values[i] = rng.Int64N(ValueRange)
	}
	return nil
}

func (h *Harness) insert(kind common.Kind) error {
	idx := core.NewIndex(kind, h.arena, core.IndexOptions{
		HashBits:   h.cfg.HashBits,
		TreeDegree: h.cfg.TreeDegree,
	})
	h.indexes[kind] = idx

	start := time.Now()
	for _, v := range h.values {
		rh, err := h.arena.Alloc(v)
		if err != nil {
			return err
		}
		idx.Link(rh)
		h.results.Inserted[kind]++
	}
	h.results.Insert[kind] = perOp(time.Since(start), len(h.values))
	return nil
}

func (h *Harness) lookup(kind common.Kind) {
	idx := h.indexes[kind]
	found := 0

	start := time.Now()
	for i, v := range h.values {
		if _, ok := idx.Lookup(i, v); ok {
			found++
		}
	}
	h.results.Lookup[kind] = perOp(time.Since(start), len(h.values))
	h.results.LookedUp[kind] = len(h.values)
	h.results.Found[kind] = found
}

// reclaim releases every record from whichever structure holds it, then the
// structures and the value buffer. It runs on every exit path of Run.
func (h *Harness) reclaim() error {
	h.setState(StateReclaiming)

	var errs []error
	for kind, idx := range h.indexes {
		if idx == nil {
			continue
		}
		idx.Drain(func(rh arena.Handle) {
			if err := h.arena.Free(rh); err != nil {
				errs = append(errs, err)
			}
		})
		h.indexes[kind] = nil
	}
	if err := h.arena.Close(); err != nil {
		errs = append(errs, err)
	}

	h.values = nil
	if h.bufSize > 0 && h.cfg.Memory != nil {
		h.cfg.Memory.ReleaseMemory(h.bufSize)
	}
	h.bufSize = 0

	h.setState(StateDone)
	return errors.Join(errs...)
}

func perOp(d time.Duration, n int) time.Duration {
	if n == 0 {
		return 0
	}
	return d / time.Duration(n)
}

// Run is a convenience for New(cfg).Run().
func Run(cfg Config) (Results, error) {
	return New(cfg).Run()
}
