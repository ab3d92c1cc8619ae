// Package engine owns the lifecycle of one loaded dataset: configuration,
// the multi-index store, the optional load-time benchmark and the access
// counter behind the info view.
package engine

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"dsbench/pkg/bench"
	"dsbench/pkg/config"
	"dsbench/pkg/core"
	"dsbench/pkg/monitor"
	"dsbench/pkg/resource"
	"dsbench/pkg/storage"
)

// ErrBenchDisabled is returned by Bench when the benchmark was switched off.
var ErrBenchDisabled = errors.New("engine: benchmark disabled")

type Engine struct {
	cfg    *config.Config
	mem    *resource.Controller
	store  *core.Store
	access *monitor.AccessStats

	bench    *bench.Results
	benchErr error

	closeOnce sync.Once
	closeErr  error
}

// Load validates cfg, loads the dataset into a fresh store and, if enabled,
// runs the benchmark once. A malformed or unsatisfiable dataset fails the
// whole load with nothing left allocated. A failed benchmark does not: the
// dataset stays available and Bench reports the failure.
func Load(cfg *config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:    cfg,
		mem:    resource.NewController(resource.Config{MemoryLimitBytes: cfg.Resource.MemoryLimitBytes}),
		access: monitor.NewAccessStats(),
	}
	e.store = core.NewStore(core.StoreOptions{
		HashBits:   cfg.Dataset.HashBits,
		TreeDegree: cfg.Dataset.TreeDegree,
		Memory:     e.mem,
	})

	start := time.Now()
	if err := e.store.Load(config.ScanValues(*cfg.Dataset.Values)); err != nil {
		return nil, fmt.Errorf("engine: load dataset: %w", err)
	}
	log.Printf("[Engine] Loaded %d records in %v", e.store.Len(), time.Since(start))

	if cfg.BenchEnabled() {
		e.runBench()
	} else {
		e.benchErr = ErrBenchDisabled
	}
	return e, nil
}

func (e *Engine) runBench() {
	n := e.cfg.BenchSize()
	log.Printf("[Bench] Running with N=%d", n)

	res, err := bench.Run(bench.Config{
		Size:       n,
		HashBits:   e.cfg.Bench.HashBits,
		TreeDegree: e.cfg.Bench.TreeDegree,
		Seed:       e.cfg.Bench.Seed,
		Memory:     e.mem,
	})
	if err != nil {
		log.Printf("[Bench] Failed, results unavailable: %v", err)
		e.benchErr = err
		return
	}
	e.bench = &res
	log.Printf("[Bench] Done in %v", res.Elapsed)

	if path := e.cfg.Storage.ResultsDB; path != "" {
		if err := appendResults(path, res); err != nil {
			log.Printf("[Storage] Failed to log bench results to %s: %v", path, err)
		}
	}
}

func appendResults(path string, res bench.Results) error {
	rl, err := storage.OpenResultsLog(path)
	if err != nil {
		return err
	}
	defer rl.Close()
	_, err = rl.Append(res, time.Now())
	return err
}

func (e *Engine) Store() *core.Store { return e.store }

func (e *Engine) Config() *config.Config { return e.cfg }

// Bench returns the benchmark results, or the reason there are none.
func (e *Engine) Bench() (*bench.Results, error) {
	if e.benchErr != nil {
		return nil, e.benchErr
	}
	return e.bench, nil
}

// Info counts one access and reports it.
func (e *Engine) Info() monitor.Info {
	return e.access.Observe()
}

// Access exposes the counter without touching it.
func (e *Engine) Access() *monitor.AccessStats { return e.access }

func (e *Engine) Memory() resource.Stats { return e.mem.Stats() }

// Close tears the dataset down. Repeated calls return the first result.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		n := e.store.Len()
		err := e.store.TeardownAll()
		if used := e.mem.MemoryUsage(); used != 0 {
			err = errors.Join(err, fmt.Errorf("engine: %d bytes still accounted after teardown", used))
		}
		if err != nil {
			log.Printf("[Engine] Teardown failed: %v", err)
		} else {
			log.Printf("[Engine] Reclaimed %d records", n)
		}
		e.closeErr = err
	})
	return e.closeErr
}
