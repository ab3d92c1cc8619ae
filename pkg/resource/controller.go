package resource

import (
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for accounted memory.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64
}

// Controller accounts every record and buffer allocation made by the store
// and the benchmark harness.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	allocs   atomic.Int64
	releases atomic.Int64
	refused  atomic.Int64
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}
	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}
	return c
}

// TryAcquireMemory attempts to reserve memory without blocking.
// Returns true if acquired, false if the limit would be exceeded.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil || bytes <= 0 {
		return true
	}
	if c.memSem != nil && !c.memSem.TryAcquire(bytes) {
		c.refused.Add(1)
		return false
	}
	c.memUsed.Add(bytes)
	c.allocs.Add(1)
	return true
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}
	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
	c.releases.Add(1)
}

// MemoryUsage returns the current accounted memory in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// Stats is a point-in-time view of the controller counters.
type Stats struct {
	LimitBytes int64
	UsedBytes  int64
	Allocs     int64
	Releases   int64
	Refused    int64
}

func (c *Controller) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	return Stats{
		LimitBytes: c.cfg.MemoryLimitBytes,
		UsedBytes:  c.memUsed.Load(),
		Allocs:     c.allocs.Load(),
		Releases:   c.releases.Load(),
		Refused:    c.refused.Load(),
	}
}

// Outstanding is the number of acquisitions not yet released.
func (s Stats) Outstanding() int64 {
	return s.Allocs - s.Releases
}
