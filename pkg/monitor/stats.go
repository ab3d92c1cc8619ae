package monitor

import (
	"sync/atomic"
	"time"
)

// AccessStats 记录进程启动时间和 info 请求次数
type AccessStats struct {
	LoadedAt time.Time
	accesses atomic.Uint64
}

// Info is one observation of AccessStats. AccessCount includes the
// observation itself.
type Info struct {
	LoadedAt    time.Time     `json:"loaded_at"`
	Now         time.Time     `json:"now"`
	Uptime      time.Duration `json:"uptime_ns"`
	AccessCount uint64        `json:"access_count"`
}

func NewAccessStats() *AccessStats {
	return &AccessStats{LoadedAt: time.Now()}
}

// Hit counts one access and returns the new total. Concurrent callers each
// observe a distinct value.
func (as *AccessStats) Hit() uint64 {
	return as.accesses.Add(1)
}

func (as *AccessStats) Count() uint64 {
	return as.accesses.Load()
}

func (as *AccessStats) Uptime() time.Duration {
	return time.Since(as.LoadedAt)
}

// Observe records an access and returns the resulting Info.
func (as *AccessStats) Observe() Info {
	n := as.Hit()
	now := time.Now()
	return Info{
		LoadedAt:    as.LoadedAt,
		Now:         now,
		Uptime:      now.Sub(as.LoadedAt),
		AccessCount: n,
	}
}
