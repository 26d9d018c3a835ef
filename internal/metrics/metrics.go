package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// CartMetrics counts cart mutation outcomes, read by the health endpoint.
type CartMetrics struct {
	Updates  Counter
	Removes  Counter
	Clears   Counter
	Rejected Counter
	Failed   Counter
}

func (m *CartMetrics) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"updates":  m.Updates.Load(),
		"removes":  m.Removes.Load(),
		"clears":   m.Clears.Load(),
		"rejected": m.Rejected.Load(),
		"failed":   m.Failed.Load(),
	}
}
