// Package counter implements the monotonic request counter that is the
// whole of the TUI's stale-response suppression protocol: a worker stamps
// a response with the value Next() returned when the request was issued,
// and drops the response if Last() has since moved past it.
package counter

import "sync/atomic"

// Counter is a thread-safe monotonically increasing 64-bit counter.
type Counter struct {
	value atomic.Uint64
}

// Next increments the counter and returns the post-increment value.
func (c *Counter) Next() uint64 {
	return c.value.Add(1)
}

// Last returns the current value without incrementing.
func (c *Counter) Last() uint64 {
	return c.value.Load()
}

// IsStale reports whether id no longer matches the latest value issued by
// Next — i.e. a fresher request has since been started.
func (c *Counter) IsStale(id uint64) bool {
	return id != c.Last()
}
