// internal/responder/stats.go
package responder

import "sync/atomic"

// Stats holds the device's protocol counters. The responder is the only
// writer of the request counters; the uptime ticker is the only writer
// of Uptime. Everyone else reads through Snapshot.
type Stats struct {
	Total  atomic.Uint32
	Reads  atomic.Uint32
	Writes atomic.Uint32
	Errors atomic.Uint32
	Uptime atomic.Uint32
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	Total  uint32
	Reads  uint32
	Writes uint32
	Errors uint32
	Uptime uint32
}

// Snapshot copies the counters. Loads are per-counter atomic; the copy
// as a whole is not transactional, which is fine for diagnostics.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Total:  s.Total.Load(),
		Reads:  s.Reads.Load(),
		Writes: s.Writes.Load(),
		Errors: s.Errors.Load(),
		Uptime: s.Uptime.Load(),
	}
}
