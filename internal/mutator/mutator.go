// internal/mutator/mutator.go
package mutator

import (
	"context"
	"errors"
	"time"
)

// Periodic is a dumb, clock-driven mutator. Tick runs synchronously on
// each firing, holds no locks across the interval, and observes no
// back-pressure from anything else in the process.
type Periodic struct {
	Name     string
	Interval time.Duration
	Tick     func()
}

// New creates a periodic mutator with immutable config.
func New(name string, interval time.Duration, tick func()) (*Periodic, error) {
	if name == "" {
		return nil, errors.New("mutator: name required")
	}
	if interval <= 0 {
		return nil, errors.New("mutator: interval must be > 0")
	}
	if tick == nil {
		return nil, errors.New("mutator: tick func required")
	}
	return &Periodic{Name: name, Interval: interval, Tick: tick}, nil
}

// Run fires Tick on every interval until ctx is cancelled. One
// goroutine per mutator. No overlap, no catch-up.
func (p *Periodic) Run(ctx context.Context) {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Tick()
		}
	}
}
