// internal/responder/responder.go
package responder

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/tamzrod/modbus-slave/internal/registers"
)

// Config is the minimal runtime config the responder needs.
type Config struct {
	// Yield is how long the loop sleeps after an empty poll.
	Yield time.Duration

	// StatusEvery is the number of idle iterations between liveness log
	// lines.
	StatusEvery int
}

// Responder drains decoded protocol events against the register bank
// and keeps the request statistics. It is a dumb poll loop: one
// non-blocking check per iteration, then a mandatory yield. No retries,
// no reordering — an event, once polled, is handled to completion.
type Responder struct {
	cfg   Config
	src   EventSource
	bank  *registers.Bank
	stats *Stats
}

// New creates a responder with immutable config.
func New(cfg Config, src EventSource, bank *registers.Bank, stats *Stats) (*Responder, error) {
	if src == nil {
		return nil, errors.New("responder: event source required")
	}
	if bank == nil {
		return nil, errors.New("responder: register bank required")
	}
	if stats == nil {
		return nil, errors.New("responder: stats required")
	}
	if cfg.Yield <= 0 {
		cfg.Yield = 10 * time.Millisecond
	}
	if cfg.StatusEvery <= 0 {
		cfg.StatusEvery = 500
	}
	return &Responder{cfg: cfg, src: src, bank: bank, stats: stats}, nil
}

// Run polls until ctx is cancelled.
func (r *Responder) Run(ctx context.Context) {
	var idle int
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		ev, err := r.src.Poll()
		switch {
		case errors.Is(err, ErrNoEvent):
			idle++
			if idle%r.cfg.StatusEvery == 0 {
				s := r.stats.Snapshot()
				log.Printf("responder: alive total=%d reads=%d writes=%d errors=%d",
					s.Total, s.Reads, s.Writes, s.Errors)
			}
			sleepCtx(ctx, r.cfg.Yield)

		case err != nil:
			// The protocol layer signaled a transaction but could not
			// describe it. It accounts its own errors; we just drop the
			// iteration and poll again.
			log.Printf("responder: event parameters unavailable: %v", err)

		default:
			r.Handle(ev)
		}
	}
}

// Handle applies one decoded event to the statistics and the register
// side effects. Exported for direct use in tests; Run is the only
// production caller.
func (r *Responder) Handle(ev Event) {
	r.stats.Total.Add(1)
	if ev.Kind == KindWrite {
		r.stats.Writes.Add(1)
	} else {
		r.stats.Reads.Add(1)
	}

	// Any access touching the counter register bumps it, read or write,
	// exactly once per event. The bump lands after the transaction
	// itself: a write to offset 0 is applied first, then superseded by
	// the increment.
	if ev.Includes(registers.OffsetCounter) {
		if v, err := r.bank.Inc(registers.OffsetCounter); err == nil {
			log.Printf("responder: access counter now %d", v)
		}
	}

	log.Printf("responder: holding %s addr=%d qty=%d", ev.Kind, ev.Offset, ev.Length)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
