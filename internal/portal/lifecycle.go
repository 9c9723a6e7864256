// internal/portal/lifecycle.go
package portal

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"
)

// State is the portal's lifecycle position. The only walk is
// Armed -> Active -> Disabled; Disabled is terminal until restart.
type State int32

const (
	Armed State = iota
	Active
	Disabled
)

func (s State) String() string {
	switch s {
	case Armed:
		return "ARMED"
	case Active:
		return "ACTIVE"
	case Disabled:
		return "DISABLED"
	}
	return "UNKNOWN"
}

// Lifecycle arms a single deadline over the portal at boot and tears it
// down exactly once on expiry.
//
// The deadline callback only raises a flag: teardown means closing
// network resources, which must not run from a timer callback context.
// The Supervise loop owns the actual teardown.
type Lifecycle struct {
	portal *Portal
	window time.Duration
	poll   time.Duration

	state   atomic.Int32
	expired atomic.Bool
	timer   *time.Timer
}

// NewLifecycle creates an armed lifecycle. window is the serving
// window; poll is the supervisor's check interval (defaults to 1s).
func NewLifecycle(p *Portal, window, poll time.Duration) (*Lifecycle, error) {
	if p == nil {
		return nil, errors.New("portal: lifecycle needs a portal")
	}
	if window <= 0 {
		return nil, errors.New("portal: lifecycle window must be > 0")
	}
	if poll <= 0 {
		poll = time.Second
	}
	return &Lifecycle{portal: p, window: window, poll: poll}, nil
}

// State reports the current lifecycle state.
func (l *Lifecycle) State() State {
	return State(l.state.Load())
}

// Start brings the portal up and arms the deadline. Called once at
// boot; a second call is an error.
func (l *Lifecycle) Start() error {
	if !l.state.CompareAndSwap(int32(Armed), int32(Active)) {
		return errors.New("portal: lifecycle already started")
	}
	if err := l.portal.Start(); err != nil {
		l.state.Store(int32(Disabled))
		return err
	}

	// Flag only. Teardown belongs to Supervise.
	l.timer = time.AfterFunc(l.window, func() {
		l.expired.Store(true)
	})

	log.Printf("portal: window open for %s", l.window)
	return nil
}

// Supervise watches the expiry flag and performs the one-shot teardown.
// Returns when the portal is disabled or ctx is cancelled.
func (l *Lifecycle) Supervise(ctx context.Context) {
	ticker := time.NewTicker(l.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if l.expired.Load() {
				l.teardown()
				return
			}
		}
	}
}

// teardown disables the portal at most once, however many expiry
// signals race it.
func (l *Lifecycle) teardown() {
	if !l.state.CompareAndSwap(int32(Active), int32(Disabled)) {
		return
	}
	if l.timer != nil {
		l.timer.Stop()
	}
	if err := l.portal.Stop(); err != nil {
		log.Printf("portal: teardown: %v", err)
	}
	log.Printf("portal: window closed, device now in bus-only mode")
}
