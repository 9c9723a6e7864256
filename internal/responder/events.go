// internal/responder/events.go
package responder

import "errors"

// ErrNoEvent is returned by EventSource.Poll when no transaction has
// completed since the last poll.
var ErrNoEvent = errors.New("responder: no event")

// Kind classifies a decoded protocol transaction.
type Kind uint8

const (
	KindRead Kind = iota
	KindWrite
)

func (k Kind) String() string {
	if k == KindWrite {
		return "WRITE"
	}
	return "READ"
}

// Event is one completed holding-register transaction as decoded by the
// protocol layer: a contiguous register span and whether the master
// read it or wrote it.
type Event struct {
	Kind   Kind
	Offset uint16
	Length uint16
}

// Includes reports whether the event's span covers the given offset.
func (e Event) Includes(offset uint16) bool {
	return e.Length > 0 && e.Offset <= offset && offset < e.Offset+e.Length
}

// EventSource is the contract the responder has with the protocol
// stack. Poll must not block: it returns ErrNoEvent when nothing has
// completed, or a decode error when the layer signaled a transaction it
// cannot describe. The responder depends on decoded geometry only.
type EventSource interface {
	Poll() (Event, error)
}
