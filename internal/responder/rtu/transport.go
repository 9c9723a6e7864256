// internal/responder/rtu/transport.go
package rtu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/soypat/peamodbus/modbusrtu"

	"github.com/tamzrod/modbus-slave/internal/registers"
	"github.com/tamzrod/modbus-slave/internal/responder"
)

// Config is the transport's boot-time configuration. The bus address is
// fixed for the process lifetime: applying a new address means building
// a new transport, which this device only does across a restart.
type Config struct {
	// Address is the bus address in 1..247.
	Address uint8

	// Queue is the capacity of the decoded-event queue. Defaults to 32.
	Queue int
}

// Transport owns the RTU server and publishes one decoded event per
// completed holding-register transaction. The responder consumes them
// through Poll; framing, CRC and addressing live entirely in the
// protocol library underneath.
type Transport struct {
	server *modbusrtu.Server
	model  *model
	port   io.ReadWriter

	events chan responder.Event
	errs   chan error
}

// New binds the whole register bank, as one contiguous area starting at
// offset 0, to an RTU server on the given port.
func New(port io.ReadWriter, bank *registers.Bank, cfg Config) (*Transport, error) {
	if port == nil {
		return nil, errors.New("rtu: port required")
	}
	if bank == nil {
		return nil, errors.New("rtu: register bank required")
	}
	if cfg.Address < 1 || cfg.Address > 247 {
		return nil, fmt.Errorf("rtu: address %d outside 1..247", cfg.Address)
	}
	if cfg.Queue <= 0 {
		cfg.Queue = 32
	}

	m := &model{bank: bank}
	sv := modbusrtu.NewServer(port, modbusrtu.ServerConfig{
		Address:   cfg.Address,
		DataModel: m,
	})

	return &Transport{
		server: sv,
		model:  m,
		port:   port,
		events: make(chan responder.Event, cfg.Queue),
		errs:   make(chan error, cfg.Queue),
	}, nil
}

// Serve drains the bus until ctx is cancelled or the port dies. The
// serve loop is the only goroutine that touches the protocol server
// and the access model.
func (t *Transport) Serve(ctx context.Context) {
	for {
		err := t.server.HandleNext()
		select {
		case <-ctx.Done():
			return
		default:
		}
		if err != nil {
			t.model.take() // discard any partial span
			select {
			case t.errs <- err:
			default:
				log.Printf("rtu: error queue full, dropping: %v", err)
			}
			continue
		}
		if ev, ok := t.model.take(); ok {
			select {
			case t.events <- ev:
			default:
				// Diagnostics for this transaction are lost; the wire
				// response was already sent.
				log.Printf("rtu: event queue full, dropping %s addr=%d qty=%d",
					ev.Kind, ev.Offset, ev.Length)
			}
		}
	}
}

// Poll implements responder.EventSource. Non-blocking.
func (t *Transport) Poll() (responder.Event, error) {
	select {
	case ev := <-t.events:
		return ev, nil
	default:
	}
	select {
	case err := <-t.errs:
		return responder.Event{}, err
	default:
		return responder.Event{}, responder.ErrNoEvent
	}
}

var _ responder.EventSource = (*Transport)(nil)
