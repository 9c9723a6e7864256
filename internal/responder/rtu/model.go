// internal/responder/rtu/model.go
package rtu

import (
	"github.com/soypat/peamodbus"

	"github.com/tamzrod/modbus-slave/internal/registers"
	"github.com/tamzrod/modbus-slave/internal/responder"
)

// model binds the register bank to the protocol stack's data model and
// records the access span of the transaction in flight.
//
// The protocol server touches the model from its serve goroutine only,
// one transaction at a time, so the span fields need no lock. The bank
// itself is safe for the concurrent mutators.
type model struct {
	bank *registers.Bank

	// span of the current transaction
	touched bool
	failed  bool
	kind    responder.Kind
	lo, hi  uint16
}

var _ peamodbus.DataModel = (*model)(nil)

func (m *model) GetHoldingRegister(i int) (uint16, peamodbus.Exception) {
	v, err := m.bank.Get(i)
	if err != nil {
		m.failed = true
		return 0, peamodbus.ExceptionIllegalDataAddr
	}
	m.record(responder.KindRead, i)
	return v, peamodbus.ExceptionNone
}

func (m *model) SetHoldingRegister(i int, v uint16) peamodbus.Exception {
	if err := m.bank.Set(i, v); err != nil {
		m.failed = true
		return peamodbus.ExceptionIllegalDataAddr
	}
	m.record(responder.KindWrite, i)
	return peamodbus.ExceptionNone
}

// The device exposes holding registers only.

func (m *model) GetInputRegister(i int) (uint16, peamodbus.Exception) {
	m.failed = true
	return 0, peamodbus.ExceptionIllegalFunction
}

func (m *model) SetInputRegister(i int, v uint16) peamodbus.Exception {
	m.failed = true
	return peamodbus.ExceptionIllegalFunction
}

func (m *model) GetCoil(i int) (bool, peamodbus.Exception) {
	m.failed = true
	return false, peamodbus.ExceptionIllegalFunction
}

func (m *model) SetCoil(i int, b bool) peamodbus.Exception {
	m.failed = true
	return peamodbus.ExceptionIllegalFunction
}

func (m *model) GetDiscreteInput(i int) (bool, peamodbus.Exception) {
	m.failed = true
	return false, peamodbus.ExceptionIllegalFunction
}

func (m *model) SetDiscreteInput(i int, b bool) peamodbus.Exception {
	m.failed = true
	return peamodbus.ExceptionIllegalFunction
}

func (m *model) record(kind responder.Kind, i int) {
	off := uint16(i)
	if !m.touched {
		m.touched = true
		m.kind = kind
		m.lo, m.hi = off, off
		return
	}
	if off < m.lo {
		m.lo = off
	}
	if off > m.hi {
		m.hi = off
	}
}

// take coalesces the recorded span into one event and resets the model
// for the next transaction. ok is false when nothing was accessed or
// any access raised an exception.
func (m *model) take() (ev responder.Event, ok bool) {
	touched, failed := m.touched, m.failed
	kind, lo, hi := m.kind, m.lo, m.hi
	m.touched, m.failed = false, false

	if !touched || failed {
		return responder.Event{}, false
	}
	return responder.Event{
		Kind:   kind,
		Offset: lo,
		Length: hi - lo + 1,
	}, true
}
