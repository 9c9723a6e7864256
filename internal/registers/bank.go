// internal/registers/bank.go
package registers

import (
	"errors"
	"sync/atomic"
)

// Well-known offsets in the holding register bank.
// The layout is fixed for the lifetime of the device.
const (
	// OffsetCounter is bumped by the responder on every access that
	// touches it, read or write.
	OffsetCounter = 0

	// OffsetValue is overwritten by the value refresher on its own clock.
	OffsetValue = 1

	// OffsetWrapCounter increments once per second and wraps at 65535.
	OffsetWrapCounter = 2

	// OffsetGeneralPurpose is the first freely usable register.
	OffsetGeneralPurpose = 3
)

// ErrOutOfRange reports an access outside the register bank.
var ErrOutOfRange = errors.New("registers: offset out of range")

// Bank is the shared holding register table.
//
// Cells are individually atomic: a concurrent reader never observes a
// torn 16-bit value. There is NO atomicity across cells — a multi-cell
// read may mix values from before and after a concurrent write. That is
// the accepted consistency model for this device; do not add a
// bank-wide lock here, it would stall the protocol responder.
type Bank struct {
	cells []atomic.Uint32 // value lives in the low 16 bits
}

// New creates a bank of n registers seeded with the device's fixed
// layout: counter and wrap counter at zero, general purpose cells at
// 100, 101, ... in offset order. The periodic value cell is seeded by
// its mutator at startup.
func New(n int) (*Bank, error) {
	if n < OffsetGeneralPurpose {
		return nil, errors.New("registers: bank too small for fixed layout")
	}
	b := &Bank{cells: make([]atomic.Uint32, n)}
	for i := OffsetGeneralPurpose; i < n; i++ {
		b.cells[i].Store(uint32(100 + i - OffsetGeneralPurpose))
	}
	return b, nil
}

// Size returns the number of registers in the bank.
func (b *Bank) Size() int { return len(b.cells) }

// Get returns the value of a single register.
func (b *Bank) Get(offset int) (uint16, error) {
	if offset < 0 || offset >= len(b.cells) {
		return 0, ErrOutOfRange
	}
	return uint16(b.cells[offset].Load()), nil
}

// Set stores a single register value. Any offset is writable; ownership
// of counter and periodic cells is a scheduling convention, not a write
// policy.
func (b *Bank) Set(offset int, v uint16) error {
	if offset < 0 || offset >= len(b.cells) {
		return ErrOutOfRange
	}
	b.cells[offset].Store(uint32(v))
	return nil
}

// Inc atomically increments a register, wrapping 65535 back to 0.
// Returns the new value.
func (b *Bank) Inc(offset int) (uint16, error) {
	if offset < 0 || offset >= len(b.cells) {
		return 0, ErrOutOfRange
	}
	for {
		old := b.cells[offset].Load()
		next := (old + 1) & 0xFFFF
		if b.cells[offset].CompareAndSwap(old, next) {
			return uint16(next), nil
		}
	}
}

// Read copies count registers starting at offset. The range must lie
// entirely within the bank.
func (b *Bank) Read(offset, count int) ([]uint16, error) {
	if offset < 0 || count < 0 || offset+count > len(b.cells) {
		return nil, ErrOutOfRange
	}
	out := make([]uint16, count)
	for i := range out {
		out[i] = uint16(b.cells[offset+i].Load())
	}
	return out, nil
}

// Write stores values starting at offset. The bound is checked before
// any cell is touched: a rejected write leaves the bank unchanged.
func (b *Bank) Write(offset int, values []uint16) error {
	if offset < 0 || offset+len(values) > len(b.cells) {
		return ErrOutOfRange
	}
	for i, v := range values {
		b.cells[offset+i].Store(uint32(v))
	}
	return nil
}

// Snapshot copies the whole bank cell by cell. Concurrent mutators may
// land between cells; each individual value is consistent.
func (b *Bank) Snapshot() []uint16 {
	out := make([]uint16, len(b.cells))
	for i := range b.cells {
		out[i] = uint16(b.cells[i].Load())
	}
	return out
}
