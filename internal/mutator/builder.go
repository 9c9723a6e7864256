// internal/mutator/builder.go
package mutator

import (
	"log"
	"math/rand"
	"time"

	"github.com/tamzrod/modbus-slave/internal/registers"
	"github.com/tamzrod/modbus-slave/internal/responder"
)

// ValueRefresher overwrites the periodic value register with a fresh
// pseudo-random 16-bit value on every firing. The register stays
// externally writable; the next tick supersedes whatever a master
// wrote.
func ValueRefresher(bank *registers.Bank, interval time.Duration, rng *rand.Rand) (*Periodic, error) {
	// Seed once so the register is never observed at its zero value.
	bank.Set(registers.OffsetValue, uint16(rng.Intn(1<<16)))

	return New("value-refresher", interval, func() {
		v := uint16(rng.Intn(1 << 16))
		bank.Set(registers.OffsetValue, v)
		log.Printf("mutator: value register refreshed to %d", v)
	})
}

// WrapCounter increments the wrap counter register once per second,
// rolling 65535 over to 0.
func WrapCounter(bank *registers.Bank) (*Periodic, error) {
	return New("wrap-counter", time.Second, func() {
		if v, err := bank.Inc(registers.OffsetWrapCounter); err == nil && v == 0 {
			log.Printf("mutator: wrap counter rolled over")
		}
	})
}

// UptimeTicker counts whole seconds of process life into the
// statistics. The counter is 32 bits wide; it would take ~136 years to
// wrap, far beyond the device's operating horizon.
func UptimeTicker(stats *responder.Stats) (*Periodic, error) {
	return New("uptime", time.Second, func() {
		stats.Uptime.Add(1)
	})
}
