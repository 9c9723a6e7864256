// internal/config/validate.go
package config

import (
	"fmt"
)

// The protocol caps a holding-register read at 125 registers; a bigger
// bank could never be read in one transaction.
const maxRegisters = 125

// minRegisters covers the fixed layout: counter, periodic value, wrap
// counter.
const minRegisters = 3

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	s := cfg.Slave

	if s.Serial.Port == "" {
		return fmt.Errorf("slave: serial port required")
	}
	if s.Serial.Baud < 0 {
		return fmt.Errorf("slave: baud %d must not be negative", s.Serial.Baud)
	}

	if s.Registers < 0 {
		return fmt.Errorf("slave: registers %d must not be negative", s.Registers)
	}
	if s.Registers != 0 && s.Registers < minRegisters {
		return fmt.Errorf("slave: registers %d below fixed layout minimum %d", s.Registers, minRegisters)
	}
	if s.Registers > maxRegisters {
		return fmt.Errorf("slave: registers %d above protocol maximum %d", s.Registers, maxRegisters)
	}

	if s.DefaultAddress != 0 && (s.DefaultAddress < 1 || s.DefaultAddress > 247) {
		return fmt.Errorf("slave: default_address %d outside 1..247", s.DefaultAddress)
	}

	if s.Portal.WindowMinutes < 0 {
		return fmt.Errorf("slave: portal window_minutes %d must not be negative", s.Portal.WindowMinutes)
	}
	if s.Portal.WindowMinutes > 0 && s.Portal.Listen == "" {
		return fmt.Errorf("slave: portal enabled but listen address empty")
	}

	if s.ValueIntervalMs < 0 {
		return fmt.Errorf("slave: value_interval_ms %d must not be negative", s.ValueIntervalMs)
	}

	return nil
}
