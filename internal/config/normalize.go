// internal/config/normalize.go
package config

// Normalize fills defaults for omitted fields.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	s := &cfg.Slave

	if s.Serial.Baud == 0 {
		s.Serial.Baud = 9600
	}
	if s.Registers == 0 {
		s.Registers = 10
	}
	if s.DefaultAddress == 0 {
		s.DefaultAddress = 1
	}
	if s.Store == "" {
		s.Store = "slave.db"
	}
	if s.ValueIntervalMs == 0 {
		s.ValueIntervalMs = 5000
	}

	// Portal stays disabled when window_minutes is 0: headless deploys
	// opt out of the config surface entirely.
}
