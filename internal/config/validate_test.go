// internal/config/validate_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Slave: SlaveConfig{
			Serial:          SerialConfig{Port: "/dev/ttyUSB0", Baud: 9600},
			Registers:       10,
			DefaultAddress:  1,
			Store:           "slave.db",
			Portal:          PortalConfig{Listen: ":8080", WindowMinutes: 2},
			ValueIntervalMs: 5000,
		},
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Slave.Serial.Port = "" }, true},
		{"negative baud", func(c *Config) { c.Slave.Serial.Baud = -1 }, true},
		{"registers below layout", func(c *Config) { c.Slave.Registers = 2 }, true},
		{"registers above protocol max", func(c *Config) { c.Slave.Registers = 126 }, true},
		{"registers omitted", func(c *Config) { c.Slave.Registers = 0 }, false},
		{"address too high", func(c *Config) { c.Slave.DefaultAddress = 248 }, true},
		{"address omitted", func(c *Config) { c.Slave.DefaultAddress = 0 }, false},
		{"negative window", func(c *Config) { c.Slave.Portal.WindowMinutes = -1 }, true},
		{"portal without listen", func(c *Config) { c.Slave.Portal.Listen = "" }, true},
		{"portal disabled without listen", func(c *Config) {
			c.Slave.Portal.WindowMinutes = 0
			c.Slave.Portal.Listen = ""
		}, false},
		{"negative value interval", func(c *Config) { c.Slave.ValueIntervalMs = -1 }, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := validConfig()
			c.mutate(cfg)
			err := Validate(cfg)
			if c.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !c.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := &Config{Slave: SlaveConfig{Serial: SerialConfig{Port: "/dev/ttyUSB0"}}}
	Normalize(cfg)

	s := cfg.Slave
	if s.Serial.Baud != 9600 {
		t.Fatalf("baud=%d, want 9600", s.Serial.Baud)
	}
	if s.Registers != 10 {
		t.Fatalf("registers=%d, want 10", s.Registers)
	}
	if s.DefaultAddress != 1 {
		t.Fatalf("default_address=%d, want 1", s.DefaultAddress)
	}
	if s.Store != "slave.db" {
		t.Fatalf("store=%q, want slave.db", s.Store)
	}
	if s.ValueIntervalMs != 5000 {
		t.Fatalf("value_interval_ms=%d, want 5000", s.ValueIntervalMs)
	}
	if s.Portal.WindowMinutes != 0 {
		t.Fatalf("window_minutes=%d, want 0 (portal stays opt-in)", s.Portal.WindowMinutes)
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slave.yaml")
	doc := `slave:
  serial:
    port: /dev/ttyUSB1
    baud: 19200
  registers: 16
  default_address: 5
  store: /var/lib/slave.db
  portal:
    listen: ":9090"
    window_minutes: 3
  value_interval_ms: 2500
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate err=%v", err)
	}

	s := cfg.Slave
	if s.Serial.Port != "/dev/ttyUSB1" || s.Serial.Baud != 19200 {
		t.Fatalf("serial=%+v", s.Serial)
	}
	if s.Registers != 16 || s.DefaultAddress != 5 {
		t.Fatalf("registers=%d address=%d", s.Registers, s.DefaultAddress)
	}
	if s.Portal.Listen != ":9090" || s.Portal.WindowMinutes != 3 {
		t.Fatalf("portal=%+v", s.Portal)
	}
	if s.ValueIntervalMs != 2500 {
		t.Fatalf("value_interval_ms=%d", s.ValueIntervalMs)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
