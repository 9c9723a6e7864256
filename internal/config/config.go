// internal/config/config.go
package config

type Config struct {
	Slave SlaveConfig `yaml:"slave"`
}

type SlaveConfig struct {
	Serial SerialConfig `yaml:"serial"`

	// Registers is the size of the holding register bank.
	Registers int `yaml:"registers"`

	// DefaultAddress is the bus address used when none is persisted.
	DefaultAddress uint8 `yaml:"default_address"`

	// Store is the path of the durable key-value file.
	Store string `yaml:"store"`

	Portal PortalConfig `yaml:"portal"`

	// ValueIntervalMs is the refresh period of the periodic value
	// register.
	ValueIntervalMs int `yaml:"value_interval_ms"`
}

// ---- SERIAL ----

type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// ---- PORTAL ----

type PortalConfig struct {
	Listen string `yaml:"listen"`

	// WindowMinutes is how long the portal serves after boot.
	// 0 disables the portal entirely.
	WindowMinutes int `yaml:"window_minutes"`
}
