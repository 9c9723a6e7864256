// internal/portal/portal.go
package portal

import (
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tamzrod/modbus-slave/internal/registers"
	"github.com/tamzrod/modbus-slave/internal/responder"
)

// Saver is the exact persistence contract the portal uses.
type Saver interface {
	SetSlaveAddress(addr uint8) error
}

// Config is the portal's boot-time configuration.
type Config struct {
	// Listen is the TCP address the portal binds, e.g. ":8080".
	Listen string

	// SlaveID is the bus address currently in effect. Reported in the
	// stats payload; never changed in place.
	SlaveID uint8

	// Grace is how long a successful address change waits before
	// restarting, so the acknowledgment reaches the caller. Defaults
	// to 2s.
	Grace time.Duration
}

// Portal is the time-boxed configuration interface: read-only views of
// the register bank and the statistics, plus the one write operation
// that changes the bus address and ends in a restart.
type Portal struct {
	cfg     Config
	bank    *registers.Bank
	stats   *responder.Stats
	saver   Saver
	restart func()

	ln  net.Listener
	srv *http.Server
}

// New wires the portal. restart is invoked after the grace delay of a
// successful address change; in production it terminates the process.
func New(cfg Config, bank *registers.Bank, stats *responder.Stats, saver Saver, restart func()) (*Portal, error) {
	if bank == nil {
		return nil, errors.New("portal: register bank required")
	}
	if stats == nil {
		return nil, errors.New("portal: stats required")
	}
	if saver == nil {
		return nil, errors.New("portal: saver required")
	}
	if restart == nil {
		return nil, errors.New("portal: restart func required")
	}
	if cfg.Listen == "" {
		return nil, errors.New("portal: listen address required")
	}
	if cfg.Grace <= 0 {
		cfg.Grace = 2 * time.Second
	}
	return &Portal{cfg: cfg, bank: bank, stats: stats, saver: saver, restart: restart}, nil
}

// Start binds the listener and serves in a background goroutine.
func (p *Portal) Start() error {
	r := mux.NewRouter()
	r.HandleFunc("/", p.index).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", p.statsHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/registers", p.registersHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/config", p.configHandler).Methods(http.MethodPost)

	ln, err := net.Listen("tcp", p.cfg.Listen)
	if err != nil {
		return err
	}
	p.ln = ln
	p.srv = &http.Server{Handler: r}

	log.Printf("portal: serving on http://%s", ln.Addr())

	go func() {
		if err := p.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("portal: server stopped: %v", err)
		}
	}()
	return nil
}

// Addr returns the bound address, useful when Listen had port 0.
func (p *Portal) Addr() string {
	if p.ln == nil {
		return ""
	}
	return p.ln.Addr().String()
}

// Stop closes the server and its listener. New connections are refused
// immediately; in-flight handlers are cut off.
func (p *Portal) Stop() error {
	if p.srv == nil {
		return nil
	}
	return p.srv.Close()
}
