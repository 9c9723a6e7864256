// cmd/slave/main.go
package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tebeka/atexit"
	"go.bug.st/serial"

	"github.com/tamzrod/modbus-slave/internal/config"
	"github.com/tamzrod/modbus-slave/internal/mutator"
	"github.com/tamzrod/modbus-slave/internal/portal"
	"github.com/tamzrod/modbus-slave/internal/registers"
	"github.com/tamzrod/modbus-slave/internal/responder"
	"github.com/tamzrod/modbus-slave/internal/responder/rtu"
	"github.com/tamzrod/modbus-slave/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: slave <config.yaml>")
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)
	s := cfg.Slave

	// --------------------
	// Durable state + bus address
	// --------------------

	st, err := store.Open(s.Store)
	if err != nil {
		log.Fatalf("store open failed: %v", err)
	}
	atexit.Register(func() { st.Close() })

	addr, err := st.SlaveAddress(s.DefaultAddress)
	if err != nil {
		log.Fatalf("bus address load failed: %v", err)
	}
	log.Printf("slave: bus address %d (default %d)", addr, s.DefaultAddress)

	// --------------------
	// Shared state
	// --------------------

	bank, err := registers.New(s.Registers)
	if err != nil {
		log.Fatalf("register bank build failed: %v", err)
	}
	stats := &responder.Stats{}

	// --------------------
	// Protocol stack
	// --------------------

	port, err := serial.Open(s.Serial.Port, &serial.Mode{
		BaudRate: s.Serial.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		log.Fatalf("serial open failed (port=%s): %v", s.Serial.Port, err)
	}
	atexit.Register(func() { port.Close() })

	transport, err := rtu.New(port, bank, rtu.Config{Address: addr})
	if err != nil {
		log.Fatalf("rtu transport build failed: %v", err)
	}

	resp, err := responder.New(responder.Config{}, transport, bank, stats)
	if err != nil {
		log.Fatalf("responder build failed: %v", err)
	}

	// --------------------
	// Periodic mutators
	// --------------------

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	refresher, err := mutator.ValueRefresher(bank, time.Duration(s.ValueIntervalMs)*time.Millisecond, rng)
	if err != nil {
		log.Fatalf("value refresher build failed: %v", err)
	}
	wrap, err := mutator.WrapCounter(bank)
	if err != nil {
		log.Fatalf("wrap counter build failed: %v", err)
	}
	uptime, err := mutator.UptimeTicker(stats)
	if err != nil {
		log.Fatalf("uptime ticker build failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go transport.Serve(ctx)
	go resp.Run(ctx)
	go refresher.Run(ctx)
	go wrap.Run(ctx)
	go uptime.Run(ctx)

	// --------------------
	// Config portal (time-boxed)
	// --------------------

	if s.Portal.WindowMinutes > 0 {
		p, err := portal.New(portal.Config{
			Listen:  s.Portal.Listen,
			SlaveID: addr,
		}, bank, stats, st, restart)
		if err != nil {
			log.Fatalf("portal build failed: %v", err)
		}

		lc, err := portal.NewLifecycle(p, time.Duration(s.Portal.WindowMinutes)*time.Minute, 0)
		if err != nil {
			log.Fatalf("portal lifecycle build failed: %v", err)
		}
		if err := lc.Start(); err != nil {
			log.Fatalf("portal start failed: %v", err)
		}
		go lc.Supervise(ctx)
	} else {
		log.Printf("slave: portal disabled by config")
	}

	log.Printf("slave: serving %d holding registers on %s at %d baud",
		s.Registers, s.Serial.Port, s.Serial.Baud)

	<-ctx.Done()
	log.Printf("slave: shutting down")
	atexit.Exit(0)
}

// restart terminates the process after a successful address change. The
// service supervisor brings it back up; the persisted address is read
// during the next boot.
func restart() {
	log.Printf("slave: restarting to apply new bus address")
	atexit.Exit(0)
}
