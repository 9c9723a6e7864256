// cmd/probe/main.go
//
// probe is a small diagnostic bus master: it reads a slave's holding
// registers over RTU and prints them, once or on an interval. Useful
// for checking a freshly configured device without a PLC on the desk.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/goburrow/modbus"
)

func main() {
	var (
		port     = flag.String("port", "/dev/ttyUSB0", "serial port")
		baud     = flag.Int("baud", 9600, "baud rate")
		slave    = flag.Int("slave", 1, "slave address (1-247)")
		address  = flag.Int("address", 0, "first register address")
		quantity = flag.Int("quantity", 10, "number of registers")
		interval = flag.Duration("interval", 0, "poll interval; 0 reads once")
		timeout  = flag.Duration("timeout", time.Second, "request timeout")
	)
	flag.Parse()

	if *slave < 1 || *slave > 247 {
		log.Fatalf("slave address %d outside 1..247", *slave)
	}

	handler := modbus.NewRTUClientHandler(*port)
	handler.BaudRate = *baud
	handler.DataBits = 8
	handler.Parity = "N"
	handler.StopBits = 1
	handler.SlaveId = byte(*slave)
	handler.Timeout = *timeout

	if err := handler.Connect(); err != nil {
		log.Fatalf("connect failed (port=%s): %v", *port, err)
	}
	defer handler.Close()

	client := modbus.NewClient(handler)

	for {
		if err := readOnce(client, uint16(*address), uint16(*quantity)); err != nil {
			log.Printf("probe: read failed: %v", err)
			if *interval == 0 {
				os.Exit(1)
			}
		}
		if *interval == 0 {
			return
		}
		time.Sleep(*interval)
	}
}

func readOnce(client modbus.Client, address, quantity uint16) error {
	raw, err := client.ReadHoldingRegisters(address, quantity)
	if err != nil {
		return err
	}

	regs := unpackRegisters(raw)
	for i, v := range regs {
		fmt.Printf("reg[%d] = %5d (0x%04X)\n", int(address)+i, v, v)
	}
	fmt.Println()
	return nil
}

// unpackRegisters decodes the big-endian register payload.
func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}
