// internal/portal/handlers.go
package portal

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"
)

type statsReply struct {
	Total   uint32 `json:"total"`
	Reads   uint32 `json:"reads"`
	Writes  uint32 `json:"writes"`
	Errors  uint32 `json:"errors"`
	Uptime  uint32 `json:"uptime"`
	SlaveID uint8  `json:"slave_id"`
}

type registersReply struct {
	Registers []uint16 `json:"registers"`
}

type configReply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (p *Portal) statsHandler(w http.ResponseWriter, _ *http.Request) {
	s := p.stats.Snapshot()
	writeJSON(w, statsReply{
		Total:   s.Total,
		Reads:   s.Reads,
		Writes:  s.Writes,
		Errors:  s.Errors,
		Uptime:  s.Uptime,
		SlaveID: p.cfg.SlaveID,
	})
}

func (p *Portal) registersHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, registersReply{Registers: p.bank.Snapshot()})
}

// configHandler is the portal's single write operation. Validation
// happens before any persistence attempt; a storage failure leaves the
// in-memory address in effect and does NOT restart. On success the
// acknowledgment goes out first, then the process restarts after the
// grace delay — the new address applies at the next boot, never to the
// running protocol session.
func (p *Portal) configHandler(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("slave_id")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 || id > 247 {
		writeJSON(w, configReply{Success: false, Message: "invalid slave id, must be 1-247"})
		return
	}

	if err := p.saver.SetSlaveAddress(uint8(id)); err != nil {
		log.Printf("portal: save slave id failed: %v", err)
		writeJSON(w, configReply{Success: false, Message: "failed to save configuration"})
		return
	}

	log.Printf("portal: slave id %d saved, restart in %s", id, p.cfg.Grace)
	writeJSON(w, configReply{
		Success: true,
		Message: "slave id saved, device will restart to apply it",
	})

	// No cancel path from here on.
	go func() {
		time.Sleep(p.cfg.Grace)
		p.restart()
	}()
}

func (p *Portal) index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("portal: encode response: %v", err)
	}
}
