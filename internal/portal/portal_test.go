// internal/portal/portal_test.go
package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/tamzrod/modbus-slave/internal/registers"
	"github.com/tamzrod/modbus-slave/internal/responder"
)

// ---- fake saver ----

type fakeSaver struct {
	mu    sync.Mutex
	saved []uint8
	fail  bool
}

func (f *fakeSaver) SetSlaveAddress(addr uint8) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("disk full")
	}
	f.saved = append(f.saved, addr)
	return nil
}

func (f *fakeSaver) last() (uint8, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saved) == 0 {
		return 0, false
	}
	return f.saved[len(f.saved)-1], true
}

// ---- helpers ----

func startPortal(t *testing.T, saver Saver, restart func()) *Portal {
	t.Helper()
	bank, err := registers.New(10)
	if err != nil {
		t.Fatalf("registers.New err=%v", err)
	}
	stats := &responder.Stats{}
	stats.Total.Store(7)
	stats.Reads.Store(4)
	stats.Writes.Store(3)

	p, err := New(Config{Listen: "127.0.0.1:0", SlaveID: 1, Grace: 20 * time.Millisecond},
		bank, stats, saver, restart)
	if err != nil {
		t.Fatalf("New err=%v", err)
	}
	if err := p.Start(); err != nil {
		t.Fatalf("Start err=%v", err)
	}
	t.Cleanup(func() { p.Stop() })
	return p
}

func getJSON(t *testing.T, url string, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s err=%v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s status=%d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s err=%v", url, err)
	}
}

func postConfig(t *testing.T, p *Portal, slaveID string) configReply {
	t.Helper()
	resp, err := http.Post("http://"+p.Addr()+"/api/config?slave_id="+slaveID, "", nil)
	if err != nil {
		t.Fatalf("POST config err=%v", err)
	}
	defer resp.Body.Close()
	var reply configReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		t.Fatalf("decode config reply err=%v", err)
	}
	return reply
}

// ---- tests ----

func TestStatsEndpoint_WireShape(t *testing.T) {
	p := startPortal(t, &fakeSaver{}, func() {})

	var got statsReply
	getJSON(t, "http://"+p.Addr()+"/api/stats", &got)

	if got.Total != 7 || got.Reads != 4 || got.Writes != 3 {
		t.Fatalf("stats=%+v, want total=7 reads=4 writes=3", got)
	}
	if got.SlaveID != 1 {
		t.Fatalf("slave_id=%d, want default 1", got.SlaveID)
	}
}

func TestRegistersEndpoint_SnapshotsBank(t *testing.T) {
	p := startPortal(t, &fakeSaver{}, func() {})
	p.bank.Set(4, 4711)

	var got registersReply
	getJSON(t, "http://"+p.Addr()+"/api/registers", &got)

	if len(got.Registers) != 10 {
		t.Fatalf("got %d registers, want 10", len(got.Registers))
	}
	if got.Registers[4] != 4711 {
		t.Fatalf("registers[4]=%d, want 4711", got.Registers[4])
	}
}

func TestConfigEndpoint_RejectsInvalidInput(t *testing.T) {
	saver := &fakeSaver{}
	restarted := make(chan struct{}, 8)
	p := startPortal(t, saver, func() { restarted <- struct{}{} })

	for _, bad := range []string{"0", "248", "-1", "abc", ""} {
		reply := postConfig(t, p, bad)
		if reply.Success {
			t.Fatalf("slave_id=%q accepted", bad)
		}
	}

	if _, ok := saver.last(); ok {
		t.Fatal("invalid input reached storage")
	}
	select {
	case <-restarted:
		t.Fatal("invalid input triggered restart")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestConfigEndpoint_BoundaryValuesPersistAndRestart(t *testing.T) {
	for _, id := range []uint8{1, 247} {
		t.Run(fmt.Sprintf("slave_id=%d", id), func(t *testing.T) {
			saver := &fakeSaver{}
			restarted := make(chan struct{}, 1)
			p := startPortal(t, saver, func() { restarted <- struct{}{} })

			reply := postConfig(t, p, fmt.Sprintf("%d", id))
			if !reply.Success {
				t.Fatalf("slave_id=%d rejected: %s", id, reply.Message)
			}

			got, ok := saver.last()
			if !ok || got != id {
				t.Fatalf("persisted=%d ok=%v, want %d", got, ok, id)
			}

			// Restart fires after the grace delay, not before the reply.
			select {
			case <-restarted:
			case <-time.After(2 * time.Second):
				t.Fatal("restart never fired")
			}
		})
	}
}

func TestConfigEndpoint_PersistenceFailureKeepsRunning(t *testing.T) {
	saver := &fakeSaver{fail: true}
	restarted := make(chan struct{}, 1)
	p := startPortal(t, saver, func() { restarted <- struct{}{} })

	reply := postConfig(t, p, "42")
	if reply.Success {
		t.Fatal("storage failure reported as success")
	}
	select {
	case <-restarted:
		t.Fatal("storage failure triggered restart")
	case <-time.After(100 * time.Millisecond):
	}

	// The portal keeps serving after the failed attempt.
	var got statsReply
	getJSON(t, "http://"+p.Addr()+"/api/stats", &got)
}

func TestLifecycle_WindowClosesExactlyOnce(t *testing.T) {
	bank, _ := registers.New(10)
	stats := &responder.Stats{}
	p, err := New(Config{Listen: "127.0.0.1:0", SlaveID: 1}, bank, stats, &fakeSaver{}, func() {})
	if err != nil {
		t.Fatalf("New err=%v", err)
	}

	l, err := NewLifecycle(p, 80*time.Millisecond, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewLifecycle err=%v", err)
	}
	if l.State() != Armed {
		t.Fatalf("state=%s, want ARMED before start", l.State())
	}

	if err := l.Start(); err != nil {
		t.Fatalf("Start err=%v", err)
	}
	if l.State() != Active {
		t.Fatalf("state=%s, want ACTIVE", l.State())
	}
	addr := p.Addr()

	// Reachable inside the window.
	var got statsReply
	getJSON(t, "http://"+addr+"/api/stats", &got)

	// Two supervisors race the same expiry flag; the teardown must
	// still happen exactly once and both must return.
	done := make(chan struct{}, 2)
	for i := 0; i < 2; i++ {
		go func() {
			l.Supervise(context.Background())
			done <- struct{}{}
		}()
	}
	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("supervisor did not finish")
		}
	}

	if l.State() != Disabled {
		t.Fatalf("state=%s, want DISABLED", l.State())
	}

	// Unreachable after the window.
	if _, err := http.Get("http://" + addr + "/api/stats"); err == nil {
		t.Fatal("portal reachable after teardown")
	}

	// Re-triggering teardown is a no-op.
	l.teardown()
	if l.State() != Disabled {
		t.Fatalf("state=%s after second teardown, want DISABLED", l.State())
	}

	// A second start never re-arms.
	if err := l.Start(); err == nil {
		t.Fatal("lifecycle re-armed after disable")
	}
}
