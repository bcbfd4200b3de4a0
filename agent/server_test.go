package agent

import (
	"net"
	"net/rpc"
	"testing"
	"time"

	"github.com/elsevier-core-engineering/capshare/scheduler"
	"github.com/elsevier-core-engineering/capshare/scheduler/structs"
)

func pctAgent(v float64) *float64 { return &v }

func startedScheduler(t *testing.T) *scheduler.Scheduler {
	t.Helper()

	sched := scheduler.New()
	cfg := &structs.SchedulerConfig{
		Queues: []*structs.QueueConfig{
			{Name: "default", CapacityPercent: pctAgent(100)},
		},
	}
	if err := sched.Start(cfg, nil, nil); err != nil {
		t.Fatalf("unexpected error starting scheduler: %s", err)
	}
	return sched
}

func TestServer_StatusQueuesRoundTrip(t *testing.T) {
	sched := startedScheduler(t)

	bind := &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0}
	srv, err := NewServer(sched, bind)
	if err != nil {
		t.Fatalf("unexpected error starting server: %s", err)
	}
	defer srv.Shutdown()

	conn, err := net.DialTimeout("tcp", srv.Addr().String(), 2*time.Second)
	if err != nil {
		t.Fatalf("unexpected error dialing RPC listener: %s", err)
	}
	defer conn.Close()

	client := rpc.NewClient(conn)
	defer client.Close()

	var report structs.StatusReport
	if err := client.Call("Status.Queues", struct{}{}, &report); err != nil {
		t.Fatalf("unexpected error calling Status.Queues: %s", err)
	}

	if len(report.Queues) != 1 {
		t.Fatalf("expected 1 queue in the report, got %d", len(report.Queues))
	}
	if report.Queues[0].Name != "default" {
		t.Fatalf("expected queue name 'default', got %q", report.Queues[0].Name)
	}
}

func TestServer_ResetFailsafeRoundTrip(t *testing.T) {
	sched := startedScheduler(t)

	bind := &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0}
	srv, err := NewServer(sched, bind)
	if err != nil {
		t.Fatalf("unexpected error starting server: %s", err)
	}
	defer srv.Shutdown()

	conn, err := net.DialTimeout("tcp", srv.Addr().String(), 2*time.Second)
	if err != nil {
		t.Fatalf("unexpected error dialing RPC listener: %s", err)
	}
	defer conn.Close()

	client := rpc.NewClient(conn)
	defer client.Close()

	var reply struct{}
	if err := client.Call("Status.ResetFailsafe", "unknown-queue", &reply); err == nil {
		t.Fatalf("expected an error resetting failsafe for an unknown queue")
	}

	if err := client.Call("Status.ResetFailsafe", "default", &reply); err != nil {
		t.Fatalf("unexpected error resetting failsafe for a known queue: %s", err)
	}
}

func TestServer_ShutdownStopsAcceptingConnections(t *testing.T) {
	sched := startedScheduler(t)

	bind := &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0}
	srv, err := NewServer(sched, bind)
	if err != nil {
		t.Fatalf("unexpected error starting server: %s", err)
	}
	addr := srv.Addr().String()

	srv.Shutdown()
	time.Sleep(50 * time.Millisecond)

	if _, err := net.DialTimeout("tcp", addr, 500*time.Millisecond); err == nil {
		t.Fatalf("expected dial to fail once the server has shut down")
	}
}
