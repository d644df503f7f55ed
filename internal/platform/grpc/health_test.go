package grpc

import (
	"context"
	"testing"
	"time"
)

func startHealthServer(t *testing.T, services ...string) (*HealthServer, func()) {
	t.Helper()

	server, err := NewHealthServer("127.0.0.1:0", services...)
	if err != nil {
		t.Fatalf("new health server: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ctx)
	}()

	stop := func() {
		cancel()
		select {
		case err := <-serveErr:
			if err != nil {
				t.Errorf("serve: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("timed out stopping health server")
		}
	}
	return server, stop
}

func TestProbeServing(t *testing.T) {
	server, stop := startHealthServer(t)
	defer stop()
	server.SetServing("", true)

	if err := Probe(context.Background(), server.Addr(), "", 2*time.Second); err != nil {
		t.Fatalf("probe: %v", err)
	}
}

func TestProbeWaitsForTransition(t *testing.T) {
	server, stop := startHealthServer(t, "listener.notifications")
	defer stop()

	go func() {
		time.Sleep(200 * time.Millisecond)
		server.SetServing("listener.notifications", true)
	}()

	if err := Probe(context.Background(), server.Addr(), "listener.notifications", 2*time.Second); err != nil {
		t.Fatalf("probe after transition: %v", err)
	}
}

func TestProbeRespectsTimeout(t *testing.T) {
	server, stop := startHealthServer(t)
	defer stop()

	if err := Probe(context.Background(), server.Addr(), "", 300*time.Millisecond); err == nil {
		t.Fatal("expected timeout while NOT_SERVING")
	}
}

func TestWaitForHealthRequiresConn(t *testing.T) {
	if err := WaitForHealth(context.Background(), nil, "", nil); err == nil {
		t.Fatal("expected missing connection error")
	}
}
