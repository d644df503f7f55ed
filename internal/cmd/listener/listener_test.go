package listener

import (
	"context"
	"flag"
	"testing"
	"time"

	platformgrpc "github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/platform/grpc"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("listener", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != ":8090" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.HealthAddr != ":8091" {
		t.Fatalf("expected default health addr, got %q", cfg.HealthAddr)
	}
	if cfg.CachePath != "data/refcache.db" {
		t.Fatalf("expected default cache path, got %q", cfg.CachePath)
	}
	if cfg.Locale != "en" {
		t.Fatalf("expected default locale, got %q", cfg.Locale)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("DERA_LISTENER_HTTP_ADDR", "env-http")
	t.Setenv("DERA_VIEWER_ID", "env-viewer")
	t.Setenv("DERA_STREAM_SIGNING_KEY", "env-secret")

	fs := flag.NewFlagSet("listener", flag.ContinueOnError)
	args := []string{
		"-http-addr", "flag-http",
		"-viewer", "farmer-1",
		"-tz", "Asia/Karachi",
		"-probe",
	}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "flag-http" {
		t.Fatalf("expected flag http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.ViewerID != "farmer-1" {
		t.Fatalf("expected flag viewer, got %q", cfg.ViewerID)
	}
	if cfg.SigningKey != "env-secret" {
		t.Fatalf("expected env signing key, got %q", cfg.SigningKey)
	}
	if cfg.TimeZone != "Asia/Karachi" || !cfg.Probe {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestRunProbeAgainstHealthServer(t *testing.T) {
	server, err := platformgrpc.NewHealthServer("127.0.0.1:0")
	if err != nil {
		t.Fatalf("new health server: %v", err)
	}
	server.SetServing("", true)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Serve(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	if err := Run(context.Background(), Config{Probe: true, HealthAddr: server.Addr()}); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if err := probe(context.Background(), "127.0.0.1:1", 200*time.Millisecond); err == nil {
		t.Fatal("expected probe failure for closed port")
	}
}

func TestProbeTarget(t *testing.T) {
	if got := probeTarget(":8091"); got != "localhost:8091" {
		t.Fatalf("probeTarget(:8091) = %q", got)
	}
	if got := probeTarget("10.0.0.2:8091"); got != "10.0.0.2:8091" {
		t.Fatalf("probeTarget(host) = %q", got)
	}
}
