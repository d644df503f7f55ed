package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	platformgrpc "github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/platform/grpc"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/platform/timeouts"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/alert"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/api/httpapi"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/enrich"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/render"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/stream"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/refcache"
	refsqlite "github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/refcache/sqlite"
	scheduleapp "github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/schedule/app"
)

// Health service names reported by the gRPC health endpoint.
const (
	HealthServiceListener = "dera.listener"
	HealthServiceSchedule = "dera.schedule"
)

// RuntimeConfig configures the listener process.
type RuntimeConfig struct {
	HTTPAddr     string
	HealthAddr   string
	CachePath    string
	SeedPath     string
	StreamURL    string
	StreamOrigin string
	ViewerID     string
	SigningKey   string
	TokenIssuer  string
	Locale       string
	TimeZone     string
}

// Run opens the reference cache, starts the listener and serves the HTTP
// and health endpoints until ctx ends.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	loc, err := loadLocation(cfg.TimeZone)
	if err != nil {
		return err
	}

	store, err := openCache(cfg.CachePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close reference cache: %v", err)
		}
	}()
	if err := seedCache(ctx, store, cfg.SeedPath); err != nil {
		return err
	}
	refs := refcache.NewAccessor(store)

	signer, err := stream.NewTokenSigner([]byte(cfg.SigningKey), cfg.TokenIssuer, 0)
	if err != nil {
		return err
	}
	transport, err := stream.NewWebsocketTransport(cfg.StreamURL, cfg.StreamOrigin, cfg.ViewerID, signer)
	if err != nil {
		return err
	}

	listener, err := New(Config{
		ViewerID:   cfg.ViewerID,
		Transport:  transport,
		Refs:       refs,
		Dispatcher: enrich.NewDispatcher(refs, render.NewLocalizer(cfg.Locale), loc),
		Emitter:    alert.NewEmitter(alert.LogNotifier{}),
	})
	if err != nil {
		return err
	}
	navigator, err := scheduleapp.NewNavigator(scheduleapp.NavigatorConfig{
		Loader:   scheduleapp.NewCacheOrderLoader(refs, loc),
		ViewerID: cfg.ViewerID,
		Location: loc,
	})
	if err != nil {
		return err
	}

	health, err := platformgrpc.NewHealthServer(cfg.HealthAddr, HealthServiceListener, HealthServiceSchedule)
	if err != nil {
		return err
	}
	defer health.Close()

	if err := listener.Start(ctx); err != nil {
		return err
	}
	defer listener.Stop()
	health.SetServing(HealthServiceListener, true)

	schedule := healthReportingSchedule{Navigator: navigator, health: health}
	if _, err := schedule.Activate(ctx); err != nil {
		log.Printf("schedule activation: %v", err)
	}
	health.SetServing("", true)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewHandler(listener, schedule),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	serveErr := make(chan error, 2)
	go func() {
		serveErr <- health.Serve(serveCtx)
	}()
	go func() {
		log.Printf("listener HTTP listening at %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("serve HTTP: %w", err)
			return
		}
		serveErr <- nil
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serveErr:
	}
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown HTTP: %v", err)
	}
	return runErr
}

// healthReportingSchedule marks the schedule health service serving once an
// activation succeeds. A later failed activation keeps the previous order set.
type healthReportingSchedule struct {
	*scheduleapp.Navigator
	health *platformgrpc.HealthServer
}

func (s healthReportingSchedule) Activate(ctx context.Context) (scheduleapp.View, error) {
	view, err := s.Navigator.Activate(ctx)
	if err != nil {
		return view, err
	}
	s.health.SetServing(HealthServiceSchedule, true)
	return view, nil
}

func loadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", name, err)
	}
	return loc, nil
}

func openCache(path string) (*refsqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = filepath.Join("data", "refcache.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	store, err := refsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference cache: %w", err)
	}
	return store, nil
}

func seedCache(ctx context.Context, store refcache.Store, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open cache seed: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	applied, err := refcache.Seed(ctx, store, file)
	if err != nil {
		return fmt.Errorf("seed reference cache: %w", err)
	}
	log.Printf("seeded %d reference entities from %s", applied, path)
	return nil
}
