// Package listener parses listener command flags and composes the runtime.
package listener

import (
	"context"
	"flag"
	"fmt"
	"time"

	entrypoint "github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/platform/cmd"
	platformgrpc "github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/platform/grpc"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/platform/timeouts"
	listenerapp "github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/app"
)

// Config holds listener command configuration.
type Config struct {
	HTTPAddr     string `env:"DERA_LISTENER_HTTP_ADDR"     envDefault:":8090"`
	HealthAddr   string `env:"DERA_LISTENER_HEALTH_ADDR"   envDefault:":8091"`
	CachePath    string `env:"DERA_REFCACHE_DB_PATH"       envDefault:"data/refcache.db"`
	SeedPath     string `env:"DERA_REFCACHE_SEED_PATH"`
	StreamURL    string `env:"DERA_STREAM_URL"             envDefault:"ws://localhost:8095/stream"`
	StreamOrigin string `env:"DERA_STREAM_ORIGIN"          envDefault:"http://localhost/"`
	ViewerID     string `env:"DERA_VIEWER_ID"`
	SigningKey   string `env:"DERA_STREAM_SIGNING_KEY"`
	TokenIssuer  string `env:"DERA_STREAM_TOKEN_ISSUER"    envDefault:"dera"`
	Locale       string `env:"DERA_LOCALE"                 envDefault:"en"`
	TimeZone     string `env:"DERA_TIME_ZONE"`
	Probe        bool   `env:"DERA_LISTENER_PROBE"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "listener HTTP listen address")
	fs.StringVar(&cfg.HealthAddr, "health-addr", cfg.HealthAddr, "gRPC health listen address")
	fs.StringVar(&cfg.CachePath, "cache-path", cfg.CachePath, "reference cache SQLite path")
	fs.StringVar(&cfg.SeedPath, "seed", cfg.SeedPath, "JSON file of reference entities to load at startup")
	fs.StringVar(&cfg.StreamURL, "stream-url", cfg.StreamURL, "remote change stream websocket URL")
	fs.StringVar(&cfg.StreamOrigin, "stream-origin", cfg.StreamOrigin, "websocket origin header")
	fs.StringVar(&cfg.ViewerID, "viewer", cfg.ViewerID, "viewer id the streams are opened for")
	fs.StringVar(&cfg.TokenIssuer, "token-issuer", cfg.TokenIssuer, "viewer token issuer")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "notification copy locale")
	fs.StringVar(&cfg.TimeZone, "tz", cfg.TimeZone, "IANA time zone for stamps and schedule days")
	fs.BoolVar(&cfg.Probe, "probe", cfg.Probe, "check the local health endpoint and exit")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the listener, or probes a running one when cfg.Probe is set.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Probe {
		return probe(ctx, cfg.HealthAddr, timeouts.StreamDial)
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceListener, func(context.Context) error {
		if err := listenerapp.Run(ctx, listenerapp.RuntimeConfig{
			HTTPAddr:     cfg.HTTPAddr,
			HealthAddr:   cfg.HealthAddr,
			CachePath:    cfg.CachePath,
			SeedPath:     cfg.SeedPath,
			StreamURL:    cfg.StreamURL,
			StreamOrigin: cfg.StreamOrigin,
			ViewerID:     cfg.ViewerID,
			SigningKey:   cfg.SigningKey,
			TokenIssuer:  cfg.TokenIssuer,
			Locale:       cfg.Locale,
			TimeZone:     cfg.TimeZone,
		}); err != nil {
			return fmt.Errorf("serve listener: %w", err)
		}
		return nil
	})
}

func probe(ctx context.Context, addr string, timeout time.Duration) error {
	if err := platformgrpc.Probe(ctx, probeTarget(addr), "", timeout); err != nil {
		return fmt.Errorf("probe listener health: %w", err)
	}
	return nil
}

// probeTarget turns a listen address such as ":8091" into a dialable one.
func probeTarget(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
