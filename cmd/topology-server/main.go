package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/netfabrik/topology-engine/core"
	"github.com/netfabrik/topology-engine/internal/api"
	"github.com/netfabrik/topology-engine/internal/logging"
	"github.com/netfabrik/topology-engine/internal/observability"
	"github.com/netfabrik/topology-engine/workspace"
)

// Config collects the flag-driven settings for the query server.
type Config struct {
	ListenAddress string
	TopologyPath  string
	LogLevel      string
	LogFormat     string
}

func main() {
	cfg := Config{}
	flag.StringVar(&cfg.ListenAddress, "addr", ":8080", "TCP address the HTTP query server listens on")
	flag.StringVar(&cfg.TopologyPath, "topology", "", "Optional topology scenario file (JSON or YAML) to load at startup")
	flag.StringVar(&cfg.LogLevel, "log-level", os.Getenv("TOPO_LOG_LEVEL"), "Log level: debug, info, warn or error")
	flag.StringVar(&cfg.LogFormat, "log-format", os.Getenv("TOPO_LOG_FORMAT"), "Log format: text or json")
	flag.Parse()

	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, AddSource: true})
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	lis, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		log.Error(ctx, "failed to listen", logging.String("addr", cfg.ListenAddress), logging.String("error", err.Error()))
		os.Exit(1)
	}

	if err := run(ctx, cfg, log, lis); err != nil {
		log.Error(ctx, "server exited", logging.String("error", err.Error()))
		os.Exit(1)
	}
}

// run serves until ctx is cancelled. Split from main so tests can drive
// it with their own listener and deadline.
func run(ctx context.Context, cfg Config, log logging.Logger, lis net.Listener) error {
	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return err
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewAPICollector(nil)
	if err != nil {
		return err
	}

	ws := workspace.New()
	if cfg.TopologyPath != "" {
		if err := loadTopology(ws, cfg.TopologyPath, log); err != nil {
			return err
		}
	}

	server := api.NewServer(ws, log, collector)
	srv := &http.Server{Handler: server.Router()}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()
	log.Info(ctx, "serving topology queries", logging.String("addr", lis.Addr().String()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func loadTopology(ws *workspace.Workspace, path string, log logging.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc, summary, err := core.LoadScenario(f, core.DetectScenarioFormat(path))
	if err != nil {
		return err
	}
	ws.Replace(sc)

	sum := ws.Snapshot().Summarize()
	log.Info(context.Background(), "loaded topology",
		logging.String("path", path),
		logging.Int("devices", len(summary.DeviceIDs)),
		logging.Int("connections", len(summary.ConnectionIDs)),
		logging.Int("segments", sum.Segments),
		logging.Int("viable_segments", sum.ViableSegments),
	)
	return nil
}
