package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/angeloszaimis/keepalive/config"
	"github.com/angeloszaimis/keepalive/internal/httpserver"
	"github.com/angeloszaimis/keepalive/internal/metrics"
	"github.com/angeloszaimis/keepalive/internal/pinger"
	"github.com/angeloszaimis/keepalive/pkg/logger"
)

const metricsBufferSize = 100

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Server.Environment == config.EnvDev, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Keep-alive pinger failed", slog.Any("err", err))
		cancel()
		os.Exit(1)
	}

	log.Info("Shut down cleanly")
}

// run pings until ctx is cancelled. It returns an error only for startup
// failures and for a status server that dies on its own.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	collectorCtx, stopCollector := context.WithCancel(context.Background())
	defer stopCollector()

	collector := metrics.NewCollector(metricsBufferSize, log)
	collector.Start(collectorCtx)

	p, err := pinger.New(cfg, log, pinger.WithSink(collector))
	if err != nil {
		return err
	}

	handle := p.Start(context.Background())
	defer handle.Stop()

	srv, err := newStatusServer(cfg, p, handle, collector)
	if err != nil {
		return err
	}

	srvErrCh := make(chan error, 1)
	if srv != nil {
		go func() {
			srvErrCh <- srv.Start()
		}()
		log.Info("Status server listening", slog.String("address", cfg.Server.Address))
	}

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		handle.Stop()
		if srv != nil {
			if err := srv.Shutdown(context.Background()); err != nil {
				log.Error("Error during shutdown", slog.Any("err", err))
			}
		}
		return nil
	case err := <-srvErrCh:
		if err != nil {
			return err
		}
		// A clean return without shutdown means nothing is serving; keep pinging.
		<-ctx.Done()
		return nil
	}
}

func newStatusServer(cfg *config.Config, p *pinger.Pinger, handle *pinger.Handle, collector *metrics.Collector) (*httpserver.Server, error) {
	if cfg.Server.Address == "" {
		return nil, nil
	}

	return httpserver.New(cfg.Server.Address, setupRouter(p, handle, collector))
}
