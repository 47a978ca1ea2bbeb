package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"AstroChart/internal/domain/repository"
	"AstroChart/internal/services/ephemeris"
	"AstroChart/pkg/cache"
	"AstroChart/pkg/config"
	xhttp "AstroChart/pkg/http"
	pkgkafka "AstroChart/pkg/kafka"
	applogger "AstroChart/pkg/logger"
	"AstroChart/pkg/tracing"
)

// Deps are the long-lived resources the app starts and closes. Optional
// entries are nil when their feature is disabled.
type Deps struct {
	Ephemeris       *ephemeris.Meeus
	Bootstrapper    *ephemeris.Bootstrapper
	Cache           cache.Service
	Archive         repository.ChartArchive
	Producer        *pkgkafka.Producer
	ShutdownTracing tracing.ShutdownFunc
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	httpServer *xhttp.Server
	deps       Deps
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server, deps Deps) *App {
	return &App{cfg: cfg, l: l, httpServer: srv, deps: deps}
}

// Run prepares ephemeris data, starts serving and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.start(ctx); err != nil {
		a.close(context.Background())
		return err
	}

	<-ctx.Done()
	a.l.Info("shutdown signal received")
	return a.shutdown(context.Background())
}

func (a *App) start(ctx context.Context) error {
	if err := a.prepareEphemeris(ctx); err != nil {
		return err
	}

	if a.deps.Archive != nil {
		initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := a.deps.Archive.Init(initCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("clickhouse schema: %w", err)
		}
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("astrochart started",
		applogger.String("house_system", a.cfg.Chart.HouseSystem),
		applogger.Float64("tz_offset_hours", a.cfg.Chart.TimezoneOffsetHours),
		applogger.Bool("cache", a.deps.Cache != nil),
		applogger.Bool("archive", a.deps.Archive != nil),
		applogger.Bool("events", a.deps.Producer != nil),
	)
	return nil
}

// prepareEphemeris downloads missing data files and loads them. Failures are
// fatal only when the download is marked required; otherwise chart requests
// report the missing data until it appears.
func (a *App) prepareEphemeris(ctx context.Context) error {
	if a.cfg.Ephemeris.DownloadOnStart && a.deps.Bootstrapper != nil {
		if err := a.deps.Bootstrapper.Ensure(ctx); err != nil {
			if a.cfg.Ephemeris.DownloadRequired {
				return fmt.Errorf("ephemeris bootstrap: %w", err)
			}
			a.l.Warn("ephemeris bootstrap incomplete", applogger.Error(err))
		}
	}
	if err := a.deps.Ephemeris.Load(); err != nil {
		if a.cfg.Ephemeris.DownloadRequired {
			return fmt.Errorf("ephemeris load: %w", err)
		}
		a.l.Warn("ephemeris not loaded", applogger.String("dir", a.deps.Ephemeris.Dir()), applogger.Error(err))
		return nil
	}
	a.l.Info("ephemeris loaded", applogger.String("dir", a.deps.Ephemeris.Dir()))
	return nil
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	a.l.Info("shutting down...")

	if err := a.httpServer.Stop(ctx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}
	a.close(ctx)

	a.l.Info("shutdown complete")
	return nil
}

// close releases backends. The log collector goes after everything that can
// still log errors, and the producer after the collector that publishes to it.
func (a *App) close(ctx context.Context) {
	if a.deps.Cache != nil {
		if err := a.deps.Cache.Close(); err != nil {
			a.l.Warn("cache close error", applogger.Error(err))
		}
	}
	if a.deps.Archive != nil {
		if err := a.deps.Archive.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.deps.ShutdownTracing != nil {
		tctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := a.deps.ShutdownTracing(tctx); err != nil {
			a.l.Warn("tracing shutdown error", applogger.Error(err))
		}
		cancel()
	}

	a.l.RemoveCollector()

	if a.deps.Producer != nil {
		if err := a.deps.Producer.Close(); err != nil {
			a.l.Warn("kafka producer close error", applogger.Error(err))
		}
	}
}
