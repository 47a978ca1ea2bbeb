package di

import (
	"context"
	"fmt"

	"AstroChart/internal/domain/astro"
	"AstroChart/internal/domain/repository"
	"AstroChart/internal/handler/api"
	internalrepo "AstroChart/internal/repository"
	"AstroChart/internal/service/ratelimit"
	"AstroChart/internal/services/ephemeris"
	"AstroChart/internal/usecase"
	"AstroChart/pkg/cache"
	pkgch "AstroChart/pkg/clickhouse"
	"AstroChart/pkg/config"
	xhttp "AstroChart/pkg/http"
	pkgkafka "AstroChart/pkg/kafka"
	applogger "AstroChart/pkg/logger"
	"AstroChart/pkg/metrics"
	"AstroChart/pkg/server"
	"AstroChart/pkg/tracing"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// ProvideKafkaProducer creates the shared Kafka producer, or nil when events are off.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Events.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Events.Brokers),
		pkgkafka.WithCompression(cfg.Events.Compression),
		pkgkafka.WithRequiredAcks(cfg.Events.RequiredAcks),
		pkgkafka.WithBatching(cfg.Events.BatchSize, cfg.Events.BatchTimeout),
		pkgkafka.WithTimeouts(cfg.Events.WriteTimeout, cfg.Events.WriteTimeout),
		pkgkafka.WithMaxAttempts(cfg.Events.MaxAttempts),
		pkgkafka.WithAsync(cfg.Events.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideLogger builds the app logger. Error logs are aggregated and shipped
// to the log topic when both the collector and events are enabled.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if cfg.Log.Collector.Enabled && producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   cfg.Log.Collector.Interval,
			CountThreshold: cfg.Log.Collector.Threshold,
			Topic:          cfg.Events.LogTopic,
			Publisher:      producer,
		})
	}
	return l.With(applogger.String("service", "astrochart"), applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New(prometheus.DefaultRegisterer)
}

// ProvideTracing installs the tracer provider.
func ProvideTracing(cfg *config.Config, l *applogger.Logger) (tracing.ShutdownFunc, error) {
	return tracing.Init(context.Background(), tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.Environment,
		SampleRatio: cfg.Tracing.SampleRatio,
	}, l)
}

// ProvideTracer returns the service tracer once tracing is installed.
func ProvideTracer(_ tracing.ShutdownFunc) trace.Tracer {
	return tracing.Tracer()
}

// ProvideEphemeris creates the VSOP87 ephemeris over the configured data dir.
func ProvideEphemeris(cfg *config.Config) *ephemeris.Meeus {
	return ephemeris.NewMeeus(cfg.Ephemeris.DataDir)
}

// ProvideBootstrapper creates the ephemeris data downloader.
func ProvideBootstrapper(cfg *config.Config, l *applogger.Logger) *ephemeris.Bootstrapper {
	return ephemeris.NewBootstrapper(cfg.Ephemeris.DataDir, cfg.Ephemeris.BaseURL, cfg.Ephemeris.Timeout, l)
}

// ProvideCache returns nil when caching is disabled, the in-memory LRU by
// default, or memory in front of Redis.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.Service, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemorySize)), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ReadTimeout)
	defer cancel()
	rc, err := cache.NewRedisCache(ctx,
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		cache.WithRedisPool(cfg.Cache.Redis.PoolSize, 0, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	l.Info("chart cache using redis",
		applogger.String("host", cfg.Cache.Redis.Host),
		applogger.Int("port", cfg.Cache.Redis.Port),
	)
	return cache.NewLayeredCache(rc,
		cache.WithLayeredMemorySize(cfg.Cache.MemorySize),
		cache.WithLayeredMemoryTTL(cfg.Cache.TTL),
	), nil
}

// ProvideChartArchive connects to ClickHouse when the archive is enabled.
func ProvideChartArchive(cfg *config.Config, l *applogger.Logger) (repository.ChartArchive, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}
	ch := cfg.Archive.ClickHouse
	client, err := pkgch.NewClient(context.Background(),
		pkgch.WithHost(ch.Host),
		pkgch.WithPort(ch.Port),
		pkgch.WithDatabase(ch.Database),
		pkgch.WithCredentials(ch.User, ch.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(ch.UseHTTP),
		pkgch.WithAsyncInsert(ch.AsyncInsert, ch.WaitForAsync),
		pkgch.WithTimeouts(ch.DialTimeout, ch.ReadTimeout, ch.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	archive, err := internalrepo.NewCHChartArchive(client, ch.Database+"."+internalrepo.DefaultChartTable, l)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return archive, nil
}

// ProvideEventPublisher publishes chart events on the shared producer.
func ProvideEventPublisher(cfg *config.Config, producer *pkgkafka.Producer) repository.EventPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaChartPublisher(producer, cfg.Events.Topic)
}

// ProvideChartSettings converts the chart section of the config.
func ProvideChartSettings(cfg *config.Config) (usecase.ChartSettings, error) {
	bodies, err := cfg.Chart.BodyList()
	if err != nil {
		return usecase.ChartSettings{}, err
	}
	return usecase.ChartSettings{
		TZOffsetHours: cfg.Chart.TimezoneOffsetHours,
		Orb:           cfg.Chart.Orb,
		Bodies:        bodies,
		HouseSystem:   astro.HouseSystem(cfg.Chart.HouseSystem),
		Locale:        astro.Locale(cfg.Chart.Locale),
		Rulers:        astro.RulerScheme(cfg.Chart.RulerScheme),
	}, nil
}

// ProvideChartCalculator creates the chart use case with its optional collaborators.
func ProvideChartCalculator(
	cfg *config.Config,
	settings usecase.ChartSettings,
	eph *ephemeris.Meeus,
	store cache.Service,
	archive repository.ChartArchive,
	events repository.EventPublisher,
	m repository.Metrics,
	tracer trace.Tracer,
	l *applogger.Logger,
) *usecase.ChartCalculator {
	opts := []usecase.ChartOption{
		usecase.WithChartMetrics(m),
		usecase.WithChartTracer(tracer),
	}
	if store != nil {
		opts = append(opts, usecase.WithChartCache(store, cfg.Cache.TTL))
	}
	if archive != nil {
		opts = append(opts, usecase.WithChartArchive(archive))
	}
	if events != nil {
		opts = append(opts, usecase.WithChartEvents(events))
	}
	return usecase.NewChartCalculator(eph, settings, l, opts...)
}

// ProvideChartHandler creates the echo handler for chart routes.
func ProvideChartHandler(l *applogger.Logger, uc *usecase.ChartCalculator) xhttp.Handler {
	return api.NewChartEchoHandler(l, uc)
}

// ProvideRateLimiter returns nil when rate limiting is disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.Burst, cfg.RateLimit.PerSecond)
}

// ProvideHTTPServer creates the echo server with readiness checks for the
// ephemeris and, when enabled, the archive.
func ProvideHTTPServer(
	cfg *config.Config,
	h xhttp.Handler,
	limiter *ratelimit.Limiter,
	eph *ephemeris.Meeus,
	archive repository.ChartArchive,
	l *applogger.Logger,
) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS, cfg.Server.CORSOrigins...),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
		xhttp.WithReadinessCheck("ephemeris", func(context.Context) error { return eph.Load() }),
	}
	if limiter != nil {
		opts = append(opts, xhttp.WithRateLimiter(limiter))
	}
	if archive != nil {
		opts = append(opts, xhttp.WithReadinessCheck("archive", archive.Health))
	}
	return xhttp.NewServer(h, l, opts...)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	eph *ephemeris.Meeus,
	boot *ephemeris.Bootstrapper,
	store cache.Service,
	archive repository.ChartArchive,
	producer *pkgkafka.Producer,
	shutdownTracing tracing.ShutdownFunc,
) *server.App {
	return server.New(cfg, l, srv, server.Deps{
		Ephemeris:       eph,
		Bootstrapper:    boot,
		Cache:           store,
		Archive:         archive,
		Producer:        producer,
		ShutdownTracing: shutdownTracing,
	})
}
