//go:build wireinject
// +build wireinject

package di

import (
	"AstroChart/pkg/config"
	"AstroChart/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideMetrics,
		ProvideTracing,
		ProvideTracer,
		ProvideCache,

		// Repositories
		ProvideChartArchive,
		ProvideEventPublisher,

		// Ephemeris
		ProvideEphemeris,
		ProvideBootstrapper,

		// Use cases
		ProvideChartSettings,
		ProvideChartCalculator,

		// HTTP
		ProvideChartHandler,
		ProvideRateLimiter,
		ProvideHTTPServer,

		// Application
		ProvideApp,
	)
	return &server.App{}, nil
}
