//go:build wireinject
// +build wireinject

package di

import (
	"BondLens/pkg/config"
	"BondLens/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideCache,
		ProvideKafkaProducer,

		// Repositories
		ProvideDataProvider,
		ProvideReportPublisher,

		// Domain services
		ProvideToleranceEngine,
		ProvideBenchmarkRule,

		// Use cases
		ProvideBatchValidator,
		ProvideSpreadService,

		// HTTP surface
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
