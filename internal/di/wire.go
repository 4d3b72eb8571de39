//go:build wireinject
// +build wireinject

package di

import (
	"TradeIQ/pkg/config"
	"TradeIQ/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// External services
		ProvideMarketData,
		ProvideNewsAggregator,
		ProvideCompleter,
		ProvideSentimentEstimator,
		ProvideSocialPublisher,
		ProvideEventPublisher,

		// Agents
		ProvideMonitor,
		ProvideAnalyst,
		ProvideAdvisor,
		ProvideContentCreator,
		ProvidePipeline,

		// Transport
		ProvideHTTPHandler,
		ProvideQueueConsumer,
		ProvideScheduler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
