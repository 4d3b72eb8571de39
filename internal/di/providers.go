package di

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"TradeIQ/internal/domain/repository"
	"TradeIQ/internal/handler/api"
	"TradeIQ/internal/handler/jobs"
	internalrepo "TradeIQ/internal/repository"
	"TradeIQ/internal/service/cache"
	"TradeIQ/internal/service/deriv"
	"TradeIQ/internal/service/llm"
	"TradeIQ/internal/service/news"
	"TradeIQ/internal/service/ratelimit"
	"TradeIQ/internal/usecase"
	"TradeIQ/pkg/config"
	xhttp "TradeIQ/pkg/http"
	pkgkafka "TradeIQ/pkg/kafka"
	"TradeIQ/pkg/logger"
	"TradeIQ/pkg/metrics"
	"TradeIQ/pkg/queue"
	"TradeIQ/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideMarketData creates the Deriv WebSocket bridge.
func ProvideMarketData(cfg *config.Config, log *logger.Logger) repository.MarketData {
	return deriv.NewBridge(cfg.Deriv, log)
}

// ProvideNewsAggregator assembles the configured news providers behind a
// shared rate limiter. Providers without an API key resolve to no-ops.
// Results are cached; the cache rides on the queue's Redis when that is
// available, otherwise it stays in process memory.
func ProvideNewsAggregator(cfg *config.Config, log *logger.Logger) *news.Aggregator {
	client := xhttp.NewClient(xhttp.WithTimeout(cfg.News.Timeout))
	providers := []repository.NewsProvider{
		news.NewNewsAPIProvider(cfg.News.NewsAPIKey, client),
		news.NewFinnhubProvider(cfg.News.FinnhubAPIKey, client),
	}

	var articleCache cache.BytesCache = cache.NewTTLCache()
	if cfg.Queue.Enabled {
		articleCache = cache.NewRedisCache(redis.NewClient(&redis.Options{
			Addr:     cfg.Queue.Redis.Addr,
			Password: cfg.Queue.Redis.Password,
			DB:       cfg.Queue.Redis.DB,
		}))
	}

	return news.NewAggregator(providers, ratelimit.New(), cfg.News.RateCapacity, cfg.News.RatePerSec, log,
		news.WithCache(articleCache, cfg.News.CacheTTL))
}

// ProvideCompleter creates the LLM completion client.
func ProvideCompleter(cfg *config.Config, log *logger.Logger) repository.Completer {
	return llm.NewClient(cfg.LLM, log)
}

// ProvideSentimentEstimator creates the news sentiment estimator.
func ProvideSentimentEstimator(aggregator *news.Aggregator, completer repository.Completer, log *logger.Logger) repository.SentimentEstimator {
	return news.NewEstimator(aggregator, completer, log)
}

// ProvideMonitor creates the volatility monitor agent.
func ProvideMonitor(
	market repository.MarketData,
	sentiment repository.SentimentEstimator,
	m repository.Metrics,
	cfg *config.Config,
	log *logger.Logger,
) *usecase.Monitor {
	return usecase.NewMonitor(market, sentiment, m, cfg.Monitor, log)
}

// ProvideAnalyst creates the market analyst agent.
func ProvideAnalyst(
	aggregator *news.Aggregator,
	sentiment repository.SentimentEstimator,
	completer repository.Completer,
	log *logger.Logger,
) *usecase.Analyst {
	return usecase.NewAnalyst(aggregator, sentiment, completer, log)
}

// ProvideAdvisor creates the trading advisor agent.
func ProvideAdvisor(completer repository.Completer, log *logger.Logger) *usecase.Advisor {
	return usecase.NewAdvisor(completer, log)
}

// ProvideContentCreator creates the social content agent.
func ProvideContentCreator(completer repository.Completer, log *logger.Logger) *usecase.ContentCreator {
	return usecase.NewContentCreator(completer, log)
}

// ProvideSocialPublisher creates the Bluesky publisher, or nil when
// publishing is disabled. The pipeline treats a nil publisher as
// dry-run mode.
func ProvideSocialPublisher(cfg *config.Config, log *logger.Logger) repository.SocialPublisher {
	if !cfg.Bluesky.Enabled {
		return nil
	}
	return internalrepo.NewBlueskyPublisher(cfg.Bluesky, log)
}

// ProvideEventPublisher creates the Kafka event fan-out, or nil when
// Kafka is disabled.
func ProvideEventPublisher(cfg *config.Config) (repository.EventPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvidePipeline creates the agent pipeline orchestrator.
func ProvidePipeline(
	monitor *usecase.Monitor,
	analyst *usecase.Analyst,
	advisor *usecase.Advisor,
	content *usecase.ContentCreator,
	publisher repository.SocialPublisher,
	events repository.EventPublisher,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.Pipeline {
	return usecase.NewPipeline(monitor, analyst, advisor, content, publisher, events, m, log)
}

// ProvideHTTPHandler creates the Echo route handler.
func ProvideHTTPHandler(
	log *logger.Logger,
	pipeline *usecase.Pipeline,
	monitor *usecase.Monitor,
	market repository.MarketData,
	aggregator *news.Aggregator,
) xhttp.Handler {
	return api.NewPipelineEchoHandler(log, pipeline, monitor, market, aggregator)
}

// ProvideQueueConsumer creates the Redis-backed scan queue, or nil when
// background scans are disabled. The queue runs in producer-consumer
// mode so the scheduler can enqueue onto the same connection.
func ProvideQueueConsumer(cfg *config.Config, pipeline *usecase.Pipeline, log *logger.Logger) *queue.RedisQueue {
	if !cfg.Queue.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Queue.Redis.Addr,
		Password: cfg.Queue.Redis.Password,
		DB:       cfg.Queue.Redis.DB,
	})
	q := queue.NewRedisQueue(log, &queue.QueueConfig{Workers: cfg.Queue.Workers}, client, queue.ModeProducerConsumer)
	q.RegisterJob(jobs.NewPipelineRunJob(pipeline, log))
	return q
}

// ProvideScheduler creates the periodic scan scheduler, or nil when the
// queue is disabled or no interval is configured.
func ProvideScheduler(cfg *config.Config, consumer *queue.RedisQueue, log *logger.Logger) *jobs.Scheduler {
	if consumer == nil || cfg.Queue.ScanInterval <= 0 {
		return nil
	}
	return jobs.NewScheduler(consumer, cfg.Queue.ScanInterval, log)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	handler xhttp.Handler,
	consumer *queue.RedisQueue,
	scheduler *jobs.Scheduler,
	events repository.EventPublisher,
) *server.App {
	return server.New(cfg, log, handler, consumer, scheduler, events)
}
