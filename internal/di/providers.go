package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	domrepo "BondLens/internal/domain/repository"
	"BondLens/internal/handler/api"
	internalrepo "BondLens/internal/repository"
	"BondLens/internal/services/spread"
	"BondLens/internal/services/tolerance"
	"BondLens/internal/usecase"
	"BondLens/pkg/cache"
	pkgch "BondLens/pkg/clickhouse"
	"BondLens/pkg/config"
	xhttp "BondLens/pkg/http"
	pkgkafka "BondLens/pkg/kafka"
	applogger "BondLens/pkg/logger"
	"BondLens/pkg/metrics"
	"BondLens/pkg/server"
)

// ProvideLogger creates the application logger. Production environments log
// JSON; everything else gets the console writer.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "console"
	level := "debug"
	if cfg.Environment == "production" {
		format = "json"
		level = "info"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when the mock
// provider is configured.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Provider.Type != "clickhouse" {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideCache selects redis or in-process caching for the provider decorator.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Provider.CacheEnabled {
		return nil, nil
	}
	if cfg.Redis.Enabled {
		host, port := splitHostPort(cfg.Redis.Addr)
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(host),
			cache.WithRedisPort(port),
			cache.WithRedisPassword(cfg.Redis.Password),
			cache.WithRedisDB(cfg.Redis.DB),
		)
		if err != nil {
			return nil, err
		}
		// Memory in front of redis: curves are re-read for every cell on a date.
		return cache.NewLayeredCache(rc), nil
	}
	return cache.NewMemoryCache(), nil
}

func splitHostPort(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 6379
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, 6379
	}
	return host, port
}

// ProvideDataProvider builds the configured data backend, optionally wrapped
// with read-through caching.
func ProvideDataProvider(cfg *config.Config, chClient *pkgch.Client, c cache.Service, m domrepo.Metrics) (domrepo.DataProvider, error) {
	var provider domrepo.DataProvider
	switch cfg.Provider.Type {
	case "clickhouse":
		tables := internalrepo.Tables{
			Reference: cfg.ClickHouse.Tables.Reference,
			Calls:     cfg.ClickHouse.Tables.Calls,
			Quotes:    cfg.ClickHouse.Tables.Quotes,
			Curves:    cfg.ClickHouse.Tables.Curves,
			Analytics: cfg.ClickHouse.Tables.Analytics,
		}
		provider = internalrepo.NewClickHouseProvider(chClient.DB(), tables)
	case "mock":
		provider = internalrepo.NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown provider type '%s'", cfg.Provider.Type)
	}

	if c != nil {
		provider = internalrepo.NewCachedProvider(provider, c)
	}
	return internalrepo.NewInstrumentedProvider(provider, m), nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is off.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideReportPublisher ships reports to Kafka, or nil when Kafka is off.
func ProvideReportPublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.ReportPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaReportPublisher(producer, cfg.Kafka.ReportTopic, cfg.Kafka.FailureTopic)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideToleranceEngine builds the tolerance engine with config overrides.
func ProvideToleranceEngine(cfg *config.Config) *tolerance.Engine {
	return tolerance.NewEngine(cfg.Validation.ToleranceOverrides)
}

// ProvideBenchmarkRule converts configured step-down tables, falling back to
// the built-in rule when none are configured.
func ProvideBenchmarkRule(cfg *config.Config) spread.Rule {
	if len(cfg.Benchmark.Rules) == 0 {
		return spread.DefaultRule()
	}
	rule := make(spread.Rule, len(cfg.Benchmark.Rules))
	for tenor, thresholds := range cfg.Benchmark.Rules {
		entries := make([]spread.Threshold, len(thresholds))
		for i, t := range thresholds {
			entries[i] = spread.Threshold{MinYears: t.MinYears, Tenor: t.Tenor}
		}
		rule[tenor] = entries
	}
	rule.Normalize()
	return rule
}

// ProvideBatchValidator creates the batch validation use case.
func ProvideBatchValidator(
	provider domrepo.DataProvider,
	tol *tolerance.Engine,
	m domrepo.Metrics,
	logger *applogger.Logger,
	publisher domrepo.ReportPublisher,
	rule spread.Rule,
	cfg *config.Config,
) *usecase.BatchValidator {
	return usecase.NewBatchValidator(
		provider, tol, m, logger, publisher, rule,
		cfg.Validation.PreferCall,
		cfg.Validation.Workers,
	)
}

// ProvideSpreadService creates the one-off spread query use case.
func ProvideSpreadService(provider domrepo.DataProvider, rule spread.Rule, cfg *config.Config) *usecase.SpreadService {
	return usecase.NewSpreadService(provider, rule, cfg.Validation.PreferCall)
}

// ProvideHandler creates the HTTP handler surface.
func ProvideHandler(
	logger *applogger.Logger,
	validator *usecase.BatchValidator,
	spreads *usecase.SpreadService,
	provider domrepo.DataProvider,
) xhttp.Handler {
	return api.NewValidationHandler(logger, validator, spreads, provider)
}

// logPublisher adapts the Kafka producer to the log collector sink.
type logPublisher struct {
	producer *pkgkafka.Producer
}

func (p logPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

// ProvideApp creates the application server. When Kafka is enabled the
// logger's warn/error aggregation (skipped cells, provider errors) drains to
// the failure topic.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	publisher domrepo.ReportPublisher,
	producer *pkgkafka.Producer,
) *server.App {
	if producer != nil && cfg.Kafka.FailureTopic != "" {
		logger.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.FailureTopic,
			Publisher:      logPublisher{producer: producer},
		})
	}
	return server.New(cfg, logger, handler, chClient, publisher)
}
