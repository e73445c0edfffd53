package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Provider struct {
		// Type selects the data backend: clickhouse or mock.
		Type string `yaml:"type"`
		// CacheEnabled wraps the provider with read-through caching.
		CacheEnabled bool `yaml:"cache_enabled"`
	} `yaml:"provider"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
		Tables           struct {
			Reference string `yaml:"reference"`
			Calls     string `yaml:"calls"`
			Quotes    string `yaml:"quotes"`
			Curves    string `yaml:"curves"`
			Analytics string `yaml:"analytics"`
		} `yaml:"tables"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		ReportTopic  string   `yaml:"report_topic"`
		FailureTopic string   `yaml:"failure_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Validation struct {
		// Workers bounds the parallel cell fan-out of a batch run.
		Workers int `yaml:"workers"`
		// PreferCall resolves callable bonds to their earliest call when possible.
		PreferCall bool `yaml:"prefer_call"`
		// Groups run by default when a request names none.
		Groups []string `yaml:"groups"`
		// ToleranceOverrides maps metric name -> tolerance, replacing the
		// built-in default for that metric. Keys are case-insensitive.
		ToleranceOverrides map[string]float64 `yaml:"tolerance_overrides"`
	} `yaml:"validation"`
	Benchmark struct {
		// Rules maps original issuance tenor -> step-down thresholds, walked
		// from the longest minimum. An empty map keeps the built-in 10y table.
		Rules map[int][]BenchmarkThreshold `yaml:"rules"`
	} `yaml:"benchmark"`
}

// BenchmarkThreshold mirrors the step-down rule entries in YAML.
type BenchmarkThreshold struct {
	MinYears float64 `yaml:"min_years"`
	Tenor    float64 `yaml:"tenor"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PROVIDER"); v != "" {
		c.Provider.Type = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Provider.Type == "" {
		return fmt.Errorf("provider.type is required")
	}
	if c.Provider.Type != "clickhouse" && c.Provider.Type != "mock" {
		return fmt.Errorf("provider.type must be 'clickhouse' or 'mock', got '%s'", c.Provider.Type)
	}
	if c.Provider.Type == "clickhouse" && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required for the clickhouse provider")
	}
	if c.Validation.Workers < 0 {
		return fmt.Errorf("validation.workers cannot be negative")
	}
	for _, g := range c.Validation.Groups {
		switch g {
		case "pricing", "spreads", "risk":
		default:
			return fmt.Errorf("unknown validation group '%s'", g)
		}
	}
	for tenor, thresholds := range c.Benchmark.Rules {
		if tenor <= 0 {
			return fmt.Errorf("benchmark rule tenor must be positive, got %d", tenor)
		}
		for _, t := range thresholds {
			if t.Tenor <= 0 {
				return fmt.Errorf("benchmark rule for tenor %d maps to non-positive tenor %v", tenor, t.Tenor)
			}
		}
	}
	return nil
}
