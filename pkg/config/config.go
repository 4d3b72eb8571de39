package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string        `yaml:"environment"`
	Server      ServerConfig  `yaml:"server"`
	Logger      LoggerConfig  `yaml:"logger"`
	LLM         LLMConfig     `yaml:"llm"`
	Deriv       DerivConfig   `yaml:"deriv"`
	News        NewsConfig    `yaml:"news"`
	Monitor     MonitorConfig `yaml:"monitor"`
	Bluesky     BlueskyConfig `yaml:"bluesky"`
	Kafka       KafkaConfig   `yaml:"kafka"`
	Queue       QueueConfig   `yaml:"queue"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

type LLMConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxAttempts int           `yaml:"max_attempts"`
}

type DerivConfig struct {
	AppID          string            `yaml:"app_id"`
	WebSocketURL   string            `yaml:"websocket_url"`
	QuoteTimeout   time.Duration     `yaml:"quote_timeout"`
	HistoryTimeout time.Duration     `yaml:"history_timeout"`
	Workers        int               `yaml:"workers"`
	Aliases        map[string]string `yaml:"aliases"`
}

type NewsConfig struct {
	NewsAPIKey    string        `yaml:"newsapi_key"`
	FinnhubAPIKey string        `yaml:"finnhub_key"`
	Timeout       time.Duration `yaml:"timeout"`
	RateCapacity  float64       `yaml:"rate_capacity"`
	RatePerSec    float64       `yaml:"rate_per_sec"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
}

type MonitorConfig struct {
	Instruments      []string           `yaml:"instruments"`
	Thresholds       map[string]float64 `yaml:"thresholds"`
	DefaultThreshold float64            `yaml:"default_threshold"`
}

type BlueskyConfig struct {
	Enabled     bool          `yaml:"enabled"`
	ServiceURL  string        `yaml:"service_url"`
	Handle      string        `yaml:"handle"`
	AppPassword string        `yaml:"app_password"`
	Timeout     time.Duration `yaml:"timeout"`
}

type KafkaConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Brokers      []string      `yaml:"brokers"`
	Topic        string        `yaml:"topic"`
	RequiredAcks int           `yaml:"required_acks"`
	Compression  string        `yaml:"compression"`
	MaxAttempts  int           `yaml:"max_attempts"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	Async        bool          `yaml:"async"`
}

type QueueConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Workers      int           `yaml:"workers"`
	ScanInterval time.Duration `yaml:"scan_interval"`
	Redis        RedisConfig   `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DefaultInstruments is the monitor scan list used when config omits one.
var DefaultInstruments = []string{
	"EUR/USD", "GBP/USD", "USD/JPY", "BTC/USD",
	"ETH/USD", "GOLD", "Volatility 75",
}

// DefaultThresholds is the per-instrument volatility threshold table (%)
// used when config omits one.
var DefaultThresholds = map[string]float64{
	"BTC/USD":        3.0,
	"ETH/USD":        4.0,
	"Volatility 75":  2.0,
	"Volatility 100": 2.0,
}

// DefaultAliases maps user-facing instrument names to Deriv API symbols.
var DefaultAliases = map[string]string{
	"EUR/USD":             "frxEURUSD",
	"GBP/USD":             "frxGBPUSD",
	"USD/JPY":             "frxUSDJPY",
	"AUD/USD":             "frxAUDUSD",
	"USD/CHF":             "frxUSDCHF",
	"BTC/USD":             "cryBTCUSD",
	"ETH/USD":             "cryETHUSD",
	"GOLD":                "frxXAUUSD",
	"XAU/USD":             "frxXAUUSD",
	"SILVER":              "frxXAGUSD",
	"Volatility 75":       "R_75",
	"Volatility 75 Index": "R_75",
	"V75":                 "R_75",
	"Volatility 100":      "R_100",
	"V100":                "R_100",
	"Volatility 10":       "R_10",
	"V10":                 "R_10",
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

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides secrets and connection
// endpoints with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("DERIV_APP_ID"); v != "" {
		c.Deriv.AppID = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		c.News.NewsAPIKey = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.News.FinnhubAPIKey = v
	}
	if v := os.Getenv("BLUESKY_HANDLE"); v != "" {
		c.Bluesky.Handle = v
	}
	if v := os.Getenv("BLUESKY_APP_PASSWORD"); v != "" {
		c.Bluesky.AppPassword = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Queue.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("INSTRUMENTS"); v != "" {
		c.Monitor.Instruments = strings.Split(v, ",")
	}

	return c, nil
}

// applyDefaults fills the static tables and timeouts that the YAML file may
// omit. The tables become injected, read-only configuration; nothing else
// in the process mutates them.
func (c *Config) applyDefaults() {
	if len(c.Monitor.Instruments) == 0 {
		c.Monitor.Instruments = append([]string(nil), DefaultInstruments...)
	}
	if c.Monitor.Thresholds == nil {
		c.Monitor.Thresholds = DefaultThresholds
	}
	if c.Monitor.DefaultThreshold == 0 {
		c.Monitor.DefaultThreshold = 0.5
	}
	if c.Deriv.Aliases == nil {
		c.Deriv.Aliases = DefaultAliases
	}
	if c.Deriv.WebSocketURL == "" {
		c.Deriv.WebSocketURL = "wss://ws.derivws.com/websockets/v3"
	}
	if c.Deriv.QuoteTimeout == 0 {
		c.Deriv.QuoteTimeout = 8 * time.Second
	}
	if c.Deriv.HistoryTimeout == 0 {
		c.Deriv.HistoryTimeout = 12 * time.Second
	}
	if c.Deriv.Workers == 0 {
		c.Deriv.Workers = 4
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 30 * time.Second
	}
	if c.LLM.MaxAttempts == 0 {
		c.LLM.MaxAttempts = 1
	}
	if c.News.Timeout == 0 {
		c.News.Timeout = 5 * time.Second
	}
	if c.News.CacheTTL == 0 {
		c.News.CacheTTL = 2 * time.Minute
	}
	if c.News.RateCapacity == 0 {
		c.News.RateCapacity = 5
	}
	if c.News.RatePerSec == 0 {
		c.News.RatePerSec = 1
	}
	if c.Bluesky.ServiceURL == "" {
		c.Bluesky.ServiceURL = "https://bsky.social"
	}
	if c.Bluesky.Timeout == 0 {
		c.Bluesky.Timeout = 10 * time.Second
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "console"
	}
	if c.Logger.Output == "" {
		c.Logger.Output = "stdout"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Deriv.AppID == "" {
		return fmt.Errorf("deriv.app_id is required")
	}
	if c.LLM.BaseURL == "" {
		return fmt.Errorf("llm.base_url is required")
	}
	if c.Monitor.DefaultThreshold <= 0 {
		return fmt.Errorf("monitor.default_threshold must be positive")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Queue.Enabled && c.Queue.Redis.Addr == "" {
		return fmt.Errorf("queue.redis.addr is required when queue is enabled")
	}
	if c.Bluesky.Enabled && (c.Bluesky.Handle == "" || c.Bluesky.AppPassword == "") {
		return fmt.Errorf("bluesky.handle and bluesky.app_password are required when bluesky is enabled")
	}
	return nil
}
