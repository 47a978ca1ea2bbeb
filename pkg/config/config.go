package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"AstroChart/internal/domain/astro"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string          `yaml:"environment" default:"development"`
	Server      ServerConfig    `yaml:"server"`
	Log         LogConfig       `yaml:"log"`
	Ephemeris   EphemerisConfig `yaml:"ephemeris"`
	Chart       ChartConfig     `yaml:"chart"`
	Cache       CacheConfig     `yaml:"cache"`
	Archive     ArchiveConfig   `yaml:"archive"`
	Events      EventsConfig    `yaml:"events"`
	Tracing     TracingConfig   `yaml:"tracing"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	SlowThreshold   time.Duration `yaml:"slow_threshold" default:"1s"`
	CORS            bool          `yaml:"cors" default:"true"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

type LogConfig struct {
	Level     string `yaml:"level" default:"info"`
	Format    string `yaml:"format" default:"json"`
	Output    string `yaml:"output" default:"stdout"`
	Collector struct {
		Enabled   bool          `yaml:"enabled"`
		Interval  time.Duration `yaml:"interval" default:"30s"`
		Threshold int           `yaml:"threshold" default:"100"`
	} `yaml:"collector"`
}

type EphemerisConfig struct {
	DataDir          string        `yaml:"data_dir" default:"./data/ephe"`
	BaseURL          string        `yaml:"base_url"`
	DownloadOnStart  bool          `yaml:"download_on_start" default:"true"`
	DownloadRequired bool          `yaml:"download_required"`
	Timeout          time.Duration `yaml:"timeout" default:"2m"`
}

type ChartConfig struct {
	TimezoneOffsetHours float64  `yaml:"timezone_offset_hours" default:"8"`
	Orb                 float64  `yaml:"orb" default:"3"`
	Bodies              []string `yaml:"bodies"`
	HouseSystem         string   `yaml:"house_system" default:"placidus"`
	Locale              string   `yaml:"locale" default:"zh-TW"`
	RulerScheme         string   `yaml:"ruler_scheme" default:"traditional"`
}

type CacheConfig struct {
	Enabled    bool          `yaml:"enabled" default:"true"`
	TTL        time.Duration `yaml:"ttl" default:"1h"`
	MemorySize int           `yaml:"memory_size" default:"1024"`
	Redis      struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host" default:"localhost"`
		Port     int    `yaml:"port" default:"6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix" default:"astrochart"`
		PoolSize int    `yaml:"pool_size" default:"10"`
	} `yaml:"redis"`
}

type ArchiveConfig struct {
	Enabled    bool `yaml:"enabled"`
	ClickHouse struct {
		Host         string        `yaml:"host" default:"localhost"`
		Port         int           `yaml:"port" default:"9000"`
		Database     string        `yaml:"database" default:"default"`
		User         string        `yaml:"user" default:"default"`
		Password     string        `yaml:"password"`
		UseHTTP      bool          `yaml:"use_http"`
		AsyncInsert  bool          `yaml:"async_insert"`
		WaitForAsync bool          `yaml:"wait_for_async_insert"`
		DialTimeout  time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"clickhouse"`
}

type EventsConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Brokers      []string      `yaml:"brokers"`
	Topic        string        `yaml:"topic" default:"astro.charts"`
	LogTopic     string        `yaml:"log_topic" default:"astro.logs"`
	RequiredAcks int           `yaml:"required_acks" default:"1"`
	Compression  string        `yaml:"compression" default:"snappy"`
	MaxAttempts  int           `yaml:"max_attempts" default:"3"`
	BatchSize    int           `yaml:"batch_size" default:"100"`
	BatchTimeout time.Duration `yaml:"batch_timeout" default:"50ms"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	Async        bool          `yaml:"async" default:"true"`
}

type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name" default:"astrochart"`
	SampleRatio float64 `yaml:"sample_ratio" default:"1"`
}

type RateLimitConfig struct {
	Enabled   bool    `yaml:"enabled" default:"true"`
	Burst     float64 `yaml:"burst" default:"20"`
	PerSecond float64 `yaml:"per_second" default:"5"`
}

// envOverrides lists the ASTRO_* variables that win over the YAML file.
type envOverrides struct {
	Port             *int     `envconfig:"PORT"`
	LogLevel         *string  `envconfig:"LOG_LEVEL"`
	LogFormat        *string  `envconfig:"LOG_FORMAT"`
	EphemerisDir     *string  `envconfig:"EPHEMERIS_DIR"`
	EphemerisURL     *string  `envconfig:"EPHEMERIS_URL"`
	DownloadRequired *bool    `envconfig:"EPHEMERIS_REQUIRED"`
	TZOffset         *float64 `envconfig:"TZ_OFFSET_HOURS"`
	HouseSystem      *string  `envconfig:"HOUSE_SYSTEM"`
	Locale           *string  `envconfig:"LOCALE"`
	RedisHost        *string  `envconfig:"REDIS_HOST"`
	RedisPassword    *string  `envconfig:"REDIS_PASSWORD"`
	KafkaBrokers     []string `envconfig:"KAFKA_BROKERS"`
	ClickHouseHost   *string  `envconfig:"CLICKHOUSE_HOST"`
	ClickHousePass   *string  `envconfig:"CLICKHOUSE_PASSWORD"`
	TracingEnabled   *bool    `envconfig:"TRACING_ENABLED"`
}

// Load reads a YAML file on top of the struct defaults and validates the result.
func Load(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads the YAML file, then a .env file if present, then applies
// ASTRO_* environment overrides before validating.
func LoadWithEnv(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process("ASTRO", &env); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}
	env.apply(c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func read(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if path == "" {
		return &c, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &c, nil
}

func (e envOverrides) apply(c *Config) {
	setInt(&c.Server.Port, e.Port)
	setString(&c.Log.Level, e.LogLevel)
	setString(&c.Log.Format, e.LogFormat)
	setString(&c.Ephemeris.DataDir, e.EphemerisDir)
	setString(&c.Ephemeris.BaseURL, e.EphemerisURL)
	setBool(&c.Ephemeris.DownloadRequired, e.DownloadRequired)
	if e.TZOffset != nil {
		c.Chart.TimezoneOffsetHours = *e.TZOffset
	}
	setString(&c.Chart.HouseSystem, e.HouseSystem)
	setString(&c.Chart.Locale, e.Locale)
	if e.RedisHost != nil {
		c.Cache.Redis.Host = *e.RedisHost
		c.Cache.Redis.Enabled = true
	}
	setString(&c.Cache.Redis.Password, e.RedisPassword)
	if len(e.KafkaBrokers) > 0 {
		c.Events.Brokers = e.KafkaBrokers
		c.Events.Enabled = true
	}
	if e.ClickHouseHost != nil {
		c.Archive.ClickHouse.Host = *e.ClickHouseHost
		c.Archive.Enabled = true
	}
	setString(&c.Archive.ClickHouse.Password, e.ClickHousePass)
	setBool(&c.Tracing.Enabled, e.TracingEnabled)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.Ephemeris.DataDir == "" {
		errs = append(errs, errors.New("ephemeris.data_dir is required"))
	}
	if c.Chart.TimezoneOffsetHours < -12 || c.Chart.TimezoneOffsetHours > 14 {
		errs = append(errs, fmt.Errorf("chart.timezone_offset_hours out of range: %v", c.Chart.TimezoneOffsetHours))
	}
	if c.Chart.Orb <= 0 || c.Chart.Orb > 15 {
		errs = append(errs, fmt.Errorf("chart.orb must be in (0, 15], got %v", c.Chart.Orb))
	}
	if _, err := c.Chart.BodyList(); err != nil {
		errs = append(errs, fmt.Errorf("chart.bodies: %w", err))
	}
	if !astro.HouseSystem(c.Chart.HouseSystem).Valid() {
		errs = append(errs, fmt.Errorf("chart.house_system %q is not supported", c.Chart.HouseSystem))
	}
	if !astro.ValidLocale(astro.Locale(c.Chart.Locale)) {
		errs = append(errs, fmt.Errorf("chart.locale %q is not supported", c.Chart.Locale))
	}
	if !astro.RulerScheme(c.Chart.RulerScheme).Valid() {
		errs = append(errs, fmt.Errorf("chart.ruler_scheme %q is not supported", c.Chart.RulerScheme))
	}
	if c.Cache.Enabled && c.Cache.MemorySize <= 0 {
		errs = append(errs, errors.New("cache.memory_size must be positive"))
	}
	if c.Events.Enabled && len(c.Events.Brokers) == 0 {
		errs = append(errs, errors.New("events.brokers cannot be empty when events are enabled"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.Burst < 1 || c.RateLimit.PerSecond <= 0) {
		errs = append(errs, errors.New("rate_limit.burst must be >= 1 and rate_limit.per_second > 0"))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("tracing.sample_ratio must be in [0, 1], got %v", c.Tracing.SampleRatio))
	}

	return errors.Join(errs...)
}

// BodyList resolves the configured bodies. An empty list selects every supported body.
func (c ChartConfig) BodyList() ([]astro.Body, error) {
	if len(c.Bodies) == 0 {
		return astro.ExtendedBodies(), nil
	}
	return astro.ParseBodies(c.Bodies)
}
