package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Observation point: Lake Shinji, Matsue.
	Lat      float64 `env:"LAT" envDefault:"35.4727"`
	Lon      float64 `env:"LON" envDefault:"133.0505"`
	Timezone string  `env:"TIMEZONE" envDefault:"Asia/Tokyo"`

	// Open-Meteo configuration.
	ForecastBaseURL   string        `env:"FORECAST_BASE_URL" envDefault:"https://api.open-meteo.com/v1/forecast"`
	AirQualityBaseURL string        `env:"AIR_QUALITY_BASE_URL" envDefault:"https://air-quality-api.open-meteo.com/v1/air-quality"`
	UpstreamTimeout   time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`
	CacheSize         int           `env:"FORECAST_CACHE_SIZE" envDefault:"64"`
	CacheTTL          time.Duration `env:"FORECAST_CACHE_TTL" envDefault:"1h"`

	// Today's forecast is recomputed on this interval. Zero disables the refresher.
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"30m"`

	CORSAllowOrigin string `env:"CORS_ALLOW_ORIGIN" envDefault:"https://matsuesunsetai.com"`

	// Kafka publishing is enabled when at least one broker is set.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"sunset-forecasts"`

	location *time.Location
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.KafkaBrokers = trimEmpty(cfg.KafkaBrokers)

	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if cfg.UpstreamTimeout <= 0 {
		return nil, errors.New("UPSTREAM_TIMEOUT must be positive")
	}
	if cfg.CacheSize <= 0 {
		return nil, errors.New("FORECAST_CACHE_SIZE must be positive")
	}
	if cfg.CacheTTL <= 0 {
		return nil, errors.New("FORECAST_CACHE_TTL must be positive")
	}
	if cfg.RefreshInterval < 0 {
		return nil, errors.New("REFRESH_INTERVAL must not be negative")
	}
	if cfg.Lat < -90 || cfg.Lat > 90 {
		return nil, fmt.Errorf("LAT %v out of range", cfg.Lat)
	}
	if cfg.Lon < -180 || cfg.Lon > 180 {
		return nil, fmt.Errorf("LON %v out of range", cfg.Lon)
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.location = loc

	return cfg, nil
}

// Location returns the parsed TIMEZONE. Configs built by hand default to UTC.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// KafkaEnabled reports whether forecasts should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func trimEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
