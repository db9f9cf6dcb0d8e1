package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Session  SessionConfig  `mapstructure:"session"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	Host           string   `mapstructure:"host"`
	Mode           string   `mapstructure:"mode"` // gin mode: debug, release or test
	StaticDir      string   `mapstructure:"static_dir"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CatalogConfig describes where the dress catalog comes from
type CatalogConfig struct {
	Source               string  `mapstructure:"source"` // http or postgres
	URL                  string  `mapstructure:"url"`
	Timeout              int     `mapstructure:"timeout"`
	MaxRetries           int     `mapstructure:"max_retries"`
	MaxRequestsPerSecond int     `mapstructure:"max_requests_per_second"`
	PriceMin             float64 `mapstructure:"price_min"`
	PriceMax             float64 `mapstructure:"price_max"`
}

const (
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

// RedisConfig holds Redis connection details for the catalog cache
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
	CacheTTL int    `mapstructure:"cache_ttl"` // seconds
}

// SessionConfig controls shopper session lifetime
type SessionConfig struct {
	TTL           int `mapstructure:"ttl"`            // seconds of inactivity
	SweepInterval int `mapstructure:"sweep_interval"` // seconds
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from config.yaml with .env and environment variable overrides.
// A missing config.yaml is not an error; defaults apply.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	switch c.Catalog.Source {
	case SourceHTTP:
		if c.Catalog.URL == "" {
			return fmt.Errorf("catalog.url is required for the http source")
		}
	case SourcePostgres:
	default:
		return fmt.Errorf("unknown catalog.source %q", c.Catalog.Source)
	}

	if c.Catalog.PriceMin < 0 || c.Catalog.PriceMin > c.Catalog.PriceMax {
		return fmt.Errorf("invalid catalog price bounds [%v, %v]", c.Catalog.PriceMin, c.Catalog.PriceMax)
	}
	if c.Session.TTL <= 0 || c.Session.SweepInterval <= 0 {
		return fmt.Errorf("session.ttl and session.sweep_interval must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.static_dir", "./static")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("catalog.source", SourceHTTP)
	v.SetDefault("catalog.url", "http://localhost:8080/dresses.json")
	v.SetDefault("catalog.timeout", 30)
	v.SetDefault("catalog.max_retries", 3)
	v.SetDefault("catalog.max_requests_per_second", 20)
	v.SetDefault("catalog.price_min", 0)
	v.SetDefault("catalog.price_max", 200)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "storefront")
	v.SetDefault("database.user", "storefront_user")
	v.SetDefault("database.password", "storefront_pass")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.cache_ttl", 300)

	v.SetDefault("session.ttl", 1800)
	v.SetDefault("session.sweep_interval", 60)

	v.SetDefault("log.level", "info")
}
