// internal/config/config.go

package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Environment string          `env:"APP_ENV" envDefault:"development"`
	LogLevel    string          `env:"LOG_LEVEL" envDefault:"info"`
	Server      ServerConfig    `envPrefix:"SERVER_"`
	Database    DatabaseConfig  `envPrefix:"DB_"`
	NATS        NATSConfig      `envPrefix:"NATS_"`
	Collector   CollectorConfig `envPrefix:"COLLECTOR_"`
	YouTube     YouTubeConfig   `envPrefix:"YOUTUBE_"`
	SerpAPI     SerpAPIConfig   `envPrefix:"SERPAPI_"`
	Auth        AuthConfig      `envPrefix:"AUTH_"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string        `env:"HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CorsOrigins     []string      `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string        `env:"HOST" envDefault:"localhost"`
	Port         int           `env:"PORT" envDefault:"5432"`
	User         string        `env:"USER" envDefault:"postgres"`
	Password     string        `env:"PASSWORD" envDefault:"postgres"`
	Database     string        `env:"NAME" envDefault:"trendlab"`
	MaxOpenConns int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	MaxLifetime  time.Duration `env:"MAX_LIFETIME" envDefault:"5m"`
	SSLMode      string        `env:"SSL_MODE" envDefault:"disable"`
}

// DSN returns the PostgreSQL connection string
func (c DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.Database,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string        `env:"URL" envDefault:"nats://localhost:4222"`
	MaxReconnects  int           `env:"MAX_RECONNECTS" envDefault:"10"`
	ReconnectWait  time.Duration `env:"RECONNECT_WAIT" envDefault:"1s"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"2s"`
	EventsTopic    string        `env:"EVENTS_TOPIC" envDefault:"trend"`
	Disabled       bool          `env:"DISABLED" envDefault:"false"`
}

// CollectorConfig holds trend collection configuration
type CollectorConfig struct {
	AdapterTimeout    time.Duration `env:"ADAPTER_TIMEOUT" envDefault:"10s"`
	MaxConcurrent     int           `env:"MAX_CONCURRENT" envDefault:"4"`
	DefaultMaxResults int           `env:"DEFAULT_MAX_RESULTS" envDefault:"10"`
	DefaultCountry    string        `env:"DEFAULT_COUNTRY" envDefault:"KR"`
	Priority          []string      `env:"PRIORITY" envDefault:"youtube,youtube_shorts,tiktok,instagram,other" envSeparator:","`
	PersistTimeout    time.Duration `env:"PERSIST_TIMEOUT" envDefault:"5s"`
}

// YouTubeConfig holds YouTube Data API configuration
type YouTubeConfig struct {
	APIKey    string  `env:"API_KEY"`
	BaseURL   string  `env:"BASE_URL" envDefault:"https://www.googleapis.com"`
	Order     string  `env:"ORDER" envDefault:"relevance"`
	RateLimit float64 `env:"RATE_LIMIT" envDefault:"5"`
}

// SerpAPIConfig holds SerpAPI configuration
type SerpAPIConfig struct {
	APIKey    string  `env:"API_KEY"`
	BaseURL   string  `env:"BASE_URL" envDefault:"https://serpapi.com"`
	RateLimit float64 `env:"RATE_LIMIT" envDefault:"2"`
}

// AuthConfig holds bearer token verification configuration
type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET"`
	Audience  string `env:"AUDIENCE" envDefault:"authenticated"`
	Issuer    string `env:"ISSUER"`
}

// Load loads configuration from a .env file, if present, and the environment
func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config
	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("error parsing environment: %w", err)
	}

	return config, validate(config)
}

// IsLocal reports whether the app runs on a developer machine
func (c Config) IsLocal() bool {
	return c.Environment == "development" || c.Environment == "local"
}

// validate checks if config is valid
func validate(config Config) error {
	var errs []error

	if config.Auth.JWTSecret == "" && !config.IsLocal() {
		errs = append(errs, errors.New("AUTH_JWT_SECRET must be set in non-development environments"))
	}
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT %d is out of range", config.Server.Port))
	}
	if config.Collector.DefaultMaxResults < 1 || config.Collector.DefaultMaxResults > 50 {
		errs = append(errs, fmt.Errorf("COLLECTOR_DEFAULT_MAX_RESULTS must be within [1,50]"))
	}
	switch config.Collector.DefaultCountry {
	case "KR", "JP", "US":
	default:
		errs = append(errs, fmt.Errorf("COLLECTOR_DEFAULT_COUNTRY %q is not supported", config.Collector.DefaultCountry))
	}

	return errors.Join(errs...)
}
