package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store drivers understood by the credential and content stores.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"
)

// DevJWTSecret is the signing secret used when none is configured. Only accepted
// in development.
const DevJWTSecret = "dev-secret"

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig      `envPrefix:"APP_"`
	Store    StoreConfig    `envPrefix:"STORE_"`
	Postgres PostgresConfig `envPrefix:"POSTGRES_"`
	Mongo    MongoConfig    `envPrefix:"MONGO_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Logger   LoggerConfig   `envPrefix:"LOG_"`
	Auth     AuthConfig     `envPrefix:"AUTH_"`
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `env:"NAME" envDefault:"afriroots-api"`
	Env                   string `env:"ENV" envDefault:"development"`
	Host                  string `env:"HOST" envDefault:"0.0.0.0"`
	Port                  string `env:"PORT" envDefault:"8080"`
	Version               string `env:"VERSION" envDefault:"dev"`
	RequestTimeoutSeconds int    `env:"REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string `env:"DRIVER" envDefault:"postgres"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `env:"DSN"`
	MaxConns       int32  `env:"MAX_CONNS" envDefault:"10"`
	MinConns       int32  `env:"MIN_CONNS" envDefault:"2"`
	RunMigrations  bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
	ConnMaxIdleSec int32  `env:"CONN_MAX_IDLE_SECONDS" envDefault:"30"`
	ConnMaxLifeSec int32  `env:"CONN_MAX_LIFE_SECONDS" envDefault:"300"`
}

// MongoConfig holds document store connection values.
type MongoConfig struct {
	URI               string `env:"URI" envDefault:"mongodb://127.0.0.1:27017"`
	Database          string `env:"DATABASE" envDefault:"afriroots"`
	ConnectTimeoutSec int    `env:"CONNECT_TIMEOUT_SECONDS" envDefault:"10"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr          string `env:"ADDR" envDefault:"127.0.0.1:6379"`
	Password      string `env:"PASSWORD"`
	DB            int    `env:"DB" envDefault:"0"`
	EventsChannel string `env:"EVENTS_CHANNEL" envDefault:"afriroots:events"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string `env:"JWT_SECRET" envDefault:"dev-secret"`
	AccessTokenTTLMinutes int    `env:"ACCESS_TOKEN_TTL_MINUTES" envDefault:"60"`
	PasswordAlgo          string `env:"PASSWORD_ALGO" envDefault:"bcrypt"`
	BcryptCost            int    `env:"BCRYPT_COST" envDefault:"12"`
	Argon2MemoryKiB       uint32 `env:"ARGON2_MEMORY_KIB" envDefault:"65536"`
	Argon2Time            uint32 `env:"ARGON2_TIME" envDefault:"3"`
	Argon2Parallelism     uint8  `env:"ARGON2_PARALLELISM" envDefault:"2"`
	MinPasswordLength     int    `env:"MIN_PASSWORD_LENGTH" envDefault:"6"`
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverMongo, StoreDriverMemory:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET must not be empty")
	}
	if c.Auth.JWTSecret == DevJWTSecret && c.App.Env != "development" {
		return fmt.Errorf("AUTH_JWT_SECRET must be set outside development (APP_ENV=%s)", c.App.Env)
	}
	switch c.Auth.PasswordAlgo {
	case "bcrypt", "argon2id":
	default:
		return fmt.Errorf("invalid AUTH_PASSWORD_ALGO %q", c.Auth.PasswordAlgo)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTokenTTL returns the session token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	if a.AccessTokenTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// ConnectTimeout returns the Mongo connect timeout.
func (m MongoConfig) ConnectTimeout() time.Duration {
	if m.ConnectTimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(m.ConnectTimeoutSec) * time.Second
}
