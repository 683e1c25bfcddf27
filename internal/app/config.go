package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/coursecraft-backend/internal/data/db"
	"github.com/yungbote/coursecraft-backend/internal/observability"
	"github.com/yungbote/coursecraft-backend/internal/platform/envutil"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
	"github.com/yungbote/coursecraft-backend/internal/realtime/bus"
)

const configFileEnv = "CONFIG_FILE"

// Config is built from defaults, then the optional YAML file named by
// CONFIG_FILE, then environment variables.
type Config struct {
	Port     string
	LogMode  string
	LogLevel string

	DB db.Config

	JWTSecretKey   string
	JWTIssuer      string
	AccessTokenTTL time.Duration

	Redis bus.RedisConfig

	MetricsEnabled  bool
	Otel            observability.OtelConfig
	AllowedOrigins  []string
	MutationTimeout time.Duration
}

// fileConfig is the YAML layout. Durations use Go syntax ("15s").
type fileConfig struct {
	Port            string        `yaml:"port"`
	LogMode         string        `yaml:"log_mode"`
	JWTSecretKey    string        `yaml:"jwt_secret_key"`
	JWTIssuer       string        `yaml:"jwt_issuer"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	MetricsEnabled  *bool         `yaml:"metrics_enabled"`
	AllowedOrigins  []string      `yaml:"cors_allowed_origins"`
	MutationTimeout time.Duration `yaml:"mutation_timeout"`

	Database struct {
		Driver     string `yaml:"driver"`
		Host       string `yaml:"host"`
		Port       string `yaml:"port"`
		User       string `yaml:"user"`
		Password   string `yaml:"password"`
		Name       string `yaml:"name"`
		SSLMode    string `yaml:"sslmode"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Channel  string `yaml:"channel"`
	} `yaml:"redis"`

	Otel struct {
		Enabled     *bool   `yaml:"enabled"`
		ServiceName string  `yaml:"service_name"`
		Endpoint    string  `yaml:"endpoint"`
		SampleRatio float64 `yaml:"sample_ratio"`
	} `yaml:"otel"`
}

func defaultConfig() Config {
	return Config{
		Port:     "8080",
		LogMode:  "development",
		LogLevel: "info",
		DB: db.Config{
			Driver:          db.DriverPostgres,
			PostgresHost:    "localhost",
			PostgresPort:    "5432",
			PostgresUser:    "postgres",
			PostgresName:    "coursecraft",
			PostgresSSLMode: "disable",
			SQLitePath:      "coursecraft.db",
		},
		JWTSecretKey:   "defaultsecret",
		AccessTokenTTL: time.Hour,
		Redis:          bus.RedisConfig{Channel: bus.DefaultChannel},
		MetricsEnabled: true,
		Otel: observability.OtelConfig{
			ServiceName: "coursecraft-api",
			SampleRatio: 0.1,
		},
		MutationTimeout: 15 * time.Second,
	}
}

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()
	if path := envutil.String(configFileEnv, ""); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
		if log != nil {
			log.Info("config file loaded", "path", path)
		}
	}
	cfg.mergeEnv()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	if log != nil && cfg.JWTSecretKey == "defaultsecret" {
		log.Warn("JWT_SECRET_KEY not set; using the development default")
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var f fileConfig
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&c.Port, f.Port)
	setString(&c.LogMode, f.LogMode)
	setString(&c.JWTSecretKey, f.JWTSecretKey)
	setString(&c.JWTIssuer, f.JWTIssuer)
	if f.AccessTokenTTL > 0 {
		c.AccessTokenTTL = f.AccessTokenTTL
	}
	if f.MetricsEnabled != nil {
		c.MetricsEnabled = *f.MetricsEnabled
	}
	if len(f.AllowedOrigins) > 0 {
		c.AllowedOrigins = f.AllowedOrigins
	}
	if f.MutationTimeout > 0 {
		c.MutationTimeout = f.MutationTimeout
	}

	setString(&c.DB.Driver, f.Database.Driver)
	setString(&c.DB.PostgresHost, f.Database.Host)
	setString(&c.DB.PostgresPort, f.Database.Port)
	setString(&c.DB.PostgresUser, f.Database.User)
	setString(&c.DB.PostgresPassword, f.Database.Password)
	setString(&c.DB.PostgresName, f.Database.Name)
	setString(&c.DB.PostgresSSLMode, f.Database.SSLMode)
	setString(&c.DB.SQLitePath, f.Database.SQLitePath)

	setString(&c.Redis.Addr, f.Redis.Addr)
	setString(&c.Redis.Password, f.Redis.Password)
	setString(&c.Redis.Channel, f.Redis.Channel)
	if f.Redis.DB > 0 {
		c.Redis.DB = f.Redis.DB
	}

	if f.Otel.Enabled != nil {
		c.Otel.Enabled = *f.Otel.Enabled
	}
	setString(&c.Otel.ServiceName, f.Otel.ServiceName)
	setString(&c.Otel.Endpoint, f.Otel.Endpoint)
	if f.Otel.SampleRatio > 0 {
		c.Otel.SampleRatio = f.Otel.SampleRatio
	}
	return nil
}

func (c *Config) mergeEnv() {
	c.Port = envutil.String("PORT", c.Port)
	c.LogMode = envutil.String("LOG_MODE", c.LogMode)
	c.LogLevel = envutil.String("LOG_LEVEL", c.LogLevel)

	c.DB.Driver = envutil.String("DB_DRIVER", c.DB.Driver)
	c.DB.PostgresHost = envutil.String("POSTGRES_HOST", c.DB.PostgresHost)
	c.DB.PostgresPort = envutil.String("POSTGRES_PORT", c.DB.PostgresPort)
	c.DB.PostgresUser = envutil.String("POSTGRES_USER", c.DB.PostgresUser)
	c.DB.PostgresPassword = envutil.String("POSTGRES_PASSWORD", c.DB.PostgresPassword)
	c.DB.PostgresName = envutil.String("POSTGRES_NAME", c.DB.PostgresName)
	c.DB.PostgresSSLMode = envutil.String("POSTGRES_SSLMODE", c.DB.PostgresSSLMode)
	c.DB.SQLitePath = envutil.String("SQLITE_PATH", c.DB.SQLitePath)
	c.DB.MaxOpenConns = envutil.Int("POSTGRES_MAX_OPEN_CONNS", c.DB.MaxOpenConns)

	c.JWTSecretKey = envutil.String("JWT_SECRET_KEY", c.JWTSecretKey)
	c.JWTIssuer = envutil.String("JWT_ISSUER", c.JWTIssuer)
	c.AccessTokenTTL = envutil.Duration("ACCESS_TOKEN_TTL", c.AccessTokenTTL)

	c.Redis.Addr = envutil.String("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = envutil.String("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = envutil.Int("REDIS_DB", c.Redis.DB)
	c.Redis.Channel = envutil.String("REDIS_CHANNEL", c.Redis.Channel)

	c.MetricsEnabled = envutil.Bool("METRICS_ENABLED", c.MetricsEnabled)
	c.Otel.Enabled = envutil.Bool("OTEL_ENABLED", c.Otel.Enabled)
	c.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", c.Otel.ServiceName)
	c.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", c.Otel.Endpoint)
	c.Otel.Environment = envutil.String("APP_ENV", c.LogMode)

	c.AllowedOrigins = envutil.List("CORS_ALLOWED_ORIGINS", c.AllowedOrigins)
	c.MutationTimeout = envutil.Duration("MUTATION_TIMEOUT", c.MutationTimeout)
}

func (c *Config) validate() error {
	switch strings.ToLower(c.DB.Driver) {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		return fmt.Errorf("JWT_SECRET_KEY must not be empty")
	}
	if c.MutationTimeout <= 0 {
		return fmt.Errorf("MUTATION_TIMEOUT must be positive")
	}
	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
