package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string   `env:"HTTP_ADDR"              envDefault:":8080"`
	DatabaseURL          string   `env:"DATABASE_URL,required"`
	CORSAllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:","`
	CORSAllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`

	DB    DBConfig    `envPrefix:"DB_"`
	JWT   JWTConfig   `envPrefix:"JWT_"`
	Log   LogConfig   `envPrefix:"LOG_"`
	Redis RedisConfig `envPrefix:"REDIS_"`

	LoginRateLimit  int           `env:"LOGIN_RATE_LIMIT"  envDefault:"10"`
	LoginRateWindow time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"1m"`

	// ReportInterval of zero disables the report writer.
	ReportInterval time.Duration `env:"REPORT_INTERVAL" envDefault:"24h"`
}

type DBConfig struct {
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS"    envDefault:"20"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS"    envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"30m"`
	ConnectRetries  int           `env:"CONNECT_RETRIES"   envDefault:"5"`
}

type JWTConfig struct {
	Secret   string        `env:"SECRET,required"`
	Issuer   string        `env:"ISSUER"   envDefault:"jobboard"`
	Audience string        `env:"AUDIENCE" envDefault:"jobboard-clients"`
	Expiry   time.Duration `env:"EXPIRY"   envDefault:"60m"`
}

type LogConfig struct {
	Level  string `env:"LEVEL"  envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

// RedisConfig is optional; an empty Addr turns rate limiting off.
type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.sanitize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) sanitize() {
	origins := c.CORSAllowedOrigins[:0]
	for _, o := range c.CORSAllowedOrigins {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}
	c.CORSAllowedOrigins = origins

	if c.DB.ConnectRetries < 1 {
		c.DB.ConnectRetries = 1
	}
	if c.DB.MaxOpenConns < 1 {
		c.DB.MaxOpenConns = 1
	}
	if c.DB.MaxIdleConns > c.DB.MaxOpenConns {
		c.DB.MaxIdleConns = c.DB.MaxOpenConns
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
}

func (c Config) Validate() error {
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 bytes")
	}
	if c.JWT.Expiry <= 0 {
		return errors.New("JWT_EXPIRY must be positive")
	}
	if c.ReportInterval < 0 {
		return errors.New("REPORT_INTERVAL must not be negative")
	}
	if c.Redis.Addr != "" && (c.LoginRateLimit <= 0 || c.LoginRateWindow <= 0) {
		return errors.New("LOGIN_RATE_LIMIT and LOGIN_RATE_WINDOW must be positive when REDIS_ADDR is set")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q (text|json)", c.Log.Format)
	}
	return nil
}
