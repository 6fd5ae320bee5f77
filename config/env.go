package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds process configuration read from the environment.
type Config struct {
	Environment    string   `env:"ENVIRONMENT" envDefault:"development"`
	ServerPort     string   `env:"SERVER_PORT" envDefault:"8080"`
	GinMode        string   `env:"GIN_MODE"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	LogFile        string   `env:"LOG_FILE" envDefault:"logs/code-review-api.log"`

	Database DatabaseConfig

	JWTSecret      string `env:"JWT_SECRET,required"`
	JWTExpireHours int    `env:"JWT_EXPIRE_HOURS" envDefault:"24"`
}

// DatabaseConfig holds MySQL connection settings.
type DatabaseConfig struct {
	Host     string `env:"DB_HOST" envDefault:"127.0.0.1"`
	Port     string `env:"DB_PORT" envDefault:"3306"`
	Database string `env:"DB_DATABASE" envDefault:"code_review"`
	Username string `env:"DB_USERNAME" envDefault:"root"`
	Password string `env:"DB_PASSWORD"`
	DebugSQL bool   `env:"DEBUG_SQL"`
}

// DSN builds the MySQL data source name.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// IsProduction reports whether the process runs with ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load reads an optional .env file and parses the environment into Config.
func Load() (*Config, error) {
	// A missing .env file is fine; plain environment variables still apply.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.JWTExpireHours <= 0 {
		cfg.JWTExpireHours = 24
	}
	return cfg, nil
}
