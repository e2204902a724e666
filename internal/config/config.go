package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the configuration values for the application.
type Config struct {
	ListenPort     string   `mapstructure:"LISTEN_PORT"`
	DatabaseURI    string   `mapstructure:"DATABASE_URI"`
	Env            string   `mapstructure:"ENV"`
	LogLevel       string   `mapstructure:"LOG_LEVEL"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`
	DBMaxOpenConns int      `mapstructure:"DB_MAX_OPEN_CONNS"`
}

var keys = []string{
	"LISTEN_PORT",
	"DATABASE_URI",
	"ENV",
	"LOG_LEVEL",
	"CORS_ORIGINS",
	"RATE_LIMIT_RPS",
	"RATE_LIMIT_BURST",
	"DB_MAX_OPEN_CONNS",
}

// LoadConfig loads configuration from a .env file (if present) and environment
// variables, falling back to default values.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("LISTEN_PORT", "5000")
	v.SetDefault("DATABASE_URI", "patients.db")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_RPS", 0)
	v.SetDefault("RATE_LIMIT_BURST", 50)
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// A missing .env is not an error.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))

	if strings.TrimSpace(cfg.DatabaseURI) == "" {
		return nil, fmt.Errorf("DATABASE_URI must not be empty")
	}
	if cfg.ListenPort == "" {
		return nil, fmt.Errorf("LISTEN_PORT must not be empty")
	}

	return cfg, nil
}

// IsDev reports whether the server runs in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// AllowAllOrigins reports whether CORS should accept any origin.
func (c *Config) AllowAllOrigins() bool {
	if len(c.CORSOrigins) == 0 {
		return true
	}
	for _, o := range c.CORSOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
