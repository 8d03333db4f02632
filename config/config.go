package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the digest service
type Config struct {
	General GeneralConfig `mapstructure:"general"`
	Server  ServerConfig  `mapstructure:"server"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Search  SearchConfig  `mapstructure:"search"`
	Digest  DigestConfig  `mapstructure:"digest"`
	Storage StorageConfig `mapstructure:"storage"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug          bool          `mapstructure:"debug"`
	LogLevel       string        `mapstructure:"log_level"`
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address          string `mapstructure:"address"`
	SchedulerEnabled bool   `mapstructure:"scheduler_enabled"`
}

// LLMConfig contains generative model settings
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"` // openai, anthropic, gemini
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// SearchConfig contains search backend settings
type SearchConfig struct {
	Backend      string        `mapstructure:"backend"` // duckduckgo, serper
	SerperAPIKey string        `mapstructure:"serper_api_key"`
	MaxResults   int           `mapstructure:"max_results"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	BackoffBase  time.Duration `mapstructure:"backoff_base"`
	WidenOnEmpty bool          `mapstructure:"widen_on_empty"`
}

// DigestConfig contains weekly digest settings
type DigestConfig struct {
	TargetCalls          int    `mapstructure:"target_calls"`
	ExtraAttempts        int    `mapstructure:"extra_attempts"`
	RequireConditionTerm bool   `mapstructure:"require_condition_term"`
	ScheduleCron         string `mapstructure:"schedule_cron"`
}

// StorageConfig contains storage and persistence settings
type StorageConfig struct {
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// PostgresConfig contains Postgres connection settings
type PostgresConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN builds a Postgres connection string from either the URL or the
// discrete host fields.
func (p PostgresConfig) DSN() (string, error) {
	if p.URL != "" {
		return p.URL, nil
	}
	if p.Host == "" || p.DBName == "" {
		return "", fmt.Errorf("postgres not configured (storage.postgres.host/dbname or url)")
	}
	port := p.Port
	if port == "" {
		port = "5432"
	}
	ssl := p.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", p.User, p.Password, p.Host, port, p.DBName, ssl), nil
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(cfgPath string) (*Config, error) {
	v := viper.New()
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.SetConfigName("docbot")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("DOCBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; defaults plus env cover dev setups.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.debug", false)
	v.SetDefault("general.log_level", "info")
	v.SetDefault("general.default_timeout", "30s")

	v.SetDefault("server.address", ":10001")
	v.SetDefault("server.scheduler_enabled", true)

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.9)
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.timeout", "30s")

	v.SetDefault("search.backend", "duckduckgo")
	v.SetDefault("search.max_results", 5)
	v.SetDefault("search.timeout", "15s")
	v.SetDefault("search.max_attempts", 3)
	v.SetDefault("search.backoff_base", "1s")
	v.SetDefault("search.widen_on_empty", true)

	v.SetDefault("digest.target_calls", 5)
	v.SetDefault("digest.extra_attempts", 5)
	v.SetDefault("digest.require_condition_term", true)
	v.SetDefault("digest.schedule_cron", "@weekly")

	v.SetDefault("storage.redis.host", "localhost")
	v.SetDefault("storage.redis.port", "6379")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.timeout", "5s")
}

// Validate checks configuration values that would otherwise fail at runtime
func (c *Config) Validate() error {
	if c.Digest.TargetCalls <= 0 {
		return fmt.Errorf("digest.target_calls must be > 0")
	}
	if c.Digest.ExtraAttempts < 0 {
		return fmt.Errorf("digest.extra_attempts must be >= 0")
	}
	if c.Search.MaxAttempts <= 0 {
		return fmt.Errorf("search.max_attempts must be > 0")
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be > 0")
	}
	switch c.Search.Backend {
	case "duckduckgo":
	case "serper":
		if c.Search.SerperAPIKey == "" {
			return fmt.Errorf("search.serper_api_key required for serper backend")
		}
	default:
		return fmt.Errorf("unsupported search backend: %s", c.Search.Backend)
	}
	return nil
}
