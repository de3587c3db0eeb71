// Package config loads the yojana configuration from defaults, an optional
// YAML file, a .env file and environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/hammamikhairi/yojana/internal/domain"
	"github.com/hammamikhairi/yojana/internal/logger"
)

// Config is the root configuration.
type Config struct {
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	TextModel      string        `mapstructure:"text_model"`
	SpeechModel    string        `mapstructure:"speech_model"`
	Voice          string        `mapstructure:"voice"`
	Language       string        `mapstructure:"language"`
	TopN           int           `mapstructure:"top_n"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	Breaker        BreakerConfig `mapstructure:"breaker"`
	Log            LogConfig     `mapstructure:"log"`
	Theme          string        `mapstructure:"theme"` // "dark" or "light"
}

// BreakerConfig configures the circuit breaker around remote calls.
type BreakerConfig struct {
	Failures uint32        `mapstructure:"failures"`
	Cooldown time.Duration `mapstructure:"cooldown"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `mapstructure:"level"` // off, normal, verbose
	File  string `mapstructure:"file"`  // empty means stderr
}

// Lang returns the configured language.
func (c *Config) Lang() domain.Language {
	l, err := domain.ParseLanguage(c.Language)
	if err != nil {
		return domain.DefaultLanguage
	}
	return l
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() logger.Level {
	l, err := logger.ParseLevel(c.Log.Level)
	if err != nil {
		return logger.LevelNormal
	}
	return l
}

// Validate checks every field except the API key.
func (c *Config) Validate() error {
	if _, err := domain.ParseLanguage(c.Language); err != nil {
		return fmt.Errorf("config: language: %w", err)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	switch {
	case c.TopN < 1:
		return fmt.Errorf("config: top_n must be at least 1, got %d", c.TopN)
	case c.RequestTimeout <= 0:
		return fmt.Errorf("config: request_timeout must be positive, got %s", c.RequestTimeout)
	case c.MaxRetries < 0:
		return fmt.Errorf("config: max_retries must not be negative, got %d", c.MaxRetries)
	case c.Breaker.Failures == 0:
		return errors.New("config: breaker.failures must be at least 1")
	case c.Theme != "dark" && c.Theme != "light":
		return fmt.Errorf("config: theme must be dark or light, got %q", c.Theme)
	}
	return nil
}

// RequireAPIKey fails when no API key is configured.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("config: no API key (set GEMINI_API_KEY or api_key in yojana.yaml)")
	}
	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from files (default ".env") into the
// process environment without overriding variables that are already set.
// Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: loading .env: %w", err)
	}
	return nil
}

// Load reads the configuration. If configFile is non-empty it is used
// directly; otherwise yojana.yaml is searched in ., ./configs and
// $HOME/.config/yojana. Environment variables use the YOJANA_ prefix
// (YOJANA_BREAKER_FAILURES, ...); the API key is also read from
// GEMINI_API_KEY and API_KEY.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("api_key", "")
	v.SetDefault("base_url", "")
	v.SetDefault("text_model", "gemini-3-flash-preview")
	v.SetDefault("speech_model", "gemini-2.5-flash-preview-tts")
	v.SetDefault("voice", "Kore")
	v.SetDefault("language", string(domain.DefaultLanguage))
	v.SetDefault("top_n", 5)
	v.SetDefault("request_timeout", 60*time.Second)
	v.SetDefault("max_retries", 2)
	v.SetDefault("breaker.failures", 5)
	v.SetDefault("breaker.cooldown", 30*time.Second)
	v.SetDefault("log.level", "normal")
	v.SetDefault("log.file", "")
	v.SetDefault("theme", "light")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("yojana")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.config/yojana")
	}

	v.SetEnvPrefix("YOJANA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api_key", "YOJANA_API_KEY", "GEMINI_API_KEY", "API_KEY"); err != nil {
		return nil, fmt.Errorf("config: binding api key: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshalling: %w", err)
	}
	cfg.Language = strings.ToLower(strings.TrimSpace(cfg.Language))
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
