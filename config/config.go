package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Catalog sources
const (
	CatalogSourceFile   = "file"
	CatalogSourceRemote = "remote"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port" validate:"required,numeric"`
	Environment    string   `mapstructure:"environment" validate:"oneof=development test staging production"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig selects and configures the product data source
type CatalogConfig struct {
	Source   string        `mapstructure:"source" validate:"oneof=file remote"`
	FilePath string        `mapstructure:"file_path"`
	BaseURL  string        `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP   int `mapstructure:"per_ip" validate:"gte=0"`  // inbound requests per minute per client IP, 0 disables
	Catalog int `mapstructure:"catalog" validate:"gt=0"` // outbound catalog requests per hour
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Pretty bool   `mapstructure:"pretty"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/storefront/")

	// STOREFRONT_SERVER_PORT -> server.port
	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
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

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
// Every key needs a default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("catalog.source", CatalogSourceFile)
	v.SetDefault("catalog.file_path", "./catalog.json")
	v.SetDefault("catalog.base_url", "")
	v.SetDefault("catalog.api_key", "")
	v.SetDefault("catalog.timeout", "30s")

	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.catalog", 1000)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

var configValidator = validator.New()

// validate validates the configuration
func validate(config *Config) error {
	if err := configValidator.Struct(config); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s failed %q check (value: %v)", strings.ToLower(fe.Namespace()), fe.Tag(), fe.Value())
		}
		return err
	}

	if config.Catalog.Source == CatalogSourceFile && config.Catalog.FilePath == "" {
		return fmt.Errorf("catalog file path is required when catalog source is 'file'")
	}

	if config.Catalog.Source == CatalogSourceRemote && config.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog base URL is required when catalog source is 'remote' (set STOREFRONT_CATALOG_BASE_URL)")
	}

	return nil
}
