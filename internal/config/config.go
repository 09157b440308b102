// Package config loads cycletrack settings from an optional YAML file and CYCLETRACK_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/terraincognita07/cycletrack/internal/security"
)

const (
	EnvPrefix         = "CYCLETRACK_"
	maxConfigFileSize = 1024 * 1024
)

var insecureSecrets = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	App      AppConfig      `koanf:"app"`
	Log      LogConfig      `koanf:"log"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

type AuthConfig struct {
	// Secret is the HS256 key that verifies bearer tokens.
	Secret string `koanf:"secret"`
}

type AppConfig struct {
	Timezone        string `koanf:"timezone"`
	DefaultLanguage string `koanf:"default_language"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Load reads configPath (skipped when empty or missing), then applies environment
// overrides and defaults. Precedence: environment, file, defaults.
//
//	CYCLETRACK_SERVER_PORT           -> server.port
//	CYCLETRACK_APP_DEFAULT_LANGUAGE  -> app.default_language
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		content, err := readConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		if content != nil {
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// envKey maps CYCLETRACK_SECTION_FIELD_NAME to section.field_name.
func envKey(name string) string {
	lower := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

func readConfigFile(configPath string) ([]byte, error) {
	file, err := os.Open(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/cycletrack.db"
	}
	if cfg.App.Timezone == "" {
		cfg.App.Timezone = "UTC"
	}
	if cfg.App.DefaultLanguage == "" {
		cfg.App.DefaultLanguage = "en"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}

func (cfg *Config) Validate() error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout < 0 {
		return errors.New("server.shutdown_timeout must not be negative")
	}
	if _, err := time.LoadLocation(cfg.App.Timezone); err != nil {
		return fmt.Errorf("app.timezone %q: %w", cfg.App.Timezone, err)
	}
	switch cfg.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", cfg.Log.Format)
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not supported", cfg.Log.Level)
	}
	return nil
}

// ValidateAuth checks the token secret. Only the HTTP server needs one, so Load leaves
// it to the caller.
func (cfg *Config) ValidateAuth() error {
	return ValidateSecret(cfg.Auth.Secret)
}

func ValidateSecret(secret string) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return errors.New("auth.secret is required")
	}
	if _, insecure := insecureSecrets[strings.ToLower(secret)]; insecure {
		return errors.New("auth.secret uses a placeholder value")
	}
	if len(secret) < security.MinSecretLength {
		return fmt.Errorf("auth.secret must be at least %d characters", security.MinSecretLength)
	}
	return nil
}

// Location resolves App.Timezone. Validate has already checked it.
func (cfg *Config) Location() *time.Location {
	location, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}
