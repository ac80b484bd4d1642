package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultEnv          = "dev"
	defaultDBPath       = "./sellsheet.db"
	defaultPort         = "8080"
	defaultLogLevel     = "info"
	defaultLogFormat    = "json"
	defaultCacheSize    = 256
	defaultCacheTTL     = 10 * time.Minute
	defaultMaxBodyBytes = 1 << 20
)

// Config holds application configuration sourced from the environment and an optional config file.
type Config struct {
	Env          string
	DBPath       string
	Port         string
	LogLevel     string
	LogFormat    string
	LogFile      string
	CacheSize    int
	CacheTTL     time.Duration
	MaxBodyBytes int64
}

// IsDev reports whether the application runs in the development environment.
func (c Config) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}

// Load reads .env (best effort), the environment and, when configFile is set, a config file.
// Environment variables take precedence over the file; an existing environment is never overwritten by .env.
func Load(configFile string) (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("app_env", defaultEnv)
	v.SetDefault("db_path", defaultDBPath)
	v.SetDefault("port", defaultPort)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("log_format", defaultLogFormat)
	v.SetDefault("log_file", "")
	v.SetDefault("cache_size", defaultCacheSize)
	v.SetDefault("cache_ttl", defaultCacheTTL)
	v.SetDefault("max_body_bytes", defaultMaxBodyBytes)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	cfg := Config{
		Env:          v.GetString("app_env"),
		DBPath:       v.GetString("db_path"),
		Port:         v.GetString("port"),
		LogLevel:     strings.ToLower(v.GetString("log_level")),
		LogFormat:    strings.ToLower(v.GetString("log_format")),
		LogFile:      v.GetString("log_file"),
		CacheSize:    v.GetInt("cache_size"),
		CacheTTL:     v.GetDuration("cache_ttl"),
		MaxBodyBytes: v.GetInt64("max_body_bytes"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH must not be empty")
	}
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("CACHE_SIZE must be greater than 0")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be greater than 0")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be greater than 0")
	}
	return nil
}
