package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv                string        `yaml:"app_env"`
	LogLevel              string        `yaml:"log_level"`
	DBPath                string        `yaml:"db_path"`
	DBDriver              string        `yaml:"db_driver"`
	RedisAddr             string        `yaml:"redis_addr"`
	RedisPassword         string        `yaml:"redis_password"`
	RedisDB               int           `yaml:"redis_db"`
	GRPCPort              int           `yaml:"grpc_port"`
	GRPCReflectionEnabled bool          `yaml:"grpc_reflection_enabled"`
	CacheTTL              time.Duration `yaml:"cache_ttl"`
	BaseBranch            string        `yaml:"base_branch"`
	RateLimitRPS          float64       `yaml:"rate_limit_rps"`
	RateLimitBurst        int           `yaml:"rate_limit_burst"`
}

// LoadFromEnv loads configuration from environment variables. When CONFIG_FILE
// is set, non-zero values from that YAML file override the environment.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		LogLevel:              getEnv("LOG_LEVEL", ""),
		DBPath:                getEnv("DB_PATH", "./data/lhci.db"),
		DBDriver:              getEnv("DB_DRIVER", "sqlite3"),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		RedisDB:               getEnvInt("REDIS_DB", 0),
		GRPCPort:              getEnvInt("GRPC_PORT", 50051),
		GRPCReflectionEnabled: getEnvBool("GRPC_REFLECTION_ENABLED", false),
		CacheTTL:              getEnvDuration("CACHE_TTL", 10*time.Minute),
		BaseBranch:            getEnv("BASE_BRANCH", "main"),
		RateLimitRPS:          getEnvFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst:        getEnvInt("RATE_LIMIT_BURST", 20),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto cfg. Keys absent from the file
// or set to zero values leave cfg unchanged.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	overlay(&c.AppEnv, file.AppEnv)
	overlay(&c.LogLevel, file.LogLevel)
	overlay(&c.DBPath, file.DBPath)
	overlay(&c.DBDriver, file.DBDriver)
	overlay(&c.RedisAddr, file.RedisAddr)
	overlay(&c.RedisPassword, file.RedisPassword)
	overlay(&c.RedisDB, file.RedisDB)
	overlay(&c.GRPCPort, file.GRPCPort)
	overlay(&c.GRPCReflectionEnabled, file.GRPCReflectionEnabled)
	overlay(&c.CacheTTL, file.CacheTTL)
	overlay(&c.BaseBranch, file.BaseBranch)
	overlay(&c.RateLimitRPS, file.RateLimitRPS)
	overlay(&c.RateLimitBurst, file.RateLimitBurst)
	return nil
}

func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.AppEnv == "production" {
		zc = zap.NewProductionConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	return zc.Build()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}
