package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/emi-planner/internal/config"
	"github.com/iwvelando/emi-planner/internal/tracing"
	"github.com/iwvelando/emi-planner/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Store backends
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address         string               `yaml:"address"`
	MaxUploadSize   string               `yaml:"maxUploadSize"`
	Logging         config.LoggingConfig `yaml:"logging"`
	Store           StoreConfig          `yaml:"store"`
	Tracing         tracing.Config       `yaml:"tracing"`
	uploadSizeBytes int64
}

// StoreConfig selects where saved loans are kept.
type StoreConfig struct {
	Backend string      `yaml:"backend"` // memory, redis
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig holds the redis connection used by the redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// Environment variables that override the YAML file.
const (
	EnvAddress       = "EMI_PLANNER_ADDRESS"
	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"
	EnvOTELEndpoint  = "OTEL_ENDPOINT"
)

func defaultConfig() *Config {
	return &Config{
		Address:         constants.DefaultServerAddress,
		MaxUploadSize:   fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes),
		Logging:         config.LoggingConfig{},
		Store:           StoreConfig{Backend: StoreMemory},
		Tracing:         tracing.Config{ServiceName: constants.DefaultServiceName},
		uploadSizeBytes: constants.DefaultMaxUploadSizeBytes,
	}
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error. Environment overrides are applied last.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read server config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse server config: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UploadSizeBytes returns the configured upload size in bytes.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// SetUploadSizeBytes overrides the configured upload size.
func (c *Config) SetUploadSizeBytes(size int64) {
	if size > 0 {
		c.uploadSizeBytes = size
		c.MaxUploadSize = fmt.Sprintf("%d", size)
	}
}

// applyEnv overrides fields from the environment. Setting REDIS_ADDR selects
// the redis backend.
func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(EnvAddress); v != "" {
		c.Address = v
	}
	if v := getenv(EnvRedisAddr); v != "" {
		c.Store.Backend = StoreRedis
		c.Store.Redis.Addr = v
	}
	if v := getenv(EnvRedisPassword); v != "" {
		c.Store.Redis.Password = v
	}
	if v := getenv(EnvRedisDB); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvRedisDB, v, err)
		}
		c.Store.Redis.DB = db
	}
	if v := getenv(EnvOTELEndpoint); v != "" {
		c.Tracing.Endpoint = v
	}
	return nil
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = constants.DefaultServiceName
	}

	switch strings.ToLower(strings.TrimSpace(c.Store.Backend)) {
	case "", StoreMemory:
		c.Store.Backend = StoreMemory
	case StoreRedis:
		c.Store.Backend = StoreRedis
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("redis store selected without an address")
		}
		if c.Store.Redis.Key == "" {
			c.Store.Redis.Key = constants.DefaultRedisKey
		}
	default:
		return fmt.Errorf("unsupported store backend %q", c.Store.Backend)
	}

	sizeStr := strings.TrimSpace(c.MaxUploadSize)
	if sizeStr == "" {
		c.uploadSizeBytes = constants.DefaultMaxUploadSizeBytes
		c.MaxUploadSize = fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadSizeBytes = bytes
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
