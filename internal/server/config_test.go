package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/emi-planner/pkg/constants"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvAddress, EnvRedisAddr, EnvRedisPassword, EnvRedisDB, EnvOTELEndpoint} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != constants.DefaultServerAddress {
		t.Fatalf("expected default address, got %q", cfg.Address)
	}
	if cfg.UploadSizeBytes() <= 0 {
		t.Fatalf("expected positive default max upload size, got %d", cfg.UploadSizeBytes())
	}
	if cfg.Logging.Level != "" || cfg.Logging.Format != "" || cfg.Logging.OutputFile != "" {
		t.Fatalf("expected empty logging defaults, got %+v", cfg.Logging)
	}
	if cfg.Store.Backend != StoreMemory {
		t.Fatalf("expected memory store by default, got %s", cfg.Store.Backend)
	}
	if cfg.Tracing.ServiceName != constants.DefaultServiceName || cfg.Tracing.Endpoint != "" {
		t.Fatalf("unexpected tracing defaults %+v", cfg.Tracing)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "server-config.yaml")

	contents := []byte(`address: 127.0.0.1:9000
maxUploadSize: 2M
logging:
  level: debug
  format: console
  outputFile: /tmp/server.log
store:
  backend: redis
  redis:
    addr: localhost:6379
    db: 2
tracing:
  endpoint: collector:4318
  insecure: true
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Fatalf("expected address override, got %s", cfg.Address)
	}
	if cfg.UploadSizeBytes() != 2*1024*1024 {
		t.Fatalf("expected max upload override, got %d", cfg.UploadSizeBytes())
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" || cfg.Logging.OutputFile != "/tmp/server.log" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
	if cfg.Store.Backend != StoreRedis || cfg.Store.Redis.Addr != "localhost:6379" || cfg.Store.Redis.DB != 2 {
		t.Fatalf("unexpected store config %+v", cfg.Store)
	}
	if cfg.Store.Redis.Key != constants.DefaultRedisKey {
		t.Fatalf("expected default redis key, got %s", cfg.Store.Redis.Key)
	}
	if cfg.Tracing.Endpoint != "collector:4318" || !cfg.Tracing.Insecure {
		t.Fatalf("unexpected tracing config %+v", cfg.Tracing)
	}
}

func TestLoadConfigEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAddress, ":9999")
	t.Setenv(EnvRedisAddr, "redis:6379")
	t.Setenv(EnvRedisDB, "3")
	t.Setenv(EnvOTELEndpoint, "otel:4318")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Address != ":9999" {
		t.Fatalf("expected address from environment, got %s", cfg.Address)
	}
	if cfg.Store.Backend != StoreRedis || cfg.Store.Redis.Addr != "redis:6379" || cfg.Store.Redis.DB != 3 {
		t.Fatalf("REDIS_ADDR should select redis, got %+v", cfg.Store)
	}
	if cfg.Tracing.Endpoint != "otel:4318" {
		t.Fatalf("expected tracing endpoint from environment, got %s", cfg.Tracing.Endpoint)
	}

	t.Setenv(EnvRedisDB, "two")
	if _, err := LoadConfig(""); err == nil {
		t.Fatal("expected error for a non-numeric REDIS_DB")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	clearEnv(t)
	tests := map[string]string{
		"bad size":            "maxUploadSize: invalid",
		"unknown backend":     "store:\n  backend: postgres",
		"redis without addr":  "store:\n  backend: redis",
		"not a yaml document": "address: [",
	}

	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
				t.Fatalf("failed to write temp config: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Fatal("expected error but got nil")
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":          constants.DefaultMaxUploadSizeBytes,
		"1024":      1024,
		"512b":      512,
		"256K":      256 * 1024,
		"1m":        1024 * 1024,
		"3MB":       3 * 1024 * 1024,
		"2G":        2 * 1024 * 1024 * 1024,
		"  4096   ": 4096,
	}

	for input, expected := range tests {
		got, err := ParseSize(input)
		if err != nil {
			t.Fatalf("parseSize(%q) returned error: %v", input, err)
		}
		if got != expected {
			t.Fatalf("parseSize(%q) = %d, expected %d", input, got, expected)
		}
	}

	if _, err := ParseSize("1TB"); err == nil {
		t.Fatal("expected error for unsupported unit")
	}
	if _, err := ParseSize("abc"); err == nil {
		t.Fatal("expected error for invalid number")
	}
}
