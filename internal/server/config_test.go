package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iwvelando/debt-payoff/pkg/constants"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != constants.DefaultServerAddress {
		t.Fatalf("expected default address, got %q", cfg.Address)
	}
	if cfg.BodySizeBytes() != constants.DefaultMaxBodySizeBytes {
		t.Fatalf("expected default max body size, got %d", cfg.BodySizeBytes())
	}
	if cfg.Simulation.SafetyCapMonths != constants.DefaultSafetyCapMonths {
		t.Fatalf("expected default safety cap, got %d", cfg.Simulation.SafetyCapMonths)
	}
	if cfg.Tracing.ServiceName != constants.DefaultServiceName {
		t.Fatalf("expected default service name, got %q", cfg.Tracing.ServiceName)
	}
	if cfg.Logging.Level != "" || cfg.Logging.Format != "" || cfg.Logging.OutputFile != "" {
		t.Fatalf("expected empty logging defaults, got %+v", cfg.Logging)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server-config.yaml")

	contents := []byte(`address: 127.0.0.1:9000
maxBodySize: 256K
logging:
  level: debug
  format: console
loansFile: loans.yaml
database:
  dsn: postgres://payoff@localhost/payoff?sslmode=disable
  ensureSchema: true
redis:
  address: localhost:6379
  ttl: 15m
tracing:
  endpoint: localhost:4318
  serviceName: payoff-api
simulation:
  safetyCapMonths: 360
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
	if cfg.BodySizeBytes() != 256*1024 {
		t.Fatalf("expected max body override, got %d", cfg.BodySizeBytes())
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
	if cfg.LoansFile != "loans.yaml" {
		t.Fatalf("expected loansFile loans.yaml, got %s", cfg.LoansFile)
	}
	if !cfg.Database.EnsureSchema || cfg.Database.DSN == "" {
		t.Fatalf("unexpected database config %+v", cfg.Database)
	}
	if cfg.Redis.Address != "localhost:6379" || cfg.RedisTTL() != 15*time.Minute {
		t.Fatalf("unexpected redis config %+v ttl %v", cfg.Redis, cfg.RedisTTL())
	}
	if cfg.Tracing.Endpoint != "localhost:4318" || cfg.Tracing.ServiceName != "payoff-api" {
		t.Fatalf("unexpected tracing config %+v", cfg.Tracing)
	}
	if cfg.Simulation.SafetyCapMonths != 360 {
		t.Fatalf("expected safety cap 360, got %d", cfg.Simulation.SafetyCapMonths)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"Bad size":     "maxBodySize: invalid",
		"Bad ttl":      "redis:\n  ttl: soon",
		"Bad yaml":     "address: [unterminated",
		"Negative ttl": "redis:\n  ttl: -5m",
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

func TestApplyEnvFromDotenv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	contents := []byte("DATABASE_URL=postgres://from-file/payoff\nREDIS_ADDR=cache:6379\n")
	if err := os.WriteFile(envPath, contents, 0600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Setenv(EnvRedisAddress, "process:6379")
	t.Setenv(EnvOTELEndpoint, "collector:4318")

	lookup, err := EnvLookup(envPath)
	if err != nil {
		t.Fatalf("EnvLookup() error = %v", err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	cfg.ApplyEnv(lookup)

	if cfg.Database.DSN != "postgres://from-file/payoff" {
		t.Errorf("DSN = %q, expected the .env value", cfg.Database.DSN)
	}
	if cfg.Redis.Address != "process:6379" {
		t.Errorf("Redis.Address = %q, expected the process value to win", cfg.Redis.Address)
	}
	if cfg.Tracing.Endpoint != "collector:4318" {
		t.Errorf("Tracing.Endpoint = %q", cfg.Tracing.Endpoint)
	}
}

func TestEnvLookupMissingFile(t *testing.T) {
	if _, err := EnvLookup(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("EnvLookup() error = %v, expected missing file to be ignored", err)
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":          constants.DefaultMaxBodySizeBytes,
		"1024":      1024,
		"512b":      512,
		"256K":      256 * 1024,
		"1m":        1024 * 1024,
		"3MB":       3 * 1024 * 1024,
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

func TestSetBodySizeBytes(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	cfg.SetBodySizeBytes(0)
	if cfg.BodySizeBytes() != constants.DefaultMaxBodySizeBytes {
		t.Fatalf("non-positive override should be ignored, got %d", cfg.BodySizeBytes())
	}

	cfg.SetBodySizeBytes(2048)
	if cfg.BodySizeBytes() != 2048 || cfg.MaxBodySize != "2048" {
		t.Fatalf("expected 2048 byte limit, got %d (%s)", cfg.BodySizeBytes(), cfg.MaxBodySize)
	}
}
