package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("NATS_ENABLED", "")
	t.Setenv("ROUND_POLL_INTERVAL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("unexpected storage driver: got=%q want=%q", cfg.StorageDriver, StorageMemory)
	}
	if cfg.RoundPollInterval != 30*time.Second {
		t.Fatalf("unexpected round poll interval: got=%s want=30s", cfg.RoundPollInterval)
	}
	if cfg.NATS.Enabled {
		t.Fatalf("expected NATS disabled by default")
	}
	if cfg.NATS.SubjectPrefix != "tournament" {
		t.Fatalf("unexpected subject prefix: %q", cfg.NATS.SubjectPrefix)
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_ProdRequiresAdminToken(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("ADMIN_TOKEN", "")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "ADMIN_TOKEN") {
		t.Fatalf("expected ADMIN_TOKEN error, got %v", err)
	}
}

func TestLoad_PostgresRequiresDBURL(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_DRIVER", StoragePostgres)
	t.Setenv("DB_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when STORAGE_DRIVER=postgres without DB_URL")
	}
}

func TestLoad_RejectsUnknownStorageDriver(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_DRIVER", "redis")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown STORAGE_DRIVER")
	}
}

func TestLoad_PollIntervalMustBePositive(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("ROUND_POLL_INTERVAL", "0s")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "ROUND_POLL_INTERVAL must be > 0") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_NATSConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("NATS_ENABLED", "true")
	t.Setenv("NATS_URL", "nats://nats:4222")
	t.Setenv("NATS_STREAM", "ROUNDS")
	t.Setenv("NATS_SUBJECT_PREFIX", "speedrun.")
	t.Setenv("NATS_TIMEOUT", "3s")
	t.Setenv("NATS_CIRCUIT_FAILURE_COUNT", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.NATS.Enabled || cfg.NATS.URL != "nats://nats:4222" || cfg.NATS.Stream != "ROUNDS" {
		t.Fatalf("unexpected NATS config: %+v", cfg.NATS)
	}
	if cfg.NATS.SubjectPrefix != "speedrun" {
		t.Fatalf("unexpected subject prefix: %q", cfg.NATS.SubjectPrefix)
	}
	if cfg.NATS.Timeout != 3*time.Second {
		t.Fatalf("unexpected NATS timeout: %s", cfg.NATS.Timeout)
	}
	if cfg.NATS.Circuit.FailureThreshold != 2 || !cfg.NATS.Circuit.Enabled {
		t.Fatalf("unexpected circuit config: %+v", cfg.NATS.Circuit)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestParseUptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Parallel()

	got := parseUptraceDSNFromOTLPHeaders(`foo=bar, uptrace-dsn="https://token@api.uptrace.dev/1"`)
	if got != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected dsn: %q", got)
	}
	if got := parseUptraceDSNFromOTLPHeaders(""); got != "" {
		t.Fatalf("unexpected dsn for empty headers: %q", got)
	}
}

func TestLoad_CacheSettings(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_TTL", "2m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.CacheEnabled {
		t.Fatalf("expected cache disabled")
	}
	if cfg.CacheTTL != 2*time.Minute {
		t.Fatalf("unexpected cache ttl: got=%s want=2m", cfg.CacheTTL)
	}

	t.Setenv("CACHE_TTL", "0s")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "CACHE_TTL") {
		t.Fatalf("expected CACHE_TTL error, got %v", err)
	}
}

func TestLoad_QStashConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("NATS_ENABLED", "false")
	t.Setenv("QSTASH_ENABLED", "true")
	t.Setenv("QSTASH_TOKEN", "token")
	t.Setenv("QSTASH_TARGET_BASE_URL", "https://bridge.example/hooks")
	t.Setenv("QSTASH_RETRIES", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.QStash.Enabled || cfg.QStash.BaseURL != "https://qstash.upstash.io" {
		t.Fatalf("unexpected qstash config: %+v", cfg.QStash)
	}
	if cfg.QStash.Retries != 0 || cfg.QStash.SubjectPrefix != "tournament" {
		t.Fatalf("unexpected qstash retries/prefix: %+v", cfg.QStash)
	}
}

func TestLoad_QStashRequiresTarget(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("QSTASH_ENABLED", "true")
	t.Setenv("QSTASH_TOKEN", "token")
	t.Setenv("QSTASH_TARGET_BASE_URL", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "QSTASH_TARGET_BASE_URL") {
		t.Fatalf("expected missing target error, got %v", err)
	}
}

func TestLoad_RejectsTwoGateTransports(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("NATS_ENABLED", "true")
	t.Setenv("QSTASH_ENABLED", "true")
	t.Setenv("QSTASH_TOKEN", "token")
	t.Setenv("QSTASH_TARGET_BASE_URL", "https://bridge.example")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when both gate transports are enabled")
	}
}
