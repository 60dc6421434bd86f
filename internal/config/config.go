package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/speedrun-tournament/internal/platform/logging"
	"github.com/riskibarqy/speedrun-tournament/internal/platform/resilience"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                 string
	ServiceName            string
	ServiceVersion         string
	HTTPAddr               string
	ReadTimeout            time.Duration
	WriteTimeout           time.Duration
	LogLevel               logging.Level
	CORSAllowedOrigins     []string
	StorageDriver          string
	DBURL                  string
	DBBinaryParameters     bool
	DBMaxOpenConns         int
	CacheEnabled           bool
	CacheTTL               time.Duration
	RoundPollInterval      time.Duration
	AnnouncementInterval   time.Duration
	RoundCloseWorkers      int
	AnnouncementWorkers    int
	AdminToken             string
	NATS                   NATSConfig
	QStash                 QStashConfig
	UptraceEnabled         bool
	UptraceDSN             string
	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration
	PprofEnabled           bool
	PprofAddr              string
}

// QStashConfig routes gate messages through QStash to the chat bridge's webhook.
type QStashConfig struct {
	Enabled       bool
	BaseURL       string
	Token         string
	TargetBaseURL string
	BridgeToken   string
	SubjectPrefix string
	Retries       int
	Timeout       time.Duration
	Circuit       resilience.CircuitBreakerConfig
}

type NATSConfig struct {
	Enabled       bool
	URL           string
	Stream        string
	SubjectPrefix string
	MaxReconnect  int
	ReconnectWait time.Duration
	Timeout       time.Duration
	Circuit       resilience.CircuitBreakerConfig
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "speedrun-tournament-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:           logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		AdminToken:         strings.TrimSpace(getEnv("ADMIN_TOKEN", "")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if appEnv == EnvProd && cfg.AdminToken == "" {
		return Config{}, fmt.Errorf("ADMIN_TOKEN is required when APP_ENV=%s", EnvProd)
	}

	if cfg.ReadTimeout, err = getEnvAsDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsDuration("APP_WRITE_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}

	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", StorageMemory)))
	switch cfg.StorageDriver {
	case StorageMemory, StoragePostgres:
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_DRIVER %q: valid values are %s, %s", cfg.StorageDriver, StorageMemory, StoragePostgres)
	}
	cfg.DBURL = strings.TrimSpace(getEnv("DB_URL", ""))
	if cfg.StorageDriver == StoragePostgres && cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
	}
	if cfg.DBBinaryParameters, err = getEnvAsBool("DB_BINARY_PARAMETERS", "true"); err != nil {
		return Config{}, err
	}
	if cfg.DBMaxOpenConns, err = getEnvAsPositiveInt("DB_MAX_OPEN_CONNS", 10); err != nil {
		return Config{}, err
	}

	if cfg.CacheEnabled, err = getEnvAsBool("CACHE_ENABLED", "true"); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = getEnvAsDuration("CACHE_TTL", "60s"); err != nil {
		return Config{}, err
	}

	if cfg.RoundPollInterval, err = getEnvAsDuration("ROUND_POLL_INTERVAL", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.AnnouncementInterval, err = getEnvAsDuration("ANNOUNCEMENT_POLL_INTERVAL", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.RoundCloseWorkers, err = getEnvAsPositiveInt("ROUND_CLOSE_WORKERS", 4); err != nil {
		return Config{}, err
	}
	if cfg.AnnouncementWorkers, err = getEnvAsPositiveInt("ANNOUNCEMENT_WORKERS", 4); err != nil {
		return Config{}, err
	}

	if cfg.NATS, err = loadNATS(); err != nil {
		return Config{}, err
	}
	if cfg.QStash, err = loadQStash(); err != nil {
		return Config{}, err
	}
	if cfg.NATS.Enabled && cfg.QStash.Enabled {
		return Config{}, fmt.Errorf("NATS_ENABLED and QSTASH_ENABLED cannot both be true")
	}

	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeUploadRate, err = getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return Config{}, err
	}

	if cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", "127.0.0.1:6060"))

	return cfg, nil
}

func loadNATS() (NATSConfig, error) {
	var (
		out NATSConfig
		err error
	)
	if out.Enabled, err = getEnvAsBool("NATS_ENABLED", "false"); err != nil {
		return NATSConfig{}, err
	}
	out.URL = strings.TrimSpace(getEnv("NATS_URL", "nats://127.0.0.1:4222"))
	out.Stream = strings.TrimSpace(getEnv("NATS_STREAM", "TOURNAMENT"))
	out.SubjectPrefix = strings.Trim(strings.TrimSpace(getEnv("NATS_SUBJECT_PREFIX", "tournament")), ".")
	if out.Enabled {
		if out.URL == "" {
			return NATSConfig{}, fmt.Errorf("NATS_URL is required when NATS_ENABLED=true")
		}
		if out.Stream == "" || out.SubjectPrefix == "" {
			return NATSConfig{}, fmt.Errorf("NATS_STREAM and NATS_SUBJECT_PREFIX are required when NATS_ENABLED=true")
		}
	}

	if out.MaxReconnect, err = getEnvAsInt("NATS_MAX_RECONNECT", 10); err != nil {
		return NATSConfig{}, fmt.Errorf("parse NATS_MAX_RECONNECT: %w", err)
	}
	if out.ReconnectWait, err = getEnvAsDuration("NATS_RECONNECT_WAIT", "2s"); err != nil {
		return NATSConfig{}, err
	}
	if out.Timeout, err = getEnvAsDuration("NATS_TIMEOUT", "5s"); err != nil {
		return NATSConfig{}, err
	}

	if out.Circuit.Enabled, err = getEnvAsBool("NATS_CIRCUIT_ENABLED", "true"); err != nil {
		return NATSConfig{}, err
	}
	if out.Circuit.FailureThreshold, err = getEnvAsPositiveInt("NATS_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return NATSConfig{}, err
	}
	if out.Circuit.OpenTimeout, err = getEnvAsDuration("NATS_CIRCUIT_OPEN_TIMEOUT", "15s"); err != nil {
		return NATSConfig{}, err
	}
	if out.Circuit.HalfOpenMaxReq, err = getEnvAsPositiveInt("NATS_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return NATSConfig{}, err
	}
	return out, nil
}

func loadQStash() (QStashConfig, error) {
	var (
		out QStashConfig
		err error
	)
	if out.Enabled, err = getEnvAsBool("QSTASH_ENABLED", "false"); err != nil {
		return QStashConfig{}, err
	}
	out.BaseURL = strings.TrimSpace(getEnv("QSTASH_BASE_URL", "https://qstash.upstash.io"))
	out.Token = strings.TrimSpace(getEnv("QSTASH_TOKEN", ""))
	out.TargetBaseURL = strings.TrimSpace(getEnv("QSTASH_TARGET_BASE_URL", ""))
	out.BridgeToken = strings.TrimSpace(getEnv("QSTASH_BRIDGE_TOKEN", ""))
	out.SubjectPrefix = strings.Trim(strings.TrimSpace(getEnv("QSTASH_SUBJECT_PREFIX", "tournament")), ".")
	if out.Enabled {
		if out.Token == "" {
			return QStashConfig{}, fmt.Errorf("QSTASH_TOKEN is required when QSTASH_ENABLED=true")
		}
		if out.TargetBaseURL == "" {
			return QStashConfig{}, fmt.Errorf("QSTASH_TARGET_BASE_URL is required when QSTASH_ENABLED=true")
		}
	}

	if out.Retries, err = getEnvAsInt("QSTASH_RETRIES", 3); err != nil {
		return QStashConfig{}, fmt.Errorf("parse QSTASH_RETRIES: %w", err)
	}
	if out.Retries < 0 {
		return QStashConfig{}, fmt.Errorf("QSTASH_RETRIES must be >= 0")
	}
	if out.Timeout, err = getEnvAsDuration("QSTASH_TIMEOUT", "10s"); err != nil {
		return QStashConfig{}, err
	}

	if out.Circuit.Enabled, err = getEnvAsBool("QSTASH_CIRCUIT_ENABLED", "true"); err != nil {
		return QStashConfig{}, err
	}
	if out.Circuit.FailureThreshold, err = getEnvAsPositiveInt("QSTASH_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return QStashConfig{}, err
	}
	if out.Circuit.OpenTimeout, err = getEnvAsDuration("QSTASH_CIRCUIT_OPEN_TIMEOUT", "30s"); err != nil {
		return QStashConfig{}, err
	}
	if out.Circuit.HalfOpenMaxReq, err = getEnvAsPositiveInt("QSTASH_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return QStashConfig{}, err
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}

func getEnvAsPositiveInt(key string, fallback int) (int, error) {
	value, err := getEnvAsInt(key, fallback)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value < 1 {
		return 0, fmt.Errorf("%s must be >= 1", key)
	}
	return value, nil
}

func getEnvAsBool(key, fallback string) (bool, error) {
	value, err := strconv.ParseBool(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	value, err := time.ParseDuration(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return value, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	for _, item := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if ok && strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(value), "\"'")
		}
	}
	return ""
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
