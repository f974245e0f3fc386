package config

import (
	"log/slog"
	"testing"
	"time"
)

// allEnvs — все переменные, читаемые Load(). Очищаются перед каждым тестом,
// чтобы окружение CI не влияло на результат.
var allEnvs = []string{
	"EC_PORT", "EC_LOG_LEVEL", "EC_LOG_FORMAT",
	"EC_API_URL", "EC_API_TIMEOUT", "EC_API_CA_CERT_PATH", "EC_API_HEALTH_PATH",
	"EC_SESSION_SECRET", "EC_SECURE_COOKIE",
	"EC_JWT_JWKS_URL", "EC_JWT_ISSUER", "EC_JWKS_REFRESH_INTERVAL", "EC_SESSION_TTL",
	"EC_DB_HOST", "EC_DB_PORT", "EC_DB_NAME", "EC_DB_USER", "EC_DB_PASSWORD",
	"EC_DB_SSL_MODE", "EC_DB_MAX_CONNS",
	"EC_DEFAULT_PAGE_SIZE", "EC_EVENTS_CACHE_SIZE", "EC_EVENTS_CACHE_TTL",
	"EC_DEPHEALTH_GROUP", "EC_DEPHEALTH_CHECK_INTERVAL", "EC_SSE_INTERVAL",
	"EC_SHUTDOWN_TIMEOUT",
}

// setEnvs очищает все переменные конфигурации и устанавливает переданные.
func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for _, k := range allEnvs {
		t.Setenv(k, "")
	}
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

// minimalEnvs возвращает минимальный набор обязательных переменных.
func minimalEnvs() map[string]string {
	return map[string]string{
		"EC_API_URL": "https://events.example.com/api/",
	}
}

// dbEnvs возвращает минимальный набор с включённым PostgreSQL.
func dbEnvs() map[string]string {
	envs := minimalEnvs()
	envs["EC_DB_HOST"] = "localhost"
	envs["EC_DB_NAME"] = "console"
	envs["EC_DB_USER"] = "console"
	envs["EC_DB_PASSWORD"] = "secret"
	return envs
}

func TestLoad_MinimalConfig(t *testing.T) {
	setEnvs(t, minimalEnvs())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	if cfg.Port != 8000 {
		t.Errorf("Port = %d, ожидается 8000", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, ожидается Info", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, ожидается json", cfg.LogFormat)
	}
	if cfg.APIURL != "https://events.example.com/api" {
		t.Errorf("APIURL = %q, ожидается без trailing slash", cfg.APIURL)
	}
	if cfg.APITimeout != 15*time.Second {
		t.Errorf("APITimeout = %v, ожидается 15s", cfg.APITimeout)
	}
	if cfg.APIHealthPath != "/health" {
		t.Errorf("APIHealthPath = %q, ожидается /health", cfg.APIHealthPath)
	}
	if !cfg.SecureCookie {
		t.Error("SecureCookie = false, ожидается true")
	}
	if cfg.JWKSRefreshInterval != 15*time.Minute {
		t.Errorf("JWKSRefreshInterval = %v, ожидается 15m", cfg.JWKSRefreshInterval)
	}
	if cfg.SessionTTL != 8*time.Hour {
		t.Errorf("SessionTTL = %v, ожидается 8h", cfg.SessionTTL)
	}
	if cfg.DBEnabled() {
		t.Error("DBEnabled() = true без EC_DB_HOST")
	}
	if cfg.DefaultPageSize != 10 {
		t.Errorf("DefaultPageSize = %d, ожидается 10", cfg.DefaultPageSize)
	}
	if cfg.EventsCacheSize != 256 {
		t.Errorf("EventsCacheSize = %d, ожидается 256", cfg.EventsCacheSize)
	}
	if cfg.EventsCacheTTL != time.Minute {
		t.Errorf("EventsCacheTTL = %v, ожидается 1m", cfg.EventsCacheTTL)
	}
	if cfg.DephealthGroup != "event-console" {
		t.Errorf("DephealthGroup = %q, ожидается event-console", cfg.DephealthGroup)
	}
	if cfg.DephealthCheckInterval != 15*time.Second {
		t.Errorf("DephealthCheckInterval = %v, ожидается 15s", cfg.DephealthCheckInterval)
	}
	if cfg.SSEInterval != 15*time.Second {
		t.Errorf("SSEInterval = %v, ожидается 15s", cfg.SSEInterval)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, ожидается 5s", cfg.ShutdownTimeout)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	envs := dbEnvs()
	envs["EC_PORT"] = "9090"
	envs["EC_LOG_LEVEL"] = "debug"
	envs["EC_LOG_FORMAT"] = "text"
	envs["EC_API_TIMEOUT"] = "3s"
	envs["EC_API_CA_CERT_PATH"] = "/certs/ca.pem"
	envs["EC_API_HEALTH_PATH"] = "/ping"
	envs["EC_SECURE_COOKIE"] = "false"
	envs["EC_JWT_JWKS_URL"] = "https://events.example.com/.well-known/jwks.json"
	envs["EC_JWT_ISSUER"] = "events"
	envs["EC_DB_PORT"] = "5433"
	envs["EC_DB_SSL_MODE"] = "require"
	envs["EC_DB_MAX_CONNS"] = "8"
	envs["EC_DEFAULT_PAGE_SIZE"] = "20"
	envs["EC_EVENTS_CACHE_TTL"] = "30s"
	envs["EC_SSE_INTERVAL"] = "5s"
	envs["EC_SHUTDOWN_TIMEOUT"] = "10s"
	setEnvs(t, envs)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Port = %d, ожидается 9090", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, ожидается Debug", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, ожидается text", cfg.LogFormat)
	}
	if cfg.APITimeout != 3*time.Second {
		t.Errorf("APITimeout = %v, ожидается 3s", cfg.APITimeout)
	}
	if cfg.APICACertPath != "/certs/ca.pem" {
		t.Errorf("APICACertPath = %q, ожидается /certs/ca.pem", cfg.APICACertPath)
	}
	if cfg.APIHealthPath != "/ping" {
		t.Errorf("APIHealthPath = %q, ожидается /ping", cfg.APIHealthPath)
	}
	if cfg.SecureCookie {
		t.Error("SecureCookie = true, ожидается false")
	}
	if cfg.JWTIssuer != "events" {
		t.Errorf("JWTIssuer = %q, ожидается events", cfg.JWTIssuer)
	}
	if !cfg.DBEnabled() {
		t.Error("DBEnabled() = false при заданном EC_DB_HOST")
	}
	if cfg.DBPort != 5433 {
		t.Errorf("DBPort = %d, ожидается 5433", cfg.DBPort)
	}
	if cfg.DBSSLMode != "require" {
		t.Errorf("DBSSLMode = %q, ожидается require", cfg.DBSSLMode)
	}
	if cfg.DBMaxConns != 8 {
		t.Errorf("DBMaxConns = %d, ожидается 8", cfg.DBMaxConns)
	}
	if cfg.DefaultPageSize != 20 {
		t.Errorf("DefaultPageSize = %d, ожидается 20", cfg.DefaultPageSize)
	}
	if cfg.EventsCacheTTL != 30*time.Second {
		t.Errorf("EventsCacheTTL = %v, ожидается 30s", cfg.EventsCacheTTL)
	}
	if cfg.SSEInterval != 5*time.Second {
		t.Errorf("SSEInterval = %v, ожидается 5s", cfg.SSEInterval)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, ожидается 10s", cfg.ShutdownTimeout)
	}
}

func TestLoad_MissingAPIURL(t *testing.T) {
	setEnvs(t, nil)

	if _, err := Load(); err == nil {
		t.Error("Load() не вернул ошибку при отсутствии EC_API_URL")
	}
}

func TestLoad_MissingDBRequired(t *testing.T) {
	for _, missing := range []string{"EC_DB_NAME", "EC_DB_USER", "EC_DB_PASSWORD"} {
		t.Run(missing, func(t *testing.T) {
			envs := dbEnvs()
			delete(envs, missing)
			setEnvs(t, envs)

			if _, err := Load(); err == nil {
				t.Errorf("Load() не вернул ошибку при отсутствии %s", missing)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"порт не число", "EC_PORT", "abc"},
		{"порт вне диапазона", "EC_PORT", "70000"},
		{"уровень логов", "EC_LOG_LEVEL", "verbose"},
		{"формат логов", "EC_LOG_FORMAT", "xml"},
		{"URL без схемы", "EC_API_URL", "events.example.com"},
		{"URL ftp", "EC_API_URL", "ftp://events.example.com"},
		{"health без слэша", "EC_API_HEALTH_PATH", "health"},
		{"таймаут", "EC_API_TIMEOUT", "abc"},
		{"secure cookie", "EC_SECURE_COOKIE", "maybe"},
		{"session ttl", "EC_SESSION_TTL", "0s"},
		{"размер страницы", "EC_DEFAULT_PAGE_SIZE", "15"},
		{"размер кэша", "EC_EVENTS_CACHE_SIZE", "0"},
		{"интервал SSE", "EC_SSE_INTERVAL", "100ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envs := minimalEnvs()
			envs[tt.key] = tt.value
			setEnvs(t, envs)

			if _, err := Load(); err == nil {
				t.Errorf("Load() не вернул ошибку при %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_InvalidSSLMode(t *testing.T) {
	envs := dbEnvs()
	envs["EC_DB_SSL_MODE"] = "prefer"
	setEnvs(t, envs)

	if _, err := Load(); err == nil {
		t.Error("Load() не вернул ошибку при EC_DB_SSL_MODE=prefer")
	}
}

func TestLoad_InvalidMaxConns(t *testing.T) {
	envs := dbEnvs()
	envs["EC_DB_MAX_CONNS"] = "0"
	setEnvs(t, envs)

	if _, err := Load(); err == nil {
		t.Error("Load() не вернул ошибку при EC_DB_MAX_CONNS=0")
	}
}

func TestLoad_SSLModeIgnoredWithoutDB(t *testing.T) {
	envs := minimalEnvs()
	envs["EC_DB_SSL_MODE"] = "prefer"
	setEnvs(t, envs)

	if _, err := Load(); err != nil {
		t.Fatalf("Load() вернул ошибку без EC_DB_HOST: %v", err)
	}
}

func TestDatabaseDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "db.example.com",
		DBPort:     5432,
		DBName:     "console",
		DBUser:     "user",
		DBPassword: "pass",
		DBSSLMode:  "disable",
	}
	expected := "host=db.example.com port=5432 dbname=console user=user password=pass sslmode=disable"
	if dsn := cfg.DatabaseDSN(); dsn != expected {
		t.Errorf("DatabaseDSN() = %q, ожидается %q", dsn, expected)
	}
}

func TestDatabaseURL_NoPassword(t *testing.T) {
	cfg := &Config{
		DBHost:     "db.example.com",
		DBPort:     5432,
		DBName:     "console",
		DBUser:     "user",
		DBPassword: "pass",
	}
	expected := "postgres://user@db.example.com:5432/console"
	if got := cfg.DatabaseURL(); got != expected {
		t.Errorf("DatabaseURL() = %q, ожидается %q", got, expected)
	}
}

func TestSetupLogger(t *testing.T) {
	for _, format := range []string{"json", "text"} {
		t.Run(format, func(t *testing.T) {
			cfg := &Config{
				LogLevel:  slog.LevelInfo,
				LogFormat: format,
			}
			if logger := SetupLogger(cfg); logger == nil {
				t.Error("SetupLogger() вернул nil")
			}
		})
	}
}
