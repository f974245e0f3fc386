// Пакет config — загрузка и валидация конфигурации Event Console
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Допустимые размеры страницы таблиц.
var validPageSizes = map[int]bool{5: true, 10: true, 20: true}

// Config содержит все параметры конфигурации Event Console.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- Events API ---

	// Базовый URL Events API (например, https://api.example.com/api)
	APIURL string
	// Таймаут запросов к Events API
	APITimeout time.Duration
	// Путь к CA-сертификату для TLS-соединений с Events API (опционально)
	APICACertPath string
	// Путь health endpoint Events API для topologymetrics
	APIHealthPath string

	// --- Сессия ---

	// Секрет для шифрования session cookie (пусто — случайный ключ)
	SessionSecret string
	// Флаг Secure для cookie
	SecureCookie bool

	// --- JWT (проверка срока действия токена бэкенда) ---

	// URL JWKS endpoint (пусто — подпись не проверяется, читается только exp)
	JWTJWKSURL string
	// Ожидаемый issuer токена (опционально)
	JWTIssuer string
	// Интервал обновления JWKS
	JWKSRefreshInterval time.Duration
	// Срок жизни сессии для токенов без exp
	SessionTTL time.Duration

	// --- PostgreSQL (опционально) ---

	// Хост PostgreSQL (пусто — умолчания таблиц хранятся в памяти)
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string
	// Максимум соединений в пуле
	DBMaxConns int

	// --- Таблицы ---

	// Размер страницы по умолчанию (5, 10, 20)
	DefaultPageSize int

	// --- Кэш мероприятий ---

	// Максимальное количество токенов в кэше списка мероприятий
	EventsCacheSize int
	// Время жизни записи кэша мероприятий
	EventsCacheTTL time.Duration

	// --- Мониторинг ---

	// Группа в метриках topologymetrics
	DephealthGroup string
	// Интервал проверки зависимостей topologymetrics
	DephealthCheckInterval time.Duration
	// Интервал отправки статуса через SSE
	SSEInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// EC_PORT — порт HTTP-сервера (по умолчанию 8000)
	cfg.Port, err = getEnvInt("EC_PORT", 8000)
	if err != nil {
		return nil, fmt.Errorf("EC_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("EC_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// EC_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("EC_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("EC_LOG_LEVEL: %w", err)
	}

	// EC_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("EC_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("EC_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- Events API ---

	// EC_API_URL — обязательный
	cfg.APIURL, err = getEnvRequired("EC_API_URL")
	if err != nil {
		return nil, err
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	u, err := url.Parse(cfg.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("EC_API_URL: некорректный URL %q", cfg.APIURL)
	}

	// EC_API_TIMEOUT — таймаут запросов (по умолчанию 15s)
	cfg.APITimeout, err = getEnvDuration("EC_API_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("EC_API_TIMEOUT: %w", err)
	}

	// EC_API_CA_CERT_PATH — путь к CA-сертификату (опционально)
	cfg.APICACertPath = getEnvDefault("EC_API_CA_CERT_PATH", "")

	// EC_API_HEALTH_PATH — health endpoint бэкенда (по умолчанию /health)
	cfg.APIHealthPath = getEnvDefault("EC_API_HEALTH_PATH", "/health")
	if !strings.HasPrefix(cfg.APIHealthPath, "/") {
		return nil, fmt.Errorf("EC_API_HEALTH_PATH: путь должен начинаться с '/': %q", cfg.APIHealthPath)
	}

	// --- Сессия ---

	// EC_SESSION_SECRET — секрет cookie (опционально)
	cfg.SessionSecret = getEnvDefault("EC_SESSION_SECRET", "")

	// EC_SECURE_COOKIE — флаг Secure (по умолчанию true)
	cfg.SecureCookie, err = getEnvBool("EC_SECURE_COOKIE", true)
	if err != nil {
		return nil, fmt.Errorf("EC_SECURE_COOKIE: %w", err)
	}

	// --- JWT ---

	cfg.JWTJWKSURL = getEnvDefault("EC_JWT_JWKS_URL", "")
	cfg.JWTIssuer = getEnvDefault("EC_JWT_ISSUER", "")

	// EC_JWKS_REFRESH_INTERVAL — интервал обновления JWKS (по умолчанию 15m)
	cfg.JWKSRefreshInterval, err = getEnvDuration("EC_JWKS_REFRESH_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("EC_JWKS_REFRESH_INTERVAL: %w", err)
	}

	// EC_SESSION_TTL — срок сессии для токенов без exp (по умолчанию 8h)
	cfg.SessionTTL, err = getEnvDuration("EC_SESSION_TTL", 8*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("EC_SESSION_TTL: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("EC_SESSION_TTL: значение должно быть положительным")
	}

	// --- PostgreSQL ---

	// EC_DB_HOST — опциональный; если задан, остальные параметры обязательны
	cfg.DBHost = getEnvDefault("EC_DB_HOST", "")
	if cfg.DBHost != "" {
		cfg.DBPort, err = getEnvInt("EC_DB_PORT", 5432)
		if err != nil {
			return nil, fmt.Errorf("EC_DB_PORT: %w", err)
		}
		if cfg.DBName, err = getEnvRequired("EC_DB_NAME"); err != nil {
			return nil, err
		}
		if cfg.DBUser, err = getEnvRequired("EC_DB_USER"); err != nil {
			return nil, err
		}
		if cfg.DBPassword, err = getEnvRequired("EC_DB_PASSWORD"); err != nil {
			return nil, err
		}
		cfg.DBSSLMode = getEnvDefault("EC_DB_SSL_MODE", "disable")
		validSSLModes := map[string]bool{
			"disable": true, "require": true, "verify-ca": true, "verify-full": true,
		}
		if !validSSLModes[cfg.DBSSLMode] {
			return nil, fmt.Errorf("EC_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
		}
		// EC_DB_MAX_CONNS — размер пула (по умолчанию 4)
		cfg.DBMaxConns, err = getEnvInt("EC_DB_MAX_CONNS", 4)
		if err != nil {
			return nil, fmt.Errorf("EC_DB_MAX_CONNS: %w", err)
		}
		if cfg.DBMaxConns < 1 {
			return nil, fmt.Errorf("EC_DB_MAX_CONNS: значение %d должно быть положительным", cfg.DBMaxConns)
		}
	}

	// --- Таблицы ---

	// EC_DEFAULT_PAGE_SIZE — размер страницы (по умолчанию 10)
	cfg.DefaultPageSize, err = getEnvInt("EC_DEFAULT_PAGE_SIZE", 10)
	if err != nil {
		return nil, fmt.Errorf("EC_DEFAULT_PAGE_SIZE: %w", err)
	}
	if !validPageSizes[cfg.DefaultPageSize] {
		return nil, fmt.Errorf("EC_DEFAULT_PAGE_SIZE: недопустимое значение %d, допустимые: 5, 10, 20", cfg.DefaultPageSize)
	}

	// --- Кэш мероприятий ---

	cfg.EventsCacheSize, err = getEnvInt("EC_EVENTS_CACHE_SIZE", 256)
	if err != nil {
		return nil, fmt.Errorf("EC_EVENTS_CACHE_SIZE: %w", err)
	}
	if cfg.EventsCacheSize < 1 {
		return nil, fmt.Errorf("EC_EVENTS_CACHE_SIZE: значение должно быть >= 1")
	}

	cfg.EventsCacheTTL, err = getEnvDuration("EC_EVENTS_CACHE_TTL", time.Minute)
	if err != nil {
		return nil, fmt.Errorf("EC_EVENTS_CACHE_TTL: %w", err)
	}

	// --- Мониторинг ---

	cfg.DephealthGroup = getEnvDefault("EC_DEPHEALTH_GROUP", "event-console")

	cfg.DephealthCheckInterval, err = getEnvDuration("EC_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("EC_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	cfg.SSEInterval, err = getEnvDuration("EC_SSE_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("EC_SSE_INTERVAL: %w", err)
	}
	if cfg.SSEInterval < time.Second {
		return nil, fmt.Errorf("EC_SSE_INTERVAL: значение должно быть >= 1s")
	}

	// --- Graceful shutdown ---

	// EC_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("EC_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("EC_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DBEnabled сообщает, настроен ли PostgreSQL.
func (c *Config) DBEnabled() bool {
	return c.DBHost != ""
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL PostgreSQL без пароля (для лейблов метрик).
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.User(c.DBUser),
		Host:   fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	return u.String()
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное логическое значение: %q", val)
	}
	return b, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
