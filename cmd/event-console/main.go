// Точка входа Event Console — веб-консоль администратора мероприятий.
// Загружает конфигурацию, создаёт клиент Events API, при наличии
// PostgreSQL применяет миграции и подключается к БД, создаёт сервисный
// слой и обработчики, запускает мониторинг зависимостей (topologymetrics),
// HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	apihandlers "github.com/Prathamesh2801/testingED-sub000/internal/api/handlers"
	"github.com/Prathamesh2801/testingED-sub000/internal/config"
	"github.com/Prathamesh2801/testingED-sub000/internal/database"
	"github.com/Prathamesh2801/testingED-sub000/internal/eventapi"
	"github.com/Prathamesh2801/testingED-sub000/internal/repository"
	"github.com/Prathamesh2801/testingED-sub000/internal/server"
	"github.com/Prathamesh2801/testingED-sub000/internal/service"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/auth"
	uihandlers "github.com/Prathamesh2801/testingED-sub000/internal/ui/handlers"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/i18n"
	uimiddleware "github.com/Prathamesh2801/testingED-sub000/internal/ui/middleware"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Event Console запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("api_url", cfg.APIURL),
	)

	if os.Getenv("EC_DEPHEALTH_GROUP") == "" {
		logger.Warn("EC_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. Каталоги переводов
	bundle := i18n.Init(logger)
	if err := i18n.LoadFromEmbedFS(bundle, logger); err != nil {
		logger.Error("Ошибка загрузки переводов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Клиент Events API
	apiClient, err := eventapi.New(cfg.APIURL, cfg.APICACertPath, cfg.APITimeout, logger)
	if err != nil {
		logger.Error("Ошибка создания клиента Events API", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.APICACertPath != "" {
		logger.Info("CA-сертификат Events API загружен", slog.String("path", cfg.APICACertPath))
	}

	// 5. Хранилище умолчаний таблиц: PostgreSQL или память
	ctx := context.Background()
	var (
		settingsRepo repository.TableSettingsRepository
		pgChecker    apihandlers.ReadinessChecker
		pgDB         *sql.DB
		storage      = "memory"
	)
	if cfg.DBEnabled() {
		// 5.1 Миграции
		logger.Info("Применение миграций БД...")
		if err := database.Migrate(cfg, logger); err != nil {
			logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
			os.Exit(1)
		}

		// 5.2 Пул подключений
		pool, err := database.Connect(ctx, cfg, logger)
		if err != nil {
			logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()

		// 5.3 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode)
		pgDB = stdlib.OpenDBFromPool(pool)
		defer pgDB.Close()

		settingsRepo = repository.NewTableSettingsRepository(pool)
		pgChecker = database.NewReadinessChecker(pool)
		storage = "postgresql"
	} else {
		logger.Info("EC_DB_HOST не задан, умолчания таблиц хранятся в памяти")
		settingsRepo = repository.NewMemoryTableSettingsRepository()
	}

	// 6. Сервисы
	directory := service.NewEventDirectory(apiClient, cfg.EventsCacheSize, cfg.EventsCacheTTL, logger)
	recordsSvc := service.NewRecordsService(apiClient, logger)
	defaultsSvc := service.NewTableDefaultsService(settingsRepo, cfg.DefaultPageSize, logger)

	// 7. Сессии и проверка токенов
	sessionMgr, err := auth.NewSessionManager(cfg.SessionSecret, cfg.SecureCookie)
	if err != nil {
		logger.Error("Ошибка создания Session Manager", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.SessionSecret == "" {
		logger.Warn("EC_SESSION_SECRET не задан, сессии не сохраняются между рестартами")
	}

	verifier, err := auth.NewTokenVerifier(
		cfg.JWTJWKSURL, cfg.JWTIssuer,
		cfg.JWKSRefreshInterval, cfg.SessionTTL,
		nil,
		logger,
	)
	if err != nil {
		logger.Error("Ошибка создания верификатора токенов", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Верификатор токенов инициализирован",
		slog.Bool("signature_check", verifier.Verifies()),
		slog.String("session_ttl", cfg.SessionTTL.String()),
	)

	// 8. topologymetrics — мониторинг зависимостей (Events API + PostgreSQL)
	dephealthSvc, dephealthErr := service.NewDephealthService(service.DephealthConfig{
		ServiceID:     "event-console",
		Group:         cfg.DephealthGroup,
		APIURL:        cfg.APIURL,
		APIHealthPath: cfg.APIHealthPath,
		DB:            pgDB,
		PGConnURL:     cfg.DatabaseURL(),
		CheckInterval: cfg.DephealthCheckInterval,
	}, logger)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
		dephealthSvc = nil
	} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics", slog.String("error", startErr.Error()))
	} else {
		logger.Info("topologymetrics запущен",
			slog.String("group", cfg.DephealthGroup),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
	}

	// Nil-указатель не должен попасть в интерфейс как не-nil значение.
	var (
		uiHealth  uihandlers.HealthSource
		apiHealth apihandlers.HealthSource
	)
	if dephealthSvc != nil {
		uiHealth = dephealthSvc
		apiHealth = dephealthSvc
	}

	// 9. Обработчики
	handlers := &server.Handlers{
		Health:         apihandlers.NewHealthHandler(pgChecker, apiHealth),
		Tables:         apihandlers.NewTablesHandler(recordsSvc, defaultsSvc, logger),
		Sessions:       sessionMgr,
		AuthMiddleware: uimiddleware.NewUIAuth(sessionMgr, logger),
		Auth:           uihandlers.NewAuthHandler(apiClient, verifier, sessionMgr, directory, logger),
		Dashboard:      uihandlers.NewDashboardHandler(recordsSvc, sessionMgr, directory, logger),
		Records:        uihandlers.NewRecordsHandler(recordsSvc, defaultsSvc, sessionMgr, directory, logger),
		Credentials:    uihandlers.NewCredentialsHandler(recordsSvc, sessionMgr, directory, logger),
		Settings:       uihandlers.NewSettingsHandler(defaultsSvc, storage, sessionMgr, directory, logger),
		Events:         uihandlers.NewEventsHandler(uiHealth, pgDB != nil, cfg.SSEInterval, logger),
	}

	// 10. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, handlers)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 11. Остановка фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}
	logger.Info("Event Console остановлен")
}
