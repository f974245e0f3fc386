// Пакет server — HTTP-сервер Event Console с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на ingress.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	apihandlers "github.com/Prathamesh2801/testingED-sub000/internal/api/handlers"
	"github.com/Prathamesh2801/testingED-sub000/internal/api/middleware"
	"github.com/Prathamesh2801/testingED-sub000/internal/config"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/auth"
	uihandlers "github.com/Prathamesh2801/testingED-sub000/internal/ui/handlers"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/i18n"
	uimiddleware "github.com/Prathamesh2801/testingED-sub000/internal/ui/middleware"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/static"
)

// Handlers — обработчики консоли и JSON API.
type Handlers struct {
	Health *apihandlers.HealthHandler
	Tables *apihandlers.TablesHandler

	Sessions       *auth.SessionManager
	AuthMiddleware *uimiddleware.UIAuth

	Auth        *uihandlers.AuthHandler
	Dashboard   *uihandlers.DashboardHandler
	Records     *uihandlers.RecordsHandler
	Credentials *uihandlers.CredentialsHandler
	Settings    *uihandlers.SettingsHandler
	Events      *uihandlers.EventsHandler
}

// Server — HTTP-сервер Event Console.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с настроенными маршрутами и middleware.
func New(cfg *config.Config, logger *slog.Logger, h *Handlers) *Server {
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     NewRouter(logger, h),
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
		// Без WriteTimeout: SSE-соединения живут до отключения клиента.
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter собирает маршруты консоли.
func NewRouter(logger *slog.Logger, h *Handlers) http.Handler {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(uimiddleware.RequestID())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	// Health и metrics проверяются Kubernetes напрямую, без сессии.
	router.Get("/health/live", h.Health.HealthLive)
	router.Get("/health/ready", h.Health.HealthReady)
	router.Get("/metrics", h.Health.GetMetrics)

	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static.FileSystem())))

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin/", http.StatusFound)
	})

	// JSON API: сессия консоли, ошибки в формате {"error": {...}}.
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(i18n.Middleware())
		r.Use(middleware.SessionAuth(h.Sessions, logger))
		r.Get("/tables/{screen}", h.Tables.GetTable)
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(i18n.Middleware())

		// Публичные маршруты
		r.Get("/login", h.Auth.HandleLoginPage)
		r.Post("/login", h.Auth.HandleLogin)
		r.Post("/logout", h.Auth.HandleLogout)
		r.Post("/set-language", uihandlers.HandleSetLanguage)

		// Защищённые маршруты
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware.Middleware())

			r.Get("/", h.Dashboard.HandleDashboard)
			r.Post("/event", h.Dashboard.HandleSelectEvent)

			r.Get("/settings", h.Settings.HandleSettings)
			r.Post("/settings", h.Settings.HandleUpdate)

			r.Get("/events/system-status", h.Events.HandleSystemStatus)
			r.Get("/credentials/{id}/qr", h.Credentials.HandleQR)

			r.Get("/partials/{screen}-table", h.Records.HandlePartial)
			r.Get("/{screen}", h.Records.HandlePage)
			r.Post("/{screen}", h.Records.HandleCreate)
			r.Post("/{screen}/{id}/delete", h.Records.HandleDelete)
		})
	})

	return router
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
