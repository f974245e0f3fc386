// Пакет middleware — HTTP middleware консоли.
// auth.go — проверка сессии консоли (cookie), redirect на вход.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Prathamesh2801/testingED-sub000/internal/ui/auth"
)

// LoginPath — страница входа.
const LoginPath = "/admin/login"

// contextKey — тип для ключей контекста UI.
type contextKey string

const (
	// ContextKeySession — сессия консоли в контексте запроса.
	ContextKeySession contextKey = "ui_session"
)

// UIAuth — middleware проверки сессии консоли.
// Сессия без токена, повреждённая или истёкшая удаляется,
// запрос перенаправляется на страницу входа.
type UIAuth struct {
	sessionManager *auth.SessionManager
	logger         *slog.Logger
}

// NewUIAuth создаёт UIAuth middleware.
func NewUIAuth(sessionManager *auth.SessionManager, logger *slog.Logger) *UIAuth {
	return &UIAuth{
		sessionManager: sessionManager,
		logger:         logger.With(slog.String("component", "ui_auth_middleware")),
	}
}

// Middleware возвращает HTTP middleware для проверки сессии.
// Применяется к маршрутам /admin/*, кроме /admin/login и /static.
func (ua *UIAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := ua.sessionManager.GetSessionFromRequest(r)
			if err != nil {
				ua.logger.Debug("Ошибка чтения сессии",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				ua.sessionManager.ClearSessionCookie(w)
				RedirectToLogin(w, r)
				return
			}

			if session == nil || session.Token == "" {
				RedirectToLogin(w, r)
				return
			}

			if session.IsExpired() {
				ua.logger.Info("Сессия истекла",
					slog.String("username", session.Username),
				)
				ua.sessionManager.ClearSessionCookie(w)
				RedirectToLogin(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RedirectToLogin перенаправляет на страницу входа.
// Для запросов partial (заголовок HX-Request) отдаёт HX-Redirect,
// чтобы клиент перезагрузил страницу целиком.
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", LoginPath)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	http.Redirect(w, r, LoginPath, http.StatusFound)
}

// SessionFromContext извлекает сессию из контекста запроса.
// Возвращает nil, если запрос не прошёл через UIAuth.
func SessionFromContext(ctx context.Context) *auth.Session {
	session, ok := ctx.Value(ContextKeySession).(*auth.Session)
	if !ok {
		return nil
	}
	return session
}

// WithSession помещает сессию в контекст (для обработчиков, обновляющих сессию,
// и тестов).
func WithSession(ctx context.Context, s *auth.Session) context.Context {
	return context.WithValue(ctx, ContextKeySession, s)
}
