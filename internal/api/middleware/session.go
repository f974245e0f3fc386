// session.go — аутентификация JSON API по cookie сессии консоли.
package middleware

import (
	"log/slog"
	"net/http"

	apierrors "github.com/Prathamesh2801/testingED-sub000/internal/api/errors"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/auth"
	uimiddleware "github.com/Prathamesh2801/testingED-sub000/internal/ui/middleware"
)

// SessionAuth — middleware JSON API: без действующей сессии отвечает 401
// в формате {"error": {...}}, не перенаправляя на страницу входа.
func SessionAuth(sm *auth.SessionManager, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With(slog.String("component", "api.session"))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := sm.GetSessionFromRequest(r)
			if err != nil {
				logger.Debug("Некорректная cookie сессии", slog.String("error", err.Error()))
				apierrors.Unauthorized(w, "требуется вход в консоль")
				return
			}
			if session == nil || session.Token == "" || session.IsExpired() {
				apierrors.Unauthorized(w, "требуется вход в консоль")
				return
			}
			next.ServeHTTP(w, r.WithContext(uimiddleware.WithSession(r.Context(), session)))
		})
	}
}
