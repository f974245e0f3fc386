// Пакет handlers — HTTP-обработчики консоли.
// common.go — общее для обработчиков: каркас страницы, сообщения об ошибках,
// завершение сессии при отказе токена.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/Prathamesh2801/testingED-sub000/internal/eventapi"
	"github.com/Prathamesh2801/testingED-sub000/internal/service"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/auth"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/i18n"
	uimiddleware "github.com/Prathamesh2801/testingED-sub000/internal/ui/middleware"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/pages"
)

// flashParam — query-параметр сообщения после redirect (POST → GET).
const flashParam = "flash"

// flashKeys — допустимые значения flashParam и их ключи перевода.
var flashKeys = map[string]string{
	"created":        "flash.created",
	"deleted":        "flash.deleted",
	"event_selected": "flash.event_selected",
	"settings_saved": "flash.settings_saved",
	"settings_reset": "flash.settings_reset",
}

// flashFromRequest возвращает переведённое сообщение flash или "".
func flashFromRequest(r *http.Request) string {
	key, ok := flashKeys[r.URL.Query().Get(flashParam)]
	if !ok {
		return ""
	}
	return i18n.T(r.Context(), key)
}

// console — зависимости, общие для обработчиков страниц.
type console struct {
	sessions  *auth.SessionManager
	directory *service.EventDirectory
	logger    *slog.Logger
}

// actorOf — субъект операций сервисов из сессии.
func actorOf(s *auth.Session) service.Actor {
	return service.Actor{Token: s.Token, Role: s.Role, EventID: s.EventID}
}

// layoutData строит данные каркаса страницы.
func (c *console) layoutData(ctx context.Context, s *auth.Session, titleKey, active string) pages.LayoutData {
	data := pages.LayoutData{
		TitleKey: titleKey,
		Active:   active,
		Username: s.Username,
		Role:     s.Role,
		EventID:  s.EventID,
	}
	if s.EventID != "" {
		data.EventName = c.directory.Name(ctx, s.Token, s.EventID)
		if data.EventName == "" {
			data.EventName = s.EventID
		}
	}
	return data
}

// render пишет HTML-ответ с кодом status.
func (c *console) render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := component.Render(r.Context(), w); err != nil {
		c.logger.Error("Ошибка рендеринга",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
}

// renderPage рендерит страницу в каркасе.
func (c *console) renderPage(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	s *auth.Session,
	titleKey, active string,
	body templ.Component,
) {
	c.render(w, r, status, pages.Layout(c.layoutData(r.Context(), s, titleKey, active), body))
}

// renderAlert рендерит alert как partial (ответ на запрос fetch/HTMX).
func (c *console) renderAlert(w http.ResponseWriter, r *http.Request, status int, message string) {
	c.render(w, r, status, pages.Alert(pages.AlertError, message))
}

// dropOnUnauthorized завершает сессию, если Events API отверг токен.
// Возвращает true, если ответ уже записан.
func (c *console) dropOnUnauthorized(w http.ResponseWriter, r *http.Request, s *auth.Session, err error) bool {
	if !errors.Is(err, eventapi.ErrUnauthorized) {
		return false
	}
	c.logger.Info("Events API отверг токен, сессия завершена",
		slog.String("username", s.Username),
	)
	c.directory.Forget(s.Token)
	c.sessions.ClearSessionCookie(w)
	uimiddleware.RedirectToLogin(w, r)
	return true
}

// errorMessage переводит ошибку сервисов в сообщение для пользователя.
func errorMessage(ctx context.Context, err error) string {
	var apiErr *eventapi.APIError
	switch {
	case errors.As(err, &apiErr):
		return i18n.Tf(ctx, "errors.api_rejected", apiErr.Error())
	case errors.Is(err, eventapi.ErrMalformed):
		return i18n.T(ctx, "errors.api_malformed")
	case errors.Is(err, eventapi.ErrTransport):
		return i18n.T(ctx, "errors.api_unavailable")
	case errors.Is(err, service.ErrForbidden):
		return i18n.T(ctx, "errors.forbidden")
	case errors.Is(err, service.ErrNoEvent):
		return i18n.T(ctx, "errors.no_event")
	case errors.Is(err, service.ErrNotFound):
		return i18n.T(ctx, "errors.event_not_allowed")
	default:
		return i18n.T(ctx, "errors.internal")
	}
}

// errorStatus — HTTP-код ответа для ошибки сервисов.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrNoEvent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, eventapi.ErrRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, eventapi.ErrTransport), errors.Is(err, eventapi.ErrMalformed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
