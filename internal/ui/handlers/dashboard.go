// dashboard.go — главная страница и выбор мероприятия.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Prathamesh2801/testingED-sub000/internal/domain/rbac"
	"github.com/Prathamesh2801/testingED-sub000/internal/domain/screen"
	"github.com/Prathamesh2801/testingED-sub000/internal/eventapi"
	"github.com/Prathamesh2801/testingED-sub000/internal/service"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/auth"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/i18n"
	uimiddleware "github.com/Prathamesh2801/testingED-sub000/internal/ui/middleware"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/pages"
)

// DashboardHandler — обработчик главной страницы.
type DashboardHandler struct {
	console
	records *service.RecordsService
}

// NewDashboardHandler создаёт DashboardHandler.
func NewDashboardHandler(
	records *service.RecordsService,
	sessions *auth.SessionManager,
	directory *service.EventDirectory,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		console: console{
			sessions:  sessions,
			directory: directory,
			logger:    logger.With(slog.String("component", "ui.dashboard")),
		},
		records: records,
	}
}

// HandleDashboard — GET /admin/.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		uimiddleware.RedirectToLogin(w, r)
		return
	}
	h.renderDashboard(w, r, session, http.StatusOK, flashFromRequest(r), pages.AlertSuccess)
}

// HandleSelectEvent — POST /admin/event.
// Сохраняет выбранное мероприятие в сессии (роли с правом переключения).
func (h *DashboardHandler) HandleSelectEvent(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		uimiddleware.RedirectToLogin(w, r)
		return
	}
	ctx := r.Context()

	eventID := r.PostFormValue("event_id")
	if err := h.directory.Select(ctx, actorOf(session), eventID); err != nil {
		if h.dropOnUnauthorized(w, r, session, err) {
			return
		}
		h.logger.Warn("Выбор мероприятия отклонён",
			slog.String("username", session.Username),
			slog.String("event_id", eventID),
			slog.String("error", err.Error()),
		)
		h.renderDashboard(w, r, session, errorStatus(err), errorMessage(ctx, err), pages.AlertError)
		return
	}

	updated := session.WithEvent(eventID)
	if err := h.sessions.SetSessionCookie(w, updated); err != nil {
		h.logger.Error("Ошибка обновления session cookie", slog.String("error", err.Error()))
		h.renderDashboard(w, r, session, http.StatusInternalServerError, i18n.T(ctx, "errors.internal"), pages.AlertError)
		return
	}

	h.logger.Info("Мероприятие выбрано",
		slog.String("username", session.Username),
		slog.String("event_id", eventID),
	)
	http.Redirect(w, r, "/admin/?"+flashParam+"=event_selected", http.StatusSeeOther)
}

// renderDashboard собирает данные дашборда: список мероприятий (для ролей
// с правом переключения) и счётчики экранов выбранного мероприятия.
func (h *DashboardHandler) renderDashboard(
	w http.ResponseWriter,
	r *http.Request,
	session *auth.Session,
	status int,
	flash, flashVariant string,
) {
	ctx := r.Context()
	data := pages.DashboardData{
		SelectedID:   session.EventID,
		CanSelect:    rbac.CanSelectEvent(session.Role),
		Flash:        flash,
		FlashVariant: flashVariant,
	}

	if data.CanSelect {
		events, err := h.directory.List(ctx, session.Token)
		switch {
		case h.dropOnUnauthorized(w, r, session, err):
			return
		case err != nil:
			h.logger.Warn("Список мероприятий недоступен", slog.String("error", err.Error()))
			data.EventsError = i18n.T(ctx, "errors.events_unavailable")
		default:
			for _, ev := range events {
				data.Events = append(data.Events, pages.EventOption{ID: ev.ID, Name: ev.Name})
			}
		}
	}

	if session.EventID != "" {
		defs := screen.All()
		counts := h.records.Counts(ctx, actorOf(session), defs)
		for i, c := range counts {
			if errors.Is(c.Err, eventapi.ErrUnauthorized) {
				h.dropOnUnauthorized(w, r, session, c.Err)
				return
			}
			if c.Err != nil {
				h.logger.Warn("Счётчик экрана недоступен",
					slog.String("screen", string(c.Screen)),
					slog.String("error", c.Err.Error()),
				)
			}
			data.Counts = append(data.Counts, pages.CountItem{
				Screen:   c.Screen,
				TitleKey: defs[i].TitleKey,
				Count:    c.Count,
			})
		}
	}

	h.renderPage(w, r, status, session, "dashboard.title", pages.NavDashboard, pages.Dashboard(data))
}
