// Пакет handlers — HTTP-обработчики консоли.
// Файл settings.go — умолчания таблиц экранов (admin и выше):
// размер страницы и сортировка по умолчанию.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Prathamesh2801/testingED-sub000/internal/domain/rbac"
	"github.com/Prathamesh2801/testingED-sub000/internal/domain/screen"
	"github.com/Prathamesh2801/testingED-sub000/internal/service"
	"github.com/Prathamesh2801/testingED-sub000/internal/table"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/auth"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/i18n"
	uimiddleware "github.com/Prathamesh2801/testingED-sub000/internal/ui/middleware"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/pages"
)

// SettingsHandler — обработчик страницы умолчаний таблиц.
type SettingsHandler struct {
	console
	defaults *service.TableDefaultsService
	// storage — "postgresql" или "memory" (для отображения).
	storage string
}

// NewSettingsHandler создаёт SettingsHandler.
func NewSettingsHandler(
	defaults *service.TableDefaultsService,
	storage string,
	sessions *auth.SessionManager,
	directory *service.EventDirectory,
	logger *slog.Logger,
) *SettingsHandler {
	return &SettingsHandler{
		console: console{
			sessions:  sessions,
			directory: directory,
			logger:    logger.With(slog.String("component", "ui.settings")),
		},
		defaults: defaults,
		storage:  storage,
	}
}

// HandleSettings — GET /admin/settings.
func (h *SettingsHandler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		uimiddleware.RedirectToLogin(w, r)
		return
	}
	if !rbac.CanManageSettings(session.Role) {
		http.Redirect(w, r, "/admin/", http.StatusFound)
		return
	}
	h.renderSettings(w, r, session, http.StatusOK, pages.SettingsData{Flash: flashFromRequest(r)})
}

// HandleUpdate — POST /admin/settings.
// Поле action: "save" (по умолчанию) или "reset".
func (h *SettingsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		uimiddleware.RedirectToLogin(w, r)
		return
	}
	ctx := r.Context()
	if !rbac.CanManageSettings(session.Role) {
		h.renderPage(w, r, http.StatusForbidden, session, "settings.title", pages.NavSettings,
			pages.Alert(pages.AlertError, i18n.T(ctx, "errors.forbidden")))
		return
	}

	name := screen.Name(r.PostFormValue("screen"))
	flash := "settings_saved"
	var err error

	if r.PostFormValue("action") == "reset" {
		flash = "settings_reset"
		err = h.defaults.Reset(ctx, name, session.Username)
	} else {
		pageSize, _ := strconv.Atoi(r.PostFormValue("page_size"))
		_, err = h.defaults.Set(ctx, service.TableDefaults{
			Screen:     name,
			PageSize:   pageSize,
			SortColumn: r.PostFormValue("sort_column"),
			SortDir:    table.Direction(r.PostFormValue("sort_order")),
		}, session.Username)
	}

	if err != nil {
		h.logger.Warn("Умолчания таблицы не сохранены",
			slog.String("screen", string(name)),
			slog.String("error", err.Error()),
		)
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrValidation) {
			status = http.StatusUnprocessableEntity
		}
		h.renderSettings(w, r, session, status, pages.SettingsData{Error: i18n.T(ctx, "errors.settings_failed")})
		return
	}

	http.Redirect(w, r, "/admin/settings?"+flashParam+"="+flash, http.StatusSeeOther)
}

func (h *SettingsHandler) renderSettings(
	w http.ResponseWriter,
	r *http.Request,
	session *auth.Session,
	status int,
	data pages.SettingsData,
) {
	ctx := r.Context()
	data.Storage = h.storage

	list, err := h.defaults.List(ctx)
	if err != nil {
		h.logger.Error("Ошибка получения умолчаний таблиц", slog.String("error", err.Error()))
		data.Error = i18n.T(ctx, "errors.internal")
		status = http.StatusInternalServerError
	}
	for _, d := range list {
		def, _ := screen.Lookup(string(d.Screen))
		data.Rows = append(data.Rows, pages.SettingsRow{
			Screen:     d.Screen,
			TitleKey:   def.TitleKey,
			PageSize:   d.PageSize,
			SortColumn: d.SortColumn,
			SortDir:    d.SortDir,
			Stored:     d.Stored,
			UpdatedAt:  d.UpdatedAt,
			UpdatedBy:  d.UpdatedBy,
		})
	}

	h.renderPage(w, r, status, session, "settings.title", pages.NavSettings, pages.SettingsPage(data))
}
