// auth.go — вход через POST /auth/login Events API и выход.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Prathamesh2801/testingED-sub000/internal/domain/rbac"
	"github.com/Prathamesh2801/testingED-sub000/internal/eventapi"
	"github.com/Prathamesh2801/testingED-sub000/internal/service"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/auth"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/i18n"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/pages"
)

// AuthHandler — обработчики входа и выхода.
type AuthHandler struct {
	console
	api      service.EventAPI
	verifier *auth.TokenVerifier
}

// NewAuthHandler создаёт AuthHandler.
func NewAuthHandler(
	api service.EventAPI,
	verifier *auth.TokenVerifier,
	sessions *auth.SessionManager,
	directory *service.EventDirectory,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		console: console{
			sessions:  sessions,
			directory: directory,
			logger:    logger.With(slog.String("component", "ui_auth")),
		},
		api:      api,
		verifier: verifier,
	}
}

// HandleLoginPage — GET /admin/login.
// Пользователь с действующей сессией перенаправляется на dashboard.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if s, err := h.sessions.GetSessionFromRequest(r); err == nil && s != nil && !s.IsExpired() {
		http.Redirect(w, r, "/admin/", http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, pages.LoginPage(pages.LoginData{}))
}

// HandleLogin — POST /admin/login.
// Обменивает email и пароль на токен Events API и создаёт сессию.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, pages.LoginPage(pages.LoginData{
			Error: i18n.T(ctx, "errors.bad_request"),
		}))
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		h.render(w, r, http.StatusUnprocessableEntity, pages.LoginPage(pages.LoginData{
			Email: email,
			Error: i18n.T(ctx, "errors.login_required"),
		}))
		return
	}

	result, err := h.api.Login(ctx, email, password)
	if err != nil {
		status, msg := http.StatusUnauthorized, i18n.T(ctx, "errors.invalid_credentials")
		if errors.Is(err, eventapi.ErrTransport) || errors.Is(err, eventapi.ErrMalformed) {
			status, msg = http.StatusBadGateway, errorMessage(ctx, err)
		}
		h.logger.Info("Вход отклонён",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		h.render(w, r, status, pages.LoginPage(pages.LoginData{Email: email, Error: msg}))
		return
	}

	expiresAt, err := h.verifier.Expiry(ctx, result.Token)
	if err != nil {
		h.logger.Warn("Токен Events API не прошёл проверку",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		h.render(w, r, http.StatusUnauthorized, pages.LoginPage(pages.LoginData{
			Email: email,
			Error: i18n.T(ctx, "errors.invalid_credentials"),
		}))
		return
	}

	username := result.Name
	if username == "" {
		username = email
	}
	session := &auth.Session{
		Token:     result.Token,
		Role:      rbac.Normalize(result.Role),
		EventID:   result.EventID,
		Username:  username,
		ExpiresAt: expiresAt.Unix(),
	}

	if err := h.sessions.SetSessionCookie(w, session); err != nil {
		h.logger.Error("Ошибка установки session cookie", slog.String("error", err.Error()))
		h.render(w, r, http.StatusInternalServerError, pages.LoginPage(pages.LoginData{
			Email: email,
			Error: i18n.T(ctx, "errors.internal"),
		}))
		return
	}

	h.logger.Info("Пользователь вошёл",
		slog.String("username", session.Username),
		slog.String("role", session.Role),
		slog.String("event_id", session.EventID),
	)
	http.Redirect(w, r, "/admin/", http.StatusSeeOther)
}

// HandleLogout — POST /admin/logout.
// Удаляет cookie сессии и кэш мероприятий токена.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if s, err := h.sessions.GetSessionFromRequest(r); err == nil && s != nil {
		h.directory.Forget(s.Token)
		h.logger.Info("Пользователь вышел", slog.String("username", s.Username))
	}
	h.sessions.ClearSessionCookie(w)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}
