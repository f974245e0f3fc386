// credentials.go — просмотр QR-кода учётных данных (бинарный passthrough).
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Prathamesh2801/testingED-sub000/internal/service"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/auth"
	uimiddleware "github.com/Prathamesh2801/testingED-sub000/internal/ui/middleware"
)

// CredentialsHandler — обработчик QR-кодов.
type CredentialsHandler struct {
	console
	records *service.RecordsService
}

// NewCredentialsHandler создаёт CredentialsHandler.
func NewCredentialsHandler(
	records *service.RecordsService,
	sessions *auth.SessionManager,
	directory *service.EventDirectory,
	logger *slog.Logger,
) *CredentialsHandler {
	return &CredentialsHandler{
		console: console{
			sessions:  sessions,
			directory: directory,
			logger:    logger.With(slog.String("component", "ui.credentials")),
		},
		records: records,
	}
}

// HandleQR — GET /admin/credentials/{id}/qr.
// Изображение передаётся клиенту без изменений.
func (h *CredentialsHandler) HandleQR(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		uimiddleware.RedirectToLogin(w, r)
		return
	}
	id := chi.URLParam(r, "id")

	blob, err := h.records.CredentialQR(r.Context(), actorOf(session), id)
	if err != nil {
		if h.dropOnUnauthorized(w, r, session, err) {
			return
		}
		h.logger.Warn("QR-код недоступен",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		h.renderAlert(w, r, errorStatus(err), errorMessage(r.Context(), err))
		return
	}

	contentType := blob.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(blob.Data)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(blob.Data); err != nil {
		h.logger.Debug("Ошибка записи QR-кода", slog.String("error", err.Error()))
	}
}
