// Пакет handlers — HTTP-обработчики консоли.
// Файл events.go — SSE endpoint статусов зависимостей (Events API, PostgreSQL).
// Каждый SSE-клиент обслуживается горутиной своего запроса.
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	uimiddleware "github.com/Prathamesh2801/testingED-sub000/internal/ui/middleware"
)

// Статусы зависимости в событии dep-status.
const (
	depOnline      = "online"
	depOffline     = "offline"
	depUnavailable = "unavailable"
)

// HealthSource — источник состояния зависимостей (*service.DephealthService).
type HealthSource interface {
	Health() map[string]bool
}

// EventsHandler — обработчик SSE.
type EventsHandler struct {
	health HealthSource // может быть nil
	// withDB — PostgreSQL настроен и мониторится.
	withDB      bool
	sseInterval time.Duration
	logger      *slog.Logger
}

// NewEventsHandler создаёт EventsHandler.
// sseInterval — интервал отправки обновлений (EC_SSE_INTERVAL).
func NewEventsHandler(health HealthSource, withDB bool, sseInterval time.Duration, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		health:      health,
		withDB:      withDB,
		sseInterval: sseInterval,
		logger:      logger.With(slog.String("component", "ui.events")),
	}
}

// depStatusEvent — SSE-событие статусов зависимостей.
type depStatusEvent struct {
	// Status — сводный статус: ok, degraded, down, unknown.
	Status       string          `json:"status"`
	Dependencies []depStatusItem `json:"dependencies"`
}

// depStatusItem — статус одной зависимости.
type depStatusItem struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Critical bool   `json:"critical"`
}

// HandleSystemStatus обрабатывает GET /admin/events/system-status.
// Формат: event: dep-status\ndata: {json}\n\n. Первое событие отправляется
// сразу, далее каждые sseInterval до отключения клиента.
func (h *EventsHandler) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	// ResponseController находит http.Flusher за обёртками middleware.
	rc := http.NewResponseController(w)
	if err := rc.Flush(); err != nil {
		http.Error(w, "SSE не поддерживается", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	h.logger.Debug("SSE клиент подключён",
		slog.String("username", session.Username),
		slog.String("remote_addr", r.RemoteAddr),
	)

	h.sendDepStatus(w, rc)

	ticker := time.NewTicker(h.sseInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("SSE клиент отключён", slog.String("username", session.Username))
			return
		case <-ticker.C:
			h.sendDepStatus(w, rc)
		}
	}
}

// sendDepStatus отправляет событие dep-status.
func (h *EventsHandler) sendDepStatus(w http.ResponseWriter, rc *http.ResponseController) {
	data, err := json.Marshal(h.depStatus())
	if err != nil {
		h.logger.Error("Ошибка сериализации dep-status", slog.String("error", err.Error()))
		return
	}
	fmt.Fprintf(w, "event: dep-status\ndata: %s\n\n", data)
	_ = rc.Flush()
}

// depStatus собирает статусы зависимостей и сводный статус.
func (h *EventsHandler) depStatus() depStatusEvent {
	if h.health == nil {
		event := depStatusEvent{Status: "unknown"}
		event.Dependencies = append(event.Dependencies, depStatusItem{Name: "Events API", Status: depUnavailable, Critical: true})
		return event
	}

	health := h.health.Health()
	event := depStatusEvent{Status: "ok"}

	api := depStatusItem{Name: "Events API", Status: depHealthStatus(findHealthByPrefix(health, "events-api")), Critical: true}
	event.Dependencies = append(event.Dependencies, api)
	if api.Status != depOnline {
		event.Status = "down"
	}

	if h.withDB {
		db := depStatusItem{Name: "PostgreSQL", Status: depHealthStatus(findHealthByPrefix(health, "postgresql"))}
		event.Dependencies = append(event.Dependencies, db)
		if db.Status != depOnline && event.Status == "ok" {
			event.Status = "degraded"
		}
	}
	return event
}

func depHealthStatus(ok bool) string {
	if ok {
		return depOnline
	}
	return depOffline
}

// findHealthByPrefix ищет статус зависимости по префиксу имени.
// Health() возвращает ключи формата "dependency:host:port", поэтому ищется
// ключ, начинающийся с имени зависимости и ":".
// Если найдено несколько — true только если все healthy.
func findHealthByPrefix(health map[string]bool, prefix string) bool {
	found := false
	for key, ok := range health {
		if strings.HasPrefix(key, prefix+":") || key == prefix {
			if !ok {
				return false
			}
			found = true
		}
	}
	return found
}
