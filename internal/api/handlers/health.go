// health.go — обработчики health endpoints консоли.
// /health/live — liveness probe (процесс жив)
// /health/ready — readiness probe (Events API + PostgreSQL, если настроен)
// /metrics — Prometheus метрики
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Prathamesh2801/testingED-sub000/internal/config"
)

const serviceName = "event-console"

// ReadinessChecker — проверка готовности зависимости.
type ReadinessChecker interface {
	// CheckReady возвращает статус ("ok", "degraded", "fail") и сообщение.
	CheckReady(ctx context.Context) (status string, message string)
}

// HealthSource — состояние зависимостей из topologymetrics.
type HealthSource interface {
	Health() map[string]bool
}

// HealthHandler — обработчик health endpoints.
type HealthHandler struct {
	// pgChecker — nil, если PostgreSQL не настроен.
	pgChecker ReadinessChecker
	// health — nil, если мониторинг зависимостей не запущен.
	health      HealthSource
	promHandler http.Handler
}

// NewHealthHandler создаёт обработчик health endpoints.
func NewHealthHandler(pgChecker ReadinessChecker, health HealthSource) *HealthHandler {
	return &HealthHandler{
		pgChecker:   pgChecker,
		health:      health,
		promHandler: promhttp.Handler(),
	}
}

type healthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type healthLiveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
}

type healthReadyResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
	Checks    struct {
		EventsAPI  healthCheckResult  `json:"events_api"`
		PostgreSQL *healthCheckResult `json:"postgresql,omitempty"`
	} `json:"checks"`
}

// HealthLive — liveness probe. Возвращает 200, если процесс жив.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthLiveResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
	})
}

// HealthReady — readiness probe.
// Недоступный Events API даёт degraded: консоль отвечает и показывает
// ошибку загрузки на экранах. Недоступный PostgreSQL — fail (503).
func (h *HealthHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	resp := healthReadyResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
	}

	resp.Checks.EventsAPI = h.eventsAPIStatus()
	statuses := []string{resp.Checks.EventsAPI.Status}

	if h.pgChecker != nil {
		pgStatus, pgMsg := h.pgChecker.CheckReady(r.Context())
		resp.Checks.PostgreSQL = &healthCheckResult{Status: pgStatus, Message: pgMsg}
		statuses = append(statuses, pgStatus)
	}

	resp.Status = overallStatus(statuses...)

	status := http.StatusOK
	if resp.Status == "fail" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// eventsAPIStatus — статус Events API по данным topologymetrics.
func (h *HealthHandler) eventsAPIStatus() healthCheckResult {
	if h.health == nil {
		return healthCheckResult{Status: "ok", Message: "мониторинг не запущен"}
	}
	found := false
	for key, ok := range h.health.Health() {
		if key != "events-api" && !strings.HasPrefix(key, "events-api:") {
			continue
		}
		if !ok {
			return healthCheckResult{Status: "degraded", Message: "Events API недоступен"}
		}
		found = true
	}
	if !found {
		return healthCheckResult{Status: "ok", Message: "проверка ещё не выполнялась"}
	}
	return healthCheckResult{Status: "ok", Message: "доступен"}
}

// GetMetrics — Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}

// overallStatus определяет итоговый статус из статусов зависимостей.
// Хотя бы один fail — fail, хотя бы один degraded — degraded, иначе ok.
func overallStatus(statuses ...string) string {
	hasDegraded := false
	for _, s := range statuses {
		if s == "fail" {
			return "fail"
		}
		if s == "degraded" {
			hasDegraded = true
		}
	}
	if hasDegraded {
		return "degraded"
	}
	return "ok"
}
