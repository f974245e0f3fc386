// metrics.go — Prometheus HTTP метрики консоли.
// Регистрирует метрики: ec_http_requests_total, ec_http_request_duration_seconds.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Prathamesh2801/testingED-sub000/internal/domain/screen"
)

// HTTP метрики
var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ec_http_requests_total",
			Help: "Общее количество HTTP-запросов к Event Console",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ec_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к Event Console в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// normalizePath сводит путь к шаблону маршрута, чтобы идентификаторы
// записей не попадали в лейблы.
// /admin/users/42/delete → /admin/{screen}/{id}/delete
func normalizePath(path string) string {
	switch path {
	case "/health/live", "/health/ready", "/metrics",
		"/admin", "/admin/", "/admin/login", "/admin/logout", "/admin/event",
		"/admin/settings", "/admin/set-language", "/admin/events/system-status":
		return path
	}

	if strings.HasPrefix(path, "/static/") {
		return "/static/*"
	}
	if strings.HasPrefix(path, "/api/v1/tables/") {
		return "/api/v1/tables/{screen}"
	}

	rest, ok := strings.CutPrefix(path, "/admin/")
	if !ok {
		return "other"
	}
	parts := strings.Split(rest, "/")

	switch {
	case len(parts) == 3 && parts[0] == "credentials" && parts[2] == "qr":
		return "/admin/credentials/{id}/qr"
	case len(parts) == 2 && parts[0] == "partials" && strings.HasSuffix(parts[1], "-table"):
		return "/admin/partials/{screen}-table"
	}

	if _, known := screen.Lookup(parts[0]); !known {
		return "other"
	}
	switch {
	case len(parts) == 1:
		return "/admin/{screen}"
	case len(parts) == 3 && parts[2] == "delete":
		return "/admin/{screen}/{id}/delete"
	}
	return "other"
}
