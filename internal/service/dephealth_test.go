package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// newAPIHealthServer — mock Events API с health endpoint.
func newAPIHealthServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestDephealth(t *testing.T, apiURL string) *DephealthService {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ds, err := NewDephealthServiceWithRegisterer(DephealthConfig{
		ServiceID:     "event-console-test",
		Group:         "event-console",
		APIURL:        apiURL,
		APIHealthPath: "/health",
		CheckInterval: time.Second,
	}, logger, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("Ошибка создания DephealthService: %v", err)
	}
	return ds
}

func TestNewDephealthService_ValidURL(t *testing.T) {
	srv := newAPIHealthServer(t, http.StatusOK)
	if ds := newTestDephealth(t, srv.URL); ds == nil {
		t.Fatal("DephealthService nil")
	}
}

func TestDephealthService_HealthyAPI(t *testing.T) {
	srv := newAPIHealthServer(t, http.StatusOK)
	ds := newTestDephealth(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := ds.Start(ctx); err != nil {
		t.Fatalf("Ошибка запуска: %v", err)
	}
	defer ds.Stop()

	// Интервал 1s + запас
	time.Sleep(3 * time.Second)

	assertDependency(t, ds.Health(), "events-api", true)
}

func TestDephealthService_UnhealthyAPI(t *testing.T) {
	srv := newAPIHealthServer(t, http.StatusInternalServerError)
	ds := newTestDephealth(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := ds.Start(ctx); err != nil {
		t.Fatalf("Ошибка запуска: %v", err)
	}
	defer ds.Stop()

	time.Sleep(3 * time.Second)

	assertDependency(t, ds.Health(), "events-api", false)
}

// assertDependency ищет зависимость по префиксу ключа "name:host:port".
func assertDependency(t *testing.T, health map[string]bool, name string, want bool) {
	t.Helper()
	if health == nil {
		t.Fatal("Health() вернул nil")
	}
	for key, val := range health {
		if strings.HasPrefix(key, name+":") {
			if val != want {
				t.Errorf("%s health = %v для ключа %q, ожидалось %v", name, val, key, want)
			}
			return
		}
	}
	t.Errorf("Нет записи для %s в Health(), keys=%v", name, healthKeys(health))
}

// healthKeys возвращает ключи карты health для вывода в сообщениях об ошибках.
func healthKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
