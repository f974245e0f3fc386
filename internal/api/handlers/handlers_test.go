package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Prathamesh2801/testingED-sub000/internal/eventapi"
	"github.com/Prathamesh2801/testingED-sub000/internal/repository"
	"github.com/Prathamesh2801/testingED-sub000/internal/service"
	"github.com/Prathamesh2801/testingED-sub000/internal/table"
	"github.com/Prathamesh2801/testingED-sub000/internal/ui/auth"
	uimiddleware "github.com/Prathamesh2801/testingED-sub000/internal/ui/middleware"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// --- Health ---

type staticChecker struct{ status, msg string }

func (c staticChecker) CheckReady(context.Context) (string, string) { return c.status, c.msg }

type staticHealth map[string]bool

func (h staticHealth) Health() map[string]bool { return h }

func TestHealthLive(t *testing.T) {
	h := NewHealthHandler(nil, nil)
	w := httptest.NewRecorder()
	h.HealthLive(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("код = %d", w.Code)
	}
	var resp healthLiveResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Service != "event-console" {
		t.Errorf("ответ = %+v", resp)
	}
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name       string
		pg         ReadinessChecker
		health     HealthSource
		wantStatus string
		wantCode   int
	}{
		{"без БД и мониторинга", nil, nil, "ok", http.StatusOK},
		{"всё доступно", staticChecker{"ok", ""}, staticHealth{"events-api:api:443": true}, "ok", http.StatusOK},
		{"Events API недоступен", nil, staticHealth{"events-api:api:443": false}, "degraded", http.StatusOK},
		{"БД недоступна", staticChecker{"fail", "down"}, staticHealth{"events-api:api:443": true}, "fail", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.pg, tt.health)
			w := httptest.NewRecorder()
			h.HealthReady(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if w.Code != tt.wantCode {
				t.Errorf("код = %d, ожидался %d", w.Code, tt.wantCode)
			}
			var resp healthReadyResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("status = %q, ожидался %q", resp.Status, tt.wantStatus)
			}
			if (tt.pg == nil) != (resp.Checks.PostgreSQL == nil) {
				t.Error("проверка PostgreSQL должна присутствовать только при настроенной БД")
			}
		})
	}
}

func TestOverallStatus(t *testing.T) {
	if got := overallStatus("ok", "degraded"); got != "degraded" {
		t.Errorf("ok+degraded = %q", got)
	}
	if got := overallStatus("degraded", "fail"); got != "fail" {
		t.Errorf("degraded+fail = %q", got)
	}
	if got := overallStatus(); got != "ok" {
		t.Errorf("пусто = %q", got)
	}
}

// --- Tables ---

type listAPI struct {
	records map[string][]table.Record
	err     error
}

func (a *listAPI) Login(context.Context, string, string) (*eventapi.LoginResult, error) {
	return nil, eventapi.ErrTransport
}

func (a *listAPI) ListEvents(context.Context, string) ([]eventapi.Event, error) { return nil, nil }

func (a *listAPI) ListRecords(_ context.Context, _, resource, _ string) (*eventapi.RecordList, error) {
	if a.err != nil {
		return nil, a.err
	}
	return &eventapi.RecordList{Records: a.records[resource]}, nil
}

func (a *listAPI) Create(context.Context, string, string, eventapi.Payload) (string, error) {
	return "", nil
}

func (a *listAPI) Delete(context.Context, string, string, string) error { return nil }

func (a *listAPI) CredentialQR(context.Context, string, string) (*eventapi.Blob, error) {
	return nil, nil
}

func newTablesRouter(t *testing.T, api *listAPI, eventID string) http.Handler {
	t.Helper()
	logger := testLogger()
	h := NewTablesHandler(
		service.NewRecordsService(api, logger),
		service.NewTableDefaultsService(repository.NewMemoryTableSettingsRepository(), 10, logger),
		logger,
	)
	session := &auth.Session{Token: "t", Role: "viewer", EventID: eventID, ExpiresAt: time.Now().Add(time.Hour).Unix()}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(uimiddleware.WithSession(req.Context(), session)))
		})
	})
	r.Get("/api/v1/tables/{screen}", h.GetTable)
	return r
}

func TestGetTable_DerivedView(t *testing.T) {
	records, err := table.DecodeRecords([]byte(`[
		{"id":"1","name":"Carol","password":"x"},
		{"id":"2","name":"alice"},
		{"id":"3","name":"Bob"}
	]`))
	if err != nil {
		t.Fatalf("DecodeRecords: %v", err)
	}
	router := newTablesRouter(t, &listAPI{records: map[string][]table.Record{"users": records}}, "ev-1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tables/users?sort=name&size=5&page=9", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("код = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Columns []columnJSON     `json:"columns"`
		Records []map[string]any `json:"records"`
		Page    int              `json:"page"`
		Order   string           `json:"order"`
		Total   int              `json:"total"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 3 || resp.Page != 1 || resp.Order != "asc" {
		t.Errorf("ответ = %+v", resp)
	}
	for _, c := range resp.Columns {
		if c.Field == "password" {
			t.Error("поле из denylist не должно попадать в колонки")
		}
	}
	var names []string
	for _, rec := range resp.Records {
		names = append(names, rec["name"].(string))
	}
	if len(names) != 3 || names[0] != "alice" || names[1] != "Bob" || names[2] != "Carol" {
		t.Errorf("порядок = %v", names)
	}
}

func TestGetTable_HidesDenylistedFields(t *testing.T) {
	records, err := table.DecodeRecords([]byte(`[
		{"id":"1","name":"Carol","password":"hunter2","token":"sekrit-tok","photo":"c.png"},
		{"id":"2","name":"alice","password":"aaa","token":"t2"}
	]`))
	if err != nil {
		t.Fatalf("DecodeRecords: %v", err)
	}
	router := newTablesRouter(t, &listAPI{records: map[string][]table.Record{"users": records}}, "ev-1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tables/users?sort=password", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("код = %d: %s", w.Code, w.Body.String())
	}

	body := w.Body.String()
	for _, secret := range []string{"hunter2", "sekrit-tok", `"password"`, `"token"`, `"photo"`} {
		if strings.Contains(body, secret) {
			t.Errorf("ответ содержит скрытое поле %s: %s", secret, body)
		}
	}

	var resp tableResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Sort != "" || resp.Order != "" {
		t.Errorf("сортировка по скрытому полю должна сбрасываться: sort=%q order=%q", resp.Sort, resp.Order)
	}
	if len(resp.Records) != 2 || resp.Records[0].ID() != "1" {
		t.Errorf("записи без сортировки должны идти в исходном порядке: %+v", resp.Records)
	}
}

func TestGetTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		eventID string
		err     error
		want    int
	}{
		{"неизвестный экран", "/api/v1/tables/nope", "ev-1", nil, http.StatusNotFound},
		{"мероприятие не выбрано", "/api/v1/tables/users", "", nil, http.StatusConflict},
		{"бэкенд недоступен", "/api/v1/tables/users", "ev-1", eventapi.ErrTransport, http.StatusBadGateway},
		{"бэкенд отклонил", "/api/v1/tables/users", "ev-1", &eventapi.APIError{StatusCode: 200, Message: "no"}, http.StatusUnprocessableEntity},
		{"токен недействителен", "/api/v1/tables/users", "ev-1", eventapi.ErrUnauthorized, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTablesRouter(t, &listAPI{err: tt.err}, tt.eventID)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.want {
				t.Errorf("код = %d, ожидался %d", w.Code, tt.want)
			}
		})
	}
}

func TestGetTable_EmptyIsNotError(t *testing.T) {
	router := newTablesRouter(t, &listAPI{}, "ev-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tables/polls", nil))

	var resp tableResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Code != http.StatusOK || !resp.Empty || resp.Total != 0 {
		t.Errorf("ожидалось пустое состояние: %d %+v", w.Code, resp)
	}
}
